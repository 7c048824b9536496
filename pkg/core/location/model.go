package location

type LocationReq struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Room        *string `json:"room"`
	Building    *string `json:"building"`
	StorageType *string `json:"storageType"`
}
