package common

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 200
)

type PageReq struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"limit" json:"limit"`
}

func (p *PageReq) Normalize() {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultLimit
	}
	if p.PageSize > MaxLimit {
		p.PageSize = MaxLimit
	}
}

func (p *PageReq) Offest() int {
	return (p.Page - 1) * p.PageSize
}

type PageResp[T any] struct {
	Data       T     `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPageResp[T any](data T, total int64, req *PageReq) *PageResp[T] {
	pages := 0
	if req.PageSize > 0 {
		pages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return &PageResp[T]{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: pages,
	}
}
