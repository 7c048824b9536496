package stats

import "context"

type Stats struct {
	TotalChemicals int64 `json:"totalChemicals"`
	TotalBottles   int64 `json:"totalBottles"`
	ActiveBottles  int64 `json:"activeBottles"`
	ExpiredBottles int64 `json:"expiredBottles"`
	TotalLocations int64 `json:"totalLocations"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
}
