package location

import (
	"context"

	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/repo"
	"github.com/scienceol/chemstock/pkg/repo/model"
	"gorm.io/gorm"
)

type locationImpl struct {
	*db.Datastore
}

func New() repo.LocationRepo {
	return &locationImpl{Datastore: db.DB()}
}

func (l *locationImpl) CreateLocation(ctx context.Context, data *model.Location) error {
	if err := l.DBWithContext(ctx).Omit("Bottles").Create(data).Error; err != nil {
		if repo.IsDuplicated(err) {
			return code.LocationNameExistErr.WithErr(err)
		}
		logger.Errorf(ctx, "CreateLocation err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (l *locationImpl) UpdateLocation(ctx context.Context, id int64, data map[string]any) error {
	err := l.DBWithContext(ctx).Model(&model.Location{}).Where("id = ?", id).Updates(data).Error
	if err != nil {
		if repo.IsDuplicated(err) {
			return code.LocationNameExistErr.WithErr(err)
		}
		logger.Errorf(ctx, "UpdateLocation err: %+v", err)
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

func (l *locationImpl) DeleteLocation(ctx context.Context, id int64) error {
	res := l.DBWithContext(ctx).Where("id = ?", id).Delete(&model.Location{})
	if res.Error != nil {
		logger.Errorf(ctx, "DeleteLocation err: %+v", res.Error)
		return code.DeleteDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.LocationNotFound
	}
	return nil
}

func (l *locationImpl) GetLocationByID(ctx context.Context, id int64) (*model.Location, error) {
	data := &model.Location{}
	if err := l.DBWithContext(ctx).Where("id = ?", id).First(data).Error; err != nil {
		return nil, repo.TranslateErr(err, code.LocationNotFound, code.QueryRecordErr)
	}
	return data, nil
}

func (l *locationImpl) GetLocationDetail(ctx context.Context, id int64) (*model.Location, error) {
	data := &model.Location{}
	err := l.DBWithContext(ctx).
		Preload("Bottles", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("status = ?", model.BottleActive).
				Order("parent_id ASC").Order("child_number ASC")
		}).
		Preload("Bottles.Chemical").
		Where("id = ?", id).
		First(data).Error
	if err != nil {
		return nil, repo.TranslateErr(err, code.LocationNotFound, code.QueryRecordErr)
	}
	return data, nil
}

func (l *locationImpl) FindByScope(ctx context.Context, name, room, building string) (*model.Location, error) {
	datas := make([]*model.Location, 0, 1)
	err := l.DBWithContext(ctx).
		Where("name = ? AND room = ? AND building = ?", name, room, building).
		Limit(1).
		Find(&datas).Error
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	if len(datas) == 0 {
		return nil, nil
	}
	return datas[0], nil
}

type bottleTally struct {
	LocationID int64
	Total      int64
}

func (l *locationImpl) ListLocations(ctx context.Context) ([]*repo.LocationWithCount, error) {
	locations := make([]*model.Location, 0, 16)
	if err := l.DBWithContext(ctx).
		Order("building ASC").Order("room ASC").Order("name ASC").
		Find(&locations).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}

	tallies := make([]*bottleTally, 0, len(locations))
	if len(locations) > 0 {
		if err := l.DBWithContext(ctx).Model(&model.Bottle{}).
			Select("location_id, COUNT(*) AS total").
			Where("location_id IS NOT NULL").
			Group("location_id").
			Scan(&tallies).Error; err != nil {
			return nil, code.QueryRecordErr.WithErr(err)
		}
	}
	byID := make(map[int64]int64, len(tallies))
	for _, t := range tallies {
		byID[t.LocationID] = t.Total
	}

	rows := make([]*repo.LocationWithCount, 0, len(locations))
	for _, loc := range locations {
		rows = append(rows, &repo.LocationWithCount{Location: loc, BottleCount: byID[loc.ID]})
	}
	return rows, nil
}

func (l *locationImpl) CountLocations(ctx context.Context) (int64, error) {
	var total int64
	if err := l.DBWithContext(ctx).Model(&model.Location{}).Count(&total).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}
