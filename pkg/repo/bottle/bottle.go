package bottle

import (
	"context"
	"time"

	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/repo"
	"github.com/scienceol/chemstock/pkg/repo/model"
	"gorm.io/gorm"
)

type bottleImpl struct {
	*db.Datastore
}

func New() repo.BottleRepo {
	return &bottleImpl{Datastore: db.DB()}
}

func (b *bottleImpl) BatchCreateBottles(ctx context.Context, bottles []*model.Bottle) error {
	if len(bottles) == 0 {
		return nil
	}
	if err := b.DBWithContext(ctx).Omit("Chemical", "Location").Create(bottles).Error; err != nil {
		if repo.IsDuplicated(err) {
			return code.AllocationConflictErr.WithErr(err)
		}
		logger.Errorf(ctx, "BatchCreateBottles err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (b *bottleImpl) GetBottleByID(ctx context.Context, id int64) (*model.Bottle, error) {
	data := &model.Bottle{}
	err := b.DBWithContext(ctx).
		Preload("Chemical").
		Preload("Location").
		Where("id = ?", id).
		First(data).Error
	if err != nil {
		return nil, repo.TranslateErr(err, code.BottleNotFound, code.QueryRecordErr)
	}
	return data, nil
}

func (b *bottleImpl) filter(ctx context.Context, q *repo.BottleQuery) *gorm.DB {
	query := b.DBWithContext(ctx).Model(&model.Bottle{})
	if q.Search != "" {
		pattern := repo.LikePattern(q.Search)
		matched := b.DBWithContext(ctx).Model(&model.Chemical{}).Select("id").
			Where("LOWER(name) LIKE ? OR LOWER(cas_number) LIKE ?", pattern, pattern)
		query = query.Where("LOWER(bottle_id) LIKE ? OR LOWER(lot_number) LIKE ? OR chemical_id IN (?)",
			pattern, pattern, matched)
	}
	if q.ChemicalID != nil {
		query = query.Where("chemical_id = ?", *q.ChemicalID)
	}
	if q.LocationID != nil {
		query = query.Where("location_id = ?", *q.LocationID)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.ExpiredAt != nil {
		query = query.Where("expiration_date < ? AND status = ?", *q.ExpiredAt, model.BottleActive)
	}
	return query
}

func (b *bottleImpl) ListBottles(ctx context.Context, q *repo.BottleQuery) ([]*model.Bottle, int64, error) {
	var total int64
	if err := b.filter(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	q.Page.Normalize()
	datas := make([]*model.Bottle, 0, q.Page.PageSize)
	err := b.filter(ctx, q).
		Preload("Chemical").
		Preload("Location").
		Order("parent_id ASC").Order("child_number ASC").
		Offset(q.Page.Offest()).Limit(q.Page.PageSize).
		Find(&datas).Error
	if err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return datas, total, nil
}

func (b *bottleImpl) UpdateBottle(ctx context.Context, id int64, data map[string]any) error {
	err := b.DBWithContext(ctx).Model(&model.Bottle{}).Where("id = ?", id).Updates(data).Error
	if err != nil {
		logger.Errorf(ctx, "UpdateBottle err: %+v", err)
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

func (b *bottleImpl) DeleteBottle(ctx context.Context, id int64) (int64, error) {
	res := b.DBWithContext(ctx).Where("id = ?", id).Delete(&model.Bottle{})
	if res.Error != nil {
		logger.Errorf(ctx, "DeleteBottle err: %+v", res.Error)
		return 0, code.DeleteDataErr.WithErr(res.Error)
	}
	return res.RowsAffected, nil
}

func (b *bottleImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status model.BottleStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := b.DBWithContext(ctx).Model(&model.Bottle{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": status})
	if res.Error != nil {
		logger.Errorf(ctx, "BulkUpdateStatus err: %+v", res.Error)
		return 0, code.UpdateDataErr.WithErr(res.Error)
	}
	return res.RowsAffected, nil
}

func (b *bottleImpl) CountByChemical(ctx context.Context, chemicalID int64) (int64, error) {
	var total int64
	if err := b.DBWithContext(ctx).Model(&model.Bottle{}).
		Where("chemical_id = ?", chemicalID).Count(&total).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}

func (b *bottleImpl) CountByLocation(ctx context.Context, locationID int64) (int64, error) {
	var total int64
	if err := b.DBWithContext(ctx).Model(&model.Bottle{}).
		Where("location_id = ?", locationID).Count(&total).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}

func (b *bottleImpl) MaxChildNumber(ctx context.Context, chemicalID int64) (*repo.HighWater, error) {
	datas := make([]*model.Bottle, 0, 1)
	err := b.DBWithContext(ctx).
		Select("parent_id", "child_number").
		Where("chemical_id = ?", chemicalID).
		Order("child_number DESC").
		Limit(1).
		Find(&datas).Error
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	if len(datas) == 0 {
		return nil, nil
	}
	return &repo.HighWater{ParentID: datas[0].ParentID, ChildNumber: datas[0].ChildNumber}, nil
}

func (b *bottleImpl) Stats(ctx context.Context, now time.Time) (*repo.BottleStats, error) {
	stats := &repo.BottleStats{}
	base := func() *gorm.DB { return b.DBWithContext(ctx).Model(&model.Bottle{}) }
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	if err := base().Where("status = ?", model.BottleActive).Count(&stats.Active).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	if err := base().Where("expiration_date < ? AND status = ?", now, model.BottleActive).
		Count(&stats.Expired).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return stats, nil
}
