package counter

import (
	"context"

	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/repo"
	"github.com/scienceol/chemstock/pkg/repo/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type counterImpl struct {
	*db.Datastore
}

func New() repo.CounterRepo {
	return &counterImpl{Datastore: db.DB()}
}

func (c *counterImpl) GetParentCounter(ctx context.Context, chemicalID int64) (*model.ParentCounter, error) {
	datas := make([]*model.ParentCounter, 0, 1)
	err := c.DBWithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("chemical_id = ?", chemicalID).
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

func (c *counterImpl) CreateParentCounter(ctx context.Context, counter *model.ParentCounter) error {
	if err := c.DBWithContext(ctx).Create(counter).Error; err != nil {
		if repo.IsDuplicated(err) {
			// another request created the counter or claimed the parent id first
			return code.AllocationConflictErr.WithErr(err)
		}
		logger.Errorf(ctx, "CreateParentCounter err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (c *counterImpl) AdvanceParentCounter(ctx context.Context, chemicalID int64, expect, next int) (bool, error) {
	res := c.DBWithContext(ctx).Model(&model.ParentCounter{}).
		Where("chemical_id = ? AND next_child_number = ?", chemicalID, expect).
		Update("next_child_number", next)
	if res.Error != nil {
		logger.Errorf(ctx, "AdvanceParentCounter err: %+v", res.Error)
		return false, code.UpdateDataErr.WithErr(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (c *counterImpl) DeleteParentCounter(ctx context.Context, chemicalID int64) error {
	if err := c.DBWithContext(ctx).Where("chemical_id = ?", chemicalID).
		Delete(&model.ParentCounter{}).Error; err != nil {
		logger.Errorf(ctx, "DeleteParentCounter err: %+v", err)
		return code.DeleteDataErr.WithErr(err)
	}
	return nil
}

func (c *counterImpl) EnsureSequence(ctx context.Context, prefix string) error {
	err := c.DBWithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.IDSequence{Prefix: prefix, CurrentNumber: 0}).Error
	if err != nil {
		logger.Errorf(ctx, "EnsureSequence prefix: %s, err: %+v", prefix, err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (c *counterImpl) NextSequence(ctx context.Context, prefix string) (int64, error) {
	bump := func() (int64, error) {
		res := c.DBWithContext(ctx).Model(&model.IDSequence{}).
			Where("prefix = ?", prefix).
			UpdateColumn("current_number", gorm.Expr("current_number + 1"))
		return res.RowsAffected, res.Error
	}

	affected, err := bump()
	if err != nil {
		logger.Errorf(ctx, "NextSequence prefix: %s, err: %+v", prefix, err)
		return 0, code.UpdateDataErr.WithErr(err)
	}
	if affected == 0 {
		if err := c.EnsureSequence(ctx, prefix); err != nil {
			return 0, err
		}
		if _, err := bump(); err != nil {
			return 0, code.UpdateDataErr.WithErr(err)
		}
	}

	seq := &model.IDSequence{}
	if err := c.DBWithContext(ctx).Where("prefix = ?", prefix).First(seq).Error; err != nil {
		return 0, repo.TranslateErr(err, code.RecordNotFound, code.QueryRecordErr)
	}
	return seq.CurrentNumber, nil
}
