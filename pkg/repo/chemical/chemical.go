package chemical

import (
	"context"

	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/repo"
	"github.com/scienceol/chemstock/pkg/repo/model"
	"gorm.io/gorm"
)

type chemicalImpl struct {
	*db.Datastore
}

func New() repo.ChemicalRepo {
	return &chemicalImpl{Datastore: db.DB()}
}

func (c *chemicalImpl) CreateChemical(ctx context.Context, data *model.Chemical) error {
	if err := c.DBWithContext(ctx).Create(data).Error; err != nil {
		if repo.IsDuplicated(err) {
			return code.ChemicalCASExistErr.WithErr(err)
		}
		logger.Errorf(ctx, "CreateChemical err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (c *chemicalImpl) UpdateChemical(ctx context.Context, id int64, data map[string]any) error {
	// mysql reports zero affected rows for no-op updates, so existence is checked by callers
	err := c.DBWithContext(ctx).Model(&model.Chemical{}).Where("id = ?", id).Updates(data).Error
	if err != nil {
		if repo.IsDuplicated(err) {
			return code.ChemicalCASExistErr.WithErr(err)
		}
		logger.Errorf(ctx, "UpdateChemical err: %+v", err)
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

func (c *chemicalImpl) DeleteChemical(ctx context.Context, id int64) error {
	res := c.DBWithContext(ctx).Where("id = ?", id).Delete(&model.Chemical{})
	if res.Error != nil {
		logger.Errorf(ctx, "DeleteChemical err: %+v", res.Error)
		return code.DeleteDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.ChemicalNotFound
	}
	return nil
}

func (c *chemicalImpl) GetChemicalByID(ctx context.Context, id int64) (*model.Chemical, error) {
	data := &model.Chemical{}
	err := c.DBWithContext(ctx).Where("id = ?", id).First(data).Error
	if err != nil {
		return nil, repo.TranslateErr(err, code.ChemicalNotFound, code.QueryRecordErr)
	}
	return data, nil
}

func (c *chemicalImpl) GetChemicalDetail(ctx context.Context, id int64) (*model.Chemical, error) {
	data := &model.Chemical{}
	err := c.DBWithContext(ctx).
		Preload("Bottles", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("child_number ASC")
		}).
		Preload("Bottles.Location").
		Where("id = ?", id).
		First(data).Error
	if err != nil {
		return nil, repo.TranslateErr(err, code.ChemicalNotFound, code.QueryRecordErr)
	}
	return data, nil
}

func (c *chemicalImpl) GetChemicalByCAS(ctx context.Context, cas string) (*model.Chemical, error) {
	datas := make([]*model.Chemical, 0, 1)
	if err := c.DBWithContext(ctx).Where("cas_number = ?", cas).Limit(1).Find(&datas).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	if len(datas) == 0 {
		return nil, nil
	}
	return datas[0], nil
}

type bottleTally struct {
	ChemicalID int64
	Total      int64
	Active     int64
}

func (c *chemicalImpl) ListChemicals(ctx context.Context, q *repo.ChemicalQuery) ([]*repo.ChemicalWithCounts, int64, error) {
	query := c.DBWithContext(ctx).Model(&model.Chemical{})
	if q.Search != "" {
		pattern := repo.LikePattern(q.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(cas_number) LIKE ? OR LOWER(formula) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	q.Page.Normalize()
	chemicals := make([]*model.Chemical, 0, q.Page.PageSize)
	if err := query.Order("name ASC").Order("id ASC").
		Offset(q.Page.Offest()).Limit(q.Page.PageSize).
		Find(&chemicals).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	ids := make([]int64, 0, len(chemicals))
	for _, chem := range chemicals {
		ids = append(ids, chem.ID)
	}
	tallies := make([]*bottleTally, 0, len(ids))
	if len(ids) > 0 {
		if err := c.DBWithContext(ctx).Model(&model.Bottle{}).
			Select("chemical_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS active", model.BottleActive).
			Where("chemical_id IN ?", ids).
			Group("chemical_id").
			Scan(&tallies).Error; err != nil {
			return nil, 0, code.QueryRecordErr.WithErr(err)
		}
	}
	byID := make(map[int64]*bottleTally, len(tallies))
	for _, t := range tallies {
		byID[t.ChemicalID] = t
	}

	rows := make([]*repo.ChemicalWithCounts, 0, len(chemicals))
	for _, chem := range chemicals {
		row := &repo.ChemicalWithCounts{Chemical: chem}
		if t, ok := byID[chem.ID]; ok {
			row.TotalBottles = t.Total
			row.ActiveBottles = t.Active
		}
		rows = append(rows, row)
	}
	return rows, total, nil
}

func (c *chemicalImpl) CountChemicals(ctx context.Context) (int64, error) {
	var total int64
	if err := c.DBWithContext(ctx).Model(&model.Chemical{}).Count(&total).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}
