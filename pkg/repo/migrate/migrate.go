package migrate

import (
	"context"

	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/repo/counter"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

// Table creates or alters every table. Referenced tables come first.
func Table(ctx context.Context) error {
	d := db.DB().DBWithContext(ctx)
	models := []any{
		&model.Chemical{},
		&model.Location{},
		&model.Bottle{},
		&model.ParentCounter{},
		&model.IDSequence{},
	}
	for _, m := range models {
		if err := d.AutoMigrate(m); err != nil {
			logger.Errorf(ctx, "migrate table err: %+v", err)
			return err
		}
	}
	return nil
}

// Seed makes sure the parent id sequence row for prefix exists.
func Seed(ctx context.Context, prefix string) error {
	if err := counter.New().EnsureSequence(ctx, prefix); err != nil {
		logger.Errorf(ctx, "seed id sequence prefix: %s, err: %+v", prefix, err)
		return err
	}
	return nil
}
