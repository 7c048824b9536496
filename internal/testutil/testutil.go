// Package testutil opens isolated in-memory databases for package tests.
package testutil

import (
	"context"
	"fmt"
	"regexp"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/repo/migrate"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

const Prefix = "CHEM"

var (
	seq     atomic.Int64
	nameRep = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// SetupDB installs a fresh migrated sqlite database as the package store.
// Services must be constructed after calling it.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("%s_%d", nameRep.ReplaceAllString(t.Name(), "_"), seq.Add(1))
	gdb, err := db.Open(&db.Config{
		Type:   "sqlite",
		DBName: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Use(gdb)

	ctx := context.Background()
	if err := migrate.Table(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := migrate.Seed(ctx, Prefix); err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func Ptr[T any](v T) *T { return &v }

func CreateChemical(t *testing.T, gdb *gorm.DB, name string, cas *string) *model.Chemical {
	t.Helper()
	c := &model.Chemical{Name: name, CASNumber: cas}
	if err := gdb.Create(c).Error; err != nil {
		t.Fatalf("create chemical %s: %v", name, err)
	}
	return c
}

func CreateLocation(t *testing.T, gdb *gorm.DB, name, room, building string) *model.Location {
	t.Helper()
	l := &model.Location{Name: name, Room: room, Building: building}
	if err := gdb.Create(l).Error; err != nil {
		t.Fatalf("create location %s: %v", name, err)
	}
	return l
}
