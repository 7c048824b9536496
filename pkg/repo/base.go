package repo

import (
	"errors"
	"strings"

	"github.com/scienceol/chemstock/pkg/common/code"
	"gorm.io/gorm"
)

// TranslateErr maps gorm sentinel errors onto codes; notFound is used for missing rows.
func TranslateErr(err error, notFound code.ErrCode, fallback code.ErrCode) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	default:
		return fallback.WithErr(err)
	}
}

func IsDuplicated(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// LikePattern builds a lower-cased substring pattern for LOWER(col) LIKE ?.
// Wildcards typed by the user are kept; sqlite has no default LIKE escape.
func LikePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
