package repositories

import (
	"errors"
	"fmt"
	"strings"

	"pixelnote/apperr"

	"gorm.io/gorm"
)

// translate maps gorm errors onto the shared taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "UNIQUE constraint")
}
