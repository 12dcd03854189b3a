package persistence

import (
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// updateVersioned applies updates to the row only if it still carries version,
// and writes version+1 alongside. A row that moved on yields
// shared.ErrConcurrencyConflict, a row that is gone yields shared.ErrNotFound.
func updateVersioned(tx *gorm.DB, model interface{}, id int64, version int, updates map[string]interface{}) error {
	updates["version"] = version + 1
	result := tx.Model(model).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}
