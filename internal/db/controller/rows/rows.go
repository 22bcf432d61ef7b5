// Package rows holds write helpers shared by the controllers.
package rows

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fixed columns are never rewritten by Update.
var fixed = []string{"id", "created_at", "seq", clause.Associations}

// Update writes columns of row to the stored row with the given ID, every
// column when none are named. Unlike Save it never inserts: found is false
// when no such row exists, so a row deleted by a concurrent request stays deleted.
func Update(tx *gorm.DB, row any, id string, columns ...string) (bool, error) {
	selected := []string{"*"}
	if len(columns) > 0 {
		selected = append(columns, "updated_at")
	}

	result := tx.Model(row).Select(selected).Omit(fixed...).Where("id = ?", id).Updates(row)
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		return true, nil
	}

	// mysql reports 0 affected rows when no value changed
	var n int64
	if err := tx.Session(&gorm.Session{NewDB: true}).Model(row).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}
