// Package adapters provides repository implementations for the chart feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"cryptovision/internal/feature/chart/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// preferenceMySQL is a SQL implementation of the PreferenceStore interface.
// It works against any GORM dialect (MySQL, PostgreSQL, SQLite).
type preferenceMySQL struct {
	db *gorm.DB
}

// Compile-time check to ensure preferenceMySQL implements PreferenceStore.
var _ usecase.PreferenceStore = (*preferenceMySQL)(nil)

// NewPreferenceMySQL creates a new instance of preferenceMySQL.
func NewPreferenceMySQL(db *gorm.DB) *preferenceMySQL {
	return &preferenceMySQL{db: db}
}

// Get retrieves the value stored under key.
func (r *preferenceMySQL) Get(ctx context.Context, key string) (string, error) {
	var model PreferenceModel
	if err := r.db.WithContext(ctx).Where(&PreferenceModel{Key: key}).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", usecase.ErrPreferenceNotFound
		}
		return "", err
	}
	return model.Value, nil
}

// Set upserts value under key.
func (r *preferenceMySQL) Set(ctx context.Context, key, value string) error {
	model := PreferenceModel{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model).Error
}
