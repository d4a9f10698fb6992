package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	chartadapters "cryptovision/internal/feature/chart/adapters"
	"cryptovision/internal/feature/chart/usecase"
	"cryptovision/internal/platform/preference"
)

// NewPreferenceStore creates a PreferenceStore implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to SQL. With neither, it returns nil and the
// controller runs without persistence.
func NewPreferenceStore(rdb *redis.Client, db *gorm.DB, prefix string) usecase.PreferenceStore {
	if rdb != nil {
		return preference.NewPreferenceRedis(rdb, prefix)
	}
	if db != nil {
		return chartadapters.NewPreferenceMySQL(db)
	}
	return nil
}
