package adapters

import (
	"context"
	"testing"

	"cryptovision/internal/feature/chart/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupPreferenceTestDB prepares an in-memory SQLite database for preference testing.
func setupPreferenceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&PreferenceModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestNewPreferenceMySQL(t *testing.T) {
	db := setupPreferenceTestDB(t)

	repo := NewPreferenceMySQL(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestPreferenceMySQL_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    map[string]string
		key     string
		want    string
		wantErr error
	}{
		{
			name: "success: stored value",
			seed: map[string]string{usecase.PrefKeyCoin: "BTCUSDT"},
			key:  usecase.PrefKeyCoin,
			want: "BTCUSDT",
		},
		{
			name:    "not found: never written",
			seed:    map[string]string{usecase.PrefKeyCoin: "BTCUSDT"},
			key:     usecase.PrefKeyInterval,
			wantErr: usecase.ErrPreferenceNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupPreferenceTestDB(t)
			for k, v := range tt.seed {
				require.NoError(t, db.Create(&PreferenceModel{Key: k, Value: v}).Error)
			}
			repo := NewPreferenceMySQL(db)

			got, err := repo.Get(context.Background(), tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreferenceMySQL_SetUpserts(t *testing.T) {
	t.Parallel()

	db := setupPreferenceTestDB(t)
	repo := NewPreferenceMySQL(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, usecase.PrefKeyInterval, "1m"))
	require.NoError(t, repo.Set(ctx, usecase.PrefKeyInterval, "1h"))

	got, err := repo.Get(ctx, usecase.PrefKeyInterval)
	require.NoError(t, err)
	assert.Equal(t, "1h", got)

	var count int64
	require.NoError(t, db.Model(&PreferenceModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "overwriting a key must not add a row")
}
