package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"employee-tracker/config"
	"employee-tracker/internal/model"
)

func TestNewDB_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "tracker.db"),
	}

	db, err := NewDB(cfg, "info", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	for _, m := range model.All() {
		assert.True(t, db.Migrator().HasTable(m), "表 %T 应已创建", m)
	}
}

func TestNewTestDB_EnforcesForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	award := &model.AchievementAward{
		EmployeeID:    "missing-employee",
		AchievementID: "missing-achievement",
	}
	err := db.Create(award).Error
	require.Error(t, err, "引用不存在的员工应违反外键约束")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:a.db?_foreign_keys=on&_busy_timeout=5000", SQLiteDSN("a.db"))
}

func TestGormLogLevel(t *testing.T) {
	assert.NotEqual(t, gormLogLevel("debug"), gormLogLevel("error"))
	assert.Equal(t, gormLogLevel("info"), gormLogLevel("warn"))
}
