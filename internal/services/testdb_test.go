package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

func newTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// In-memory sqlite gives each connection its own database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Workspace{},
		&types.WorkspaceMember{},
		&types.WorkspaceProduct{},
		&types.ProductBlueprint{},
		&types.Inception{},
		&types.InceptionStep{},
		&types.Problem{},
		&types.Persona{},
		&types.UserJourney{},
		&types.ProductOKR{},
		&types.Feature{},
		&types.Story{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return db, log
}
