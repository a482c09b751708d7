package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
	"github.com/discoveros/backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "discoveros", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
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
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		stmt string
	}{
		{
			name: "fk_inception_steps_inception_id",
			stmt: `ALTER TABLE "inception_steps"
				ADD CONSTRAINT "fk_inception_steps_inception_id"
				FOREIGN KEY ("inception_id")
				REFERENCES "inceptions"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_user_tokens_user_id",
			stmt: `ALTER TABLE "user_tokens"
				ADD CONSTRAINT "fk_user_tokens_user_id"
				FOREIGN KEY ("user_id")
				REFERENCES "users"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_product_blueprints_product_id",
			stmt: `ALTER TABLE "product_blueprints"
				ADD CONSTRAINT "fk_product_blueprints_product_id"
				FOREIGN KEY ("product_id")
				REFERENCES "workspace_products"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_product_okrs_product_id",
			stmt: `ALTER TABLE "product_okrs"
				ADD CONSTRAINT "fk_product_okrs_product_id"
				FOREIGN KEY ("product_id")
				REFERENCES "workspace_products"("id")
				ON DELETE CASCADE`,
		},
		{
			name: "fk_user_journeys_persona_id",
			stmt: `ALTER TABLE "user_journeys"
				ADD CONSTRAINT "fk_user_journeys_persona_id"
				FOREIGN KEY ("persona_id")
				REFERENCES "personas"("id")
				ON DELETE CASCADE`,
		},
	}
	for _, c := range constraints {
		var count int64
		if err := s.db.Raw(
			`SELECT COUNT(*) FROM information_schema.table_constraints WHERE constraint_name = ?`, c.name,
		).Scan(&count).Error; err != nil {
			return fmt.Errorf("Failed to check constraint %s: %w", c.name, err)
		}
		if count > 0 {
			continue
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("Failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
