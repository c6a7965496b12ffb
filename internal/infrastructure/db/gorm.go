package db

import (
	"time"

	"procurement-approval/internal/domain/approval"
	"procurement-approval/internal/domain/authz"
	"procurement-approval/internal/domain/requisition"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

// OpenGormWithDialector lets tests hand in a mocked connection.
func OpenGormWithDialector(d gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// pinged explicitly below
		DisableAutomaticPing: true,
		// unique violations come back as gorm.ErrDuplicatedKey
		TranslateError: true,
	}
	db, err := gorm.Open(d, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Info().Str("dialect", d.Name()).Msg("gorm: connected")
	return db, nil
}

// Models owned by this service, in dependency order.
func Models() []any {
	return []any{
		&requisition.Requisition{},
		&requisition.Item{},
		&approval.ItemApproval{},
		&approval.LogEntry{},
		&authz.Edge{},
	}
}

func Migrate(db *gorm.DB, extra ...any) error {
	return db.AutoMigrate(append(Models(), extra...)...)
}
