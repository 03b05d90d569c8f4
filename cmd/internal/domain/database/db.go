package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"pontodigital/cmd/internal/domain/entity"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver string
	// DSN is a file path (or "file:...?mode=memory") for sqlite and a
	// connection string for postgres.
	DSN     string
	LogSQL  bool
	Migrate bool
}

func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	case DriverSQLite, "":
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if opts.LogSQL {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}

	if opts.Migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SQLite only tolerates one writer at a time.
	if opts.Driver != DriverPostgres {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Company{},
		&entity.Employee{},
		&entity.PointRecord{},
		&entity.AttendanceRequest{},
		&entity.Session{},
		&entity.Connection{},
		&entity.CNPJLookup{},
		&entity.CNPJPartner{},
	)
}
