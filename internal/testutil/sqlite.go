// Package testutil opens throwaway SQLite databases with the full schema for
// repository and end to end tests.
package testutil

import (
	"context"

	bookingDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/booking"
	companyDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/company"
	facilityDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/facility"
	requestDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/request"
	roleDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/role"
	userDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/user"
	rolePostgres "github.com/barefootnomad/backend/internal/role/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns an in-memory database with every table migrated and the
// roles seeded. A single connection keeps the memory database shared across
// goroutines.
func OpenSQLite() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&roleDatamodel.Role{},
		&companyDatamodel.Company{},
		&userDatamodel.User{},
		&requestDatamodel.Request{},
		&facilityDatamodel.Facility{},
		&facilityDatamodel.Room{},
		&bookingDatamodel.Booking{},
	)
	if err != nil {
		return nil, err
	}

	if err := rolePostgres.EnsureDefaults(context.Background(), db); err != nil {
		return nil, err
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
