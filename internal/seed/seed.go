// Package seed loads reference and sample data with plain SQL.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/barefootnomad/backend/internal/auth"
	userDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/user"
	"github.com/barefootnomad/backend/internal/role"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	SampleCompany  = "Barefoot Nomad"
	SamplePassword = "password123"
	SampleFacility = "Kigali Heights Suites"
)

type sampleUser struct {
	FirstName string
	LastName  string
	Email     string
	RoleID    int64
}

var sampleUsers = []sampleUser{
	{"Ada", "Admin", "admin@barefootnomad.com", role.Admin},
	{"Mani", "Manager", "manager@barefootnomad.com", role.Manager},
	{"Remy", "Requester", "requester@barefootnomad.com", role.Requester},
}

// seededTables are emptied by Clear, children first. Roles are reference
// data and survive.
var seededTables = []string{"bookings", "rooms", "facilities", "requests", "users", "companies"}

type Seeder struct {
	db     *sqlx.DB
	cost   int
	logger *slog.Logger
}

func New(db *sqlx.DB, bcryptCost int, logger *slog.Logger) *Seeder {
	return &Seeder{db: db, cost: bcryptCost, logger: logger}
}

// Clear removes all seeded and user-created rows.
func (s *Seeder) Clear(ctx context.Context) error {
	for _, table := range seededTables {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		s.logger.Info("cleared table", "table", table)
	}
	return nil
}

// Run inserts roles, a sample company with one user per role and a facility
// with a room. Existing rows are left untouched, so Run can be repeated.
func (s *Seeder) Run(ctx context.Context) error {
	hash, err := auth.HashPassword(SamplePassword, s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, rl := range role.Defaults() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO roles (id, name, created_at, updated_at) VALUES ($1, $2, now(), now()) ON CONFLICT (id) DO NOTHING`,
			rl.ID, rl.Name)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", rl.Name, err)
		}
	}

	companyID, err := ensure(ctx, tx,
		`SELECT id FROM companies WHERE name = $1`, []interface{}{SampleCompany},
		`INSERT INTO companies (name, signup_token, created_at, updated_at) VALUES ($1, $2, now(), now()) RETURNING id`,
		[]interface{}{SampleCompany, uuid.NewString()})
	if err != nil {
		return fmt.Errorf("seed company: %w", err)
	}

	var adminID int64
	for _, u := range sampleUsers {
		id, err := ensure(ctx, tx,
			`SELECT id FROM users WHERE email = $1`, []interface{}{u.Email},
			`INSERT INTO users (first_name, last_name, email, password_hash, role_id, company_id, provider, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now()) RETURNING id`,
			[]interface{}{u.FirstName, u.LastName, u.Email, hash, u.RoleID, companyID, userDatamodel.ProviderLocal})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		if u.RoleID == role.Admin {
			adminID = id
		}
		s.logger.Info("seeded user", "email", u.Email, "user_id", id)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE companies SET admin_id = $1 WHERE id = $2`, adminID, companyID); err != nil {
		return fmt.Errorf("link company admin: %w", err)
	}

	facilityID, err := ensure(ctx, tx,
		`SELECT id FROM facilities WHERE name = $1 AND company_id = $2`, []interface{}{SampleFacility, companyID},
		`INSERT INTO facilities (company_id, name, address, city, country, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now()) RETURNING id`,
		[]interface{}{companyID, SampleFacility, "KG 7 Ave", "Kigali", "Rwanda", "Serviced apartments close to the office"})
	if err != nil {
		return fmt.Errorf("seed facility: %w", err)
	}

	if _, err := ensure(ctx, tx,
		`SELECT id FROM rooms WHERE facility_id = $1 AND name = $2`, []interface{}{facilityID, "101"},
		`INSERT INTO rooms (facility_id, name, room_type, capacity, price_per_night, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now()) RETURNING id`,
		[]interface{}{facilityID, "101", "double", 2, int64(8500)}); err != nil {
		return fmt.Errorf("seed room: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("seed complete", "company_id", companyID, "admin_id", adminID, "facility_id", facilityID)
	return nil
}

// ensure returns the id found by lookup, inserting with insert when absent.
func ensure(ctx context.Context, tx *sqlx.Tx, lookup string, lookupArgs []interface{}, insert string, insertArgs []interface{}) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, lookup, lookupArgs...)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	if err := tx.GetContext(ctx, &id, insert, insertArgs...); err != nil {
		return 0, err
	}
	return id, nil
}
