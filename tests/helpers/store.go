// Package helpers provides shared test fixtures.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/casaflow/aicore/domain"
	"github.com/casaflow/aicore/store"
)

// NewTestSQLiteStore creates an in-memory store that is closed with the test.
func NewTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// SeedUnit inserts a unit, filling the fields tests rarely care about.
func SeedUnit(t *testing.T, s store.Store, u domain.Unit) domain.Unit {
	t.Helper()

	if u.Status == "" {
		u.Status = domain.UnitStatusAvailable
	}
	if u.ListingType == "" {
		u.ListingType = domain.ListingTypeRent
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if err := s.CreateUnit(context.Background(), &u); err != nil {
		t.Fatalf("failed to seed unit %s: %v", u.UnitID, err)
	}
	return u
}
