// Package store defines the persistence interface and implementations.
package store

import (
	"context"

	"github.com/casaflow/aicore/domain"
)

// Store defines the interface for tenant-scoped data persistence.
// All reads must filter by tenant; a lookup for another tenant's record
// returns nil rather than the record.
type Store interface {
	// Unit operations
	CreateUnit(ctx context.Context, unit *domain.Unit) error
	ListUnits(ctx context.Context, tenantID string) ([]domain.Unit, error)
	GetUnitByID(ctx context.Context, tenantID, unitID string) (*domain.Unit, error)
	GetUnitByNumber(ctx context.Context, tenantID, unitNumber string) (*domain.Unit, error)

	// Lead operations
	CreateLead(ctx context.Context, lead *domain.Lead) error
	ListLeads(ctx context.Context, tenantID string) ([]domain.Lead, error)

	// Showing operations
	CreateShowing(ctx context.Context, showing *domain.Showing) error
	ListShowings(ctx context.Context, tenantID string) ([]domain.Showing, error)

	// Lifecycle
	Close() error
}
