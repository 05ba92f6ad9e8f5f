package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaflow/aicore/domain"
	"github.com/casaflow/aicore/tests/helpers"
)

func TestUnitRoundTrip(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	created := helpers.SeedUnit(t, s, domain.Unit{
		UnitID:       "u1",
		TenantID:     "t1",
		UnitNumber:   "101",
		Address:      "Av. Reforma 10",
		Zone:         "Centro",
		Description:  "Departamento luminoso",
		PropertyType: "departamento",
		ListingType:  domain.ListingTypeRent,
		Price:        12500,
		Bedrooms:     2,
		Bathrooms:    1,
		Status:       domain.UnitStatusAvailable,
	})

	got, err := s.GetUnitByID(ctx, "t1", "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.UnitNumber, got.UnitNumber)
	assert.Equal(t, created.Address, got.Address)
	assert.Equal(t, created.Price, got.Price)
	assert.Equal(t, domain.ListingTypeRent, got.ListingType)
	assert.Equal(t, domain.UnitStatusAvailable, got.Status)

	byNumber, err := s.GetUnitByNumber(ctx, "t1", "101")
	require.NoError(t, err)
	require.NotNil(t, byNumber)
	assert.Equal(t, "u1", byNumber.UnitID)
}

func TestGetUnitNotFoundIsNil(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)

	got, err := s.GetUnitByID(context.Background(), "t1", "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnitsAreTenantScoped(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	helpers.SeedUnit(t, s, domain.Unit{UnitID: "u1", TenantID: "t1", UnitNumber: "101", Address: "Av. Reforma 10"})
	helpers.SeedUnit(t, s, domain.Unit{UnitID: "u2", TenantID: "t2", UnitNumber: "201", Address: "Calle Roble 5"})

	units, err := s.ListUnits(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "u1", units[0].UnitID)

	// Another tenant's unit resolves exactly like a nonexistent one.
	got, err := s.GetUnitByID(ctx, "t1", "u2")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.GetUnitByNumber(ctx, "t1", "201")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLeadRoundTripAndScoping(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	lead := &domain.Lead{
		LeadID:    "ld_1",
		TenantID:  "t1",
		FirstName: "Ana",
		LastName:  "López",
		Phone:     "5512345678",
		Email:     "ana@example.com",
		Source:    "assistant",
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateLead(ctx, lead))

	other := &domain.Lead{LeadID: "ld_2", TenantID: "t2", FirstName: "Luis", Phone: "5587654321", CreatedAt: time.Now()}
	require.NoError(t, s.CreateLead(ctx, other))

	leads, err := s.ListLeads(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "ld_1", leads[0].LeadID)
	assert.Equal(t, "López", leads[0].LastName)
	assert.Equal(t, "ana@example.com", leads[0].Email)
}

func TestShowingRoundTripAndScoping(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	helpers.SeedUnit(t, s, domain.Unit{UnitID: "u1", TenantID: "t1", UnitNumber: "101", Address: "Av. Reforma 10"})
	require.NoError(t, s.CreateLead(ctx, &domain.Lead{
		LeadID: "ld_1", TenantID: "t1", FirstName: "Ana", Phone: "5512345678", CreatedAt: time.Now(),
	}))

	scheduled := time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateShowing(ctx, &domain.Showing{
		ShowingID:   "sh_1",
		TenantID:    "t1",
		UnitID:      "u1",
		LeadID:      "ld_1",
		ScheduledAt: scheduled,
		Notes:       "prefiere la mañana",
		Status:      domain.ShowingStatusRequested,
		CreatedAt:   time.Now(),
	}))

	showings, err := s.ListShowings(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, showings, 1)
	assert.Equal(t, "u1", showings[0].UnitID)
	assert.Equal(t, "ld_1", showings[0].LeadID)
	assert.Equal(t, domain.ShowingStatusRequested, showings[0].Status)
	assert.True(t, showings[0].ScheduledAt.Equal(scheduled))

	other, err := s.ListShowings(ctx, "t2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
