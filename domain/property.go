package domain

import "time"

// Unit is a rental or sale unit owned by a tenant agency.
type Unit struct {
	UnitID       string      `json:"unit_id"`
	TenantID     string      `json:"-"`
	UnitNumber   string      `json:"unit_number"`
	Address      string      `json:"address"`
	Zone         string      `json:"zone,omitempty"`
	Description  string      `json:"description,omitempty"`
	PropertyType string      `json:"property_type"`
	ListingType  ListingType `json:"listing_type"`
	Price        float64     `json:"price"`
	Bedrooms     int         `json:"bedrooms"`
	Bathrooms    int         `json:"bathrooms"`
	Status       UnitStatus  `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Lead is a prospective client, identity-deduplicated by phone or email
// within a tenant. Created on first contact, reused on repeat contact.
type Lead struct {
	LeadID    string    `json:"lead_id"`
	TenantID  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Showing is a viewing appointment request, child of a Lead and a Unit.
type Showing struct {
	ShowingID   string        `json:"showing_id"`
	TenantID    string        `json:"-"`
	UnitID      string        `json:"unit_id"`
	LeadID      string        `json:"lead_id"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Notes       string        `json:"notes,omitempty"`
	Status      ShowingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// SearchCriteria is a transient unit query object, never stored.
// Nil pointer fields mean "no constraint".
type SearchCriteria struct {
	MinPrice     *float64    `json:"min_price,omitempty"`
	MaxPrice     *float64    `json:"max_price,omitempty"`
	Bedrooms     *int        `json:"bedrooms,omitempty"`
	PropertyType string      `json:"property_type,omitempty"`
	Location     string      `json:"location,omitempty"`
	ListingType  ListingType `json:"listing_type,omitempty"`
	Limit        int         `json:"limit,omitempty"`
}

// ViewingRequest carries the contact and scheduling data for a viewing.
// ClientName and ClientPhone are mandatory; scheduling fails otherwise.
type ViewingRequest struct {
	UnitID        string `json:"unit_id,omitempty"`
	ClientName    string `json:"client_name"`
	ClientPhone   string `json:"client_phone"`
	ClientEmail   string `json:"client_email,omitempty"`
	PreferredDate string `json:"preferred_date,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
	Notes         string `json:"notes,omitempty"`
}
