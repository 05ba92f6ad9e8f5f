package domain

// UnitStatus represents the occupancy status of a unit.
type UnitStatus string

const (
	UnitStatusAvailable   UnitStatus = "available"
	UnitStatusRented      UnitStatus = "rented"
	UnitStatusOccupied    UnitStatus = "occupied"
	UnitStatusReserved    UnitStatus = "reserved"
	UnitStatusMaintenance UnitStatus = "maintenance"
)

// ListingType says whether a unit is offered for rent, sale, or both.
type ListingType string

const (
	ListingTypeRent ListingType = "rent"
	ListingTypeSale ListingType = "sale"
	ListingTypeBoth ListingType = "both"
)

// ShowingStatus represents the lifecycle status of a showing.
type ShowingStatus string

const (
	ShowingStatusRequested ShowingStatus = "requested"
	ShowingStatusConfirmed ShowingStatus = "confirmed"
	ShowingStatusCancelled ShowingStatus = "cancelled"
)
