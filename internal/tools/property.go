package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/casaflow/aicore/domain"
	"github.com/casaflow/aicore/store"
)

const defaultSearchLimit = 5

// PropertyTools implements the tenant-scoped domain functions the model can
// invoke: unit search, detail lookup, viewing scheduling, and availability.
type PropertyTools struct {
	store store.Store
	now   func() time.Time
	log   *zap.Logger
}

// NewPropertyTools creates the domain tool functions over the given store.
func NewPropertyTools(st store.Store, log *zap.Logger) *PropertyTools {
	if log == nil {
		log = zap.NewNop()
	}
	return &PropertyTools{
		store: st,
		now:   time.Now,
		log:   log,
	}
}

// SearchResult is the payload returned by search_units. TotalAvailable is the
// true match count so the model can offer to broaden or narrow the search.
type SearchResult struct {
	Success        bool          `json:"success"`
	TotalAvailable int           `json:"total_available"`
	Units          []domain.Unit `json:"units"`
}

// DetailsResult is the payload returned by get_unit_details.
type DetailsResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Unit    *domain.Unit `json:"unit,omitempty"`
}

// ScheduleResult is the payload returned by schedule_viewing.
type ScheduleResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	LeadID    string `json:"lead_id,omitempty"`
	ShowingID string `json:"showing_id,omitempty"`
}

// AvailableTimesResult is the payload returned by get_available_times.
type AvailableTimesResult struct {
	Success bool     `json:"success"`
	Date    string   `json:"date"`
	Slots   []string `json:"slots"`
}

// SearchUnits filters the tenant's unit collection by the given criteria.
// Rented and occupied units are always excluded. An empty result is a success
// with zero count, not an error.
func (p *PropertyTools) SearchUnits(ctx context.Context, tenantID string, criteria domain.SearchCriteria) (*SearchResult, error) {
	units, err := p.store.ListUnits(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	var matches []domain.Unit
	for _, u := range units {
		if matchesCriteria(u, criteria) {
			matches = append(matches, u)
		}
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []domain.Unit{}
	}

	return &SearchResult{
		Success:        true,
		TotalAvailable: total,
		Units:          matches,
	}, nil
}

func matchesCriteria(u domain.Unit, c domain.SearchCriteria) bool {
	if u.Status == domain.UnitStatusRented || u.Status == domain.UnitStatusOccupied {
		return false
	}
	if c.MinPrice != nil && u.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && u.Price > *c.MaxPrice {
		return false
	}
	if c.Bedrooms != nil && u.Bedrooms != *c.Bedrooms {
		return false
	}
	if !matchesListingType(u.ListingType, c.ListingType) {
		return false
	}
	if c.Location != "" {
		locationText := strings.ToLower(u.UnitNumber + " " + u.Address + " " + u.Zone + " " + u.Description)
		if !strings.Contains(locationText, strings.ToLower(c.Location)) {
			return false
		}
	}
	if c.PropertyType != "" {
		if !strings.Contains(strings.ToLower(u.PropertyType), strings.ToLower(c.PropertyType)) {
			return false
		}
	}
	return true
}

// matchesListingType treats "both" as a wildcard on either side.
func matchesListingType(unit, wanted domain.ListingType) bool {
	if wanted == "" || wanted == domain.ListingTypeBoth || unit == domain.ListingTypeBoth {
		return true
	}
	return unit == wanted
}

// GetUnitDetails looks up a unit by id or number strictly within the tenant's
// own collection. A unit belonging to another tenant resolves to not-found,
// indistinguishable from a unit that does not exist.
func (p *PropertyTools) GetUnitDetails(ctx context.Context, tenantID, unitID, unitNumber string) (*DetailsResult, error) {
	var (
		unit *domain.Unit
		err  error
	)
	switch {
	case unitID != "":
		unit, err = p.store.GetUnitByID(ctx, tenantID, unitID)
	case unitNumber != "":
		unit, err = p.store.GetUnitByNumber(ctx, tenantID, unitNumber)
	default:
		return &DetailsResult{Success: false, Message: "Se requiere el identificador o el número de la propiedad."}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up unit: %w", err)
	}
	if unit == nil {
		return &DetailsResult{Success: false, Message: "Propiedad no encontrada."}, nil
	}
	return &DetailsResult{Success: true, Unit: unit}, nil
}

// ScheduleViewing registers a viewing request. Contact data is validated
// before any persistence call; the lead is deduplicated by phone or email
// within the tenant; a showing is created only when the referenced unit
// belongs to the tenant. Persistence failures surface as rejection messages,
// never as raw errors.
func (p *PropertyTools) ScheduleViewing(ctx context.Context, tenantID string, req domain.ViewingRequest) (*ScheduleResult, error) {
	name := strings.TrimSpace(req.ClientName)
	phone := strings.TrimSpace(req.ClientPhone)
	if name == "" || phone == "" {
		return &ScheduleResult{
			Success: false,
			Message: "Se requiere el nombre y el teléfono del cliente para agendar una visita.",
		}, nil
	}

	var unit *domain.Unit
	if req.UnitID != "" {
		u, err := p.store.GetUnitByID(ctx, tenantID, req.UnitID)
		if err != nil {
			p.log.Warn("unit lookup failed during scheduling", zap.Error(err))
			return rejection(), nil
		}
		if u == nil {
			return &ScheduleResult{
				Success: false,
				Message: "Propiedad no encontrada.",
			}, nil
		}
		unit = u
	}

	lead, err := p.findOrCreateLead(ctx, tenantID, name, phone, req.ClientEmail)
	if err != nil {
		p.log.Warn("lead resolution failed during scheduling", zap.Error(err))
		return rejection(), nil
	}

	result := &ScheduleResult{Success: true, LeadID: lead.LeadID}

	if unit != nil {
		showing := &domain.Showing{
			ShowingID:   "sh_" + uuid.New().String(),
			TenantID:    tenantID,
			UnitID:      unit.UnitID,
			LeadID:      lead.LeadID,
			ScheduledAt: p.resolveSchedule(req.PreferredDate, req.PreferredTime),
			Notes:       req.Notes,
			Status:      domain.ShowingStatusRequested,
			CreatedAt:   p.now(),
		}
		if err := p.store.CreateShowing(ctx, showing); err != nil {
			p.log.Warn("showing creation failed", zap.Error(err))
			return rejection(), nil
		}
		result.ShowingID = showing.ShowingID
		result.Message = fmt.Sprintf(
			"Gracias %s, registramos tu solicitud de visita para la propiedad %s. Un asesor se pondrá en contacto contigo para confirmar la cita.",
			name, unit.UnitNumber)
		return result, nil
	}

	result.Message = fmt.Sprintf(
		"Gracias %s, registramos tus datos. Un asesor se pondrá en contacto contigo para coordinar la visita.",
		name)
	return result, nil
}

func rejection() *ScheduleResult {
	return &ScheduleResult{
		Success: false,
		Message: "No pudimos registrar tu solicitud en este momento. Por favor intenta de nuevo más tarde.",
	}
}

// findOrCreateLead deduplicates the contact by phone or email within the
// tenant and creates a new lead otherwise.
func (p *PropertyTools) findOrCreateLead(ctx context.Context, tenantID, fullName, phone, email string) (*domain.Lead, error) {
	leads, err := p.store.ListLeads(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	normalized := normalizePhone(phone)
	for i := range leads {
		l := &leads[i]
		if normalizePhone(l.Phone) == normalized {
			return l, nil
		}
		if email != "" && l.Email != "" && strings.EqualFold(l.Email, email) {
			return l, nil
		}
	}

	first, last := splitName(fullName)
	lead := &domain.Lead{
		LeadID:    "ld_" + uuid.New().String(),
		TenantID:  tenantID,
		FirstName: first,
		LastName:  last,
		Phone:     phone,
		Email:     email,
		Source:    "assistant",
		CreatedAt: p.now(),
	}
	if err := p.store.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	return lead, nil
}

func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return full, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// resolveSchedule builds the showing time: the requested date (default today)
// with the requested time-of-day applied.
func (p *PropertyTools) resolveSchedule(preferredDate, preferredTime string) time.Time {
	base := p.now()
	if preferredDate != "" {
		if d, err := time.ParseInLocation("2006-01-02", preferredDate, base.Location()); err == nil {
			base = d
		}
	}
	if preferredTime != "" {
		if t, err := time.Parse("15:04", preferredTime); err == nil {
			base = time.Date(base.Year(), base.Month(), base.Day(), t.Hour(), t.Minute(), 0, 0, base.Location())
		}
	}
	return base
}

// GetAvailableTimes returns the static hourly slot list for a date. Purely
// presentational: no persistence access, always succeeds.
func (p *PropertyTools) GetAvailableTimes(date string) *AvailableTimesResult {
	slots := make([]string, 0, 10)
	for h := 9; h <= 18; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return &AvailableTimesResult{
		Success: true,
		Date:    date,
		Slots:   slots,
	}
}

// detailsArgs is the typed argument struct for get_unit_details.
type detailsArgs struct {
	UnitID     string `json:"unit_id,omitempty"`
	UnitNumber string `json:"unit_number,omitempty"`
}

// availableTimesArgs is the typed argument struct for get_available_times.
type availableTimesArgs struct {
	Date string `json:"date"`
}

// RegisterAll registers the four domain functions and their declarations.
// Each executor decodes the model's arguments into a typed struct at the
// boundary before use.
func (p *PropertyTools) RegisterAll(r *Registry) error {
	if err := r.Register("search_units",
		"Busca propiedades disponibles del inquilino según precio, recámaras, tipo, zona y modalidad (renta/venta).",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"min_price":     map[string]interface{}{"type": "number", "description": "Precio mínimo"},
				"max_price":     map[string]interface{}{"type": "number", "description": "Precio máximo"},
				"bedrooms":      map[string]interface{}{"type": "integer", "description": "Número exacto de recámaras"},
				"property_type": map[string]interface{}{"type": "string", "description": "Tipo de propiedad, ej. departamento, casa"},
				"location":      map[string]interface{}{"type": "string", "description": "Zona, dirección o referencia de ubicación"},
				"listing_type":  map[string]interface{}{"type": "string", "enum": []string{"rent", "sale", "both"}},
				"limit":         map[string]interface{}{"type": "integer", "description": "Máximo de resultados (default 5)"},
			},
		},
		func(ctx context.Context, tenantID string, args json.RawMessage) (json.RawMessage, error) {
			var criteria domain.SearchCriteria
			if err := unmarshalArgs(args, &criteria); err != nil {
				return nil, err
			}
			result, err := p.SearchUnits(ctx, tenantID, criteria)
			if err != nil {
				return nil, err
			}
			return json.Marshal(result)
		}); err != nil {
		return err
	}

	if err := r.Register("get_unit_details",
		"Obtiene el detalle de una propiedad por su identificador o número de unidad.",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"unit_id":     map[string]interface{}{"type": "string"},
				"unit_number": map[string]interface{}{"type": "string"},
			},
		},
		func(ctx context.Context, tenantID string, args json.RawMessage) (json.RawMessage, error) {
			var a detailsArgs
			if err := unmarshalArgs(args, &a); err != nil {
				return nil, err
			}
			result, err := p.GetUnitDetails(ctx, tenantID, a.UnitID, a.UnitNumber)
			if err != nil {
				return nil, err
			}
			return json.Marshal(result)
		}); err != nil {
		return err
	}

	if err := r.Register("schedule_viewing",
		"Agenda una solicitud de visita a una propiedad. Requiere nombre y teléfono del cliente.",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"unit_id":        map[string]interface{}{"type": "string"},
				"client_name":    map[string]interface{}{"type": "string"},
				"client_phone":   map[string]interface{}{"type": "string"},
				"client_email":   map[string]interface{}{"type": "string"},
				"preferred_date": map[string]interface{}{"type": "string", "description": "Fecha preferida, formato YYYY-MM-DD"},
				"preferred_time": map[string]interface{}{"type": "string", "description": "Hora preferida, formato HH:MM"},
				"notes":          map[string]interface{}{"type": "string"},
			},
			"required": []string{"client_name", "client_phone"},
		},
		func(ctx context.Context, tenantID string, args json.RawMessage) (json.RawMessage, error) {
			var req domain.ViewingRequest
			if err := unmarshalArgs(args, &req); err != nil {
				return nil, err
			}
			result, err := p.ScheduleViewing(ctx, tenantID, req)
			if err != nil {
				return nil, err
			}
			return json.Marshal(result)
		}); err != nil {
		return err
	}

	return r.Register("get_available_times",
		"Devuelve los horarios de visita disponibles para una fecha dada.",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"date": map[string]interface{}{"type": "string", "description": "Fecha, formato YYYY-MM-DD"},
			},
			"required": []string{"date"},
		},
		func(ctx context.Context, tenantID string, args json.RawMessage) (json.RawMessage, error) {
			var a availableTimesArgs
			if err := unmarshalArgs(args, &a); err != nil {
				return nil, err
			}
			return json.Marshal(p.GetAvailableTimes(a.Date))
		})
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}
