package api

import "context"

// ListPricesParams defines filters for listing prices.
type ListPricesParams struct {
	ListParams
	IDs        []string
	ProductIDs []string
	Status     []Status
	Recurring  *bool
	Type       string
	Include    Includes
	Filters    Query
}

// Query converts the params into an ordered query object.
func (p ListPricesParams) Query() Query {
	var q Query
	q = q.Add("id", nonEmptyList(p.IDs))
	q = q.Add("product_id", nonEmptyList(p.ProductIDs))
	q = q.Add("status", nonEmptyList(p.Status))
	q = q.Add("recurring", p.Recurring)
	q = q.Add("type", nonEmpty(p.Type))
	q = q.AddInclude(includeKey, p.Include)
	q = p.ListParams.appendTo(q)
	return append(q, p.Filters...)
}

// GetPriceParams defines options for fetching one price.
type GetPriceParams struct {
	Include Includes
}

// CreatePriceRequest is the body for creating a price.
type CreatePriceRequest struct {
	Description        string              `json:"description"`
	ProductID          string              `json:"product_id"`
	UnitPrice          Money               `json:"unit_price"`
	Type               string              `json:"type,omitempty"`
	Name               *string             `json:"name,omitempty"`
	BillingCycle       *Duration           `json:"billing_cycle,omitempty"`
	TrialPeriod        *Duration           `json:"trial_period,omitempty"`
	TaxMode            string              `json:"tax_mode,omitempty"`
	UnitPriceOverrides []UnitPriceOverride `json:"unit_price_overrides,omitempty"`
	Quantity           *PriceQuantity      `json:"quantity,omitempty"`
	CustomData         CustomData          `json:"custom_data,omitempty"`
}

// UpdatePriceRequest is the body for updating a price. Nil fields are left
// unchanged.
type UpdatePriceRequest struct {
	Description        *string             `json:"description,omitempty"`
	Type               *string             `json:"type,omitempty"`
	Name               *string             `json:"name,omitempty"`
	BillingCycle       *Duration           `json:"billing_cycle,omitempty"`
	TrialPeriod        *Duration           `json:"trial_period,omitempty"`
	TaxMode            *string             `json:"tax_mode,omitempty"`
	UnitPrice          *Money              `json:"unit_price,omitempty"`
	UnitPriceOverrides []UnitPriceOverride `json:"unit_price_overrides,omitempty"`
	Quantity           *PriceQuantity      `json:"quantity,omitempty"`
	Status             *Status             `json:"status,omitempty"`
	CustomData         CustomData          `json:"custom_data,omitempty"`
}

// List retrieves prices.
func (s PricesService) List(ctx context.Context, params ListPricesParams) (*ListResponse[Price], error) {
	return list[Price](ctx, s, pricesResource, "", params.Query())
}

// Create creates a price.
func (s PricesService) Create(ctx context.Context, body CreatePriceRequest) (*Response[Price], error) {
	return create[Price](ctx, s, pricesResource, "", body)
}

// Get retrieves a price by ID.
func (s PricesService) Get(ctx context.Context, id string, params GetPriceParams) (*Response[Price], error) {
	return get[Price](ctx, s, pricesResource, "", id, Query{}.AddInclude(includeKey, params.Include))
}

// Update updates a price.
func (s PricesService) Update(ctx context.Context, id string, body UpdatePriceRequest) (*Response[Price], error) {
	return update[Price](ctx, s, pricesResource, "", id, body)
}
