package api

import "context"

// ListBusinessesParams defines filters for listing a customer's businesses.
type ListBusinessesParams struct {
	ListParams
	IDs     []string
	Status  []Status
	Search  string
	Filters Query
}

// Query converts the params into an ordered query object.
func (p ListBusinessesParams) Query() Query {
	var q Query
	q = q.Add("id", nonEmptyList(p.IDs))
	q = q.Add("status", nonEmptyList(p.Status))
	q = q.Add("search", nonEmpty(p.Search))
	q = p.ListParams.appendTo(q)
	return append(q, p.Filters...)
}

// CreateBusinessRequest is the body for creating a business.
type CreateBusinessRequest struct {
	Name          string     `json:"name"`
	CompanyNumber *string    `json:"company_number,omitempty"`
	TaxIdentifier *string    `json:"tax_identifier,omitempty"`
	Contacts      []Contact  `json:"contacts,omitempty"`
	CustomData    CustomData `json:"custom_data,omitempty"`
}

// UpdateBusinessRequest is the body for updating a business.
type UpdateBusinessRequest struct {
	Name          *string    `json:"name,omitempty"`
	CompanyNumber *string    `json:"company_number,omitempty"`
	TaxIdentifier *string    `json:"tax_identifier,omitempty"`
	Status        *Status    `json:"status,omitempty"`
	Contacts      []Contact  `json:"contacts,omitempty"`
	CustomData    CustomData `json:"custom_data,omitempty"`
}

// List retrieves businesses for a customer.
func (s BusinessesService) List(ctx context.Context, customerID string, params ListBusinessesParams) (*ListResponse[Business], error) {
	return list[Business](ctx, s, businessResource, customerID, params.Query())
}

// Create creates a business for a customer.
func (s BusinessesService) Create(ctx context.Context, customerID string, body CreateBusinessRequest) (*Response[Business], error) {
	return create[Business](ctx, s, businessResource, customerID, body)
}

// Get retrieves a customer's business by ID.
func (s BusinessesService) Get(ctx context.Context, customerID, id string) (*Response[Business], error) {
	return get[Business](ctx, s, businessResource, customerID, id, nil)
}

// Update updates a customer's business.
func (s BusinessesService) Update(ctx context.Context, customerID, id string, body UpdateBusinessRequest) (*Response[Business], error) {
	return update[Business](ctx, s, businessResource, customerID, id, body)
}
