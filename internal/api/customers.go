package api

import "context"

// ListCustomersParams defines filters for listing customers.
type ListCustomersParams struct {
	ListParams
	IDs     []string
	Emails  []string
	Status  []Status
	Search  string
	Filters Query
}

// Query converts the params into an ordered query object.
func (p ListCustomersParams) Query() Query {
	var q Query
	q = q.Add("id", nonEmptyList(p.IDs))
	q = q.Add("email", nonEmptyList(p.Emails))
	q = q.Add("status", nonEmptyList(p.Status))
	q = q.Add("search", nonEmpty(p.Search))
	q = p.ListParams.appendTo(q)
	return append(q, p.Filters...)
}

// CreateCustomerRequest is the body for creating a customer.
type CreateCustomerRequest struct {
	Email      string     `json:"email"`
	Name       *string    `json:"name,omitempty"`
	Locale     *string    `json:"locale,omitempty"`
	CustomData CustomData `json:"custom_data,omitempty"`
}

// UpdateCustomerRequest is the body for updating a customer.
type UpdateCustomerRequest struct {
	Name       *string    `json:"name,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Status     *Status    `json:"status,omitempty"`
	Locale     *string    `json:"locale,omitempty"`
	CustomData CustomData `json:"custom_data,omitempty"`
}

// List retrieves customers.
func (s CustomersService) List(ctx context.Context, params ListCustomersParams) (*ListResponse[Customer], error) {
	return list[Customer](ctx, s, customersResource, "", params.Query())
}

// Create creates a customer.
func (s CustomersService) Create(ctx context.Context, body CreateCustomerRequest) (*Response[Customer], error) {
	return create[Customer](ctx, s, customersResource, "", body)
}

// Get retrieves a customer by ID.
func (s CustomersService) Get(ctx context.Context, id string) (*Response[Customer], error) {
	return get[Customer](ctx, s, customersResource, "", id, nil)
}

// Update updates a customer.
func (s CustomersService) Update(ctx context.Context, id string, body UpdateCustomerRequest) (*Response[Customer], error) {
	return update[Customer](ctx, s, customersResource, "", id, body)
}
