package api

import "context"

// ListAddressesParams defines filters for listing a customer's addresses.
type ListAddressesParams struct {
	ListParams
	IDs     []string
	Status  []Status
	Search  string
	Filters Query
}

// Query converts the params into an ordered query object.
func (p ListAddressesParams) Query() Query {
	var q Query
	q = q.Add("id", nonEmptyList(p.IDs))
	q = q.Add("status", nonEmptyList(p.Status))
	q = q.Add("search", nonEmpty(p.Search))
	q = p.ListParams.appendTo(q)
	return append(q, p.Filters...)
}

// CreateAddressRequest is the body for creating an address.
type CreateAddressRequest struct {
	CountryCode string     `json:"country_code"`
	Description *string    `json:"description,omitempty"`
	FirstLine   *string    `json:"first_line,omitempty"`
	SecondLine  *string    `json:"second_line,omitempty"`
	City        *string    `json:"city,omitempty"`
	PostalCode  *string    `json:"postal_code,omitempty"`
	Region      *string    `json:"region,omitempty"`
	CustomData  CustomData `json:"custom_data,omitempty"`
}

// UpdateAddressRequest is the body for updating an address.
type UpdateAddressRequest struct {
	CountryCode *string    `json:"country_code,omitempty"`
	Description *string    `json:"description,omitempty"`
	FirstLine   *string    `json:"first_line,omitempty"`
	SecondLine  *string    `json:"second_line,omitempty"`
	City        *string    `json:"city,omitempty"`
	PostalCode  *string    `json:"postal_code,omitempty"`
	Region      *string    `json:"region,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	CustomData  CustomData `json:"custom_data,omitempty"`
}

// List retrieves addresses for a customer.
func (s AddressesService) List(ctx context.Context, customerID string, params ListAddressesParams) (*ListResponse[Address], error) {
	return list[Address](ctx, s, addressesResource, customerID, params.Query())
}

// Create creates an address for a customer.
func (s AddressesService) Create(ctx context.Context, customerID string, body CreateAddressRequest) (*Response[Address], error) {
	return create[Address](ctx, s, addressesResource, customerID, body)
}

// Get retrieves a customer's address by ID.
func (s AddressesService) Get(ctx context.Context, customerID, id string) (*Response[Address], error) {
	return get[Address](ctx, s, addressesResource, customerID, id, nil)
}

// Update updates a customer's address.
func (s AddressesService) Update(ctx context.Context, customerID, id string, body UpdateAddressRequest) (*Response[Address], error) {
	return update[Address](ctx, s, addressesResource, customerID, id, body)
}
