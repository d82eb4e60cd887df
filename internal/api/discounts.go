package api

import (
	"context"
	"time"
)

// ListDiscountsParams defines filters for listing discounts.
type ListDiscountsParams struct {
	ListParams
	IDs     []string
	Codes   []string
	Status  []Status
	Filters Query
}

// Query converts the params into an ordered query object.
func (p ListDiscountsParams) Query() Query {
	var q Query
	q = q.Add("id", nonEmptyList(p.IDs))
	q = q.Add("code", nonEmptyList(p.Codes))
	q = q.Add("status", nonEmptyList(p.Status))
	q = p.ListParams.appendTo(q)
	return append(q, p.Filters...)
}

// CreateDiscountRequest is the body for creating a discount.
type CreateDiscountRequest struct {
	Amount                    string     `json:"amount"`
	Description               string     `json:"description"`
	Type                      string     `json:"type"`
	EnabledForCheckout        *bool      `json:"enabled_for_checkout,omitempty"`
	Code                      *string    `json:"code,omitempty"`
	CurrencyCode              *string    `json:"currency_code,omitempty"`
	Recur                     *bool      `json:"recur,omitempty"`
	MaximumRecurringIntervals *int       `json:"maximum_recurring_intervals,omitempty"`
	UsageLimit                *int       `json:"usage_limit,omitempty"`
	RestrictTo                []string   `json:"restrict_to,omitempty"`
	ExpiresAt                 *time.Time `json:"expires_at,omitempty"`
	CustomData                CustomData `json:"custom_data,omitempty"`
}

// UpdateDiscountRequest is the body for updating a discount.
type UpdateDiscountRequest struct {
	Status                    *Status    `json:"status,omitempty"`
	Description               *string    `json:"description,omitempty"`
	EnabledForCheckout        *bool      `json:"enabled_for_checkout,omitempty"`
	Code                      *string    `json:"code,omitempty"`
	Type                      *string    `json:"type,omitempty"`
	Amount                    *string    `json:"amount,omitempty"`
	CurrencyCode              *string    `json:"currency_code,omitempty"`
	Recur                     *bool      `json:"recur,omitempty"`
	MaximumRecurringIntervals *int       `json:"maximum_recurring_intervals,omitempty"`
	UsageLimit                *int       `json:"usage_limit,omitempty"`
	RestrictTo                []string   `json:"restrict_to,omitempty"`
	ExpiresAt                 *time.Time `json:"expires_at,omitempty"`
	CustomData                CustomData `json:"custom_data,omitempty"`
}

// List retrieves discounts.
func (s DiscountsService) List(ctx context.Context, params ListDiscountsParams) (*ListResponse[Discount], error) {
	return list[Discount](ctx, s, discountsResource, "", params.Query())
}

// Create creates a discount.
func (s DiscountsService) Create(ctx context.Context, body CreateDiscountRequest) (*Response[Discount], error) {
	return create[Discount](ctx, s, discountsResource, "", body)
}

// Get retrieves a discount by ID.
func (s DiscountsService) Get(ctx context.Context, id string) (*Response[Discount], error) {
	return get[Discount](ctx, s, discountsResource, "", id, nil)
}

// Update updates a discount.
func (s DiscountsService) Update(ctx context.Context, id string, body UpdateDiscountRequest) (*Response[Discount], error) {
	return update[Discount](ctx, s, discountsResource, "", id, body)
}
