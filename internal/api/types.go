package api

import "time"

// CustomData is free-form key/value data attached to an entity.
type CustomData map[string]any

// Status is the lifecycle status shared by most entities.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// ImportMeta describes where an imported entity came from.
type ImportMeta struct {
	ExternalID   *string `json:"external_id"`
	ImportedFrom string  `json:"imported_from"`
}

// Meta is the envelope metadata on single-entity responses.
type Meta struct {
	RequestID string `json:"request_id"`
}

// Pagination is the cursor metadata on list responses.
type Pagination struct {
	PerPage        int    `json:"per_page"`
	Next           string `json:"next"`
	HasMore        bool   `json:"has_more"`
	EstimatedTotal int    `json:"estimated_total"`
}

// ListMeta is the envelope metadata on list responses.
type ListMeta struct {
	RequestID  string      `json:"request_id"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// FieldError is a per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is the error object the API returns in place of data.
type ErrorBody struct {
	Type             string       `json:"type"`
	Code             string       `json:"code"`
	Detail           string       `json:"detail"`
	DocumentationURL string       `json:"documentation_url"`
	Errors           []FieldError `json:"errors,omitempty"`
}

// Response is the envelope for single-entity endpoints. Exactly one of Data
// or Error is populated by the API.
type Response[T any] struct {
	Data  T          `json:"data"`
	Meta  Meta       `json:"meta"`
	Error *ErrorBody `json:"error,omitempty"`
}

// Err returns the API error carried by the payload, if any.
func (r *Response[T]) Err() error {
	if r == nil {
		return nil
	}
	return newAPIError(r.Error, r.Meta)
}

// ListResponse is the envelope for list endpoints.
type ListResponse[T any] struct {
	Data  []T        `json:"data"`
	Meta  ListMeta   `json:"meta"`
	Error *ErrorBody `json:"error,omitempty"`
}

// Err returns the API error carried by the payload, if any.
func (r *ListResponse[T]) Err() error {
	if r == nil {
		return nil
	}
	return newAPIError(r.Error, Meta{RequestID: r.Meta.RequestID})
}

// Product is an item sold through Paddle.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	TaxCategory string      `json:"tax_category"`
	Type        string      `json:"type"`
	Description *string     `json:"description"`
	ImageURL    *string     `json:"image_url"`
	CustomData  CustomData  `json:"custom_data"`
	Status      Status      `json:"status"`
	ImportMeta  *ImportMeta `json:"import_meta"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Prices      []Price     `json:"prices,omitempty"`
}

// Money is an amount in the lowest denomination of a currency.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// Duration is a billing interval such as one month.
type Duration struct {
	Interval  string `json:"interval"`
	Frequency int    `json:"frequency"`
}

// UnitPriceOverride sets a different unit price for some countries.
type UnitPriceOverride struct {
	CountryCodes []string `json:"country_codes"`
	UnitPrice    Money    `json:"unit_price"`
}

// PriceQuantity bounds how many units can be bought.
type PriceQuantity struct {
	Minimum int `json:"minimum"`
	Maximum int `json:"maximum"`
}

// Price describes how much and how often a product is charged.
type Price struct {
	ID                 string              `json:"id"`
	ProductID          string              `json:"product_id"`
	Description        string              `json:"description"`
	Type               string              `json:"type"`
	Name               *string             `json:"name"`
	BillingCycle       *Duration           `json:"billing_cycle"`
	TrialPeriod        *Duration           `json:"trial_period"`
	TaxMode            string              `json:"tax_mode"`
	UnitPrice          Money               `json:"unit_price"`
	UnitPriceOverrides []UnitPriceOverride `json:"unit_price_overrides"`
	Quantity           PriceQuantity       `json:"quantity"`
	Status             Status              `json:"status"`
	CustomData         CustomData          `json:"custom_data"`
	ImportMeta         *ImportMeta         `json:"import_meta"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	Product            *Product            `json:"product,omitempty"`
}

// Discount is a reduction applied to checkouts or subscriptions.
type Discount struct {
	ID                        string      `json:"id"`
	Status                    Status      `json:"status"`
	Description               string      `json:"description"`
	EnabledForCheckout        bool        `json:"enabled_for_checkout"`
	Code                      *string     `json:"code"`
	Type                      string      `json:"type"`
	Amount                    string      `json:"amount"`
	CurrencyCode              *string     `json:"currency_code"`
	Recur                     bool        `json:"recur"`
	MaximumRecurringIntervals *int        `json:"maximum_recurring_intervals"`
	UsageLimit                *int        `json:"usage_limit"`
	RestrictTo                []string    `json:"restrict_to"`
	ExpiresAt                 *time.Time  `json:"expires_at"`
	CustomData                CustomData  `json:"custom_data"`
	TimesUsed                 int         `json:"times_used"`
	ImportMeta                *ImportMeta `json:"import_meta"`
	CreatedAt                 time.Time   `json:"created_at"`
	UpdatedAt                 time.Time   `json:"updated_at"`
}

// Customer is a person or organization that buys.
type Customer struct {
	ID               string      `json:"id"`
	Name             *string     `json:"name"`
	Email            string      `json:"email"`
	MarketingConsent bool        `json:"marketing_consent"`
	Status           Status      `json:"status"`
	CustomData       CustomData  `json:"custom_data"`
	Locale           string      `json:"locale"`
	ImportMeta       *ImportMeta `json:"import_meta"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Address is a billing address that belongs to a customer.
type Address struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customer_id"`
	Description *string     `json:"description"`
	FirstLine   *string     `json:"first_line"`
	SecondLine  *string     `json:"second_line"`
	City        *string     `json:"city"`
	PostalCode  *string     `json:"postal_code"`
	Region      *string     `json:"region"`
	CountryCode string      `json:"country_code"`
	CustomData  CustomData  `json:"custom_data"`
	Status      Status      `json:"status"`
	ImportMeta  *ImportMeta `json:"import_meta"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Contact is a person at a business who receives billing emails.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Business is a company that belongs to a customer.
type Business struct {
	ID            string      `json:"id"`
	CustomerID    string      `json:"customer_id"`
	Name          string      `json:"name"`
	CompanyNumber *string     `json:"company_number"`
	TaxIdentifier *string     `json:"tax_identifier"`
	Status        Status      `json:"status"`
	Contacts      []Contact   `json:"contacts"`
	CustomData    CustomData  `json:"custom_data"`
	ImportMeta    *ImportMeta `json:"import_meta"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
