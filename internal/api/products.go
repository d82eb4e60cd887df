package api

import "context"

// ListProductsParams defines filters for listing products.
type ListProductsParams struct {
	ListParams
	IDs         []string
	Status      []Status
	TaxCategory []string
	Type        string
	Include     Includes
	// Filters are appended after the typed parameters.
	Filters Query
}

// Query converts the params into an ordered query object.
func (p ListProductsParams) Query() Query {
	var q Query
	q = q.Add("id", nonEmptyList(p.IDs))
	q = q.Add("status", nonEmptyList(p.Status))
	q = q.Add("tax_category", nonEmptyList(p.TaxCategory))
	q = q.Add("type", nonEmpty(p.Type))
	q = q.AddInclude(includeKey, p.Include)
	q = p.ListParams.appendTo(q)
	return append(q, p.Filters...)
}

// GetProductParams defines options for fetching one product.
type GetProductParams struct {
	Include Includes
}

// CreateProductRequest is the body for creating a product.
type CreateProductRequest struct {
	Name        string     `json:"name"`
	TaxCategory string     `json:"tax_category"`
	Description *string    `json:"description,omitempty"`
	Type        string     `json:"type,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	CustomData  CustomData `json:"custom_data,omitempty"`
}

// UpdateProductRequest is the body for updating a product. Nil fields are
// left unchanged.
type UpdateProductRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Type        *string    `json:"type,omitempty"`
	TaxCategory *string    `json:"tax_category,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	CustomData  CustomData `json:"custom_data,omitempty"`
	Status      *Status    `json:"status,omitempty"`
}

// List retrieves products.
func (s ProductsService) List(ctx context.Context, params ListProductsParams) (*ListResponse[Product], error) {
	return listProducts(ctx, s, params)
}

func listProducts(ctx context.Context, r Requester, params ListProductsParams) (*ListResponse[Product], error) {
	return list[Product](ctx, r, productsResource, "", params.Query())
}

// Create creates a product.
func (s ProductsService) Create(ctx context.Context, body CreateProductRequest) (*Response[Product], error) {
	return createProduct(ctx, s, body)
}

func createProduct(ctx context.Context, r Requester, body CreateProductRequest) (*Response[Product], error) {
	return create[Product](ctx, r, productsResource, "", body)
}

// Get retrieves a product by ID.
func (s ProductsService) Get(ctx context.Context, id string, params GetProductParams) (*Response[Product], error) {
	return getProduct(ctx, s, id, params)
}

func getProduct(ctx context.Context, r Requester, id string, params GetProductParams) (*Response[Product], error) {
	return get[Product](ctx, r, productsResource, "", id, Query{}.AddInclude(includeKey, params.Include))
}

// Update updates a product.
func (s ProductsService) Update(ctx context.Context, id string, body UpdateProductRequest) (*Response[Product], error) {
	return updateProduct(ctx, s, id, body)
}

func updateProduct(ctx context.Context, r Requester, id string, body UpdateProductRequest) (*Response[Product], error) {
	return update[Product](ctx, r, productsResource, "", id, body)
}
