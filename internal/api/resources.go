package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// resource describes where an entity lives. Entities with a parent are
// nested under the parent's item path (customers/{cid}/addresses).
type resource struct {
	name       string
	collection string
	parent     *resource
	relations  []string
}

var (
	productsResource  = resource{name: "product", collection: "products", relations: []string{"prices"}}
	pricesResource    = resource{name: "price", collection: "prices", relations: []string{"product"}}
	discountsResource = resource{name: "discount", collection: "discounts"}
	customersResource = resource{name: "customer", collection: "customers"}
	addressesResource = resource{name: "address", collection: "addresses", parent: &customersResource}
	businessResource  = resource{name: "business", collection: "businesses", parent: &customersResource}
)

// listPath returns the collection path, e.g. "customers/ctm_1/addresses".
func (r resource) listPath(parentID string) (string, error) {
	if r.parent == nil {
		return r.collection, nil
	}
	if strings.TrimSpace(parentID) == "" {
		return "", fmt.Errorf("%s ID is required", r.parent.name)
	}
	return r.parent.collection + "/" + url.PathEscape(parentID) + "/" + r.collection, nil
}

// itemPath returns the path of one entity, e.g. "products/pro_1".
func (r resource) itemPath(parentID, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%s ID is required", r.name)
	}
	base, err := r.listPath(parentID)
	if err != nil {
		return "", err
	}
	return base + "/" + url.PathEscape(id), nil
}

// Relations returns the include relation names a resource supports.
func Relations(collection string) []string {
	for _, r := range []resource{productsResource, pricesResource, discountsResource, customersResource, addressesResource, businessResource} {
		if r.collection == collection {
			return append([]string(nil), r.relations...)
		}
	}
	return nil
}

func list[T any](ctx context.Context, r Requester, res resource, parentID string, query Query) (*ListResponse[T], error) {
	path, err := res.listPath(parentID)
	if err != nil {
		return nil, err
	}
	var result ListResponse[T]
	if err := r.Send(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func get[T any](ctx context.Context, r Requester, res resource, parentID, id string, query Query) (*Response[T], error) {
	path, err := res.itemPath(parentID, id)
	if err != nil {
		return nil, err
	}
	var result Response[T]
	if err := r.Send(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func create[T any](ctx context.Context, r Requester, res resource, parentID string, body any) (*Response[T], error) {
	path, err := res.listPath(parentID)
	if err != nil {
		return nil, err
	}
	var result Response[T]
	if err := r.Send(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func update[T any](ctx context.Context, r Requester, res resource, parentID, id string, body any) (*Response[T], error) {
	path, err := res.itemPath(parentID, id)
	if err != nil {
		return nil, err
	}
	var result Response[T]
	if err := r.Send(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListParams holds the cursor parameters every list endpoint accepts.
type ListParams struct {
	After   string
	OrderBy string
	PerPage int
}

func (p ListParams) appendTo(q Query) Query {
	if p.After != "" {
		q = q.Add("after", p.After)
	}
	if p.OrderBy != "" {
		q = q.Add("order_by", p.OrderBy)
	}
	if p.PerPage > 0 {
		q = q.Add("per_page", p.PerPage)
	}
	return q
}

// nonEmpty returns nil for an empty string so the serializer skips it.
func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nonEmptyList returns nil for an empty list so the serializer skips it.
func nonEmptyList[T any](v []T) any {
	if len(v) == 0 {
		return nil
	}
	return v
}
