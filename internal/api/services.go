package api

// Service accessors group Client methods by resource. Each service embeds
// *Client, which is immutable, so services are cheap values.

type ProductsService struct{ *Client }

type PricesService struct{ *Client }

type DiscountsService struct{ *Client }

type CustomersService struct{ *Client }

type AddressesService struct{ *Client }

type BusinessesService struct{ *Client }

func (c *Client) Products() ProductsService {
	return ProductsService{c}
}

func (c *Client) Prices() PricesService {
	return PricesService{c}
}

func (c *Client) Discounts() DiscountsService {
	return DiscountsService{c}
}

func (c *Client) Customers() CustomersService {
	return CustomersService{c}
}

func (c *Client) Addresses() AddressesService {
	return AddressesService{c}
}

func (c *Client) Businesses() BusinessesService {
	return BusinessesService{c}
}
