package command

import (
	"slices"
	"strings"
)

// Name identifies a command the front end can invoke.
type Name string

const (
	ListUsers     Name = "list-users"
	CreateUser    Name = "create-user"
	ListProducts  Name = "list-products"
	CreateProduct Name = "create-product"
	ListOrders    Name = "list-orders"
	CreateOrder   Name = "create-order"
)

// aliases maps the snake_case names older front ends invoke to their
// canonical Name.
var aliases = map[string]Name{
	"get_users":      ListUsers,
	"create_user":    CreateUser,
	"get_products":   ListProducts,
	"create_product": CreateProduct,
	"get_orders":     ListOrders,
	"create_order":   CreateOrder,
}

// Names returns every canonical command name, sorted.
func Names() []Name {
	names := []Name{ListUsers, CreateUser, ListProducts, CreateProduct, ListOrders, CreateOrder}
	slices.Sort(names)
	return names
}

// canonical resolves raw to a Name, accepting aliases. It does not check
// that the name is registered.
func canonical(raw string) Name {
	raw = strings.TrimSpace(raw)
	if n, ok := aliases[raw]; ok {
		return n
	}
	return Name(raw)
}
