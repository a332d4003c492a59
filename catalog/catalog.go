// Package catalog is an in-memory commerce backend fed from a YAML file.
// Carts, customers and orders live only as long as the process.
package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"pizza-telegram/models"
)

// File is the on-disk layout of a catalog.
type File struct {
	Products  []models.Product            `yaml:"products"`
	Locations []models.FulfillingLocation `yaml:"locations"`
}

type Catalog struct {
	mu        sync.Mutex
	products  []models.Product
	locations []models.FulfillingLocation
	carts     map[string]models.Cart
	customers []models.Customer
	orders    []models.Order
}

func New(products []models.Product, locations []models.FulfillingLocation) *Catalog {
	return &Catalog{
		products:  products,
		locations: locations,
		carts:     make(map[string]models.Cart),
	}
}

// Load reads and parses a catalog YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	seen := make(map[string]bool, len(f.Products))
	for i, p := range f.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %d: id is required", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("product %q: duplicate id", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %q: negative price", p.ID)
		}
		seen[p.ID] = true
	}
	return New(f.Products, f.Locations), nil
}

func (c *Catalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

func (c *Catalog) GetProduct(ctx context.Context, id string) (models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.product(id)
	if !ok {
		return models.Product{}, fmt.Errorf("product %q: %w", id, models.ErrNotFound)
	}
	return p, nil
}

func (c *Catalog) product(id string) (models.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (c *Catalog) GetCart(ctx context.Context, key string) (models.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart := c.carts[key]
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	return models.Cart{Items: items}, nil
}

func (c *Catalog) AddItem(ctx context.Context, key, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("add item %q: quantity must be positive", productID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.product(productID)
	if !ok {
		return fmt.Errorf("product %q: %w", productID, models.ErrNotFound)
	}
	cart := c.carts[key]
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += qty
			c.carts[key] = cart
			return nil
		}
	}
	cart.Items = append(cart.Items, models.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
	})
	c.carts[key] = cart
	return nil
}

func (c *Catalog) RemoveItem(ctx context.Context, key, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart := c.carts[key]
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	cart.Items = items
	c.carts[key] = cart
	return nil
}

func (c *Catalog) ClearCart(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.carts, key)
	return nil
}

func (c *Catalog) CreateCustomer(ctx context.Context, cust models.Customer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customers = append(c.customers, cust)
	return nil
}

func (c *Catalog) ListFulfillingLocations(ctx context.Context) ([]models.FulfillingLocation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.FulfillingLocation, len(c.locations))
	copy(out, c.locations)
	return out, nil
}

func (c *Catalog) SaveOrder(ctx context.Context, o models.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = append(c.orders, o)
	return nil
}

// Orders returns the orders saved so far.
func (c *Catalog) Orders() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

func (c *Catalog) Customers() []models.Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Customer, len(c.customers))
	copy(out, c.customers)
	return out
}
