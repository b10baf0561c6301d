package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
)

// Line is one cart entry carrying the product snapshot captured at add time.
// The snapshot price is a display estimate only; order validation re-derives
// every price from the catalog.
type Line struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Description *string         `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
}

// Snapshot captures the product fields copied into a cart line.
type Snapshot struct {
	ProductID   uuid.UUID
	Name        string
	Price       decimal.Decimal
	ImageURL    *string
	Description *string
}

// Cart aggregates lines for a single browser session. It is never persisted
// server-side; callers own serialization.
type Cart struct {
	lines []Line
	index map[uuid.UUID]int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{index: make(map[uuid.UUID]int)}
}

// AddLine appends qty units of the product, merging into an existing line for
// the same product. A non-positive qty defaults to one.
func (c *Cart) AddLine(snapshot Snapshot, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i, ok := c.index[snapshot.ProductID]; ok {
		c.lines[i].Quantity += qty
		return
	}
	c.index[snapshot.ProductID] = len(c.lines)
	c.lines = append(c.lines, Line{
		ProductID:   snapshot.ProductID,
		Name:        snapshot.Name,
		Price:       snapshot.Price,
		ImageURL:    snapshot.ImageURL,
		Description: snapshot.Description,
		Quantity:    qty,
	})
}

// SetQuantity replaces the quantity of an existing line. Quantities below one
// are rejected; dropping a line is an explicit RemoveLine call.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	i, ok := c.index[productID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s is not in the cart", productID))
	}
	c.lines[i].Quantity = qty
	return nil
}

// RemoveLine drops the line for the product. Removing an absent line is a no-op.
func (c *Cart) RemoveLine(productID uuid.UUID) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[uuid.UUID]int)
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len reports how many lines the cart holds.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Subtotal sums price times quantity over all lines using the snapshot prices.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
