package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
)

func snapshot(name, price string) Snapshot {
	return Snapshot{
		ProductID: uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
	}
}

func TestAddLineMergesSameProduct(t *testing.T) {
	c := New()
	chair := snapshot("Chair", "50.00")

	c.AddLine(chair, 1)
	c.AddLine(chair, 2)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
}

func TestAddLineDefaultsQuantityToOne(t *testing.T) {
	c := New()
	c.AddLine(snapshot("Stool", "20.00"), 0)
	if got := c.Lines()[0].Quantity; got != 1 {
		t.Fatalf("expected quantity 1, got %d", got)
	}
}

func TestSetQuantityRejectsBelowOne(t *testing.T) {
	c := New()
	chair := snapshot("Chair", "50.00")
	c.AddLine(chair, 2)

	err := c.SetQuantity(chair.ProductID, 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := c.Lines()[0].Quantity; got != 2 {
		t.Fatalf("rejected update must not mutate, got quantity %d", got)
	}

	if err := c.SetQuantity(chair.ProductID, 5); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if got := c.Lines()[0].Quantity; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
}

func TestSetQuantityUnknownProduct(t *testing.T) {
	c := New()
	err := c.SetQuantity(uuid.New(), 2)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveLineAndClear(t *testing.T) {
	c := New()
	chair := snapshot("Chair", "50.00")
	table := snapshot("Table", "300.00")
	lamp := snapshot("Lamp", "35.00")

	c.AddLine(chair, 1)
	c.AddLine(table, 1)
	c.AddLine(lamp, 1)

	c.RemoveLine(table.ProductID)
	if c.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", c.Len())
	}
	// removing again is a no-op
	c.RemoveLine(table.ProductID)
	if c.Len() != 2 {
		t.Fatalf("repeat removal changed the cart, got %d lines", c.Len())
	}

	// index must stay consistent after the shift
	if err := c.SetQuantity(lamp.ProductID, 4); err != nil {
		t.Fatalf("set quantity after removal: %v", err)
	}
	lines := c.Lines()
	if lines[1].ProductID != lamp.ProductID || lines[1].Quantity != 4 {
		t.Fatalf("unexpected lines after removal: %+v", lines)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", c.Len())
	}
	if !c.Subtotal().IsZero() {
		t.Fatalf("expected zero subtotal, got %s", c.Subtotal())
	}
}

func TestSubtotalUsesSnapshotPrices(t *testing.T) {
	c := New()
	chair := snapshot("Chair", "50.00")
	table := snapshot("Table", "300.00")

	c.AddLine(chair, 2)
	c.AddLine(table, 1)

	want := decimal.RequireFromString("400.00")
	if got := c.Subtotal(); !got.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, got)
	}
}
