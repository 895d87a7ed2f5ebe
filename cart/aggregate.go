// Package cart folds a user's raw cart rows into display lines and totals.
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is shown for lines whose product no longer exists.
const PlaceholderImage = "/placeholder.svg"

// PricePolicy decides which unit price a line is charged at.
type PricePolicy int

const (
	// PriceLive always charges the current catalog price.
	PriceLive PricePolicy = iota
	// PriceSnapshot charges the price captured when the row was added,
	// falling back to the catalog price for rows without one. Rows whose
	// product was deleted are still charged nothing.
	PriceSnapshot
)

func ParsePricePolicy(s string) (PricePolicy, error) {
	switch s {
	case "", "live":
		return PriceLive, nil
	case "snapshot":
		return PriceSnapshot, nil
	default:
		return PriceLive, fmt.Errorf("unknown cart price policy %q", s)
	}
}

func (p PricePolicy) String() string {
	if p == PriceSnapshot {
		return "snapshot"
	}
	return "live"
}

// Row is a stored cart item as read from the store.
type Row struct {
	ID            string
	ProductID     string
	Quantity      int
	SnapshotPrice *decimal.Decimal
}

// Product is the current catalog state of a referenced product.
type Product struct {
	Name  string
	Price decimal.Decimal
	Image string
}

type Line struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Missing   bool            `json:"missing,omitempty"`
}

type Summary struct {
	Lines     []Line          `json:"lines"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// Aggregate merges rows sharing a product into one line, keeping the first
// row's ID and the first-seen product order. A product absent from lookup
// still yields a line, priced at zero with a placeholder image.
func Aggregate(rows []Row, lookup map[string]Product, policy PricePolicy) Summary {
	sum := Summary{Lines: make([]Line, 0, len(rows)), Total: decimal.Zero}
	index := make(map[string]int, len(rows))

	for _, r := range rows {
		p, found := lookup[r.ProductID]
		unit := unitPrice(r, p, found, policy)
		sub := unit.Mul(decimal.NewFromInt(int64(r.Quantity)))

		if i, ok := index[r.ProductID]; ok {
			sum.Lines[i].Quantity += r.Quantity
			sum.Lines[i].Subtotal = sum.Lines[i].Subtotal.Add(sub)
		} else {
			ln := Line{
				ID:        r.ID,
				ProductID: r.ProductID,
				UnitPrice: unit,
				Quantity:  r.Quantity,
				Subtotal:  sub,
			}
			if found {
				ln.Name = p.Name
				ln.Image = p.Image
			} else {
				ln.Missing = true
			}
			if ln.Image == "" {
				ln.Image = PlaceholderImage
			}
			index[r.ProductID] = len(sum.Lines)
			sum.Lines = append(sum.Lines, ln)
		}

		sum.ItemCount += r.Quantity
		sum.Total = sum.Total.Add(sub)
	}
	return sum
}

func unitPrice(r Row, p Product, found bool, policy PricePolicy) decimal.Decimal {
	switch {
	case !found:
		return decimal.Zero
	case policy == PriceSnapshot && r.SnapshotPrice != nil:
		return *r.SnapshotPrice
	default:
		return p.Price
	}
}
