package cartcontroller

import (
	"github.com/shopspring/decimal"

	"github.com/DerickDutraDev/store-GBS/cart"
	"github.com/DerickDutraDev/store-GBS/money"
	"github.com/DerickDutraDev/store-GBS/notice"
)

type lineView struct {
	cart.Line
	Path           string `json:"path"`
	UnitPriceLabel string `json:"unit_price_label"`
	SubtotalLabel  string `json:"subtotal_label"`
}

type cartView struct {
	Lines      []lineView      `json:"lines"`
	ItemCount  int             `json:"item_count"`
	Total      decimal.Decimal `json:"total"`
	TotalLabel string          `json:"total_label"`
	Empty      bool            `json:"empty"`
	Notice     *notice.Notice  `json:"notice,omitempty"`
}

func newView(sum cart.Summary) cartView {
	v := cartView{
		Lines:      make([]lineView, 0, len(sum.Lines)),
		ItemCount:  sum.ItemCount,
		Total:      sum.Total,
		TotalLabel: money.Format(sum.Total),
		Empty:      len(sum.Lines) == 0,
	}
	for _, ln := range sum.Lines {
		lv := lineView{
			Line:           ln,
			UnitPriceLabel: money.Format(ln.UnitPrice),
			SubtotalLabel:  money.Format(ln.Subtotal),
		}
		if !ln.Missing {
			lv.Path = "/products/" + ln.ProductID
		}
		v.Lines = append(v.Lines, lv)
	}
	return v
}

func (v cartView) has(productID string) bool {
	for _, ln := range v.Lines {
		if ln.ProductID == productID {
			return true
		}
	}
	return false
}
