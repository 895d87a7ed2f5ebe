package catalog

import (
	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/money"
	"github.com/DerickDutraDev/store-GBS/notice"
)

// ProductView is a product card: the stored fields plus display labels.
type ProductView struct {
	models.Product
	Path               string `json:"path"`
	PriceLabel         string `json:"price_label"`
	OriginalPriceLabel string `json:"original_price_label,omitempty"`
	DiscountPercent    int64  `json:"discount_percent,omitempty"`
}

func View(p models.Product) ProductView {
	v := ProductView{
		Product:    p,
		Path:       "/products/" + p.ID,
		PriceLabel: money.Format(p.Price),
	}
	if p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price) {
		v.OriginalPriceLabel = money.Format(*p.OriginalPrice)
		v.DiscountPercent = money.DiscountPercent(p.Price, *p.OriginalPrice)
	}
	return v
}

func Views(products []models.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, View(p))
	}
	return out
}

type ResultView struct {
	Products []ProductView  `json:"products"`
	Count    int            `json:"count"`
	Notice   *notice.Notice `json:"notice,omitempty"`
}

func (r Result) View() ResultView {
	return ResultView{Products: Views(r.Products), Count: len(r.Products), Notice: r.Notice}
}
