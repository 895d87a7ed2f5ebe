package productcontroller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/DerickDutraDev/store-GBS/catalog"
	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/storage"
)

const maxRating = 5

// readForm applies the submitted product fields to p. When partial is set,
// fields that were not sent keep their current value.
func readForm(c *gin.Context, p *models.Product, partial bool) error {
	field := func(name string) (string, bool) {
		v, ok := c.GetPostForm(name)
		return strings.TrimSpace(v), ok
	}

	if v, ok := field("name"); ok || !partial {
		if v == "" {
			return errors.New("name is required")
		}
		p.Name = v
	}

	if v, ok := field("team_slug"); ok || !partial {
		slug := catalog.Slugify(v)
		if slug == "" {
			return errors.New("team_slug is required")
		}
		p.TeamSlug = slug
	}

	if v, ok := field("price"); ok || !partial {
		price, err := parsePrice(v)
		if err != nil {
			return fmt.Errorf("invalid price: %w", err)
		}
		p.Price = price
	}

	if v, ok := field("original_price"); ok || !partial {
		if v == "" {
			p.OriginalPrice = nil
		} else {
			op, err := parsePrice(v)
			if err != nil {
				return fmt.Errorf("invalid original_price: %w", err)
			}
			p.OriginalPrice = &op
		}
	}

	if v, ok := field("is_new"); ok || !partial {
		p.IsNew = parseFlag(v)
	}
	if v, ok := field("is_bestseller"); ok || !partial {
		p.IsBestseller = parseFlag(v)
	}

	if v, ok := field("rating"); ok || !partial {
		r, err := parseRating(v)
		if err != nil {
			return err
		}
		p.Rating = r
	}
	return nil
}

// parsePrice accepts "349.90" and the comma decimal separator "349,90".
func parsePrice(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, errors.New("empty")
	}
	d, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.New("must be greater than zero")
	}
	return d.Round(2), nil
}

func parseRating(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	r, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
	if err != nil || r < 0 || r > maxRating {
		return 0, fmt.Errorf("rating must be between 0 and %d", maxRating)
	}
	return r, nil
}

// parseFlag reads checkbox values: "on", "true", "1".
func parseFlag(v string) bool {
	if strings.EqualFold(v, "on") {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// storeImage uploads the "image" file when one was sent and otherwise uses
// the "image_url" field. uploaded is the object path written to the bucket,
// empty when nothing was uploaded.
func (d Deps) storeImage(c *gin.Context) (url, uploaded string, err error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return strings.TrimSpace(c.PostForm("image_url")), "", nil
		}
		return "", "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	objectPath := storage.ProductImagePath(d.now(), fh.Filename)
	url, err = d.Bucket.Upload(c.Request.Context(), objectPath, f, fh.Header.Get("Content-Type"))
	if err != nil {
		return "", "", err
	}
	return url, objectPath, nil
}
