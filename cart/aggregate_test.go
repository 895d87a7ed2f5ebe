package cart

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAggregateMergesSameProduct(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17} {
		t.Run(fmt.Sprintf("%d rows", n), func(t *testing.T) {
			rows := make([]Row, 0, n)
			want := 0
			for i := 0; i < n; i++ {
				rows = append(rows, Row{ID: fmt.Sprintf("row-%d", i), ProductID: "p1", Quantity: i + 1})
				want += i + 1
			}
			lookup := map[string]Product{"p1": {Name: "Flamengo Home 24/25", Price: price("199.90"), Image: "/f.jpg"}}

			sum := Aggregate(rows, lookup, PriceLive)

			require.Len(t, sum.Lines, 1)
			assert.Equal(t, want, sum.Lines[0].Quantity)
			assert.Equal(t, "row-0", sum.Lines[0].ID)
			assert.Equal(t, want, sum.ItemCount)
			assert.True(t, sum.Total.Equal(price("199.90").Mul(decimal.NewFromInt(int64(want)))))
		})
	}
}

func TestAggregateKeepsFirstSeenOrder(t *testing.T) {
	rows := []Row{
		{ID: "a", ProductID: "p3", Quantity: 1},
		{ID: "b", ProductID: "p1", Quantity: 1},
		{ID: "c", ProductID: "p2", Quantity: 1},
		{ID: "d", ProductID: "p1", Quantity: 2},
	}
	lookup := map[string]Product{
		"p1": {Name: "one", Price: price("1")},
		"p2": {Name: "two", Price: price("2")},
		"p3": {Name: "three", Price: price("3")},
	}

	sum := Aggregate(rows, lookup, PriceLive)

	require.Len(t, sum.Lines, 3)
	assert.Equal(t, []string{"p3", "p1", "p2"}, []string{sum.Lines[0].ProductID, sum.Lines[1].ProductID, sum.Lines[2].ProductID})
	assert.Equal(t, 3, sum.Lines[1].Quantity)
	assert.Equal(t, "8", sum.Total.String())
}

func TestAggregateTotalIsExact(t *testing.T) {
	rows := []Row{
		{ID: "a", ProductID: "home", Quantity: 2},
		{ID: "b", ProductID: "away", Quantity: 1},
	}
	lookup := map[string]Product{
		"home": {Name: "Flamengo Home 24/25", Price: price("199.90")},
		"away": {Name: "Barcelona Away", Price: price("89.50")},
	}

	sum := Aggregate(rows, lookup, PriceLive)

	assert.True(t, sum.Total.Equal(price("489.30")), "got %s", sum.Total)
	assert.Equal(t, "489.30", sum.Total.StringFixed(2))
}

func TestAggregateCentsDoNotDrift(t *testing.T) {
	rows := make([]Row, 0, 10)
	lookup := map[string]Product{}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("p%d", i)
		rows = append(rows, Row{ID: id, ProductID: id, Quantity: 1})
		lookup[id] = Product{Price: price("0.10")}
	}

	sum := Aggregate(rows, lookup, PriceLive)

	assert.True(t, sum.Total.Equal(price("1")), "got %s", sum.Total)
}

func TestAggregateMissingProduct(t *testing.T) {
	rows := []Row{
		{ID: "a", ProductID: "gone", Quantity: 3},
		{ID: "b", ProductID: "p1", Quantity: 1},
	}
	lookup := map[string]Product{"p1": {Name: "kept", Price: price("50")}}

	var sum Summary
	require.NotPanics(t, func() { sum = Aggregate(rows, lookup, PriceLive) })

	require.Len(t, sum.Lines, 2)
	gone := sum.Lines[0]
	assert.True(t, gone.Missing)
	assert.Empty(t, gone.Name)
	assert.Equal(t, PlaceholderImage, gone.Image)
	assert.True(t, gone.Subtotal.IsZero())
	assert.Equal(t, 3, gone.Quantity)
	assert.Equal(t, "50", sum.Total.String())
	assert.Equal(t, 4, sum.ItemCount)
}

func TestAggregatePricePolicy(t *testing.T) {
	old := price("149.90")
	rows := []Row{
		{ID: "a", ProductID: "p1", Quantity: 1, SnapshotPrice: &old},
		{ID: "b", ProductID: "p1", Quantity: 1},
	}
	lookup := map[string]Product{"p1": {Name: "PSG Home", Price: price("199.90")}}

	live := Aggregate(rows, lookup, PriceLive)
	assert.Equal(t, "399.8", live.Total.String())
	assert.Equal(t, "199.9", live.Lines[0].UnitPrice.String())

	snap := Aggregate(rows, lookup, PriceSnapshot)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "149.9", snap.Lines[0].UnitPrice.String())
	assert.Equal(t, "349.8", snap.Total.String())
	assert.Equal(t, "349.8", snap.Lines[0].Subtotal.String())
}

func TestAggregateEmpty(t *testing.T) {
	sum := Aggregate(nil, nil, PriceLive)

	assert.NotNil(t, sum.Lines)
	assert.Empty(t, sum.Lines)
	assert.True(t, sum.Total.IsZero())
}

func TestParsePricePolicy(t *testing.T) {
	p, err := ParsePricePolicy("snapshot")
	require.NoError(t, err)
	assert.Equal(t, PriceSnapshot, p)

	p, err = ParsePricePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PriceLive, p)

	_, err = ParsePricePolicy("frozen")
	assert.Error(t, err)
}
