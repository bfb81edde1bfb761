package viewmodel

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestFilter_EmptyQueryReturnsSameSlice(t *testing.T) {
	items := []row{{Name: "b"}, {Name: "a"}}
	got := Filter(items, "", rowFields)
	assert.Equal(t, items, got)
	assert.Same(t, &items[0], &got[0])
}

func TestFilter_SubstringCaseInsensitive(t *testing.T) {
	items := []row{
		{Name: "Apple Inc.", Code: "AAPL"},
		{Name: "Pineapple Co", Code: "PNA"},
		{Name: "Microsoft", Code: "MSFT"},
		{Name: "", Code: ""},
	}

	got := Filter(items, "APPLE", rowFields)
	assert.Equal(t, []row{items[0], items[1]}, got)

	got = Filter(items, "sft", rowFields)
	assert.Equal(t, []row{items[2]}, got)

	got = Filter(items, "zzz", rowFields)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFilter_MissingFieldsAreEmpty(t *testing.T) {
	items := []row{{Name: "Only name"}}
	assert.Len(t, Filter(items, "only", rowFields), 1)
	assert.Empty(t, Filter(items, "code", rowFields))
}

func TestFilter_NoFieldsKeepsAll(t *testing.T) {
	items := []row{{Name: "a"}}
	assert.Equal(t, items, Filter(items, "x", nil))
}

func TestSum_NilIsZero(t *testing.T) {
	items := []row{{Value: num(1.5)}, {}, {Value: num(-0.5)}}
	assert.Equal(t, 1.0, Sum(items, func(r row) *float64 { return r.Value }))
	assert.Equal(t, 0.0, Sum([]row(nil), func(r row) *float64 { return r.Value }))
}

func genRows() gopter.Gen {
	return gen.SliceOf(gen.Struct(reflect.TypeOf(row{}), map[string]gopter.Gen{
		"Name": gen.AlphaString(),
		"Code": gen.AlphaString(),
	}))
}

func TestFilter_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("result is an order preserving subsequence", prop.ForAll(
		func(items []row, q string) bool {
			got := Filter(items, q, rowFields)
			i := 0
			for _, g := range got {
				for i < len(items) && items[i] != g {
					i++
				}
				if i == len(items) {
					return false
				}
				i++
			}
			return true
		},
		genRows(),
		gen.AlphaString(),
	))

	properties.Property("every kept row matches and every dropped row does not", prop.ForAll(
		func(items []row, q string) bool {
			if q == "" {
				return len(Filter(items, q, rowFields)) == len(items)
			}
			lq := strings.ToLower(q)
			want := 0
			for _, it := range items {
				if strings.Contains(strings.ToLower(it.Name), lq) || strings.Contains(strings.ToLower(it.Code), lq) {
					want++
				}
			}
			got := Filter(items, q, rowFields)
			for _, g := range got {
				if !Matches(rowFields(g), lq) {
					return false
				}
			}
			return len(got) == want
		},
		genRows(),
		gen.AlphaString(),
	))

	properties.Property("query case does not matter", prop.ForAll(
		func(items []row, q string) bool {
			a := Filter(items, strings.ToUpper(q), rowFields)
			b := Filter(items, strings.ToLower(q), rowFields)
			return len(a) == len(b)
		},
		genRows(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestSum_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sum over filtered rows equals sum of matching values", prop.ForAll(
		func(names []string, values []int, q string) bool {
			items := make([]row, 0, len(names))
			for i, n := range names {
				r := row{Name: n}
				if i < len(values) {
					r.Value = num(float64(values[i]))
				}
				items = append(items, r)
			}

			var want float64
			lq := strings.ToLower(q)
			for _, it := range items {
				if (q == "" || strings.Contains(strings.ToLower(it.Name), lq)) && it.Value != nil {
					want += *it.Value
				}
			}
			got := Sum(Filter(items, q, rowFields), func(r row) *float64 { return r.Value })
			return got == want
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.IntRange(-1000, 1000)),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
