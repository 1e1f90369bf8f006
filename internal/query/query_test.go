// AngelaMos | 2026
// query_test.go

package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseFilterEquality(t *testing.T) {
	opts := Parse(url.Values{
		"difficulty": []string{"easy"},
		"duration":   []string{"5"},
	})

	assert.Equal(t, bson.M{
		"difficulty": "easy",
		"duration":   float64(5),
	}, opts.Filter)
}

func TestParseFilterOperatorRewrite(t *testing.T) {
	opts := Parse(url.Values{
		"duration[gte]": []string{"5"},
		"price[lt]":     []string{"1500"},
	})

	assert.Equal(t, bson.M{
		"duration": bson.M{"$gte": float64(5)},
		"price":    bson.M{"$lt": float64(1500)},
	}, opts.Filter)
}

func TestParseFilterStacksOperatorsOnOneField(t *testing.T) {
	opts := Parse(url.Values{
		"duration[gte]": []string{"5"},
		"duration[lt]":  []string{"10"},
	})

	assert.Equal(t, bson.M{
		"duration": bson.M{"$gte": float64(5), "$lt": float64(10)},
	}, opts.Filter)
}

func TestParseFilterIgnoresReservedParams(t *testing.T) {
	opts := Parse(url.Values{
		"page":     []string{"2"},
		"sort":     []string{"price"},
		"limit":    []string{"10"},
		"fields":   []string{"name"},
		"populate": []string{"reviews"},
		"price":    []string{"500"},
	})

	assert.Equal(t, bson.M{"price": float64(500)}, opts.Filter)
}

func TestParseFilterUnknownBracketTokenStays(t *testing.T) {
	opts := Parse(url.Values{"price[weird]": []string{"5"}})

	assert.Equal(t, bson.M{"price[weird]": float64(5)}, opts.Filter)
}

func TestParseSort(t *testing.T) {
	opts := Parse(url.Values{"sort": []string{"-price,name"}})

	assert.Equal(t, bson.D{
		{Key: "price", Value: -1},
		{Key: "name", Value: 1},
	}, opts.Sort)
}

func TestParseSortDefault(t *testing.T) {
	opts := Parse(url.Values{})

	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, opts.Sort)
}

func TestParseFieldsProjection(t *testing.T) {
	opts := Parse(url.Values{"fields": []string{"name,price"}})

	assert.Equal(t, bson.M{"name": 1, "price": 1}, opts.Projection)
}

func TestParseFieldsDefaultExcludesVersionField(t *testing.T) {
	opts := Parse(url.Values{})

	assert.Equal(t, bson.M{"__v": 0}, opts.Projection)
}

func TestParsePaginationDefaults(t *testing.T) {
	opts := Parse(url.Values{})

	assert.Equal(t, int64(1), opts.Page)
	assert.Equal(t, int64(100), opts.Limit)
	assert.Equal(t, int64(0), opts.Skip())
}

func TestParsePaginationSkip(t *testing.T) {
	opts := Parse(url.Values{
		"page":  []string{"3"},
		"limit": []string{"10"},
	})

	assert.Equal(t, int64(20), opts.Skip())
}

func TestParseLimitCapped(t *testing.T) {
	opts := Parse(url.Values{"limit": []string{"500"}})

	assert.Equal(t, int64(100), opts.Limit)
}

func TestParseInvalidPageFallsBack(t *testing.T) {
	opts := Parse(url.Values{"page": []string{"-3"}})

	assert.Equal(t, int64(1), opts.Page)
}

func TestParseIsIdempotent(t *testing.T) {
	values := url.Values{
		"duration[gte]": []string{"5"},
		"sort":          []string{"-price"},
		"fields":        []string{"name,price"},
		"page":          []string{"2"},
		"limit":         []string{"10"},
	}

	first := Parse(values)
	second := Parse(values)

	assert.Equal(t, first, second)
}

func TestMergeScopeWinsOnConflict(t *testing.T) {
	opts := Parse(url.Values{"tour": []string{"abc"}})

	merged := opts.Merge(bson.M{"tour": "real-id"})

	assert.Equal(t, "real-id", merged.Filter["tour"])
	// the original is untouched
	assert.Equal(t, "abc", opts.Filter["tour"])
}

func TestMergeNilScope(t *testing.T) {
	opts := Parse(url.Values{"price": []string{"500"}})

	merged := opts.Merge(nil)

	assert.Equal(t, bson.M{"price": float64(500)}, merged.Filter)
}

func TestFindOptions(t *testing.T) {
	opts := Parse(url.Values{
		"page":  []string{"2"},
		"limit": []string{"20"},
	})

	findOpts := opts.Find()
	require.NotNil(t, findOpts)
	assert.Equal(t, int64(20), *findOpts.Skip)
	assert.Equal(t, int64(20), *findOpts.Limit)
}
