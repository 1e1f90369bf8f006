// AngelaMos | 2026
// collection_test.go

package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestScopedMergesDefaultFilter(t *testing.T) {
	c := NewCollection[widget](nil, bson.M{"secretTour": bson.M{"$ne": true}})

	got := c.scoped(bson.M{"price": bson.M{"$lt": 500.0}})

	assert.Equal(t, bson.M{
		"price":      bson.M{"$lt": 500.0},
		"secretTour": bson.M{"$ne": true},
	}, got)
}

func TestScopedAppliesToEmptyFilter(t *testing.T) {
	c := NewCollection[widget](nil, bson.M{"active": bson.M{"$ne": false}})

	got := c.scoped(bson.M{})

	assert.Equal(t, bson.M{"active": bson.M{"$ne": false}}, got)
}

func TestScopedWinsOnConflict(t *testing.T) {
	c := NewCollection[widget](nil, bson.M{"secretTour": bson.M{"$ne": true}})

	// a caller-supplied secretTour=true must not widen visibility
	got := c.scoped(bson.M{"secretTour": true})

	assert.Equal(t, bson.M{"secretTour": bson.M{"$ne": true}}, got)
}

func TestScopedDoesNotMutateCallerFilter(t *testing.T) {
	c := NewCollection[widget](nil, bson.M{"active": bson.M{"$ne": false}})

	filter := bson.M{"role": "guide"}
	_ = c.scoped(filter)

	assert.Equal(t, bson.M{"role": "guide"}, filter)
}

func TestScopedNoScopePassesThrough(t *testing.T) {
	c := NewCollection[widget](nil, nil)

	filter := bson.M{"rating": bson.M{"$gte": 4.0}}

	assert.Equal(t, filter, c.scoped(filter))
}

func TestUnscopedLiftsScope(t *testing.T) {
	c := NewCollection[widget](nil, bson.M{"secretTour": bson.M{"$ne": true}})

	got := c.Unscoped().scoped(bson.M{"_id": "abc"})

	assert.Equal(t, bson.M{"_id": "abc"}, got)
}
