// AngelaMos | 2026
// query.go

package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 100

	// versionField is the reserved internal versioning field excluded
	// from projections unless the client asks for specific fields.
	versionField = "__v"
)

// reserved parameters drive later stages and never become filters.
var reserved = map[string]struct{}{
	"page":     {},
	"sort":     {},
	"limit":    {},
	"fields":   {},
	"populate": {},
}

// comparison operator tokens rewritten to their mongo equivalents.
var operators = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// Options describes a pending list query. Parse only builds it; nothing
// executes until a repository applies it to a collection exactly once.
type Options struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Page       int64
	Limit      int64
}

// Parse refines raw request parameters through the four ordered stages:
// filter, sort, field selection, pagination.
func Parse(values url.Values) Options {
	return Options{
		Filter:     parseFilter(values),
		Sort:       parseSort(values.Get("sort")),
		Projection: parseFields(values.Get("fields")),
		Page:       parsePositive(values.Get("page"), DefaultPage),
		Limit:      clampLimit(parsePositive(values.Get("limit"), DefaultLimit)),
	}
}

func (o Options) Skip() int64 {
	return (o.Page - 1) * o.Limit
}

// Find assembles the driver options for the single execution point.
func (o Options) Find() *options.FindOptions {
	opts := options.Find().
		SetSort(o.Sort).
		SetSkip(o.Skip()).
		SetLimit(o.Limit)

	if len(o.Projection) > 0 {
		opts.SetProjection(o.Projection)
	}

	return opts
}

// Merge overlays a scoping filter (e.g. {tour: id} for nested routes, or
// a default-visibility condition) on top of the client filter. The scope
// wins on key conflicts.
func (o Options) Merge(scope bson.M) Options {
	merged := make(bson.M, len(o.Filter)+len(scope))
	for k, v := range o.Filter {
		merged[k] = v
	}
	for k, v := range scope {
		merged[k] = v
	}
	o.Filter = merged
	return o
}

func parseFilter(values url.Values) bson.M {
	filter := bson.M{}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		field, op := splitOperator(key)
		if _, skip := reserved[field]; skip {
			continue
		}

		value := coerce(vals[0])

		if op == "" {
			filter[field] = value
			continue
		}

		// stack multiple comparisons on the same field:
		// ?duration[gte]=5&duration[lt]=10
		if existing, ok := filter[field].(bson.M); ok {
			existing[op] = value
			continue
		}
		filter[field] = bson.M{op: value}
	}

	return filter
}

// splitOperator decodes "duration[gte]" into ("duration", "$gte").
// Unknown bracket tokens are treated as part of the field name.
func splitOperator(key string) (string, string) {
	open := strings.IndexByte(key, '[')
	if open < 1 || !strings.HasSuffix(key, "]") {
		return key, ""
	}

	token := key[open+1 : len(key)-1]
	if op, ok := operators[token]; ok {
		return key[:open], op
	}

	return key, ""
}

// coerce turns numeric and boolean parameter strings into their typed
// values so mongo comparisons work; anything else stays a string.
func coerce(s string) any {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func parseSort(s string) bson.D {
	if s == "" {
		// newest created first
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	var sort bson.D
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = field[1:]
		}

		sort = append(sort, bson.E{Key: field, Value: order})
	}

	if len(sort) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	return sort
}

func parseFields(s string) bson.M {
	if s == "" {
		return bson.M{versionField: 0}
	}

	projection := bson.M{}
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == versionField {
			continue
		}
		projection[field] = 1
	}

	if len(projection) == 0 {
		return bson.M{versionField: 0}
	}

	return projection
}

func parsePositive(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return fallback
	}

	return n
}

func clampLimit(limit int64) int64 {
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
