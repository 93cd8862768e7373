// File: utils/query_features.go
package utils

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QueryFeatures translates list-endpoint query parameters into a Mongo filter
// and find options: filtering with gte/gt/lte/lt operators, comma-separated
// sort keys ("-" prefix for descending), field selection, and pagination.
type QueryFeatures struct {
	Filter bson.M
	Opts   *options.FindOptions
}

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// reserved parameters consumed by sorting/projection/pagination, everything
// else is treated as a filter field.
var reservedParams = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// ParseQueryFeatures builds QueryFeatures from raw URL query values.
func ParseQueryFeatures(values url.Values) QueryFeatures {
	filter := bson.M{}
	for key, vals := range values {
		if len(vals) == 0 || reservedParams[key] {
			continue
		}
		field, op := splitOperator(key)
		if field == "" {
			continue
		}
		val := coerceValue(vals[0])
		if op == "" {
			filter[field] = val
			continue
		}
		// Merge multiple operators on the same field, e.g. basePrice[gte]&basePrice[lte].
		sub, ok := filter[field].(bson.M)
		if !ok {
			sub = bson.M{}
			filter[field] = sub
		}
		sub["$"+op] = val
	}

	opts := options.Find()

	if sort := values.Get("sort"); sort != "" {
		var sortDoc bson.D
		for _, part := range strings.Split(sort, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			order := 1
			if strings.HasPrefix(part, "-") {
				order = -1
				part = part[1:]
			}
			sortDoc = append(sortDoc, bson.E{Key: part, Value: order})
		}
		if len(sortDoc) > 0 {
			opts.SetSort(sortDoc)
		}
	} else {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	if fields := values.Get("fields"); fields != "" {
		projection := bson.M{}
		for _, f := range strings.Split(fields, ",") {
			f = strings.TrimSpace(f)
			if f != "" {
				projection[f] = 1
			}
		}
		if len(projection) > 0 {
			opts.SetProjection(projection)
		}
	}

	page, _ := strconv.Atoi(values.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(values.Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	opts.SetSkip(int64((page - 1) * limit))
	opts.SetLimit(int64(limit))

	return QueryFeatures{Filter: filter, Opts: opts}
}

// splitOperator splits "basePrice[gte]" into ("basePrice", "gte"). Keys
// without a bracketed operator return an empty operator.
func splitOperator(key string) (string, string) {
	open := strings.Index(key, "[")
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	field := key[:open]
	op := key[open+1 : len(key)-1]
	switch op {
	case "gte", "gt", "lte", "lt":
		return field, op
	default:
		return field, ""
	}
}

// coerceValue converts a raw query value into the type Mongo should compare
// with: number, boolean, timestamp, or string.
func coerceValue(raw string) interface{} {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return raw
}
