package query

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultSort orders newest records first.
const DefaultSort = "-createdAt"

func defaultSort() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}}
}

// Sort turns "name,-averageCost" into an ordered sort document. A leading
// minus means descending. An empty value yields DefaultSort.
func Sort(raw string, schema Schema) (bson.D, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultSort(), nil
	}

	var out bson.D
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(part, "-") {
			dir = -1
			part = part[1:]
		}
		if _, ok := schema.kind(part); !ok {
			return nil, &Error{Param: "sort", Msg: fmt.Sprintf("cannot sort by unknown field %q", part)}
		}
		if seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, bson.E{Key: dbName(part), Value: dir})
	}
	if len(out) == 0 {
		return defaultSort(), nil
	}
	return out, nil
}

// Select parses "name,description" into a field list. Hidden fields can never
// be selected; the id is always returned regardless. A path and one of its
// children cannot be selected together.
func Select(raw string, schema Schema) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var fields []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		if _, ok := schema.kind(f); !ok {
			return nil, &Error{Param: "select", Msg: fmt.Sprintf("cannot select unknown field %q", f)}
		}
		seen[f] = true
		fields = append(fields, f)
	}
	for _, a := range fields {
		for _, b := range fields {
			if strings.HasPrefix(b, a+".") {
				return nil, &Error{Param: "select", Msg: fmt.Sprintf("cannot select both %q and %q", a, b)}
			}
		}
	}
	return fields, nil
}
