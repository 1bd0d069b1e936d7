package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var reserved = map[string]struct{}{
	"select": {},
	"sort":   {},
	"page":   {},
	"limit":  {},
}

var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// Filter translates every non-reserved parameter into a MongoDB predicate.
//
//	careers=Business              -> {careers: "Business"}
//	averageCost[lte]=10000        -> {averageCost: {$lte: 10000}}
//	averageCost[gt]=1&...[lt]=9   -> {averageCost: {$gt: 1, $lt: 9}}
//	careers[in]=Business,UI/UX    -> {careers: {$in: ["Business", "UI/UX"]}}
func Filter(values url.Values, schema Schema) (bson.M, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		if _, skip := reserved[k]; !skip {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	filter := bson.M{}
	// mode records whether a field already holds an equality ("eq") or an operator document ("op").
	mode := make(map[string]string, len(keys))

	for _, key := range keys {
		field, op, err := splitKey(key)
		if err != nil {
			return nil, err
		}
		kind, ok := schema.kind(field)
		if !ok {
			return nil, &Error{Param: key, Msg: fmt.Sprintf("unknown field %q in query", field)}
		}
		name := dbName(field)
		raw := values[key]

		if op == "" {
			if mode[name] != "" {
				return nil, conflict(key, field)
			}
			v, err := castAll(kind, field, raw)
			if err != nil {
				return nil, err
			}
			if len(v) == 1 {
				filter[name] = v[0]
			} else {
				filter[name] = bson.M{"$in": v}
			}
			mode[name] = "eq"
			continue
		}

		mop, ok := operators[op]
		if !ok {
			return nil, &Error{Param: key, Msg: fmt.Sprintf("unsupported operator %q for field %q", op, field)}
		}
		if mode[name] == "eq" {
			return nil, conflict(key, field)
		}

		var value any
		if op == "in" {
			var parts []string
			for _, r := range raw {
				for _, p := range strings.Split(r, ",") {
					if p = strings.TrimSpace(p); p != "" {
						parts = append(parts, p)
					}
				}
			}
			if len(parts) == 0 {
				return nil, &Error{Param: key, Msg: fmt.Sprintf("empty list for field %q", field)}
			}
			list, err := castAll(kind, field, parts)
			if err != nil {
				return nil, err
			}
			value = list
		} else {
			if len(raw) != 1 {
				return nil, &Error{Param: key, Msg: fmt.Sprintf("operator %q on field %q takes a single value", op, field)}
			}
			v, err := cast(kind, field, raw[0])
			if err != nil {
				return nil, err
			}
			value = v
		}

		doc, _ := filter[name].(bson.M)
		if doc == nil {
			doc = bson.M{}
			filter[name] = doc
		}
		doc[mop] = value
		mode[name] = "op"
	}
	return filter, nil
}

// splitKey separates "field[op]" into its parts. A key without brackets has no operator.
func splitKey(key string) (field, op string, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if strings.ContainsRune(key, ']') || key == "" {
			return "", "", malformed(key)
		}
		return key, "", nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", malformed(key)
	}
	field, op = key[:open], key[open+1:len(key)-1]
	if op == "" || strings.ContainsAny(op, "[]") {
		return "", "", malformed(key)
	}
	return field, op, nil
}

func castAll(kind Kind, field string, raw []string) ([]any, error) {
	out := make([]any, 0, len(raw))
	for _, r := range raw {
		v, err := cast(kind, field, r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func cast(kind Kind, field, raw string) (any, error) {
	switch kind {
	case Number:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, invalid(field, raw)
		}
		return f, nil
	case Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, invalid(field, raw)
		}
		return b, nil
	case Time:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC(), nil
			}
		}
		return nil, invalid(field, raw)
	case ObjectID:
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, invalid(field, raw)
		}
		return id, nil
	default:
		return raw, nil
	}
}

func malformed(key string) *Error {
	return &Error{Param: key, Msg: fmt.Sprintf("malformed query parameter %q", key)}
}

func invalid(field, raw string) *Error {
	return &Error{Param: field, Msg: fmt.Sprintf("invalid value %q for field %q", raw, field)}
}

func conflict(key, field string) *Error {
	return &Error{Param: key, Msg: fmt.Sprintf("conflicting conditions for field %q", field)}
}
