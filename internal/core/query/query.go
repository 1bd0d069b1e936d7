// Package query turns list-endpoint query strings into MongoDB filters,
// projections, sort documents and page windows.
//
// Every entity exposes a Schema listing the fields clients may filter, sort
// and select on. Anything outside the schema is rejected with *Error, so a
// query string can never smuggle operators in through key names.
package query

import (
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
)

// Kind is the storage type of a schema field, used to cast query-string values.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Time
	ObjectID
)

// Schema describes the queryable surface of one collection.
type Schema struct {
	// Fields maps API field names (dotted for nested documents) to their kind.
	Fields map[string]Kind
	// Hidden lists stored fields excluded from every read unless a caller
	// explicitly selects other fields.
	Hidden []string
}

func (s Schema) kind(field string) (Kind, bool) {
	k, ok := s.Fields[field]
	return k, ok
}

// Error is returned for any query string that cannot be translated.
type Error struct {
	Param string
	Msg   string
}

func (e *Error) Error() string { return e.Msg }

// Query is the translated form of a list request.
type Query struct {
	Filter bson.M
	Sort   bson.D
	Fields []string
	Hidden []string
	Page   int
	Limit  int
}

// New returns the query used when a request carries no parameters.
func New(schema Schema) Query {
	return Query{
		Filter: bson.M{},
		Sort:   defaultSort(),
		Hidden: schema.Hidden,
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}
}

// Parse runs the filter, select, sort and pagination steps over values.
func Parse(values url.Values, schema Schema) (Query, error) {
	filter, err := Filter(values, schema)
	if err != nil {
		return Query{}, err
	}
	fields, err := Select(values.Get("select"), schema)
	if err != nil {
		return Query{}, err
	}
	sort, err := Sort(values.Get("sort"), schema)
	if err != nil {
		return Query{}, err
	}
	page, limit := Window(values.Get("page"), values.Get("limit"))

	return Query{
		Filter: filter,
		Sort:   sort,
		Fields: fields,
		Hidden: schema.Hidden,
		Page:   page,
		Limit:  limit,
	}, nil
}

// Where returns a copy of q with an extra equality condition. It overrides any
// client-supplied condition on the same field.
func (q Query) Where(field string, value any) Query {
	f := make(bson.M, len(q.Filter)+1)
	for k, v := range q.Filter {
		f[k] = v
	}
	f[dbName(field)] = value
	q.Filter = f
	return q
}

// Size is the page size, clamped to 1..MaxLimit.
func (q Query) Size() int64 {
	return int64(min(max(q.Limit, 1), MaxLimit))
}

// Skip is the number of documents before the requested page. Out of range
// windows are clamped the same way Window clamps client input.
func (q Query) Skip() int64 {
	page := min(max(q.Page, 1), MaxPage)
	return int64(page-1) * q.Size()
}

// Projection returns the MongoDB projection for q, or nil for "all fields".
func (q Query) Projection() bson.M {
	if len(q.Fields) > 0 {
		p := make(bson.M, len(q.Fields))
		for _, f := range q.Fields {
			p[dbName(f)] = 1
		}
		return p
	}
	if len(q.Hidden) > 0 {
		p := make(bson.M, len(q.Hidden))
		for _, h := range q.Hidden {
			p[h] = 0
		}
		return p
	}
	return nil
}

func dbName(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}
