package domain

import "github.com/devcamper/bootcamp-api/internal/core/query"

// Query schemas: the fields list endpoints may filter, sort and select on.

var BootcampSchema = query.Schema{
	Fields: map[string]query.Kind{
		"id":                        query.ObjectID,
		"name":                      query.String,
		"slug":                      query.String,
		"description":               query.String,
		"website":                   query.String,
		"phone":                     query.String,
		"email":                     query.String,
		"location":                  query.String,
		"location.city":             query.String,
		"location.state":            query.String,
		"location.zipcode":          query.String,
		"location.country":          query.String,
		"location.formattedAddress": query.String,
		"careers":                   query.String,
		"averageRating":             query.Number,
		"averageCost":               query.Number,
		"photo":                     query.String,
		"housing":                   query.Bool,
		"jobAssistance":             query.Bool,
		"jobGuarantee":              query.Bool,
		"acceptGi":                  query.Bool,
		"user":                      query.ObjectID,
		"createdAt":                 query.Time,
	},
}

var CourseSchema = query.Schema{
	Fields: map[string]query.Kind{
		"id":                   query.ObjectID,
		"title":                query.String,
		"description":          query.String,
		"weeks":                query.String,
		"tuition":              query.Number,
		"minimumSkill":         query.String,
		"scholarshipAvailable": query.Bool,
		"bootcamp":             query.ObjectID,
		"user":                 query.ObjectID,
		"createdAt":            query.Time,
	},
}

var ReviewSchema = query.Schema{
	Fields: map[string]query.Kind{
		"id":        query.ObjectID,
		"title":     query.String,
		"text":      query.String,
		"rating":    query.Number,
		"bootcamp":  query.ObjectID,
		"user":      query.ObjectID,
		"createdAt": query.Time,
	},
}

var UserSchema = query.Schema{
	Fields: map[string]query.Kind{
		"id":        query.ObjectID,
		"name":      query.String,
		"email":     query.String,
		"role":      query.String,
		"createdAt": query.Time,
	},
	Hidden: []string{"password", "resetPasswordToken", "resetPasswordExpire"},
}
