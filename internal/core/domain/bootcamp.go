package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultPhoto = "no-photo.jpg"

// Careers a bootcamp may advertise.
var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// Location is a GeoJSON point plus the address parts returned by the geocoder.
type Location struct {
	Type             string    `json:"type,omitempty" bson:"type,omitempty"`
	Coordinates      []float64 `json:"coordinates,omitempty" bson:"coordinates,omitempty"` // [lng, lat]
	FormattedAddress string    `json:"formattedAddress,omitempty" bson:"formattedAddress,omitempty"`
	Street           string    `json:"street,omitempty" bson:"street,omitempty"`
	City             string    `json:"city,omitempty" bson:"city,omitempty"`
	State            string    `json:"state,omitempty" bson:"state,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty" bson:"zipcode,omitempty"`
	Country          string    `json:"country,omitempty" bson:"country,omitempty"`
}

// Bootcamp is the parent aggregate. AverageCost and AverageRating are owned by
// the aggregate recalculator and are absent while the bootcamp has no children.
type Bootcamp struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Slug          string             `json:"slug" bson:"slug"`
	Description   string             `json:"description" bson:"description"`
	Website       string             `json:"website,omitempty" bson:"website,omitempty"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty"`
	Location      *Location          `json:"location,omitempty" bson:"location,omitempty"`
	Careers       []string           `json:"careers" bson:"careers"`
	AverageRating *float64           `json:"averageRating,omitempty" bson:"averageRating,omitempty"`
	AverageCost   *float64           `json:"averageCost,omitempty" bson:"averageCost,omitempty"`
	Photo         string             `json:"photo" bson:"photo"`
	Housing       bool               `json:"housing" bson:"housing"`
	JobAssistance bool               `json:"jobAssistance" bson:"jobAssistance"`
	JobGuarantee  bool               `json:"jobGuarantee" bson:"jobGuarantee"`
	AcceptGi      bool               `json:"acceptGi" bson:"acceptGi"`
	User          primitive.ObjectID `json:"user" bson:"user"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`

	// Publisher repeats User for bootcamps owned by non-admins. Its unique
	// index allows each publisher a single bootcamp.
	Publisher *primitive.ObjectID `json:"-" bson:"publisher,omitempty"`
}

// OwnedBy reports whether u may mutate the bootcamp.
func (b *Bootcamp) OwnedBy(u *User) bool {
	return CanModify(u, b.User)
}
