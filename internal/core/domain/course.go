package domain

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Course belongs to exactly one bootcamp and contributes its tuition to the
// bootcamp's averageCost.
type Course struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title                string             `json:"title" bson:"title"`
	Description          string             `json:"description" bson:"description"`
	Weeks                string             `json:"weeks" bson:"weeks"`
	Tuition              float64            `json:"tuition" bson:"tuition"`
	MinimumSkill         string             `json:"minimumSkill" bson:"minimumSkill"`
	ScholarshipAvailable bool               `json:"scholarshipAvailable" bson:"scholarshipAvailable"`
	Bootcamp             primitive.ObjectID `json:"bootcamp" bson:"bootcamp"`
	User                 primitive.ObjectID `json:"user" bson:"user"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`

	// Parent is filled on single reads only and replaces Bootcamp in JSON.
	Parent *BootcampSummary `json:"-" bson:"-"`
}

// BootcampSummary is the parent bootcamp embedded in a single course read.
type BootcampSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
}

// WithBootcamp returns a copy of c whose JSON "bootcamp" field is the summary
// of b instead of its bare id.
func (c Course) WithBootcamp(b *Bootcamp) *Course {
	c.Parent = &BootcampSummary{ID: b.ID, Name: b.Name, Description: b.Description}
	return &c
}

func (c Course) MarshalJSON() ([]byte, error) {
	type plain Course
	if c.Parent == nil {
		return json.Marshal(plain(c))
	}
	return json.Marshal(struct {
		plain
		Bootcamp *BootcampSummary `json:"bootcamp"`
	}{plain(c), c.Parent})
}
