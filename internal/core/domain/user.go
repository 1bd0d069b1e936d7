package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// User models an authenticated actor in the system. Credential fields are
// stored but never serialized.
type User struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                string             `json:"name" bson:"name"`
	Email               string             `json:"email" bson:"email"`
	Role                string             `json:"role" bson:"role"`
	PasswordHash        string             `json:"-" bson:"password,omitempty"`
	ResetPasswordToken  string             `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time         `json:"-" bson:"resetPasswordExpire,omitempty"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// CanModify reports whether u owns a resource owned by owner, or is an admin.
func CanModify(u *User, owner primitive.ObjectID) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || (!u.ID.IsZero() && u.ID == owner)
}
