package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanModify(t *testing.T) {
	owner := primitive.NewObjectID()

	tests := []struct {
		name string
		user *User
		want bool
	}{
		{"owner", &User{ID: owner, Role: RolePublisher}, true},
		{"other publisher", &User{ID: primitive.NewObjectID(), Role: RolePublisher}, false},
		{"admin", &User{ID: primitive.NewObjectID(), Role: RoleAdmin}, true},
		{"zero id never owns", &User{Role: RoleUser}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := owner
			if tt.name == "zero id never owns" {
				o = primitive.NilObjectID
			}
			if got := CanModify(tt.user, o); got != tt.want {
				t.Fatalf("CanModify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	err := Errorf(ErrForbidden, "User %s is not authorized", "abc")
	if !errors.Is(err, ErrForbidden) {
		t.Fatal("Errorf must unwrap to its kind")
	}
	if err.Error() != "User abc is not authorized" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	bare := &Error{Kind: ErrGeocode}
	if bare.Error() != ErrGeocode.Error() {
		t.Fatalf("empty message must fall back to the kind, got %q", bare.Error())
	}
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := ParseID(id.Hex())
	if err != nil || got != id {
		t.Fatalf("ParseID(%s) = %v, %v", id.Hex(), got, err)
	}

	_, err = ParseID("not-an-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("malformed id must be not found, got %v", err)
	}
	if err.Error() != "Resource not found with id of not-an-id" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCourse_MarshalJSON(t *testing.T) {
	bootcampID := primitive.NewObjectID()
	c := Course{ID: primitive.NewObjectID(), Title: "Front End Web Development", Bootcamp: bootcampID}

	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"bootcamp":"`+bootcampID.Hex()+`"`) {
		t.Fatalf("expected the bare bootcamp id, got %s", raw)
	}

	full := c.WithBootcamp(&Bootcamp{ID: bootcampID, Name: "Devworks Bootcamp", Description: "Full stack"})
	raw, err = json.Marshal(full)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got struct {
		Title    string          `json:"title"`
		Bootcamp BootcampSummary `json:"bootcamp"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	if got.Title != c.Title || got.Bootcamp.Name != "Devworks Bootcamp" || got.Bootcamp.Description != "Full stack" || got.Bootcamp.ID != bootcampID {
		t.Fatalf("unexpected embedded bootcamp in %s", raw)
	}
	if c.Parent != nil {
		t.Fatal("WithBootcamp must not modify the receiver")
	}
}
