package models

import "time"

// ApplicationKind names the collection a submission is written to.
type ApplicationKind string

const (
	KindProgram   ApplicationKind = "program_applications"
	KindEventRSVP ApplicationKind = "event_rsvps"
	KindVolunteer ApplicationKind = "volunteer_applications"
)

// Kinds lists every application collection.
var Kinds = []ApplicationKind{KindProgram, KindEventRSVP, KindVolunteer}

// ParseKind accepts either the collection name or its short alias.
func ParseKind(s string) (ApplicationKind, bool) {
	switch s {
	case string(KindProgram), "programs", "program":
		return KindProgram, true
	case string(KindEventRSVP), "rsvps", "events", "event":
		return KindEventRSVP, true
	case string(KindVolunteer), "volunteers", "volunteer":
		return KindVolunteer, true
	}
	return "", false
}

// Application statuses.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Application is a write-once-per-email submission. Target holds the program
// track, event title or volunteer area it refers to, matched by string.
type Application struct {
	ID           string          `bson:"id" json:"id"`
	Kind         ApplicationKind `bson:"kind" json:"kind"`
	Email        string          `bson:"email" json:"email"`
	FullName     string          `bson:"full_name" json:"fullName"`
	Phone        string          `bson:"phone,omitempty" json:"phone,omitempty"`
	Target       string          `bson:"target" json:"target"`
	Message      string          `bson:"message,omitempty" json:"message,omitempty"`
	Guests       int             `bson:"guests,omitempty" json:"guests,omitempty"`
	Availability string          `bson:"availability,omitempty" json:"availability,omitempty"`
	Skills       []string        `bson:"skills,omitempty" json:"skills,omitempty"`
	UserID       string          `bson:"user_id,omitempty" json:"userId,omitempty"`
	Status       string          `bson:"status" json:"status"`
	CreatedAt    time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `bson:"updated_at" json:"updatedAt"`
}
