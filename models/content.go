package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Record is implemented by every content entity stored in its own collection.
type Record interface {
	GetID() string
	SetID(id string)
	Created() time.Time
	SetCreated(t time.Time)
	Touch(now time.Time)
	Validate() error
}

// ErrInvalidContent wraps every content validation failure.
var ErrInvalidContent = errors.New("invalid content")

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidContent, msg)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func validURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Base carries the fields shared by all content records.
type Base struct {
	ID        string    `bson:"id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func (b *Base) GetID() string          { return b.ID }
func (b *Base) SetID(id string)        { b.ID = id }
func (b *Base) Created() time.Time     { return b.CreatedAt }
func (b *Base) SetCreated(t time.Time) { b.CreatedAt = t }

// Touch stamps UpdatedAt, and CreatedAt on first write.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

type Program struct {
	Base        `bson:",inline"`
	Title       string `bson:"title" json:"title"`
	Track       string `bson:"track" json:"track"`
	Description string `bson:"description" json:"description"`
	ImageURL    string `bson:"image_url" json:"imageUrl"`
	Schedule    string `bson:"schedule" json:"schedule"`
	Capacity    int    `bson:"capacity" json:"capacity"`
	Active      bool   `bson:"active" json:"active"`
}

type Event struct {
	Base        `bson:",inline"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Location    string    `bson:"location" json:"location"`
	Date        time.Time `bson:"date" json:"date"`
	ImageURL    string    `bson:"image_url" json:"imageUrl"`
	Capacity    int       `bson:"capacity" json:"capacity"`
}

// Opportunity kinds.
const (
	OpportunityJob        = "job"
	OpportunityInternship = "internship"
	OpportunityGrant      = "grant"
	OpportunityVolunteer  = "volunteer"
)

type Opportunity struct {
	Base         `bson:",inline"`
	Title        string     `bson:"title" json:"title"`
	Organization string     `bson:"organization" json:"organization"`
	Description  string     `bson:"description" json:"description"`
	Kind         string     `bson:"kind" json:"kind"`
	Link         string     `bson:"link" json:"link"`
	Deadline     *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
}

type GalleryImage struct {
	Base     `bson:",inline"`
	Title    string `bson:"title" json:"title"`
	Caption  string `bson:"caption" json:"caption"`
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"publicId"`
	Width    int    `bson:"width" json:"width"`
	Height   int    `bson:"height" json:"height"`
}

type SocialPost struct {
	Base         `bson:",inline"`
	Platform     string     `bson:"platform" json:"platform"`
	URL          string     `bson:"url" json:"url"`
	Caption      string     `bson:"caption" json:"caption"`
	Title        string     `bson:"title" json:"title"`
	ThumbnailURL string     `bson:"thumbnail_url" json:"thumbnailUrl"`
	Pinned       bool       `bson:"pinned" json:"pinned"`
	EnrichedAt   *time.Time `bson:"enriched_at,omitempty" json:"enrichedAt,omitempty"`
}

func (p *Program) Validate() error {
	if blank(p.Title) {
		return invalid("title is required")
	}
	if p.Capacity < 0 {
		return invalid("capacity cannot be negative")
	}
	return nil
}

func (e *Event) Validate() error {
	if blank(e.Title) {
		return invalid("title is required")
	}
	if e.Date.IsZero() {
		return invalid("date is required")
	}
	if e.Capacity < 0 {
		return invalid("capacity cannot be negative")
	}
	return nil
}

func (o *Opportunity) Validate() error {
	if blank(o.Title) {
		return invalid("title is required")
	}
	switch o.Kind {
	case OpportunityJob, OpportunityInternship, OpportunityGrant, OpportunityVolunteer:
	default:
		return invalid("kind must be job, internship, grant or volunteer")
	}
	if o.Link != "" && !validURL(o.Link) {
		return invalid("link must be an http(s) URL")
	}
	return nil
}

func (g *GalleryImage) Validate() error {
	if !validURL(g.URL) {
		return invalid("image url is required")
	}
	return nil
}

func (p *SocialPost) Validate() error {
	if !validURL(p.URL) {
		return invalid("post url must be an http(s) URL")
	}
	if blank(p.Platform) {
		return invalid("platform is required")
	}
	return nil
}
