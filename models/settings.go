package models

import "time"

// SettingsID is the fixed id of the singleton settings row.
const SettingsID = "app"

// AppSettings holds app-wide branding.
type AppSettings struct {
	ID           string    `bson:"_id" json:"id"`
	AppName      string    `bson:"app_name" json:"appName"`
	Tagline      string    `bson:"tagline" json:"tagline"`
	LogoURL      string    `bson:"logo_url" json:"logoUrl"`
	ContactEmail string    `bson:"contact_email" json:"contactEmail"`
	AccentColor  string    `bson:"accent_color" json:"accentColor"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// DefaultSettings is served until an admin saves branding for the first time.
func DefaultSettings() AppSettings {
	return AppSettings{
		ID:          SettingsID,
		AppName:     "Member Portal",
		Tagline:     "Learn, serve and grow together",
		AccentColor: "#2f6fed",
	}
}

// SameContent compares the editable fields, ignoring timestamps.
func (s AppSettings) SameContent(o AppSettings) bool {
	return s.AppName == o.AppName &&
		s.Tagline == o.Tagline &&
		s.LogoURL == o.LogoURL &&
		s.ContactEmail == o.ContactEmail &&
		s.AccentColor == o.AccentColor
}
