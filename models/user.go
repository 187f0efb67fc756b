package models

import "time"

// Role values a user can hold.
const (
	RoleMember    = "member"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

// User is the local record behind an authenticated session.
type User struct {
	ID              string    `bson:"id" json:"id"`
	Email           string    `bson:"email" json:"email"`
	DisplayName     string    `bson:"display_name" json:"displayName"`
	Role            string    `bson:"role" json:"role"`
	Interests       []string  `bson:"interests" json:"interests"`
	VolunteerHours  float64   `bson:"volunteer_hours" json:"volunteerHours"`
	ProfileComplete bool      `bson:"profile_complete" json:"profileComplete"`
	AvatarURL       string    `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	FCMToken        string    `bson:"fcm_token,omitempty" json:"-"`
	FirebaseUID     string    `bson:"firebase_uid,omitempty" json:"-"`
	PasswordHash    string    `bson:"password_hash,omitempty" json:"-"`
	TokenHashes     []string  `bson:"token_hashes,omitempty" json:"-"`
	PasswordSetAt   time.Time `bson:"password_set_at,omitempty" json:"-"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleMember, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// ProfileUpdate carries optional profile fields; nil means unchanged.
type ProfileUpdate struct {
	DisplayName *string   `json:"displayName"`
	Interests   *[]string `json:"interests"`
	AvatarURL   *string   `json:"avatarUrl"`
	FCMToken    *string   `json:"fcmToken"`
}
