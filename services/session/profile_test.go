package session

import (
	"testing"

	"memberportal/models"

	qt "github.com/frankban/quicktest"
)

func TestIsProfileCompleteByName(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		name string
		want bool
	}{
		{DefaultDisplayName, false},
		{"", false},
		{"Jane Doe", true},
		{"user", true},
		{"Users", true},
	}
	for _, tc := range cases {
		u := &models.User{DisplayName: tc.name}
		c.Check(IsProfileComplete(u), qt.Equals, tc.want, qt.Commentf("name %q", tc.name))
	}
}

func TestIsProfileCompletePrefersFlag(t *testing.T) {
	c := qt.New(t)
	// A member whose legal name is the placeholder still counts once the flag is set.
	u := &models.User{DisplayName: DefaultDisplayName, ProfileComplete: true}
	c.Assert(IsProfileComplete(u), qt.IsTrue)
	c.Assert(IsProfileComplete(nil), qt.IsFalse)
}

func TestNormalizeEmail(t *testing.T) {
	qt.Assert(t, NormalizeEmail("  A@X.com "), qt.Equals, "a@x.com")
}
