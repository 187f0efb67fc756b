package utils

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestTokenRoundTrip(t *testing.T) {
	c := qt.New(t)
	SetJWTSecret("test-secret")

	token, err := GenerateToken("user-1", "jane@test.com", time.Hour)
	c.Assert(err, qt.IsNil)

	claims, err := ValidateToken(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.Subject, qt.Equals, "user-1")
	c.Assert(claims.Email, qt.Equals, "jane@test.com")

	id, err := ExtractIDFromToken(token)
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, "user-1")
}

func TestExpiredTokenRejected(t *testing.T) {
	c := qt.New(t)
	SetJWTSecret("test-secret")

	token, err := GenerateToken("user-1", "jane@test.com", -time.Minute)
	c.Assert(err, qt.IsNil)
	_, err = ValidateToken(token)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestTokensAreUnique(t *testing.T) {
	c := qt.New(t)
	a, err := GenerateToken("user-1", "a@x.com", time.Hour)
	c.Assert(err, qt.IsNil)
	b, err := GenerateToken("user-1", "a@x.com", time.Hour)
	c.Assert(err, qt.IsNil)
	c.Assert(HashToken(a), qt.Not(qt.Equals), HashToken(b))
}
