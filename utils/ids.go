package utils

import "github.com/google/uuid"

// NewID returns a fresh record id.
func NewID() string {
	return uuid.New().String()
}

func randomTokenID() string {
	return uuid.NewString()
}
