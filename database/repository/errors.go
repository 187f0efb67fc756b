package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when a lookup by id matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects an insert.
	ErrDuplicate = errors.New("duplicate record")
	// ErrCollectionMissing marks a read against a collection that does not exist.
	ErrCollectionMissing = errors.New("collection does not exist")
)

// namespaceNotFound is the server code for a missing collection.
const namespaceNotFound = 26

// IsMissingCollection reports whether err means the backing collection is absent.
func IsMissingCollection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCollectionMissing) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(namespaceNotFound) {
		return true
	}
	return strings.Contains(err.Error(), "ns not found")
}

// Normalize maps driver errors onto the repository sentinels.
func Normalize(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	case IsMissingCollection(err):
		return ErrCollectionMissing
	}
	return err
}
