// Package repotest provides in-process implementations of the repository
// interfaces for tests. They honour the same uniqueness rules as the Mongo
// repositories.
package repotest
