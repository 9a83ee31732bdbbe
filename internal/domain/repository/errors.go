package repository

import "errors"

// ErrNotFound is returned by lookups that matched no row. Callers branch on
// it with errors.Is to tell genuine absence apart from a store outage; any
// other error from a repository means the store call itself failed.
var ErrNotFound = errors.New("not found")
