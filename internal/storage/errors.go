package storage

import "sovereign/pkg/platform/sentinel"

// ErrNotFound keeps missing-key results consistent across in-memory and
// SQLite implementations.
var ErrNotFound = sentinel.ErrNotFound
