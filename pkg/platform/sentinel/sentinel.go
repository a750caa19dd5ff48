package sentinel

import "errors"

// Sentinel errors for infrastructure and sensor facts. Stores, transports and
// capture leaves return these (optionally wrapped) so services can translate
// them into verdict tags or domain errors.
//
//   - ErrNotFound: record or key does not exist in the store
//   - ErrUnavailable: sensor, camera, authenticator or transport is absent or unreachable
//   - ErrPermissionDenied: the platform refused access to a sensor
//   - ErrTimeout: an acquisition exceeded its hard budget
//   - ErrInvalidState: operation is not valid in the current state
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUnavailable      = errors.New("unavailable")
	ErrPermissionDenied = errors.New("permission denied")
	ErrTimeout          = errors.New("timeout")
	ErrInvalidState     = errors.New("invalid state")
	ErrClosed           = errors.New("closed")
)
