package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// apply different retention.
type EventCategory string

const (
	// CategoryCompliance covers enrollment and consent records.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers lock transitions, rejected commands and
	// intruder evidence. These feed forensics.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine verification traffic.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	DeviceID  string
	Action    string
	Decision  string
	Reason    string
	// Subject names the entity acted upon (anchor, process, breach id).
	Subject   string
	RequestID string
}

type AuditEvent string

const (
	// Enrollment
	EventTemplateEnrolled AuditEvent = "template_enrolled"
	EventDeviceBound      AuditEvent = "device_bound"
	EventBaselineRecorded AuditEvent = "baseline_recorded"

	// Cohesion
	EventCohesionVerified AuditEvent = "cohesion_verified"
	EventCohesionFailed   AuditEvent = "cohesion_failed"

	// Lock
	EventLockEngaged       AuditEvent = "lock_engaged"
	EventRemoteLockEngaged AuditEvent = "remote_lock_engaged"
	EventLockReleased      AuditEvent = "lock_released"
	EventUnlockDenied      AuditEvent = "unlock_denied"

	// Commands
	EventLockCommandReceived AuditEvent = "lock_command_received"
	EventDeVitalizeAccepted  AuditEvent = "devitalize_accepted"
	EventDeVitalizeRejected  AuditEvent = "devitalize_rejected"

	// Duress
	EventDuressDetected     AuditEvent = "duress_detected"
	EventShadowExited       AuditEvent = "shadow_exited"
	EventTransferSuppressed AuditEvent = "transfer_suppressed"

	// Intruder
	EventProximityAlert AuditEvent = "proximity_alert"
	EventSnapAction     AuditEvent = "snap_action"
	EventLookAwayLock   AuditEvent = "look_away_lock"

	// Process guard
	EventProcessIntercepted AuditEvent = "process_intercepted"
	EventPresenceReleased   AuditEvent = "presence_released"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventTemplateEnrolled: CategoryCompliance,
	EventDeviceBound:      CategoryCompliance,
	EventBaselineRecorded: CategoryCompliance,

	EventLockEngaged:         CategorySecurity,
	EventRemoteLockEngaged:   CategorySecurity,
	EventLockReleased:        CategorySecurity,
	EventUnlockDenied:        CategorySecurity,
	EventDeVitalizeAccepted:  CategorySecurity,
	EventDeVitalizeRejected:  CategorySecurity,
	EventDuressDetected:      CategorySecurity,
	EventTransferSuppressed:  CategorySecurity,
	EventProximityAlert:      CategorySecurity,
	EventSnapAction:          CategorySecurity,
	EventLookAwayLock:        CategorySecurity,
	EventProcessIntercepted:  CategorySecurity,
	EventCohesionFailed:      CategorySecurity,

	EventCohesionVerified:    CategoryOperations,
	EventLockCommandReceived: CategoryOperations,
	EventShadowExited:        CategoryOperations,
	EventPresenceReleased:    CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDevice(ctx context.Context, deviceID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
