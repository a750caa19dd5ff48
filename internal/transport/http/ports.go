package httptransport

import (
	"context"

	"sovereign/internal/admission"
	"sovereign/internal/breach"
	"sovereign/internal/cohesion"
	"sovereign/internal/command"
	"sovereign/internal/duress"
	"sovereign/internal/intruder"
	"sovereign/internal/lock"
	"sovereign/internal/processguard"
	"sovereign/pkg/platform/audit"
)

type LockService interface {
	Current() lock.State
	Lock(ctx context.Context, trigger lock.Trigger)
	Unlock(ctx context.Context) (cohesion.Verdict, error)
}

type AdmissionService interface {
	Admit(ctx context.Context) (admission.Result, error)
	Enroll(ctx context.Context, bpm float64) (admission.EnrollResult, error)
}

type ShadowService interface {
	ShadowActive() bool
	ExitShadow(ctx context.Context) error
}

type TransferGuard interface {
	Transfer(ctx context.Context, intent duress.Intent, execute duress.Executor) (duress.Receipt, error)
}

type BreachLister interface {
	List(ctx context.Context) ([]breach.Summary, error)
}

// AuditTrail reads recorded audit events for one device.
type AuditTrail interface {
	List(ctx context.Context, deviceID string) ([]audit.Event, error)
}

type InterceptService interface {
	Intercept(ctx context.Context, processName string, pid int) (processguard.Intercept, error)
	Pending() []processguard.Intercept
}

type CommandIssuer interface {
	IssueLock(ctx context.Context) (command.Message, error)
}

type MonitorStatus interface {
	Status() intruder.Status
}

type LockView interface {
	Snapshot() lock.View
}
