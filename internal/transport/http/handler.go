// Package httptransport is the localhost control API a thin shell renders.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sovereign/internal/duress"
	"sovereign/internal/intruder"
	"sovereign/internal/lock"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/httputil"
	"sovereign/pkg/requestcontext"
)

// Services are the collaborators behind the control API. Commands, Monitor,
// View, Audit and Executor are optional.
type Services struct {
	Lock       LockService
	Admission  AdmissionService
	Shadow     ShadowService
	Transfers  TransferGuard
	Breaches   BreachLister
	Intercepts InterceptService
	Commands   CommandIssuer
	Monitor    MonitorStatus
	View       LockView
	Audit      AuditTrail
	// DeviceID names the local device; GET /audit defaults to it.
	DeviceID func() string
	// Executor performs real transfers. Without one, transfers outside
	// Shadow Mode are unavailable.
	Executor duress.Executor
}

type Handler struct {
	svc    Services
	logger *slog.Logger
}

func New(svc Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if svc.Executor == nil {
		svc.Executor = func(context.Context, duress.Intent) (duress.Receipt, error) {
			return duress.Receipt{}, dErrors.New(dErrors.CodeUnavailable, "no payment rail configured")
		}
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the control endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/status", h.HandleStatus)
	r.Post("/enroll", h.HandleEnroll)
	r.Post("/verify", h.HandleVerify)
	r.Post("/unlock", h.HandleUnlock)
	r.Post("/lock", h.HandleLock)
	r.Get("/breaches", h.HandleBreaches)
	r.Get("/decoy", h.HandleDecoy)
	r.Post("/shadow/exit", h.HandleShadowExit)
	r.Post("/transfers", h.HandleTransfer)
	r.Get("/intercepts", h.HandleListIntercepts)
	r.Post("/intercepts", h.HandleIntercept)
	if h.svc.Audit != nil {
		r.Get("/audit", h.HandleAudit)
	}
}

type lockStatus struct {
	Mode   lock.Mode `json:"mode"`
	Local  bool      `json:"localLockActive"`
	Remote bool      `json:"remoteLockActive"`
}

type statusResponse struct {
	Lock    lockStatus       `json:"lock"`
	Shadow  bool             `json:"shadow"`
	View    *lock.View       `json:"view,omitempty"`
	Monitor *intruder.Status `json:"monitor,omitempty"`
}

// HandleStatus handles GET /status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Lock.Current()
	resp := statusResponse{
		Lock:   lockStatus{Mode: st.Mode(), Local: st.LocalLockActive, Remote: st.RemoteLockActive},
		Shadow: h.svc.Shadow.ShadowActive(),
	}
	if h.svc.View != nil {
		v := h.svc.View.Snapshot()
		resp.View = &v
	}
	if h.svc.Monitor != nil {
		m := h.svc.Monitor.Status()
		resp.Monitor = &m
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type enrollRequest struct {
	BPM float64 `json:"bpm"`
}

// HandleEnroll handles POST /enroll.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req enrollRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.svc.Admission.Enroll(ctx, req.BPM)
	if err != nil {
		h.logger.ErrorContext(ctx, "enrollment failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

// HandleVerify handles POST /verify. A failed verdict is a 200 with ok=false;
// the reason tag is part of the body.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.svc.Admission.Admit(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "verification requested",
		"request_id", requestcontext.RequestID(ctx),
		"ok", res.Verdict.OK,
		"reason", string(res.Verdict.Reason),
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleUnlock handles POST /unlock.
func (h *Handler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	verdict, err := h.svc.Lock.Unlock(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verdict)
}

// HandleLock handles POST /lock. With a command channel the lock goes out as
// one Lock_Command, which also locks this process through its subscription.
func (h *Handler) HandleLock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.svc.Commands == nil {
		h.svc.Lock.Lock(ctx, lock.TriggerManual)
	} else if _, err := h.svc.Commands.IssueLock(ctx); err != nil {
		h.logger.WarnContext(ctx, "lock broadcast failed", "error", err)
	}
	st := h.svc.Lock.Current()
	httputil.WriteJSON(w, http.StatusOK, lockStatus{Mode: st.Mode(), Local: st.LocalLockActive, Remote: st.RemoteLockActive})
}

// HandleBreaches handles GET /breaches. Only metadata is returned.
func (h *Handler) HandleBreaches(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Breaches.List(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list breaches"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"breaches": list})
}

type auditEntry struct {
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Decision  string    `json:"decision,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
}

// HandleAudit handles GET /audit?device_id=. Without a device_id the local
// device's trail is returned.
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" && h.svc.DeviceID != nil {
		deviceID = h.svc.DeviceID()
	}
	if deviceID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "device_id is required"))
		return
	}
	events, err := h.svc.Audit.List(r.Context(), deviceID)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	out := make([]auditEntry, 0, len(events))
	for _, e := range events {
		out = append(out, auditEntry{
			Category:  string(e.Category),
			Timestamp: e.Timestamp,
			Action:    e.Action,
			Decision:  e.Decision,
			Reason:    e.Reason,
			Subject:   e.Subject,
			RequestID: e.RequestID,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"deviceId": deviceID, "events": out})
}

// HandleDecoy handles GET /decoy.
func (h *Handler) HandleDecoy(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, duress.Decoy())
}

// HandleShadowExit handles POST /shadow/exit.
func (h *Handler) HandleShadowExit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Shadow.ExitShadow(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTransfer handles POST /transfers. All money movement goes through the
// shadow guard.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var intent duress.Intent
	if err := httputil.DecodeJSON(r, &intent); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if intent.To == "" || intent.Amount <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "destination and positive amount are required"))
		return
	}
	if h.svc.Lock.Current().Locked() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeLocked, "device is locked"))
		return
	}
	receipt, err := h.svc.Transfers.Transfer(ctx, intent, h.svc.Executor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, receipt)
}

type interceptRequest struct {
	ProcessName string `json:"processName"`
	PID         int    `json:"pid"`
}

// HandleIntercept handles POST /intercepts from the desktop process guard.
func (h *Handler) HandleIntercept(w http.ResponseWriter, r *http.Request) {
	var req interceptRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	in, err := h.svc.Intercepts.Intercept(r.Context(), req.ProcessName, req.PID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, in)
}

// HandleListIntercepts handles GET /intercepts.
func (h *Handler) HandleListIntercepts(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"intercepts": h.svc.Intercepts.Pending()})
}
