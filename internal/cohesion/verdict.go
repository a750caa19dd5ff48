package cohesion

import "strings"

// Reason is the machine-readable tag of a Verdict.
type Reason string

const (
	ReasonVerified       Reason = "FOUR_PILLAR_VERIFIED"
	ReasonNoTemplate     Reason = "NO_TEMPLATE"
	ReasonGPSFailed      Reason = "GPS_ANCHOR_FAILED"
	ReasonDeviceNotBound Reason = "DEVICE_NOT_BOUND"
	ReasonWindowExceeded Reason = "WINDOW_EXCEEDED"
	ReasonFaceMismatch   Reason = "FACE_MISMATCH"
	ReasonFingerMismatch Reason = "FINGER_MISMATCH"
	ReasonMismatch       Reason = "MISMATCH"

	// ReasonTemplateUnavailable means the template store failed, not that
	// enrollment is missing.
	ReasonTemplateUnavailable Reason = "TEMPLATE_UNAVAILABLE"
)

func (r Reason) String() string { return string(r) }

// Tags splits a compound reason into its anchor tags.
func (r Reason) Tags() []Reason {
	parts := strings.Split(string(r), "+")
	out := make([]Reason, 0, len(parts))
	for _, p := range parts {
		out = append(out, Reason(p))
	}
	return out
}

// Has reports whether tag is one of the tags of r.
func (r Reason) Has(tag Reason) bool {
	for _, t := range r.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

var messages = map[Reason]string{
	ReasonVerified:            "All four anchors agree with the enrolled template.",
	ReasonNoTemplate:          "No enrollment template exists on this device. Enroll first.",
	ReasonTemplateUnavailable: "The enrollment template could not be read. Try again; do not re-enroll.",
	ReasonGPSFailed:           "Location fix missing or too far from the enrolled position.",
	ReasonDeviceNotBound:      "This device is not in the bound device list.",
	ReasonWindowExceeded:      "Face and finger capture did not finish inside the verification window. Try again.",
	ReasonFaceMismatch:        "Face did not match the enrolled geometry.",
	ReasonFingerMismatch:      "User-presence check did not match enrollment.",
	ReasonMismatch:            "Identity anchors did not agree with the enrolled template.",
}

// Message returns a human-readable explanation for r.
func (r Reason) Message() string {
	tags := r.Tags()
	if len(tags) == 1 {
		if m, ok := messages[tags[0]]; ok {
			return m
		}
		return messages[ReasonMismatch]
	}
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		if m, ok := messages[t]; ok {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, " ")
}

func joinReasons(tags []Reason) Reason {
	if len(tags) == 0 {
		return ReasonMismatch
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return Reason(strings.Join(parts, "+"))
}

// Anchors is the per-anchor outcome of one check. Anchors that were never
// evaluated stay false.
type Anchors struct {
	Position bool `json:"position"`
	Device   bool `json:"device"`
	Face     bool `json:"face"`
	Finger   bool `json:"finger"`
}

type Details struct {
	ElapsedMs int64   `json:"elapsedMs"`
	Anchors   Anchors `json:"anchors"`
	// FingerSimulated marks a finger pass obtained without a platform
	// authenticator.
	FingerSimulated bool `json:"fingerSimulated,omitempty"`
}

// Verdict is the transient result of one cohesion check. It is never persisted.
type Verdict struct {
	OK      bool    `json:"ok"`
	Reason  Reason  `json:"reason"`
	Message string  `json:"message"`
	Details Details `json:"details"`
}

func newVerdict(reason Reason, details Details) Verdict {
	return Verdict{
		OK:      reason == ReasonVerified,
		Reason:  reason,
		Message: reason.Message(),
		Details: details,
	}
}

// State is the verifier's position in a check.
type State string

const (
	StateIdle                State = "IDLE"
	StateCheckingBackground  State = "CHECKING_BACKGROUND_ANCHORS"
	StateCapturingForeground State = "CAPTURING_FOREGROUND_ANCHORS"
	StateDecided             State = "DECIDED"
)
