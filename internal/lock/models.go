package lock

// Mode is the lock state presented to the user.
type Mode string

const (
	ModeUnlocked Mode = "UNLOCKED"
	ModeLocal    Mode = "LOCAL_LOCKED"
	ModeRemote   Mode = "REMOTE_LOCKED"
)

var allModes = []string{string(ModeUnlocked), string(ModeLocal), string(ModeRemote)}

// State is the persisted pair of lock flags. Both flags live in one record so
// clearing them together is a single write.
type State struct {
	LocalLockActive  bool `json:"localLockActive"`
	RemoteLockActive bool `json:"remoteLockActive"`
}

// Mode derives the presented mode. Remote lock dominates.
func (s State) Mode() Mode {
	switch {
	case s.RemoteLockActive:
		return ModeRemote
	case s.LocalLockActive:
		return ModeLocal
	default:
		return ModeUnlocked
	}
}

func (s State) Locked() bool {
	return s.LocalLockActive || s.RemoteLockActive
}

// Trigger names what caused a lock transition.
type Trigger string

const (
	TriggerCommand   Trigger = "command"
	TriggerLookAway  Trigger = "look_away"
	TriggerIntercept Trigger = "process_intercept"
	TriggerManual    Trigger = "manual"
	TriggerRemote    Trigger = "devitalize"
	TriggerRestore   Trigger = "restore"
	TriggerVerified  Trigger = "verified"
)

// Anchor status values shown on the overlay.
const (
	AnchorStatusPending = "Pending"
	AnchorStatusError   = "Error"
)

// Overlay components whose setup can degrade to an Error status.
const (
	ComponentOverlay = "overlay"
	ComponentInput   = "input"
	ComponentMonitor = "monitor"
)
