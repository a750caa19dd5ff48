package lock

import (
	"context"
	"maps"
	"sync"
)

// Theme is the visual treatment of the overlay.
type Theme string

const (
	ThemeNone     Theme = ""
	ThemeStandard Theme = "standard"
	// ThemeRemote signals that only full re-verification clears the lock.
	ThemeRemote Theme = "remote"
)

// View is what the shell renders.
type View struct {
	Visible        bool              `json:"visible"`
	Mode           Mode              `json:"mode"`
	Theme          Theme             `json:"theme"`
	InputBlocked   bool              `json:"inputBlocked"`
	AnchorStatus   map[string]string `json:"anchorStatus"`
	ShowGeneration uint64            `json:"showGeneration"`
}

// ViewModel is the headless Overlay and InputBlocker. The local shell polls
// Snapshot and renders it; it never decides lock state itself.
type ViewModel struct {
	mu   sync.RWMutex
	view View
}

func NewViewModel() *ViewModel {
	return &ViewModel{view: View{Mode: ModeUnlocked, AnchorStatus: map[string]string{}}}
}

func (v *ViewModel) Show(_ context.Context, mode Mode) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.Visible = true
	v.view.Mode = mode
	v.view.Theme = ThemeStandard
	if mode == ModeRemote {
		v.view.Theme = ThemeRemote
	}
	v.view.ShowGeneration++
	return nil
}

func (v *ViewModel) Hide(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.Visible = false
	v.view.Mode = ModeUnlocked
	v.view.Theme = ThemeNone
	v.view.AnchorStatus = map[string]string{}
	return nil
}

func (v *ViewModel) SetAnchorStatus(_ context.Context, anchor, status string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.AnchorStatus[anchor] = status
	return nil
}

func (v *ViewModel) Block(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.InputBlocked = true
	return nil
}

func (v *ViewModel) Unblock(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.InputBlocked = false
	return nil
}

// Snapshot returns a copy of the current view.
func (v *ViewModel) Snapshot() View {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.view
	out.AnchorStatus = maps.Clone(v.view.AnchorStatus)
	return out
}
