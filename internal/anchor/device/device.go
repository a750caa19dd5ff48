// Package device is the device-identity anchor: a deterministic fingerprint
// over coarse environment signals plus the allow-list of bound devices.
package device

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mssola/useragent"

	"sovereign/internal/storage"
)

// Signals is the fixed tuple hashed into a fingerprint. Any change to any
// field changes the fingerprint.
type Signals struct {
	Concurrency     int    `json:"concurrency"`
	MemoryClassGB   int    `json:"memory_class_gb"`
	ScreenWidth     int    `json:"screen_width"`
	ScreenHeight    int    `json:"screen_height"`
	TZOffsetMinutes int    `json:"tz_offset_minutes"`
	Locale          string `json:"locale"`
	Platform        string `json:"platform"`
	Vendor          string `json:"vendor"`
	HasDisplay      bool   `json:"has_display"`
	Containerized   bool   `json:"containerized"`
}

// Fingerprint hashes the signal tuple into a 64-char hex digest.
func Fingerprint(s Signals) string {
	tuple := strings.Join([]string{
		strconv.Itoa(s.Concurrency),
		strconv.Itoa(s.MemoryClassGB),
		fmt.Sprintf("%dx%d", s.ScreenWidth, s.ScreenHeight),
		strconv.Itoa(s.TZOffsetMinutes),
		s.Locale,
		s.Platform,
		s.Vendor,
		strconv.FormatBool(s.HasDisplay),
		strconv.FormatBool(s.Containerized),
	}, "|")
	sum := sha256.Sum256([]byte(tuple))
	return hex.EncodeToString(sum[:])
}

// Collect gathers signals from the host. When the local shell forwards its
// user agent, platform and vendor come from it so the fingerprint tracks the
// shell install rather than the daemon binary.
func Collect(screenWidth, screenHeight int, userAgent string) Signals {
	_, offset := time.Now().Zone()
	s := Signals{
		Concurrency:     runtime.NumCPU(),
		MemoryClassGB:   memoryClass(),
		ScreenWidth:     screenWidth,
		ScreenHeight:    screenHeight,
		TZOffsetMinutes: offset / 60,
		Locale:          locale(),
		Platform:        runtime.GOOS + "/" + runtime.GOARCH,
		Vendor:          "go",
		HasDisplay:      hasDisplay(),
		Containerized:   fileExists("/.dockerenv"),
	}
	if userAgent != "" {
		ua := useragent.New(userAgent)
		if platform := ua.OS(); platform != "" {
			s.Platform = platform
		}
		if name, _ := ua.Browser(); name != "" {
			s.Vendor = name
		}
	}
	return s
}

// memoryClass buckets physical memory into powers of two GB, or 0 if unknown.
func memoryClass() int {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 2 && fields[0] == "MemTotal:" {
			kb, err := strconv.Atoi(fields[1])
			if err != nil {
				return 0
			}
			gb := kb / (1024 * 1024)
			class := 1
			for class*2 <= gb {
				class *= 2
			}
			return class
		}
	}
	return 0
}

func locale() string {
	for _, key := range []string{"LC_ALL", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return strings.SplitN(v, ".", 2)[0]
		}
	}
	return "und"
}

func hasDisplay() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Anchor holds the current fingerprint and the persisted allow-list.
type Anchor struct {
	kv      storage.KV
	current string

	mu sync.Mutex
}

func New(kv storage.KV, signals Signals) *Anchor {
	return &Anchor{kv: kv, current: Fingerprint(signals)}
}

// CurrentID returns this device's fingerprint.
func (a *Anchor) CurrentID() string {
	return a.current
}

// Bind appends the current fingerprint to the allow-list if absent.
// It reports whether the list changed.
func (a *Anchor) Bind(ctx context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	allowed, err := a.list(ctx)
	if err != nil {
		return false, err
	}
	if slices.Contains(allowed, a.current) {
		return false, nil
	}
	allowed = append(allowed, a.current)
	if err := storage.PutJSON(ctx, a.kv, storage.KeyAllowedDevices, allowed); err != nil {
		return false, fmt.Errorf("persist allowed devices: %w", err)
	}
	return true, nil
}

// IsBound reports whether id is on the allow-list. An empty allow-list is the
// first-run open state and admits any device.
func (a *Anchor) IsBound(ctx context.Context, id string) (bool, error) {
	allowed, err := a.List(ctx)
	if err != nil {
		return false, err
	}
	if len(allowed) == 0 {
		return true, nil
	}
	return slices.Contains(allowed, id), nil
}

// List returns the bound fingerprints.
func (a *Anchor) List(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list(ctx)
}

func (a *Anchor) list(ctx context.Context) ([]string, error) {
	var allowed []string
	if _, err := storage.GetJSON(ctx, a.kv, storage.KeyAllowedDevices, &allowed); err != nil {
		return nil, fmt.Errorf("load allowed devices: %w", err)
	}
	return allowed, nil
}
