package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sovereign/internal/storage"
)

// DeviceAnchorSuite covers fingerprint determinism and allow-list binding.
type DeviceAnchorSuite struct {
	suite.Suite
	kv      *storage.InMemoryKV
	signals Signals
	anchor  *Anchor
}

func (s *DeviceAnchorSuite) SetupTest() {
	s.kv = storage.NewInMemoryKV()
	s.signals = Signals{
		Concurrency:     8,
		MemoryClassGB:   16,
		ScreenWidth:     2560,
		ScreenHeight:    1440,
		TZOffsetMinutes: 60,
		Locale:          "en_GB",
		Platform:        "linux/amd64",
		Vendor:          "go",
		HasDisplay:      true,
	}
	s.anchor = New(s.kv, s.signals)
}

func TestDeviceAnchorSuite(t *testing.T) {
	suite.Run(t, new(DeviceAnchorSuite))
}

func (s *DeviceAnchorSuite) TestFingerprintStability() {
	s.Run("same signals yield deterministic fingerprint", func() {
		fp1 := Fingerprint(s.signals)
		fp2 := Fingerprint(s.signals)
		s.Equal(fp1, fp2)
		s.Len(fp1, 64) // SHA-256 hex
	})

	s.Run("any input change changes the fingerprint", func() {
		base := Fingerprint(s.signals)
		mutations := []func(*Signals){
			func(x *Signals) { x.Concurrency = 4 },
			func(x *Signals) { x.MemoryClassGB = 8 },
			func(x *Signals) { x.ScreenWidth = 1920 },
			func(x *Signals) { x.TZOffsetMinutes = 0 },
			func(x *Signals) { x.Locale = "de_DE" },
			func(x *Signals) { x.Platform = "darwin/arm64" },
			func(x *Signals) { x.Vendor = "Chrome" },
			func(x *Signals) { x.HasDisplay = false },
			func(x *Signals) { x.Containerized = true },
		}
		for _, mutate := range mutations {
			changed := s.signals
			mutate(&changed)
			s.NotEqual(base, Fingerprint(changed))
		}
	})

	s.Run("user agent drives platform and vendor", func() {
		ua := "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
		got := Collect(1920, 1080, ua)
		s.Equal("Firefox", got.Vendor)
		s.Contains(got.Platform, "Linux")
		s.Equal(1920, got.ScreenWidth)
		s.Equal(Fingerprint(got), Fingerprint(Collect(1920, 1080, ua)))
	})
}

func (s *DeviceAnchorSuite) TestAllowList() {
	ctx := context.Background()

	s.Run("empty allow-list admits any device", func() {
		ok, err := s.anchor.IsBound(ctx, "some-other-device")
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("bind appends current fingerprint once", func() {
		added, err := s.anchor.Bind(ctx)
		s.Require().NoError(err)
		s.True(added)

		added, err = s.anchor.Bind(ctx)
		s.Require().NoError(err)
		s.False(added)

		list, err := s.anchor.List(ctx)
		s.Require().NoError(err)
		s.Equal([]string{s.anchor.CurrentID()}, list)
	})

	s.Run("non-empty allow-list rejects unknown devices", func() {
		ok, err := s.anchor.IsBound(ctx, "some-other-device")
		s.Require().NoError(err)
		s.False(ok)

		ok, err = s.anchor.IsBound(ctx, s.anchor.CurrentID())
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("allow-list survives a new anchor over the same store", func() {
		other := New(s.kv, s.signals)
		ok, err := other.IsBound(ctx, other.CurrentID())
		s.Require().NoError(err)
		s.True(ok)
	})
}
