package template

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sovereign/internal/profile"
	"sovereign/internal/storage"
)

func TestCompare(t *testing.T) {
	h := strings.Repeat("a1b2", 64)

	t.Run("identical hashes match at zero tolerance", func(t *testing.T) {
		assert.True(t, Compare(h, h, 0))
		assert.True(t, Compare("", "", 0))
	})

	t.Run("any equal-length hashes match at full tolerance", func(t *testing.T) {
		other := strings.Repeat("ffff", 64)
		assert.True(t, Compare(h, other, 1))
	})

	t.Run("different lengths never match", func(t *testing.T) {
		assert.False(t, Compare(h, h[:10], 0.5))
		assert.False(t, Compare("abc", "ab", 1))
	})

	t.Run("zero tolerance is exact", func(t *testing.T) {
		assert.False(t, Compare("abcd", "abce", 0))
	})

	t.Run("fraction boundary is inclusive", func(t *testing.T) {
		stored := "0000000000"
		// 8 of 10 match: 0.8 >= 1-0.2
		assert.True(t, Compare(stored, "0000000011", 0.2))
		assert.False(t, Compare(stored, "0000000111", 0.2))
	})

	t.Run("verification tolerance", func(t *testing.T) {
		stored := strings.Repeat("0", 256)
		current := []byte(stored)
		for i := range 38 {
			current[i] = 'f'
		}
		assert.True(t, Compare(stored, string(current), VerifyTolerance))
		current[38] = 'f'
		current[39] = 'f'
		assert.False(t, Compare(stored, string(current), VerifyTolerance))
	})
}

func TestDistanceMeters(t *testing.T) {
	origin := GeoPoint{}

	t.Run("identical coordinates are zero apart", func(t *testing.T) {
		assert.Zero(t, DistanceMeters(origin, origin))
		assert.True(t, WithinDistance(origin, origin, 0.001))
	})

	t.Run("one degree of latitude is about 111km", func(t *testing.T) {
		d := DistanceMeters(origin, GeoPoint{Latitude: 1})
		assert.InDelta(t, 111195, d, 50)
	})

	t.Run("100m radius", func(t *testing.T) {
		near := GeoPoint{Latitude: 0.0008}
		far := GeoPoint{Latitude: 0.001}
		assert.True(t, WithinDistance(origin, near, 100))
		assert.False(t, WithinDistance(origin, far, 100))
	})
}

type StoreSuite struct {
	suite.Suite
	kv       *storage.InMemoryKV
	profiles *profile.InMemoryStore
	store    *Store
	now      time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.kv = storage.NewInMemoryKV()
	s.profiles = profile.NewInMemoryStore()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewStore(s.kv,
		WithProfileMirror(s.profiles),
		WithNow(func() time.Time { return s.now }),
	)
}

func (s *StoreSuite) TestLoadWithoutEnrollment() {
	t, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	s.Nil(t)
}

func (s *StoreSuite) TestSaveAndLoad() {
	ctx := context.Background()

	saved, err := s.store.Save(ctx, Signals{
		FaceGeometryHash: "abcd",
		FaceLiveness:     0.99,
		FingerRidgeMatch: true,
		FingerSimulated:  true,
		Position:         &GeoPoint{Latitude: 1, Longitude: 2, Accuracy: 5},
		DeviceUUID:       "dev-1",
	})
	s.Require().NoError(err)
	s.Equal(s.now, saved.CreatedAt)

	loaded, err := s.store.Load(ctx)
	s.Require().NoError(err)
	s.Require().NotNil(loaded)
	s.Equal(*saved, *loaded)

	s.Run("mirrors to profile store", func() {
		rec, err := s.profiles.GetProfile(ctx, "dev-1")
		s.Require().NoError(err)
		s.Require().NotNil(rec)
		s.Contains(rec.Fields, "absolute_truth_template")
	})
}

func (s *StoreSuite) TestReEnrollmentReplacesWholesale() {
	ctx := context.Background()

	_, err := s.store.Save(ctx, Signals{
		FaceGeometryHash: "first",
		Position:         &GeoPoint{Latitude: 10},
		DeviceUUID:       "dev-1",
	})
	s.Require().NoError(err)

	_, err = s.store.Save(ctx, Signals{FaceGeometryHash: "second"})
	s.Require().NoError(err)

	loaded, err := s.store.Load(ctx)
	s.Require().NoError(err)
	s.Equal("second", loaded.FaceGeometryHash)
	s.Nil(loaded.GPSLocation)
	s.Empty(loaded.DeviceUUID)
}

func (s *StoreSuite) TestMirrorFailureDoesNotFailSave() {
	store := NewStore(s.kv, WithProfileMirror(failingProfiles{}))
	_, err := store.Save(context.Background(), Signals{DeviceUUID: "dev-1"})
	s.NoError(err)
}

type failingProfiles struct{}

func (failingProfiles) GetProfile(context.Context, string) (*profile.Record, error) {
	return nil, assert.AnError
}

func (failingProfiles) UpsertProfile(context.Context, string, profile.Fields) error {
	return assert.AnError
}

func TestStoreSurfacesStorageErrors(t *testing.T) {
	kv := storage.NewInMemoryKV()
	require.NoError(t, kv.Put(context.Background(), storage.KeyTemplate, []byte("{not json")))

	_, err := NewStore(kv).Load(context.Background())
	assert.Error(t, err)
}
