package breach

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sovereign/internal/storage"
)

func TestVault(t *testing.T) {
	v, err := NewVault("salt", "linux/amd64/host")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		blob, err := v.Seal([]byte("photo"))
		require.NoError(t, err)
		assert.Len(t, blob.IV, 12)
		assert.NotContains(t, string(blob.Ciphertext), "photo")

		plain, err := v.Open(blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("photo"), plain)
	})

	t.Run("fresh iv per blob", func(t *testing.T) {
		a, err := v.Seal([]byte("same"))
		require.NoError(t, err)
		b, err := v.Seal([]byte("same"))
		require.NoError(t, err)
		assert.NotEqual(t, a.IV, b.IV)
		assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
	})

	t.Run("other environment cannot open", func(t *testing.T) {
		blob, err := v.Seal([]byte("photo"))
		require.NoError(t, err)
		other, err := NewVault("salt", "darwin/arm64/laptop")
		require.NoError(t, err)
		_, err = other.Open(blob)
		assert.Error(t, err)
	})

	t.Run("tampered ciphertext is rejected", func(t *testing.T) {
		blob, err := v.Seal([]byte("photo"))
		require.NoError(t, err)
		blob.Ciphertext[0] ^= 0xff
		_, err = v.Open(blob)
		assert.Error(t, err)
	})

	t.Run("key derivation is deterministic", func(t *testing.T) {
		assert.Equal(t, DeriveKey("s", "e"), DeriveKey("s", "e"))
		assert.Len(t, DeriveKey("s", "e"), 32)
		assert.NotEqual(t, DeriveKey("s", "e"), DeriveKey("s", "f"))
	})
}

// =============================================================================
// Breach Store Test Suite
// =============================================================================
// Both stores must hand out unique, increasing ids and keep ciphertext out of
// the listing.

type StoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) Store
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(*testing.T) Store { return NewInMemoryStore() }})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) Store {
		db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "guard.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		st, err := NewSQLiteStore(context.Background(), db)
		require.NoError(t, err)
		return st
	}})
}

func (s *StoreSuite) TestAppendListGet() {
	ctx := context.Background()
	st := s.newStore(s.T())
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	var ids []int64
	for i := range 3 {
		id, err := st.Append(ctx, Record{
			Timestamp: at.Add(time.Duration(i) * time.Second),
			Photo:     Blob{Ciphertext: bytes.Repeat([]byte{1}, 10+i), IV: []byte("iv-photo-000")},
			Video:     Blob{Ciphertext: bytes.Repeat([]byte{2}, 100), IV: []byte("iv-video-000")},
		})
		s.Require().NoError(err)
		ids = append(ids, id)
	}
	s.Require().Len(ids, 3)
	s.Less(ids[0], ids[1])
	s.Less(ids[1], ids[2])

	s.Run("list is metadata only and ordered", func() {
		list, err := st.List(ctx)
		s.Require().NoError(err)
		s.Require().Len(list, 3)
		for i, sum := range list {
			s.Equal(ids[i], sum.ID)
			s.Equal(10+i, sum.PhotoBytes)
			s.Equal(100, sum.VideoBytes)
			s.True(at.Add(time.Duration(i) * time.Second).Equal(sum.Timestamp))
		}
	})

	s.Run("get returns the sealed record", func() {
		rec, err := st.Get(ctx, ids[1])
		s.Require().NoError(err)
		s.Equal([]byte("iv-photo-000"), rec.Photo.IV)
		s.Len(rec.Photo.Ciphertext, 11)
	})

	s.Run("unknown id", func() {
		_, err := st.Get(ctx, 999)
		s.ErrorIs(err, ErrNotFound)
	})
}

type fakePutter struct {
	mu      sync.Mutex
	objects map[string][]byte
	meta    map[string]map[string]string
	err     error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(in.Body)
	f.objects[*in.Bucket+"/"+*in.Key] = buf.Bytes()
	f.meta[*in.Key] = in.Metadata
	return &s3.PutObjectOutput{}, nil
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	vault, err := NewVault("", "test-env")
	require.NoError(t, err)

	t.Run("seals, appends and exports ciphertext", func(t *testing.T) {
		store := NewInMemoryStore()
		putter := &fakePutter{objects: map[string][]byte{}, meta: map[string]map[string]string{}}
		rec, err := NewRecorder(store, vault, WithExporter(newS3Exporter(putter, "evidence", "")))
		require.NoError(t, err)

		id, err := rec.Record(ctx, []byte("jpeg"), []byte("clip"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		photo, video, err := rec.Open(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), photo)
		assert.Equal(t, []byte("clip"), video)

		stored, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, stored.Photo.Ciphertext, putter.objects["evidence/breaches/1/photo"])
		assert.Equal(t, stored.Video.Ciphertext, putter.objects["evidence/breaches/1/video"])
		assert.NotEmpty(t, putter.meta["breaches/1/photo"]["iv"])
	})

	t.Run("export failure does not fail the record", func(t *testing.T) {
		putter := &fakePutter{err: errors.New("no network")}
		rec, err := NewRecorder(NewInMemoryStore(), vault, WithExporter(newS3Exporter(putter, "b", "p")))
		require.NoError(t, err)
		id, err := rec.Record(ctx, []byte("a"), []byte("b"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("required dependencies", func(t *testing.T) {
		_, err := NewRecorder(nil, vault)
		assert.ErrorContains(t, err, "breach store is required")
		_, err = NewRecorder(NewInMemoryStore(), nil)
		assert.ErrorContains(t, err, "vault is required")
	})
}
