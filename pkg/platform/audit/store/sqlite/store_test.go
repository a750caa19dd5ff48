package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sovereign/internal/storage"
	audit "sovereign/pkg/platform/audit"
)

// =============================================================================
// SQLite Audit Store Test Suite
// =============================================================================

type StoreSuite struct {
	suite.Suite
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	db, err := storage.OpenSQLite(filepath.Join(s.T().TempDir(), "audit.db"))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })
	s.store, err = New(context.Background(), db)
	s.Require().NoError(err)
}

func (s *StoreSuite) TestAppendAndList() {
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: at, DeviceID: "dev-1", Action: string(audit.EventLockEngaged), Reason: "manual",
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: at.Add(time.Second), DeviceID: "dev-2", Action: string(audit.EventCohesionVerified),
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: at.Add(2 * time.Second), DeviceID: "dev-1", Action: string(audit.EventLockReleased),
	}))

	s.Run("lists a device's events oldest first", func() {
		events, err := s.store.ListByDevice(ctx, "dev-1")
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal(string(audit.EventLockEngaged), events[0].Action)
		s.Equal(audit.CategorySecurity, events[0].Category)
		s.Equal("manual", events[0].Reason)
		s.True(at.Equal(events[0].Timestamp))
		s.Equal(string(audit.EventLockReleased), events[1].Action)
	})

	s.Run("recent returns the tail in order", func() {
		events, err := s.store.ListRecent(ctx, 2)
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal("dev-2", events[0].DeviceID)
		s.Equal(audit.CategoryOperations, events[0].Category)
		s.Equal(string(audit.EventLockReleased), events[1].Action)
	})

	s.Run("unknown device is empty", func() {
		events, err := s.store.ListByDevice(ctx, "nobody")
		s.Require().NoError(err)
		s.Empty(events)
	})
}
