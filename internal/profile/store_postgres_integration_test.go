//go:build integration

package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sovereign/internal/profile"
	"sovereign/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *profile.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	pool, err := profile.Connect(context.Background(), s.pg.DSN)
	s.Require().NoError(err)
	s.T().Cleanup(pool.Close)
	s.store = profile.NewPostgres(pool)
}

func (s *PostgresStoreSuite) TestUpsertAndGet() {
	ctx := context.Background()

	s.Run("missing profile returns nil", func() {
		rec, err := s.store.GetProfile(ctx, "absent")
		s.Require().NoError(err)
		s.Nil(rec)
	})

	s.Run("upsert merges fields", func() {
		s.Require().NoError(s.store.UpsertProfile(ctx, "dev-1", profile.Fields{"verified": true}))
		s.Require().NoError(s.store.UpsertProfile(ctx, "dev-1", profile.Fields{"shadow_mode": true}))

		rec, err := s.store.GetProfile(ctx, "dev-1")
		s.Require().NoError(err)
		s.Require().NotNil(rec)
		s.Equal(true, rec.Fields["verified"])
		s.Equal(true, rec.Fields["shadow_mode"])
	})

	s.Run("repeated upsert is idempotent", func() {
		for range 3 {
			s.Require().NoError(s.store.UpsertProfile(ctx, "dev-2", profile.Fields{"verified": true}))
		}
		rec, err := s.store.GetProfile(ctx, "dev-2")
		s.Require().NoError(err)
		s.Len(rec.Fields, 1)
	})
}
