//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"roster/internal/records/models"
	redisstore "roster/internal/records/store/redis"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *redisstore.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))
	var err error
	s.store, err = redisstore.New(ctx, s.redis.Client)
	s.Require().NoError(err)
}

func (s *RedisStoreSuite) TestSeedsHeader() {
	lines, err := s.redis.Client.LRange(context.Background(), redisstore.DefaultKey, 0, -1).Result()
	s.Require().NoError(err)
	s.Equal([]string{"First Name,Last Name,Date of Birth"}, lines)
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	records := []models.Record{
		{Person: models.Person{FirstName: "O,Brien", LastName: "Doe", DateOfBirth: "1990-01-01"}},
		{Person: models.Person{FirstName: "Jane", LastName: "Smith", DateOfBirth: "1985-05-15"}},
	}
	s.Require().NoError(s.store.WriteAll(ctx, records))

	got, err := s.store.ReadAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("O,Brien", got[0].FirstName)
	s.Equal(2, got[1].Index)
}

func (s *RedisStoreSuite) TestMalformedLines() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.RPush(ctx, redisstore.DefaultKey, "only,two", "John,Doe,1990-01-01").Err())

	got, err := s.store.ReadAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(1, got[0].Index)

	strict, err := redisstore.New(ctx, s.redis.Client, redisstore.WithStrictRows(true))
	s.Require().NoError(err)
	_, err = strict.ReadAll(ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeCorrupt))
}

func (s *RedisStoreSuite) TestAppend() {
	ctx := context.Background()
	jane := models.Person{FirstName: "Jane", LastName: "Smith", DateOfBirth: "1985-05-15"}
	s.Require().NoError(s.store.Append(ctx, jane))

	got, err := s.store.ReadAll(ctx)
	s.Require().NoError(err)
	s.Equal([]models.Record{{Index: 1, Person: jane}}, got)

	s.Require().NoError(s.redis.Client.RPush(ctx, redisstore.DefaultKey, "First Name,Last Name,Date of Birth").Err())
	err = s.store.Append(ctx, jane)
	s.True(dErrors.HasCode(err, dErrors.CodeCorrupt))
}

func (s *RedisStoreSuite) TestMissingKey() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))

	_, err := s.store.ReadAll(ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Equal("The key 'roster:records' does not exist.", err.Error())
}
