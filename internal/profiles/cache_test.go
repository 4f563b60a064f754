// internal/profiles/cache_test.go
package profiles

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"disc-workers/internal/common/logger"
	"disc-workers/internal/disc"
	"disc-workers/internal/models"
	"disc-workers/internal/profiles/profilestest"
)

const cacheTTL = 5 * time.Minute

func createCachedProfiles(t *testing.T) []*disc.Profile {
	t.Helper()
	p := createTestProfile(t, "p-1", 0, storeNow)
	p.UserID = "user-1"
	return []*disc.Profile{p}
}

// ==========================
// redismock: exact command flow
// ==========================

func TestCachedRepository_MissThenStore(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	repo := new(profilestest.MockRepository)
	cached := NewCachedRepository(repo, client, cacheTTL, logger.NewTestLogger(t))

	profiles := createCachedProfiles(t)
	data, err := json.Marshal(profiles)
	require.NoError(t, err)

	redisMock.ExpectHGet("disc:profiles:user-1", "limit:5").RedisNil()
	redisMock.ExpectGet("disc:profiles-gen:user-1").RedisNil()
	redisMock.ExpectEvalSha(storeIfCurrent.Hash(),
		[]string{"disc:profiles:user-1", "disc:profiles-gen:user-1"},
		"0", "limit:5", string(data), cacheTTL.Milliseconds(),
	).SetVal(int64(1))
	repo.On("GetUserProfiles", mock.Anything, "user-1", 5).Return(profiles, nil).Once()

	got, err := cached.GetUserProfiles(context.Background(), "user-1", 5)
	require.NoError(t, err)
	assert.Equal(t, profiles, got)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	repo.AssertExpectations(t)
}

func TestCachedRepository_Hit(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	repo := new(profilestest.MockRepository)
	cached := NewCachedRepository(repo, client, cacheTTL, logger.NewTestLogger(t))

	profiles := createCachedProfiles(t)
	data, err := json.Marshal(profiles)
	require.NoError(t, err)

	redisMock.ExpectHGet("disc:profiles:user-1", "limit:5").SetVal(string(data))

	got, err := cached.GetUserProfiles(context.Background(), "user-1", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, profiles[0].Scores, got[0].Scores)
	assert.Equal(t, profiles[0].PrimaryStyle, got[0].PrimaryStyle)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	repo.AssertNotCalled(t, "GetUserProfiles", mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedRepository_RedisDownFallsThrough(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	repo := new(profilestest.MockRepository)
	cached := NewCachedRepository(repo, client, cacheTTL, logger.NewTestLogger(t))

	redisMock.ExpectHGet("disc:profiles:user-1", "count").SetErr(stderrors.New("connection refused"))
	redisMock.ExpectGet("disc:profiles-gen:user-1").SetErr(stderrors.New("connection refused"))
	repo.On("CountUserProfiles", mock.Anything, "user-1").Return(3, nil).Once()

	n, err := cached.CountUserProfiles(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedRepository_SaveInvalidates(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	repo := new(profilestest.MockRepository)
	cached := NewCachedRepository(repo, client, cacheTTL, logger.NewTestLogger(t))

	profile := createTestProfile(t, "p-2", 1, storeNow)
	record := models.NewProfileRecord(profile, "user-1", storeNow)
	repo.On("SaveProfile", mock.Anything, profile, "user-1").Return(record, nil).Once()
	redisMock.ExpectIncr("disc:profiles-gen:user-1").SetVal(1)
	redisMock.ExpectDel("disc:profiles:user-1").SetVal(1)

	got, err := cached.SaveProfile(context.Background(), profile, "user-1")
	require.NoError(t, err)
	assert.Same(t, record, got)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedRepository_SaveErrorSkipsInvalidation(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	repo := new(profilestest.MockRepository)
	cached := NewCachedRepository(repo, client, cacheTTL, nil)

	repo.On("SaveProfile", mock.Anything, mock.Anything, "user-1").Return(nil, stderrors.New("db down")).Once()

	_, err := cached.SaveProfile(context.Background(), &disc.Profile{}, "user-1")
	assert.Error(t, err)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

// ==========================
// miniredis: end-to-end behavior
// ==========================

func TestCachedRepository_WithSQLiteAndMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := createTestSQLiteStore(t)
	cached := NewCachedRepository(store, client, cacheTTL, logger.NewTestLogger(t))
	ctx := context.Background()

	_, err := cached.SaveProfile(ctx, createTestProfile(t, "p-1", 0, storeNow.Add(-time.Hour)), "user-1")
	require.NoError(t, err)

	count, err := cached.CountUserProfiles(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, mr.Exists("disc:profiles:user-1"))
	assert.Equal(t, cacheTTL, mr.TTL("disc:profiles:user-1"))

	_, err = cached.SaveProfile(ctx, createTestProfile(t, "p-2", 3, storeNow), "user-1")
	require.NoError(t, err)
	assert.False(t, mr.Exists("disc:profiles:user-1"))

	profiles, err := cached.GetUserProfiles(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "p-2", profiles[0].ID)

	count, err = cached.CountUserProfiles(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	mr.FastForward(cacheTTL + time.Second)
	assert.False(t, mr.Exists("disc:profiles:user-1"))
}

func TestCachedRepository_ReadRacingSaveIsNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := new(profilestest.MockRepository)
	cached := NewCachedRepository(repo, client, cacheTTL, logger.NewTestLogger(t))
	ctx := context.Background()

	stale := createCachedProfiles(t)
	fresh := append(createCachedProfiles(t), createTestProfile(t, "p-2", 3, storeNow))

	// A save lands while the first read is still querying the store.
	repo.On("GetUserProfiles", mock.Anything, "user-1", 10).
		Run(func(mock.Arguments) { cached.Invalidate(ctx, "user-1") }).
		Return(stale, nil).Once()
	repo.On("CountUserProfiles", mock.Anything, "user-1").
		Run(func(mock.Arguments) { cached.Invalidate(ctx, "user-1") }).
		Return(1, nil).Once()

	got, err := cached.GetUserProfiles(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	n, err := cached.CountUserProfiles(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, mr.Exists("disc:profiles:user-1"), "stale result must not be written back")

	repo.On("GetUserProfiles", mock.Anything, "user-1", 10).Return(fresh, nil).Once()
	got, err = cached.GetUserProfiles(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, mr.Exists("disc:profiles:user-1"))
	assert.Equal(t, cacheTTL, mr.TTL("disc:profiles:user-1"))

	got, err = cached.GetUserProfiles(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}
