package statsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtvision/courtvision/internal/nba"
)

func newCachedSource(t *testing.T, handler http.HandlerFunc) (*CachedSource, *int64) {
	t.Helper()
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	client := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	return NewCachedSource(client, NewCache(rdb, time.Minute)), &hits
}

func TestCachedSourceServesRepeatFromRedis(t *testing.T) {
	src, hits := newCachedSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rankings":[{"teamname":"Celtics","days_of_rest":3}]}`))
	})
	ctx := context.Background()

	first, err := src.RestRankings(ctx, nba.SeasonRange())
	require.NoError(t, err)
	second, err := src.RestRankings(ctx, nba.SeasonRange())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt64(hits))
}

func TestCachedSourceBumpInvalidates(t *testing.T) {
	src, hits := newCachedSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rankings":[]}`))
	})
	ctx := context.Background()

	_, err := src.B2BRankings(ctx, nba.SeasonRange())
	require.NoError(t, err)
	ver, err := src.Cache().Bump(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, ver)
	_, err = src.B2BRankings(ctx, nba.SeasonRange())
	require.NoError(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt64(hits))
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	src, hits := newCachedSource(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"stints":[{"player_name":"Tatum","period":1}]}`))
	})
	ctx := context.Background()

	_, err := src.PlayerStints(ctx, nba.SeasonRange())
	require.Error(t, err)
	assert.True(t, IsFetchError(err))

	fail.Store(false)
	got, err := src.PlayerStints(ctx, nba.SeasonRange())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.EqualValues(t, 2, atomic.LoadInt64(hits))
}

func TestCacheDisabledWithZeroTTL(t *testing.T) {
	cache := NewCache(nil, 0)
	key, err := cache.BuildKey(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", key)

	var out []int
	err = cache.FetchJSON(context.Background(), key, &out, func(context.Context) (any, error) {
		return []int{1, 2}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, out)
}

func TestCachedSourceSharedLoadSurvivesCancelledCaller(t *testing.T) {
	release := make(chan struct{})
	src, hits := newCachedSource(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"rankings":[{"teamname":"Celtics","days_of_rest":3}]}`))
	})

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	errA := make(chan error, 1)
	go func() {
		_, err := src.RestRankings(ctxA, nba.SeasonRange())
		errA <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt64(hits) == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		rows []nba.RestRanking
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		rows, err := src.RestRankings(context.Background(), nba.SeasonRange())
		resB <- result{rows: rows, err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case res := <-resB:
		require.NoError(t, res.err)
		require.Len(t, res.rows, 1)
		assert.Equal(t, "Celtics", res.rows[0].TeamName)
	case <-time.After(2 * time.Second):
		t.Fatal("waiting caller did not return")
	}
	assert.EqualValues(t, 1, atomic.LoadInt64(hits))
}

func TestBumpInvalidatesOtherProcesses(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		_, _ = w.Write([]byte(`{"rankings":[]}`))
	}))
	t.Cleanup(srv.Close)
	mr := miniredis.RunT(t)
	newRedis := func() *redis.Client {
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		return rdb
	}
	client := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	web := NewCachedSource(client, NewCache(newRedis(), time.Minute))
	tool := NewCache(newRedis(), time.Minute)
	ctx := context.Background()

	_, err := web.TeamRankings(ctx, nba.MonthRange())
	require.NoError(t, err)
	_, err = web.TeamRankings(ctx, nba.MonthRange())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt64(&hits))

	_, err = tool.Bump(ctx)
	require.NoError(t, err)
	_, err = web.TeamRankings(ctx, nba.MonthRange())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt64(&hits))
}
