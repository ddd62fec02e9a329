package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/internal/identity"
	"github.com/courtvision/courtvision/jobs"
)

type stubUsers struct {
	created []identity.NewUser
	roles   []string
}

func (s *stubUsers) CreateUser(ctx context.Context, in identity.NewUser) (int64, error) {
	s.created = append(s.created, in)
	return int64(len(s.created)), nil
}

func (s *stubUsers) SetRole(ctx context.Context, email, organization, role string) error {
	s.roles = append(s.roles, email+"|"+organization+"|"+role)
	return nil
}

type stubJobs struct {
	triggered []jobs.WarmupPayload
	err       error
}

func (s *stubJobs) Trigger(ctx context.Context, name string, payload jobs.WarmupPayload) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.triggered = append(s.triggered, payload)
	return &asynq.TaskInfo{ID: "t-1", Type: jobs.TaskStatsWarmup, Queue: jobs.QueueDefault}, nil
}

func (s *stubJobs) InspectQueue(ctx context.Context) (QueueStats, error) {
	return QueueStats{Queue: jobs.QueueDefault, Pending: 2}, nil
}

type stubCache struct{ bumps int64 }

func (s *stubCache) Bump(ctx context.Context) (int64, error) {
	s.bumps++
	return s.bumps, nil
}

type stubDB struct{ migrated bool }

func (s *stubDB) Migrate(ctx context.Context) error {
	s.migrated = true
	return nil
}

type harness struct {
	users *stubUsers
	jobs  *stubJobs
	cache *stubCache
	db    *stubDB
	out   *bytes.Buffer
}

func newHarness() *harness {
	return &harness{users: &stubUsers{}, jobs: &stubJobs{}, cache: &stubCache{}, db: &stubDB{}, out: new(bytes.Buffer)}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	noop := func() {}
	root := NewRootCommand(Env{
		Stdout:    h.out,
		OpenUsers: func(context.Context) (UserAdmin, func(), error) { return h.users, noop, nil },
		OpenDB:    func(context.Context) (Migrator, func(), error) { return h.db, noop, nil },
		OpenJobs:  func(context.Context) (JobsAdmin, func(), error) { return h.jobs, noop, nil },
		OpenCache: func(context.Context) (CacheBumper, func(), error) { return h.cache, noop, nil },
	})
	root.SetArgs(args)
	root.SetErr(new(bytes.Buffer))
	return root.ExecuteContext(context.Background())
}

func TestUserCreateDefaultsToMember(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run(t, "user", "create", "--email", "coach@example.com", "--password", "long-enough"))

	require.Len(t, h.users.created, 1)
	assert.Equal(t, gate.MemberRole, h.users.created[0].Role)
	assert.Equal(t, "courtvision", h.users.created[0].Organization)
	assert.Contains(t, h.out.String(), "created user 1 (coach@example.com)")
}

func TestUserCreateAdminFromEnvPassword(t *testing.T) {
	t.Setenv(passwordEnv, "from-env-pass")
	h := newHarness()
	require.NoError(t, h.run(t, "user", "create", "--email", "gm@example.com", "--admin"))

	require.Len(t, h.users.created, 1)
	assert.Equal(t, gate.AdminRole, h.users.created[0].Role)
	assert.Equal(t, "from-env-pass", h.users.created[0].Password)
}

func TestUserCreateWithoutPasswordFails(t *testing.T) {
	t.Setenv(passwordEnv, "")
	h := newHarness()
	err := h.run(t, "user", "create", "--email", "gm@example.com")
	require.ErrorContains(t, err, "password required")
	assert.Empty(t, h.users.created)
}

func TestMembershipSetValidatesRole(t *testing.T) {
	h := newHarness()
	require.Error(t, h.run(t, "membership", "set", "--email", "a@example.com", "--role", "org:owner"))
	require.NoError(t, h.run(t, "membership", "set", "--email", "a@example.com", "--role", "org:admin"))
	assert.Equal(t, []string{"a@example.com|courtvision|org:admin"}, h.users.roles)
}

func TestJobsTriggerWarmup(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run(t, "jobs", "trigger", "warmup", "--start", "2024-03-01", "--end", "2024-03-31"))
	assert.Equal(t, []jobs.WarmupPayload{{StartDate: "2024-03-01", EndDate: "2024-03-31"}}, h.jobs.triggered)
	assert.Contains(t, h.out.String(), "enqueued statsapi:warmup as t-1")

	require.Error(t, h.run(t, "jobs", "trigger", "warmup", "--start", "2024-03-01"))
}

func TestJobsTriggerDuplicateIsNotAnError(t *testing.T) {
	h := newHarness()
	h.jobs.err = asynq.ErrDuplicateTask
	require.NoError(t, h.run(t, "jobs", "trigger", "warmup"))
	assert.Contains(t, h.out.String(), "less than a minute ago")

	h.jobs.err = errors.New("redis down")
	require.ErrorContains(t, h.run(t, "jobs", "trigger", "warmup"), "redis down")
}

func TestCacheBumpAndMigrate(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run(t, "cache", "bump"))
	require.NoError(t, h.run(t, "db", "migrate"))
	require.NoError(t, h.run(t, "jobs", "status"))

	assert.Contains(t, h.out.String(), "cache version now 1")
	assert.True(t, h.db.migrated)
	assert.Contains(t, h.out.String(), "queue=default pending=2")
}
