// Package cli builds the courtctl command tree. Commands reach their backends
// through Env so tests can swap in stubs.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/courtvision/courtvision/internal/identity"
)

// UserAdmin manages accounts and memberships.
type UserAdmin interface {
	CreateUser(ctx context.Context, in identity.NewUser) (int64, error)
	SetRole(ctx context.Context, email, organization, role string) error
}

// Migrator applies the identity schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// CacheBumper invalidates every cached analytics response.
type CacheBumper interface {
	Bump(ctx context.Context) (int64, error)
}

// Env opens backends lazily so each command only connects to what it uses.
// Every opener returns a release func that is always safe to call.
type Env struct {
	Stdout    io.Writer
	OpenUsers func(ctx context.Context) (UserAdmin, func(), error)
	OpenDB    func(ctx context.Context) (Migrator, func(), error)
	OpenJobs  func(ctx context.Context) (JobsAdmin, func(), error)
	OpenCache func(ctx context.Context) (CacheBumper, func(), error)
}

// NewRootCommand assembles courtctl.
func NewRootCommand(env Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "courtctl",
		Short:         "Operate a courtvision deployment",
		Long:          "courtctl manages dashboard accounts, triggers cache warmups and invalidates cached analytics responses.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if env.Stdout != nil {
		root.SetOut(env.Stdout)
	}
	root.AddCommand(
		newUserCommand(env),
		newMembershipCommand(env),
		newJobsCommand(env),
		newCacheCommand(env),
		newDBCommand(env),
	)
	return root
}

func newCacheCommand(env Env) *cobra.Command {
	cacheCmd := &cobra.Command{Use: "cache", Short: "Analytics response cache"}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "bump",
		Short: "Invalidate every cached analytics response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bumper, release, err := env.OpenCache(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			ver, err := bumper.Bump(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("cache version now %d\n", ver)
			return nil
		},
	})
	return cacheCmd
}

func newDBCommand(env Env) *cobra.Command {
	dbCmd := &cobra.Command{Use: "db", Short: "Identity database"}
	dbCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the users and memberships tables if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, release, err := env.OpenDB(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			if err := m.Migrate(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("identity schema up to date")
			return nil
		},
	})
	return dbCmd
}
