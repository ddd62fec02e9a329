package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/internal/identity"
)

// passwordEnv lets scripts pass the password without exposing it in argv.
const passwordEnv = "COURTCTL_PASSWORD"

const defaultOrganization = "courtvision"

func newUserCommand(env Env) *cobra.Command {
	userCmd := &cobra.Command{Use: "user", Short: "Dashboard accounts"}

	var in identity.NewUser
	var admin bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account with an optional organisation role",
		Example: `  COURTCTL_PASSWORD=s3cret-pass courtctl user create --email coach@example.com --name Coach --role org:member
  courtctl user create --email gm@example.com --password s3cret-pass --admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				in.Password = os.Getenv(passwordEnv)
			}
			if in.Password == "" {
				return errors.New("password required: pass --password or set " + passwordEnv)
			}
			if admin {
				in.Role = gate.AdminRole
			}
			if in.Role == "" {
				in.Organization = ""
			}
			users, release, err := env.OpenUsers(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			id, err := users.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			cmd.Printf("created user %d (%s)\n", id, in.Email)
			return nil
		},
	}
	create.Flags().StringVar(&in.Email, "email", "", "account email")
	create.Flags().StringVar(&in.DisplayName, "name", "", "display name")
	create.Flags().StringVar(&in.Password, "password", "", "initial password (or "+passwordEnv+")")
	create.Flags().StringVar(&in.Organization, "org", defaultOrganization, "organisation for the role")
	create.Flags().StringVar(&in.Role, "role", gate.MemberRole, "role marker, org:admin or org:member; empty for none")
	create.Flags().BoolVar(&admin, "admin", false, "shorthand for --role org:admin")
	_ = create.MarkFlagRequired("email")

	userCmd.AddCommand(create)
	return userCmd
}

func newMembershipCommand(env Env) *cobra.Command {
	membershipCmd := &cobra.Command{Use: "membership", Short: "Organisation roles"}

	var email, org, role string
	set := &cobra.Command{
		Use:   "set",
		Short: "Assign a role to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != gate.AdminRole && role != gate.MemberRole {
				return errors.New("role must be " + gate.AdminRole + " or " + gate.MemberRole)
			}
			users, release, err := env.OpenUsers(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			if err := users.SetRole(cmd.Context(), email, org, role); err != nil {
				return err
			}
			cmd.Printf("%s is now %s in %s\n", email, role, org)
			return nil
		},
	}
	set.Flags().StringVar(&email, "email", "", "account email")
	set.Flags().StringVar(&org, "org", defaultOrganization, "organisation")
	set.Flags().StringVar(&role, "role", "", "org:admin or org:member")
	_ = set.MarkFlagRequired("email")
	_ = set.MarkFlagRequired("role")

	membershipCmd.AddCommand(set)
	return membershipCmd
}
