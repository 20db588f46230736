package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/closetlabs/storefront/internal/sdk"
	domain "github.com/closetlabs/storefront/pkg/types"
)

func authCmd() *cobra.Command {
	authRoot := &cobra.Command{
		Use:   "auth",
		Short: "Manage the storefront session",
		Long: "Log in and out of the storefront. The session tokens are persisted\n" +
			"in the token file so other commands run authenticated.",
	}

	authRoot.AddCommand(
		authLoginCmd(),
		authRegisterCmd(),
		authLogoutCmd(),
		authWhoamiCmd(),
	)

	return authRoot
}

func newAuthService() (*sdk.AuthService, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := newLogger(cfg)
	client, tokens, err := newSDKClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return sdk.NewAuthService(client, tokens, log), log, nil
}

func authLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Log in and persist the session",
		Example: `  storefront auth login --email ada@example.com --password hunter2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := newAuthService()
			if err != nil {
				return err
			}

			session, err := svc.Login(cmd.Context(), domain.LoginCredentials{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(session.User)
			}
			fmt.Printf("Logged in as %s (%s)\n", session.User.Name, session.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cobra.CheckErr(cmd.MarkFlagRequired("email"))
	cobra.CheckErr(cmd.MarkFlagRequired("password"))

	return cmd
}

func authRegisterCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := newAuthService()
			if err != nil {
				return err
			}

			session, err := svc.Register(cmd.Context(), domain.RegisterData{
				Email:    email,
				Password: password,
				Name:     name,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(session.User)
			}
			fmt.Printf("Registered %s (%s)\n", session.User.Name, session.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cobra.CheckErr(cmd.MarkFlagRequired("email"))
	cobra.CheckErr(cmd.MarkFlagRequired("password"))
	cobra.CheckErr(cmd.MarkFlagRequired("name"))

	return cmd
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := newAuthService()
			if err != nil {
				return err
			}
			if err := svc.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func authWhoamiCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := newAuthService()
			if err != nil {
				return err
			}

			var user *domain.User
			if cached {
				u, ok := svc.CachedUser()
				if !ok {
					return fmt.Errorf("no cached session; run `storefront auth login`")
				}
				user = u
			} else {
				user, err = svc.CurrentUser(cmd.Context())
				if err != nil {
					return err
				}
			}

			if jsonOutput() {
				return outputJSON(user)
			}
			return printUserDetail(user)
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "use the locally cached user without calling the API")

	return cmd
}
