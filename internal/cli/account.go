package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/selfcare/internal/model"
	"github.com/roach88/selfcare/internal/profile"
)

// Identity is the public part of a profile.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func identityOf(sess *profile.Session) Identity {
	return Identity{Name: sess.Profile.Name, Email: sess.Profile.Email}
}

// credentialOptions holds the flags shared by register and login.
type credentialOptions struct {
	*RootOptions
	Name     string
	Email    string
	Password string
}

// password returns the --password flag or asks for it on stdin.
func (o *credentialOptions) password(cmd *cobra.Command) (string, error) {
	if o.Password != "" {
		return o.Password, nil
	}
	return newPrompter(cmd).Ask("Password: ")
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &credentialOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a profile and log in",
		Long: `Create a profile and make it the current user.

The password is stored as a bcrypt hash. When --password is omitted it
is read from stdin.

Examples:
  selfcare register --name Ana --email ana@example.com
  selfcare register --name Ana --email ana@example.com --password secret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				password, err := opts.password(cmd)
				if err != nil {
					return err
				}
				sess, err := app.Manager.Register(ctx, opts.Name, opts.Email, password)
				if err != nil {
					return err
				}
				return outputIdentity(app.Out, sess, fmt.Sprintf("Welcome, %s! You are now logged in.", sess.Profile.Name))
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (read from stdin when omitted)")

	return cmd
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &credentialOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				password, err := opts.password(cmd)
				if err != nil {
					return err
				}
				sess, err := app.Manager.Login(ctx, opts.Email, password)
				if err != nil {
					return err
				}
				return outputIdentity(app.Out, sess, fmt.Sprintf("Welcome back, %s!", sess.Profile.Name))
			})
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (read from stdin when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current user",
		Long: `Forget the current user. Mood entries, results and favorites stay
stored and are loaded again on the next login.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *App) error {
				sess, err := app.Manager.Resume(ctx)
				if err != nil && !model.HasCode(err, model.CodeNoSession) {
					return err
				}
				app.Manager.Logout(ctx, sess)
				if app.Out.IsJSON() {
					return app.Out.Success(map[string]bool{"loggedOut": true})
				}
				return app.Out.Success("Logged out.")
			})
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				return outputIdentity(app.Out, sess, fmt.Sprintf("%s <%s>", sess.Profile.Name, sess.Profile.Email))
			})
		},
	}
}

func outputIdentity(out *OutputFormatter, sess *profile.Session, text string) error {
	if out.IsJSON() {
		return out.Success(identityOf(sess))
	}
	return out.Success(text)
}
