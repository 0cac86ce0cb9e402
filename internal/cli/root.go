// Package cli implements the tracker command line client. It hosts the
// client-side core: the persisted session, the authenticated API client,
// and the status/week derivation used by the dashboard views.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tariqai1/student-productivity-app/internal/api"
	"github.com/Tariqai1/student-productivity-app/internal/session"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:           "tracker",
	Short:         "Student productivity tracker client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("TRACKER_SERVER")
	if defaultURL == "" {
		defaultURL = "http://localhost:8000"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "backend base URL")
}

// app bundles the session wiring shared by every command.
type app struct {
	tokens *session.FileStore
	client *api.Client
	sess   *session.Session
}

// consoleNavigator satisfies session.Navigator for a terminal. authSurface
// is true for the commands that are themselves the login surface, so an
// expired session does not nag during login or logout.
type consoleNavigator struct {
	authSurface bool
}

func (n *consoleNavigator) OnAuthSurface() bool { return n.authSurface }

func (n *consoleNavigator) ToLogin() {
	fmt.Fprintln(os.Stderr, "Run 'tracker login' to continue.")
}

// consoleNotifier prints session notices to stderr so they never corrupt
// piped output.
type consoleNotifier struct{}

func (consoleNotifier) Notify(message string) {
	fmt.Fprintln(os.Stderr, message)
}

// newApp wires token store, client and session together. The client's 401
// hook feeds the session's logout so an expired token is cleared exactly
// once no matter how many requests fail.
func newApp(authSurface bool) (*app, error) {
	tokens, err := session.NewFileStore()
	if err != nil {
		return nil, fmt.Errorf("resolve token store: %w", err)
	}

	client := api.New(serverURL, tokens)
	sess := session.New(tokens, client, &consoleNavigator{authSurface: authSurface}, consoleNotifier{})
	client.OnAuthReject(sess.Logout)

	return &app{tokens: tokens, client: client, sess: sess}, nil
}

// requireAuth fails fast when no token is stored, before any network call.
func (a *app) requireAuth() error {
	if a.tokens.Token() == "" {
		return fmt.Errorf("not logged in, run 'tracker login' first")
	}
	return nil
}
