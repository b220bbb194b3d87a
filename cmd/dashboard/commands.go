package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/internal/navigation"
)

func newLoginCmd(opts *options) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Username: ")
				line, err := readLine(in)
				if err != nil {
					return err
				}
				username = line
			}
			password, err := readPassword(cmd, in)
			if err != nil {
				return err
			}

			creds := domain.Credentials{Identifier: username, Secret: password}
			if err := opts.app.Session.Login(cmd.Context(), creds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.app.Session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

type statusReport struct {
	Authenticated bool   `json:"authenticated"`
	TokenStore    string `json:"token_store"`
	Backend       string `json:"backend"`
	BackendOnline bool   `json:"backend_online"`
	BackendError  string `json:"backend_error,omitempty"`
	StoreHealthy  bool   `json:"token_store_healthy"`
}

func newStatusCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the session and backend reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			health := a.Monitor.Refresh(cmd.Context())
			report := statusReport{
				Authenticated: a.Session.IsAuthenticated(),
				TokenStore:    a.Config.Token.Store,
				Backend:       a.API.BaseURL(),
				BackendOnline: a.Monitor.IsOnline(),
				BackendError:  health.BackendError,
				StoreHealthy:  health.TokenStore,
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printStatus(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newOpenCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path|route> [param=value...]",
		Short: "Navigate to a view and print where the guard sends it",
		Example: "  dashboard open /classes/42\n" +
			"  dashboard open class-detail id=42",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := opts.app.Navigator
			requested, err := resolveTarget(nav, args[0], args[1:])
			if err != nil {
				return err
			}
			final, err := nav.Navigate(requested, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if final.Path != requested.Path {
				fmt.Fprintf(out, "%s -> %s (%s)\n", requested.Path, final.Path, final.Route.Name)
				return nil
			}
			fmt.Fprintf(out, "%s (%s)\n", final.Path, final.Route.Name)
			return nil
		},
	}
}

func resolveTarget(nav *navigation.Navigator, target string, rawParams []string) (domain.Location, error) {
	if strings.HasPrefix(target, "/") {
		if len(rawParams) > 0 {
			return domain.Location{}, fmt.Errorf("params are only accepted with a route name")
		}
		return nav.Resolve(target)
	}

	route, ok := nav.Lookup(target)
	if !ok {
		names := make([]string, 0, len(nav.Routes()))
		for _, r := range nav.Routes() {
			names = append(names, r.Name)
		}
		return domain.Location{}, fmt.Errorf("route %q (known: %s): %w", target, strings.Join(names, ", "), domain.ErrRouteNotFound)
	}
	params := make(map[string]string, len(rawParams))
	for _, kv := range rawParams {
		key, value, found := strings.Cut(kv, "=")
		if !found || key == "" {
			return domain.Location{}, fmt.Errorf("param %q: want key=value", kv)
		}
		params[key] = value
	}
	return nav.Location(route.Name, params)
}

func newServeCmd(opts *options) *cobra.Command {
	var host, port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			if host != "" {
				a.Config.Shell.Host = host
			}
			if port != "" {
				a.Config.Shell.Port = port
			}
			ctx, cancel := a.Lifecycle.Listen(cmd.Context())
			defer cancel()

			fmt.Fprintf(cmd.ErrOrStderr(), "Dashboard shell on %s\n", a.Config.ShellURL())
			return a.Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides SHELL_HOST)")
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides SHELL_PORT)")
	return cmd
}

func printStatus(w io.Writer, r statusReport) {
	state := "not logged in"
	if r.Authenticated {
		state = "logged in"
	}
	backend := "online"
	if !r.BackendOnline {
		backend = "offline"
		if r.BackendError != "" {
			backend += " (" + r.BackendError + ")"
		}
	}
	store := "ok"
	if !r.StoreHealthy {
		store = "unavailable, session kept in memory only"
	}
	fmt.Fprintf(w, "Session:     %s\n", state)
	fmt.Fprintf(w, "Backend:     %s %s\n", r.Backend, backend)
	fmt.Fprintf(w, "Token store: %s, %s\n", r.TokenStore, store)
}

func readPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}
	return readLine(in)
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
