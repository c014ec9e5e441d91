package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/huh"
	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/rogersnm/fieldwork/internal/config"
	"github.com/rogersnm/fieldwork/internal/logging"
	"github.com/rogersnm/fieldwork/internal/maximo"
	"github.com/rogersnm/fieldwork/internal/sitelink"
	"github.com/rogersnm/fieldwork/internal/status"
	"github.com/rogersnm/fieldwork/internal/urlfix"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	dataDir string
	cfg     *config.Config
	logger  = zap.NewNop()

	flagOrigin   string
	flagUser     string
	flagPassword string
	verbose      bool

	// swapped in tests
	interactive = stdinIsTerminal
	lookupEnv   = os.LookupEnv
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".fieldwork")
	}
	return filepath.Join(home, ".fieldwork")
}

var rootCmd = &cobra.Command{
	Use:     "fieldwork",
	Short:   "Work order status changes against a Maximo server",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		var err error
		cfg, err = config.Load(dataDir)
		if err != nil {
			return configError("loading config: %w", err)
		}

		logger, err = logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return configError("%w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path")
	pf.StringVar(&flagOrigin, "origin", "", "server origin, e.g. https://host/maximo (overrides config)")
	pf.StringVarP(&flagUser, "user", "u", "", "username (default from "+config.UserEnv+" or config)")
	pf.StringVar(&flagPassword, "password", "", "password (default from "+config.PasswordEnv+")")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log requests and protocol steps to stderr")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"status list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of status values in server order with code and label; the current status is marked with *",
				},
				Examples: []mtp.Example{
					{Description: "List work order statuses", Command: "fieldwork status list"},
					{Description: "List statuses and mark the current one of a work order", Command: "fieldwork status list --href oslc/os/mxapiwodetail/_QkVERk9SRC8xMDAx"},
				},
			},
			"status change": {
				Stdin: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Memo recorded with the status change",
				},
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Status stored by the server after the change and whether it was confirmed",
				},
				Examples: []mtp.Example{
					{Description: "Approve a work order", Command: "fieldwork status change oslc/os/mxapiwodetail/_QkVERk9SRC8xMDAx APPR"},
					{Description: "Complete with a memo", Command: "echo 'Pump back in service' | fieldwork status change oslc/os/mxapiwodetail/_QkVERk9SRC8xMDAx COMP"},
					{Description: "Apply a change request file", Command: "fieldwork status change --file change.md"},
				},
			},
			"workorder show": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Work order header fields followed by the long description",
				},
				Examples: []mtp.Example{
					{Description: "Show a work order", Command: "fieldwork workorder show oslc/os/mxapiwodetail/_QkVERk9SRC8xMDAx --pretty"},
				},
			},
			"doclink list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of attachments with title, file name, format and href",
				},
			},
			"url normalize": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "One canonical absolute URL per argument",
				},
				Examples: []mtp.Example{
					{Description: "Repair a doubled path", Command: "fieldwork url normalize http://10.0.0.5/maximo/oslc/oslc/os/mxapiwodetial/_QkVERk9SRC8xMDAx/"},
					{Description: "Also decode the resource token", Command: "fieldwork url normalize --decode oslc/os/mxapiwodetail/_QkVERk9SRC8xMDAx"},
				},
			},
			"config set-origin": {
				Examples: []mtp.Example{
					{Description: "Point at a server", Command: "fieldwork config set-origin https://mx.example.com/maximo"},
				},
			},
			"site link": {
				Examples: []mtp.Example{
					{Description: "Use the test server from this directory", Command: "fieldwork site link https://mx-test.example.com/maximo"},
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

// Execute runs the root command. An interrupt cancels reads in flight; a
// status change that has started still runs to completion.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, status.ErrConfiguration):
		return 2
	case errors.Is(err, status.ErrBusinessRule):
		return 3
	case errors.Is(err, status.ErrConfirmationMismatch):
		return 4
	case errors.Is(err, status.ErrTransport), errors.Is(err, status.ErrServer):
		return 5
	}

	// Errors that reach here unclassified come from plain reads.
	var apiErr *maximo.APIError
	var urlErr *url.Error
	if errors.As(err, &apiErr) || errors.As(err, &urlErr) {
		return 5
	}
	return 1
}

// configError reports a problem with flags, environment, config or a link
// file; ExitCode maps it to 2.
func configError(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &status.Error{Kind: status.KindConfiguration, Message: err.Error(), Err: errors.Unwrap(err)}
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func readStdin() string {
	info, err := os.Stdin.Stat()
	if err != nil {
		return ""
	}
	// Only read if stdin is explicitly a pipe (not a terminal, not a socket)
	if info.Mode()&os.ModeNamedPipe == 0 && info.Size() == 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return string(data)
}

// resolveOrigin returns the origin from the flag, a directory link, the
// environment or the config file, in that order.
func resolveOrigin() (origin, source string, err error) {
	if flagOrigin != "" {
		return flagOrigin, "--origin", nil
	}
	if cwd, err := os.Getwd(); err == nil {
		l, err := sitelink.Find(cwd)
		if err != nil {
			return "", "", configError("%w", err)
		}
		if l != nil {
			return l.Origin, l.Path(), nil
		}
	}
	eff := cfg.WithEnv(lookupEnv)
	if eff.Origin == "" {
		return "", "", configError("no server origin configured (set one with: fieldwork config set-origin <url>, or link a directory with: fieldwork site link <url>)")
	}
	if eff.Origin != cfg.Origin {
		return eff.Origin, config.OriginEnv, nil
	}
	return eff.Origin, "config", nil
}

func newNormalizer() (*urlfix.Normalizer, error) {
	origin, source, err := resolveOrigin()
	if err != nil {
		return nil, err
	}
	typos := make([]urlfix.Typo, 0, len(cfg.Typos))
	for _, t := range cfg.Typos {
		ty, err := urlfix.ParseTypo(t.From, t.To)
		if err != nil {
			return nil, configError("config typo %q: %w", t.From, err)
		}
		typos = append(typos, ty)
	}
	n, err := urlfix.New(origin, typos...)
	if err != nil {
		return nil, configError("origin from %s: %w", source, err)
	}
	return n, nil
}

func newClient() (*maximo.Client, error) {
	n, err := newNormalizer()
	if err != nil {
		return nil, err
	}
	return maximo.NewClient(n, maximo.WithLogger(logger)), nil
}

func classifier() *status.Classifier {
	return status.NewClassifier(cfg.RejectionMarkers...)
}

// credentials resolves the username from flag, env or config and the
// password from flag or env, prompting for it on a terminal.
func credentials() (maximo.Credentials, error) {
	user := flagUser
	if user == "" {
		user = cfg.WithEnv(lookupEnv).Username
	}
	if user == "" {
		return maximo.Credentials{}, configError("no username (use --user, %s, or: fieldwork config set-user <name>)", config.UserEnv)
	}

	pass := flagPassword
	if pass == "" {
		pass, _ = lookupEnv(config.PasswordEnv)
	}
	if pass == "" && interactive() {
		if err := huh.NewInput().
			Title("Password for " + user).
			EchoMode(huh.EchoModePassword).
			Value(&pass).
			Run(); err != nil {
			return maximo.Credentials{}, configError("password prompt cancelled")
		}
	}
	if pass == "" {
		return maximo.Credentials{}, configError("no password (use --password or %s)", config.PasswordEnv)
	}
	return maximo.Credentials{Username: user, Password: pass}, nil
}

// session returns a client and credentials for commands that talk to the
// server.
func session() (*maximo.Client, maximo.Credentials, error) {
	client, err := newClient()
	if err != nil {
		return nil, maximo.Credentials{}, err
	}
	creds, err := credentials()
	if err != nil {
		return nil, maximo.Credentials{}, err
	}
	return client, creds, nil
}
