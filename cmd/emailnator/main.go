// Command emailnator generates disposable addresses and reads their inboxes
// from the command line.
//
// Usage:
//
//	emailnator generate [-kinds domain,plusGmail] [-count 1]
//	emailnator inbox -email ADDR [-json] [-all]
//	emailnator read -email ADDR -id ID
//	emailnator wait -email ADDR [-subject S] [-from F] [-timeout 2m]
//
// Every command accepts -retries N to retry rate-limited requests with
// exponential backoff. Configuration is read from EMAILNATOR_* environment
// variables and an optional .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	emailnator "github.com/emailnator/client-go"
)

// Config holds the process dependencies of the CLI.
type Config struct {
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
}

// DefaultConfig returns a Config bound to the process streams and environment.
func DefaultConfig() Config {
	return Config{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
	}
}

const usage = `usage: emailnator <command> [flags]

commands:
  generate   generate temporary addresses
  inbox      list messages in an inbox
  read       print a message
  wait       wait for a matching message`

var errUsage = errors.New("invalid usage")

// retryBaseDelay is the first backoff delay for -retries.
var retryBaseDelay = time.Second

// command runs one subcommand.
type command func(ctx context.Context, env *cliEnv, args []string) error

var commands = map[string]command{
	"generate": generateCmd,
	"inbox":    inboxCmd,
	"read":     readCmd,
	"wait":     waitCmd,
}

// cliEnv is shared by all subcommands.
type cliEnv struct {
	cfg      Config
	settings *Settings
	logger   *logrus.Logger
}

func run(args []string, cfg Config) error {
	if len(args) < 2 {
		fmt.Fprintln(cfg.Stderr, usage)
		return errUsage
	}

	settings, err := LoadSettings(cfg.Getenv)
	if err != nil {
		fmt.Fprintf(cfg.Stderr, "configuration: %v\n", err)
		return err
	}
	logger := settings.NewLogger(cfg.Stderr)

	cmd, ok := commands[args[1]]
	if !ok {
		fmt.Fprintf(cfg.Stderr, "unknown command: %s\n%s\n", args[1], usage)
		return errUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env := &cliEnv{cfg: cfg, settings: settings, logger: logger}
	if err := cmd(ctx, env, args[2:]); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			logger.WithError(err).WithField("command", args[1]).Error("Command failed")
		}
		return err
	}
	return nil
}

func (e *cliEnv) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.cfg.Stderr)
	return fs
}

func (e *cliEnv) retryPolicy(retries int) *emailnator.RetryPolicy {
	policy := emailnator.DefaultRetryPolicy()
	policy.MaxRetries = retries
	policy.BaseDelay = retryBaseDelay
	return policy
}

// withRetry runs fn under the retry policy, logging every rate-limited attempt.
func (e *cliEnv) withRetry(ctx context.Context, retries int, op string, fn func(context.Context) error) error {
	attempt := 0
	return emailnator.Retry(ctx, e.retryPolicy(retries), func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if emailnator.IsRateLimited(err) && attempt <= retries {
			e.logger.WithFields(logrus.Fields{
				"op":      op,
				"attempt": attempt,
			}).Warn("Rate limited, backing off")
		}
		return err
	})
}

// connect bootstraps a session, retrying rate-limited bootstraps.
func (e *cliEnv) connect(ctx context.Context, retries int) (*emailnator.Client, error) {
	opts := []emailnator.Option{emailnator.WithTimeout(e.settings.Timeout)}
	if e.settings.BaseURL != "" {
		opts = append(opts, emailnator.WithBaseURL(e.settings.BaseURL))
	}
	if e.settings.UserAgent != "" {
		opts = append(opts, emailnator.WithUserAgent(e.settings.UserAgent))
	}

	var client *emailnator.Client
	err := e.withRetry(ctx, retries, "bootstrap", func(ctx context.Context) error {
		var err error
		client, err = emailnator.New(ctx, opts...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap session: %w", err)
	}
	e.logger.WithField("base_url", client.BaseURL()).Debug("Session ready")
	return client, nil
}

func generateCmd(ctx context.Context, env *cliEnv, args []string) error {
	fs := env.newFlagSet("generate")
	kindsFlag := fs.String("kinds", "domain", "comma-separated kinds: domain, plusGmail, dotGmail, googleMail")
	count := fs.Uint("count", 1, "number of addresses to generate")
	retries := fs.Int("retries", 0, "retries for rate-limited requests")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kinds, err := parseKinds(*kindsFlag)
	if err != nil {
		return err
	}
	if len(kinds) == 0 {
		return emailnator.ErrNoEmailKinds
	}
	if *count == 0 {
		return emailnator.ErrZeroCount
	}

	client, err := env.connect(ctx, *retries)
	if err != nil {
		return err
	}

	var emails []string
	err = env.withRetry(ctx, *retries, "generate", func(ctx context.Context) error {
		var err error
		emails, err = client.CreateEmails(ctx, kinds, *count)
		return err
	})
	if err != nil {
		return fmt.Errorf("generate emails: %w", err)
	}

	env.logger.WithField("count", len(emails)).Info("Generated addresses")
	for _, email := range emails {
		fmt.Fprintln(env.cfg.Stdout, email)
	}
	return nil
}

func inboxCmd(ctx context.Context, env *cliEnv, args []string) error {
	fs := env.newFlagSet("inbox")
	email := fs.String("email", "", "inbox address (required)")
	asJSON := fs.Bool("json", false, "print JSON")
	all := fs.Bool("all", false, "include the service's advertisement entry")
	retries := fs.Int("retries", 0, "retries for rate-limited requests")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return requiredFlag(fs, "email")
	}

	client, err := env.connect(ctx, *retries)
	if err != nil {
		return err
	}

	var inbox *emailnator.Inbox
	err = env.withRetry(ctx, *retries, "inbox", func(ctx context.Context) error {
		var err error
		inbox, err = client.FetchInbox(ctx, *email)
		return err
	})
	if err != nil {
		return fmt.Errorf("fetch inbox: %w", err)
	}

	messages := inbox.Messages
	if !*all {
		messages = inbox.Delivered()
	}

	if *asJSON {
		enc := json.NewEncoder(env.cfg.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(&emailnator.Inbox{Messages: messages})
	}
	for _, m := range messages {
		fmt.Fprintf(env.cfg.Stdout, "%s\t%s\t%s\n", m.ID, m.From, m.Subject)
	}
	return nil
}

func readCmd(ctx context.Context, env *cliEnv, args []string) error {
	fs := env.newFlagSet("read")
	email := fs.String("email", "", "inbox address (required)")
	id := fs.String("id", "", "message ID (required)")
	retries := fs.Int("retries", 0, "retries for rate-limited requests")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return requiredFlag(fs, "email")
	}
	if *id == "" {
		return requiredFlag(fs, "id")
	}

	client, err := env.connect(ctx, *retries)
	if err != nil {
		return err
	}

	var body string
	err = env.withRetry(ctx, *retries, "read", func(ctx context.Context) error {
		var err error
		body, err = client.ReadMessage(ctx, *email, *id)
		return err
	})
	if err != nil {
		return fmt.Errorf("read message: %w", err)
	}

	_, err = io.WriteString(env.cfg.Stdout, body)
	return err
}

func waitCmd(ctx context.Context, env *cliEnv, args []string) error {
	fs := env.newFlagSet("wait")
	email := fs.String("email", "", "inbox address (required)")
	subject := fs.String("subject", "", "exact subject to wait for")
	from := fs.String("from", "", "exact sender to wait for")
	timeout := fs.Duration("timeout", 2*time.Minute, "how long to wait")
	interval := fs.Duration("interval", 2*time.Second, "initial poll interval")
	retries := fs.Int("retries", 0, "retries for a rate-limited bootstrap")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return requiredFlag(fs, "email")
	}

	client, err := env.connect(ctx, *retries)
	if err != nil {
		return err
	}

	opts := []emailnator.WaitOption{
		emailnator.WithWaitTimeout(*timeout),
		emailnator.WithPollInterval(*interval),
	}
	if *subject != "" {
		opts = append(opts, emailnator.WithSubject(*subject))
	}
	if *from != "" {
		opts = append(opts, emailnator.WithFrom(*from))
	}

	env.logger.WithFields(logrus.Fields{
		"email":   *email,
		"timeout": timeout.String(),
	}).Info("Waiting for message")

	header, err := client.WaitForMessage(ctx, *email, opts...)
	if err != nil {
		return fmt.Errorf("wait for message: %w", err)
	}
	fmt.Fprintf(env.cfg.Stdout, "%s\t%s\t%s\n", header.ID, header.From, header.Subject)
	return nil
}

func parseKinds(s string) ([]emailnator.EmailKind, error) {
	var kinds []emailnator.EmailKind
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kind, err := emailnator.ParseEmailKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func requiredFlag(fs *flag.FlagSet, name string) error {
	fmt.Fprintf(fs.Output(), "-%s is required\n", name)
	fs.Usage()
	return fmt.Errorf("%w: -%s is required", errUsage, name)
}
