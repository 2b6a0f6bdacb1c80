package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/phbpx/prits/auth"
	"github.com/phbpx/prits/client"
	"github.com/spf13/cobra"
)

type options struct {
	addr    string
	token   string
	timeout time.Duration
}

func (o *options) client() *client.Client {
	return client.New(o.addr, client.WithToken(o.token))
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "adminctl",
		Short:         "Back-office tool for the agency site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Defaults come from the environment so a login can be exported once.
	cmd.PersistentFlags().StringVar(&opts.addr, "addr", envOr("PRITS_ADDR", "http://localhost:3000"), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("PRITS_TOKEN"), "session token (PRITS_TOKEN)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "request timeout")

	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newHashPasswordCommand())
	cmd.AddCommand(newEnquiriesCommand(opts))
	cmd.AddCommand(newServiceEnquiriesCommand(opts))
	cmd.AddCommand(newTestimonialsCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))

	return cmd
}

func newLoginCommand(opts *options) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a session and print its token",
		Long: `Open a session and print its token. The password is read from
PRITS_PASSWORD or, when unset, from the first line of stdin.

  export PRITS_TOKEN=$(adminctl login --email admin@example.com)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("PRITS_PASSWORD")
			if password == "" {
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			s, err := opts.client().Login(ctx, email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), s.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", os.Getenv("PRITS_AUTH_ADMIN_EMAIL"), "admin email")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash for PRITS_AUTH_ADMIN_PASSWORD_HASH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty input")
	}
	return line, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
