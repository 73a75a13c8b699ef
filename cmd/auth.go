package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tbakr/troopmedia/internal/services"
	"github.com/tbakr/troopmedia/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a token pair and persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	var err error
	if username == "" {
		if username, err = promptLine("Username: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = promptLine("Password: "); err != nil {
			return err
		}
	}

	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "username", username)

	pair, err := r.svc.Login(ctx, username, password)
	if err != nil {
		var apiErr *services.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%w: %s", shared.ErrAuthFailed, apiErr.Banner())
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.store.SetPair(pair.Access, pair.Refresh); err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}

	r.logger.Info("authentication successful")

	r.writePlain("✓ Logged in as %s\n", username)
	return r.writePlain("Tokens stored in %s\n", r.store.Path())
}

// AuthLogout discards the stored token pair.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}

	r.logger.Info("tokens cleared")
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports whether a usable session is stored. Expired or malformed
// tokens count as logged out, matching how mutating commands gate themselves.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	err := r.guard.Check(time.Now())
	if err == nil {
		r.writePlain("Authentication: ✓ Authenticated\n")
		return r.writePlain("Tokens: %s\n", r.store.Path())
	}

	switch {
	case errors.Is(err, shared.ErrTokenExpired):
		r.writePlain("Authentication: ✗ Session expired\n")
	case errors.Is(err, shared.ErrNotAuthenticated):
		r.writePlain("Authentication: ✗ Not logged in\n")
	default:
		r.writePlain("Authentication: ✗ %v\n", err)
	}

	return r.writePlain("Run 'troopmedia auth login' to start a session.\n")
}

// requireAuth fails fast before a mutating request when no usable session is
// stored. Read-only commands never call this.
func (r *Runner) requireAuth() error {
	if err := r.guard.Check(time.Now()); err != nil {
		return fmt.Errorf("%w: run 'troopmedia auth login' first", err)
	}
	return nil
}

func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
