package cli

import (
	"context"
	"errors"
	"fmt"

	"dnsadm/internal/client/api"
)

// getSimpleText and getPassword are indirections for tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. A rejected attempt is
// reported inline and not retried; the caller decides whether to try again.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	id, err := a.session.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, api.ErrInvalidCredentials) {
			fmt.Fprintln(a.out, "Invalid username or password.")
			return nil
		}
		fmt.Fprintf(a.out, "Login failed: %s\n", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", id.Username, id.Role)
	return nil
}

// Register creates an account. It does not log the new account in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.session.Register(ctx, username, password); err != nil {
		if errors.Is(err, api.ErrConflict) {
			fmt.Fprintln(a.out, api.Message(err, "Username already exists."))
			return nil
		}
		fmt.Fprintf(a.out, "Registration failed: %s\n", api.Message(err, err.Error()))
		return err
	}

	fmt.Fprintln(a.out, "Registered. You can log in now.")
	return nil
}

// Logout ends the session. Safe to call when not logged in.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Whoami prints the derived identity.
func (a *App) Whoami() {
	id := a.session.Current()
	if id == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	fmt.Fprintf(a.out, "%s (id=%d, role=%s)\n", id.Username, id.ID, id.Role)
}
