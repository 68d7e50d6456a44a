package cli

import (
	"context"
	"fmt"

	"dnsadm/internal/client/api"
)

// Users fetches and renders the full user list. Admin only.
func (a *App) Users(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}
	if err := a.users.Refresh(ctx); err != nil {
		fmt.Fprintln(a.out, "Failed to fetch users.")
		return err
	}
	a.renderUsers()
	return nil
}

// SetUserEnabled toggles an account and refetches the user list once.
// Admin only.
func (a *App) SetUserEnabled(ctx context.Context, id int64, enabled bool) error {
	if !a.requireAdmin() {
		return nil
	}

	err := a.users.Mutate(ctx, func(ctx context.Context) error {
		_, statusErr := a.api.SetUserStatus(ctx, id, enabled)
		return statusErr
	})
	if err != nil {
		fmt.Fprintln(a.out, api.Message(err, "Failed to update user status."))
		return err
	}

	if enabled {
		fmt.Fprintf(a.out, "User %d enabled.\n", id)
	} else {
		fmt.Fprintf(a.out, "User %d disabled.\n", id)
	}
	a.renderUsers()
	return nil
}
