// Package cli is the interactive front end: a REPL over the session manager
// and the list controllers, one command per user action.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"dnsadm/internal/client/api"
	"dnsadm/internal/client/config"
	"dnsadm/internal/client/listview"
	"dnsadm/internal/client/models"
	"dnsadm/internal/client/session"
	"dnsadm/internal/logging"
)

// App holds the wired-up client. Command methods live in auth.go, records.go
// and admin.go; the REPL loop in root.go dispatches to them.
type App struct {
	config  *config.Config
	session *session.Manager
	api     api.Client
	records *listview.Controller[models.DNSRecord]
	users   *listview.Controller[models.ManagedUser]
	log     logging.Logger

	reader *bufio.Reader
	out    io.Writer

	closeFn func() error
}

// NewApp opens the local credentials database, wires the transport to the
// session manager, restores any persisted session, and builds the list
// controllers.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := session.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing credentials store: %w", err)
	}

	// The token source closes over sess, which is assigned right after the
	// transport exists; nothing calls the transport before then.
	var sess *session.Manager
	apiClient := api.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, func() string {
		if sess == nil {
			return ""
		}
		return sess.AccessToken()
	}, log)

	store := session.NewSQLiteStore(db)
	sess = session.NewManager(store, apiClient, log)
	apiClient.OnUnauthorized(sess.Invalidate)

	if err := sess.Restore(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	records := listview.NewController(func(ctx context.Context, q listview.Query) (listview.Page[models.DNSRecord], error) {
		items, total, err := apiClient.ListDNSRecords(ctx, api.ListQuery{Page: q.Page, PageSize: q.PageSize, Search: q.Search})
		return listview.Page[models.DNSRecord]{Items: items, TotalCount: total}, err
	},
		listview.WithPageSize(cfg.PageSize),
		listview.WithDebounce(cfg.SearchDebounce),
		listview.WithResetPageOnSearch(cfg.ResetPageOnSearch),
	)

	// The user console is a full, unpaginated fetch; the server does not
	// page this collection.
	users := listview.NewController(func(ctx context.Context, q listview.Query) (listview.Page[models.ManagedUser], error) {
		items, err := apiClient.ListUsers(ctx)
		return listview.Page[models.ManagedUser]{Items: items, TotalCount: len(items)}, err
	})

	// Filters and page positions belong to one session; the next user starts
	// from a clean view.
	sess.OnChange(func() {
		records.Reset()
		users.Reset()
	})

	return &App{
		config:  cfg,
		session: sess,
		api:     apiClient,
		records: records,
		users:   users,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closeFn: db.Close,
	}, nil
}

// Close releases the credentials database.
func (a *App) Close() error {
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

func (a *App) isAdmin() bool {
	return a.session.Current().IsAdmin()
}

// requireAdmin gates admin-only commands. A non-admin is bounced back to the
// regular view with a notice, not an error state.
func (a *App) requireAdmin() bool {
	if a.isAdmin() {
		return true
	}
	fmt.Fprintln(a.out, "This command requires the admin role.")
	return false
}
