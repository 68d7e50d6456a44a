// Package api implements the REST boundary of the DNS management backend.
// Everything the rest of the client knows about the server goes through the
// Client interface; the concrete implementation lives in httpclient.go.
package api

import (
	"context"

	"dnsadm/internal/client/models"
)

// ListQuery is the paging/search triple sent with record listings.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
}

// Client is the remote API surface consumed by the session manager and the
// list controllers.
//
// Record listings return the slice for the requested page plus the
// server-reported total count (the x-total-count header), which is
// independent of the slice length.
type Client interface {
	Login(ctx context.Context, username, password string) (models.TokenPair, error)
	Register(ctx context.Context, username, password string) error

	ListDNSRecords(ctx context.Context, q ListQuery) ([]models.DNSRecord, int, error)
	GetDNSRecord(ctx context.Context, id int64) (models.DNSRecord, error)
	CreateDNSRecord(ctx context.Context, req models.CreateDNSRecordRequest) (models.DNSRecord, error)
	UpdateDNSRecord(ctx context.Context, id int64, req models.UpdateDNSRecordRequest) (models.DNSRecord, error)
	DeleteDNSRecord(ctx context.Context, id int64) error

	ListUsers(ctx context.Context) ([]models.ManagedUser, error)
	SetUserStatus(ctx context.Context, id int64, enabled bool) (models.ManagedUser, error)
}
