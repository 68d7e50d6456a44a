// Package models defines the entities exchanged with the DNS management API
// and the client-side types derived from them.
package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role of an account, as carried in access-token claims and user listings.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// RecordType is the DNS record type. Only A and CNAME are managed here.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeCNAME RecordType = "CNAME"
)

// DNSRecord is the server-owned view of a managed record. Username is
// populated only in admin listings.
type DNSRecord struct {
	ID         int64      `json:"ID"`
	UserID     int64      `json:"UserID"`
	Username   string     `json:"Username,omitempty"`
	DomainName string     `json:"DomainName"`
	Type       RecordType `json:"Type"`
	Value      string     `json:"Value"`
	CreatedAt  time.Time  `json:"CreatedAt"`
	UpdatedAt  time.Time  `json:"UpdatedAt"`
}

// ManagedUser is an account as seen in the admin console. The client may
// only toggle IsEnabled.
type ManagedUser struct {
	ID        int64     `json:"ID"`
	Username  string    `json:"Username"`
	Role      Role      `json:"Role"`
	IsEnabled bool      `json:"isEnabled"`
	CreatedAt time.Time `json:"CreatedAt"`
	UpdatedAt time.Time `json:"UpdatedAt"`
}

// TokenPair is the credential pair issued on login. Both tokens are persisted
// together and cleared together.
type TokenPair struct {
	AccessToken  string `json:"AccessToken"`
	RefreshToken string `json:"RefreshToken"`
}

// Identity is who the current user is, reconstructed from decoded
// access-token claims. It is never fetched from the server.
type Identity struct {
	ID       int64
	Username string
	Role     Role
	Enabled  bool
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// AccessClaims mirrors the claims the backend puts into access tokens:
// subject is the username, plus user id and role.
type AccessClaims struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
	jwt.RegisteredClaims
}

// CreateDNSRecordRequest is the payload for record creation and, with all
// fields set, for full updates.
type CreateDNSRecordRequest struct {
	DomainName string     `json:"DomainName"`
	Type       RecordType `json:"Type"`
	Value      string     `json:"Value"`
}

// UpdateDNSRecordRequest carries partial record updates; nil fields are
// omitted from the wire payload.
type UpdateDNSRecordRequest struct {
	DomainName *string     `json:"DomainName,omitempty"`
	Type       *RecordType `json:"Type,omitempty"`
	Value      *string     `json:"Value,omitempty"`
}

// LoginRequest and RegisterRequest share a shape but are kept separate to
// match the API's contract.
type LoginRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

type RegisterRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}
