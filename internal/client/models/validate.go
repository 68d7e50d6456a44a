package models

import "regexp"

// Validation messages shown next to the offending form field. Wording is part
// of the UI contract, keep it stable.
const (
	MsgDomainNameRequired = "Domain Name is required."
	MsgValueRequired      = "Value is required."
	MsgInvalidIPv4        = "Must be a valid IPv4 address for A record."
)

// Dotted-quad shape only. Octet range is the server's concern.
var ipv4Re = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// Validate checks a record payload before it is allowed anywhere near the
// network. An empty result means the payload may be submitted.
//
// CNAME values are opaque targets and are only required to be non-empty.
func (r CreateDNSRecordRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if r.DomainName == "" {
		errs["DomainName"] = MsgDomainNameRequired
	}
	if r.Value == "" {
		errs["Value"] = MsgValueRequired
	} else if r.Type == RecordTypeA && !ipv4Re.MatchString(r.Value) {
		errs["Value"] = MsgInvalidIPv4
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
