package cli

import (
	"fmt"
	"strings"

	"dnsadm/internal/client/models"
)

// formCancel aborts the record form from any field.
const formCancel = "cancel"

// promptRecordForm collects DomainName, Type and Value, pre-filling each
// prompt from initial. Validation runs before the payload leaves the form:
// on failure the per-field messages are printed and the form re-runs with
// the entered values kept. Returns ok=false when the user cancels.
func (a *App) promptRecordForm(initial models.CreateDNSRecordRequest) (models.CreateDNSRecordRequest, bool, error) {
	input := initial
	for {
		domain, err := GetDefaultedText(a.reader, "Domain Name (or 'cancel')", input.DomainName, a.out)
		if err != nil {
			return input, false, err
		}
		if domain == formCancel {
			return input, false, nil
		}
		input.DomainName = domain

		recType, err := a.promptRecordType(input.Type)
		if err != nil {
			return input, false, err
		}
		if recType == "" {
			return input, false, nil
		}
		input.Type = recType

		value, err := GetDefaultedText(a.reader, "Value", input.Value, a.out)
		if err != nil {
			return input, false, err
		}
		if value == formCancel {
			return input, false, nil
		}
		input.Value = value

		errs := input.Validate()
		if errs == nil {
			return input, true, nil
		}

		// Inline per-field messages, then back into the form. Nothing is
		// submitted until the payload is clean.
		for _, field := range []string{"DomainName", "Type", "Value"} {
			if msg, ok := errs[field]; ok {
				fmt.Fprintf(a.out, "  %s: %s\n", field, msg)
			}
		}
	}
}

// promptRecordType reads the record type, keeping the current one on empty
// input. Returns "" on cancel.
func (a *App) promptRecordType(current models.RecordType) (models.RecordType, error) {
	if current == "" {
		current = models.RecordTypeA
	}
	for {
		raw, err := GetDefaultedText(a.reader, "Record Type (A/CNAME)", string(current), a.out)
		if err != nil {
			return "", err
		}
		if raw == formCancel {
			return "", nil
		}
		switch strings.ToUpper(raw) {
		case string(models.RecordTypeA):
			return models.RecordTypeA, nil
		case string(models.RecordTypeCNAME):
			return models.RecordTypeCNAME, nil
		default:
			fmt.Fprintln(a.out, "  Type must be A or CNAME.")
		}
	}
}
