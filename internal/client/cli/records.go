package cli

import (
	"context"
	"errors"
	"fmt"

	"dnsadm/internal/client/api"
	"dnsadm/internal/client/listview"
	"dnsadm/internal/client/models"
)

// List refetches the current page of records and renders it.
func (a *App) List(ctx context.Context) error {
	if err := a.records.Refresh(ctx); err != nil {
		fmt.Fprintln(a.out, "Failed to fetch DNS records.")
		return err
	}
	a.renderRecords()
	return nil
}

// AllRecords is the admin view over every user's records. The server scopes
// the list endpoint by role, so this is List behind the admin gate; the
// renderer adds the owner column.
func (a *App) AllRecords(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}
	return a.List(ctx)
}

// Search sets the filter term and applies it right away: a submitted REPL
// line is already the end of the keystroke burst the debounce exists for.
func (a *App) Search(ctx context.Context, term string) error {
	a.records.SetSearch(ctx, term)
	if err := a.records.FlushSearch(ctx); err != nil {
		fmt.Fprintln(a.out, "Failed to fetch DNS records.")
		return err
	}
	a.renderRecords()
	return nil
}

// GoToPage moves to page n. Out-of-range pages print a notice and issue no
// request.
func (a *App) GoToPage(ctx context.Context, n int) error {
	err := a.records.ChangePage(ctx, n)
	if errors.Is(err, listview.ErrPageOutOfRange) {
		fmt.Fprintf(a.out, "No page %d (last page is %d).\n", n, a.records.LastPage())
		return nil
	}
	if err != nil {
		fmt.Fprintln(a.out, "Failed to fetch DNS records.")
		return err
	}
	a.renderRecords()
	return nil
}

func (a *App) NextPage(ctx context.Context) error {
	return a.GoToPage(ctx, a.records.CurrentPage()+1)
}

func (a *App) PrevPage(ctx context.Context) error {
	return a.GoToPage(ctx, a.records.CurrentPage()-1)
}

// Show prints one record in full.
func (a *App) Show(ctx context.Context, id int64) error {
	rec, err := a.api.GetDNSRecord(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, api.Message(err, "Failed to retrieve DNS record."))
		return err
	}

	fmt.Fprintf(a.out, "ID:          %d\n", rec.ID)
	fmt.Fprintf(a.out, "Domain Name: %s\n", rec.DomainName)
	fmt.Fprintf(a.out, "Type:        %s\n", rec.Type)
	fmt.Fprintf(a.out, "Value:       %s\n", rec.Value)
	if rec.Username != "" {
		fmt.Fprintf(a.out, "Owner:       %s\n", rec.Username)
	}
	fmt.Fprintf(a.out, "Created:     %s\n", rec.CreatedAt.Format(timeLayout))
	fmt.Fprintf(a.out, "Updated:     %s\n", rec.UpdatedAt.Format(timeLayout))
	return nil
}

// Add walks the record form and creates the record. On a server rejection
// the form re-opens with the previous input and the server's message, the
// same way the web UI keeps its modal open.
func (a *App) Add(ctx context.Context) error {
	input := models.CreateDNSRecordRequest{Type: models.RecordTypeA}
	for {
		req, ok, err := a.promptRecordForm(input)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}

		err = a.records.Mutate(ctx, func(ctx context.Context) error {
			_, createErr := a.api.CreateDNSRecord(ctx, req)
			return createErr
		})
		if err == nil {
			fmt.Fprintln(a.out, "Record created.")
			a.renderRecords()
			return nil
		}

		fmt.Fprintln(a.out, api.Message(err, "Failed to create record."))
		input = req
	}
}

// Edit fetches the record, pre-fills the form with its current fields, and
// submits a full update. Resubmitting unchanged input sends exactly the
// displayed fields.
func (a *App) Edit(ctx context.Context, id int64) error {
	rec, err := a.api.GetDNSRecord(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, api.Message(err, "Failed to retrieve DNS record."))
		return err
	}

	input := models.CreateDNSRecordRequest{
		DomainName: rec.DomainName,
		Type:       rec.Type,
		Value:      rec.Value,
	}
	for {
		req, ok, err := a.promptRecordForm(input)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}

		update := models.UpdateDNSRecordRequest{
			DomainName: &req.DomainName,
			Type:       &req.Type,
			Value:      &req.Value,
		}
		err = a.records.Mutate(ctx, func(ctx context.Context) error {
			_, updateErr := a.api.UpdateDNSRecord(ctx, id, update)
			return updateErr
		})
		if err == nil {
			fmt.Fprintln(a.out, "Record updated.")
			a.renderRecords()
			return nil
		}

		fmt.Fprintln(a.out, api.Message(err, "Failed to update record."))
		input = req
	}
}

// Delete removes a record after confirmation.
func (a *App) Delete(ctx context.Context, id int64) error {
	ok, err := GetConfirm(a.reader, fmt.Sprintf("Delete record %d?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	err = a.records.Mutate(ctx, func(ctx context.Context) error {
		return a.api.DeleteDNSRecord(ctx, id)
	})
	if err != nil {
		fmt.Fprintln(a.out, api.Message(err, "Failed to delete record."))
		return err
	}

	fmt.Fprintln(a.out, "Record deleted.")
	a.renderRecords()
	return nil
}
