package cli

import (
	"fmt"
	"text/tabwriter"
)

const timeLayout = "2006-01-02 15:04"

// renderRecords prints the current record page, or the fetch error in place
// of the table when the last fetch failed.
func (a *App) renderRecords() {
	if err := a.records.Err(); err != nil {
		fmt.Fprintln(a.out, "Failed to fetch DNS records.")
		return
	}

	items := a.records.Items()
	if len(items) == 0 {
		if term := a.records.SearchTerm(); term != "" {
			fmt.Fprintf(a.out, "No records match %q.\n", term)
		} else {
			fmt.Fprintln(a.out, "No records.")
		}
		return
	}

	admin := a.isAdmin()
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	if admin {
		fmt.Fprintln(w, "ID\tDOMAIN\tTYPE\tVALUE\tOWNER\tUPDATED")
	} else {
		fmt.Fprintln(w, "ID\tDOMAIN\tTYPE\tVALUE\tUPDATED")
	}
	for _, rec := range items {
		if admin {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				rec.ID, rec.DomainName, rec.Type, rec.Value, rec.Username, rec.UpdatedAt.Format(timeLayout))
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				rec.ID, rec.DomainName, rec.Type, rec.Value, rec.UpdatedAt.Format(timeLayout))
		}
	}
	_ = w.Flush()

	fmt.Fprintf(a.out, "Page %d of %d (%d records)\n",
		a.records.CurrentPage(), a.records.LastPage(), a.records.TotalCount())
	if term := a.records.SearchTerm(); term != "" {
		fmt.Fprintf(a.out, "Filter: %q\n", term)
	}
}

// renderUsers prints the managed-user table.
func (a *App) renderUsers() {
	if err := a.users.Err(); err != nil {
		fmt.Fprintln(a.out, "Failed to fetch users.")
		return
	}

	items := a.users.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No users.")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tENABLED\tCREATED")
	for _, u := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n",
			u.ID, u.Username, u.Role, u.IsEnabled, u.CreatedAt.Format(timeLayout))
	}
	_ = w.Flush()
}
