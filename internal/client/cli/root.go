package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

func (a *App) prompt() string {
	id := a.session.Current()
	if id == nil {
		return "dnsadm> "
	}
	return fmt.Sprintf("dnsadm %s(%s)> ", id.Username, id.Role)
}

func (a *App) printHelp() {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Available commands: login, register, help, exit")
		return
	}
	fmt.Fprintln(a.out, "Available commands: list, search <term>, page <n>, next, prev,")
	fmt.Fprintln(a.out, "  show <id>, add, edit <id>, delete <id>, whoami, logout, exit")
	if a.isAdmin() {
		fmt.Fprintln(a.out, "Admin commands: records, users, enable <id>, disable <id>")
	}
}

// Run is the REPL. It reads a line, takes the first token as the command,
// and dispatches to the App methods. Command errors are already reported by
// the handlers; the loop keeps going until EOF or exit.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "dnsadm, the internal DNS console (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, a.prompt())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return
			}
			a.log.Error(ctx, "reading command", "err", err)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			a.Whoami()

		default:
			if !a.isLoggedIn() {
				fmt.Fprintln(a.out, "Please log in first (type 'help').")
				continue
			}
			a.dispatchAuthenticated(ctx, cmd, args)
		}
	}
}

// dispatchAuthenticated handles the commands that need a session.
func (a *App) dispatchAuthenticated(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "l", "list":
		_ = a.List(ctx)

	case "records":
		_ = a.AllRecords(ctx)

	case "search":
		// No argument clears the filter.
		_ = a.Search(ctx, strings.Join(args, " "))

	case "page":
		n, ok := intArg(a, args, "Usage: page <n>")
		if !ok {
			return
		}
		_ = a.GoToPage(ctx, n)

	case "next":
		_ = a.NextPage(ctx)

	case "prev":
		_ = a.PrevPage(ctx)

	case "show":
		id, ok := idArg(a, args, "Usage: show <id>")
		if !ok {
			return
		}
		_ = a.Show(ctx, id)

	case "add":
		_ = a.Add(ctx)

	case "edit":
		id, ok := idArg(a, args, "Usage: edit <id>")
		if !ok {
			return
		}
		_ = a.Edit(ctx, id)

	case "delete":
		id, ok := idArg(a, args, "Usage: delete <id>")
		if !ok {
			return
		}
		_ = a.Delete(ctx, id)

	case "users":
		_ = a.Users(ctx)

	case "enable":
		id, ok := idArg(a, args, "Usage: enable <id>")
		if !ok {
			return
		}
		_ = a.SetUserEnabled(ctx, id, true)

	case "disable":
		id, ok := idArg(a, args, "Usage: disable <id>")
		if !ok {
			return
		}
		_ = a.SetUserEnabled(ctx, id, false)

	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}
}

func intArg(a *App, args []string, usage string) (int, bool) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, usage)
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(a.out, usage)
		return 0, false
	}
	return n, true
}

func idArg(a *App, args []string, usage string) (int64, bool) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, usage)
		return 0, false
	}
	return id, true
}
