package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/authflow/internal/client/routes"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	pages() []routes.Route
	Navigate(ctx context.Context, path string) error
	Logout(ctx context.Context) error
}

// shortcuts map REPL commands to paths.
var shortcuts = map[string]string{
	"home":      "/",
	"register":  "/register",
	"login":     "/login",
	"forgot":    "/forgot-password",
	"dashboard": "/dashboard",
}

// runREPL starts a simple read-eval-print loop for the authflow CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	  - help           show available commands
//	  - open <path>    open a page, e.g. "open /reset-password/<token>"
//	  - home           open /
//	  - register       create an account
//	  - login          sign in
//	  - forgot         request a password reset link
//	  - reset <token>  set a new password from a reset link
//	  - dashboard      show the profile (signed in only)
//	  - logout         sign out
//	  - exit | quit    leave the program
//
// Errors returned by Navigate and Logout have already been shown to the user
// through the notifier, so they are ignored here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("authflow (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("Input error:", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: home, dashboard, open <path>, logout, exit")
			} else {
				printlnFn("Available commands: home, register, login, forgot, reset <token>, open <path>, exit")
			}
			printlnFn("Pages:", pageList(a.pages()))

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <path>")
				continue
			}
			_ = a.Navigate(ctx, args[0])

		case "reset":
			if len(args) != 1 {
				printlnFn("Usage: reset <token>")
				continue
			}
			_ = a.Navigate(ctx, "/reset-password/"+args[0])

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if path, ok := shortcuts[cmd]; ok {
				_ = a.Navigate(ctx, path)
				continue
			}
			printlnFn("Unknown command:", cmd)
		}
	}
}

// pageList renders the route templates for help; protected pages are marked.
func pageList(rs []routes.Route) string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		if r.Protected {
			out = append(out, r.Template+" (sign in)")
			continue
		}
		out = append(out, r.Template)
	}
	return strings.Join(out, ", ")
}
