// Package cli implements the contacts command line.
//
// Run dispatches one invocation to the store or the exchange service and
// renders the outcome. Malformed invocations print usage and never reach
// the store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/exchange"
	"github.com/JonMunkholm/contacts/internal/store"
)

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// errUsage marks an invocation that only needs the usage text.
var errUsage = errors.New("usage")

// App holds what the commands operate on.
type App struct {
	Store    store.Store
	Exchange *exchange.Service
	Out      io.Writer // command results
	Err      io.Writer // user-facing error messages

	// ExchangeTimeout bounds import and export; zero means no limit.
	ExchangeTimeout time.Duration

	// Serve runs the HTTP surface until ctx is done. Nil disables "serve".
	Serve func(ctx context.Context) error
}

// command describes one verb of the command line.
type command struct {
	name  string
	args  string // argument synopsis for usage
	nargs int    // minimum number of arguments after the verb
	id    bool   // first argument is a contact ID
	run   func(a *App, ctx context.Context, args []string) error
}

// commands is filled in init because help refers back to it.
var commands []command

func init() {
	commands = []command{
		{name: "create", args: "<first> <last> <email> <phone> <city> <birthdate>", nargs: 6, run: (*App).create},
		{name: "read", args: "<id>", nargs: 1, id: true, run: (*App).read},
		{name: "list", run: (*App).list},
		{name: "update", args: "<id> <first> <last> <email> <phone> <city> <birthdate>", nargs: 7, id: true, run: (*App).update},
		{name: "delete", args: "<id>", nargs: 1, id: true, run: (*App).delete},
		{name: "import", args: "<path.csv|s3://bucket/key>", nargs: 1, run: (*App).importFile},
		{name: "export", args: "<path.csv|s3://bucket/key>", nargs: 1, run: (*App).exportFile},
		{name: "serve", run: (*App).serve},
		{name: "help", run: (*App).help},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// NeedsStore reports whether Run would reach the store for args. Usage
// output, help and unknown verbs do not, so callers can skip connecting.
func NeedsStore(args []string) bool {
	if len(args) == 0 {
		return false
	}
	cmd, ok := lookup(strings.ToLower(args[0]))
	if !ok || cmd.name == "help" {
		return false
	}
	if len(args)-1 < cmd.nargs {
		return false
	}
	if cmd.id {
		if _, err := core.ParseContactID(args[1]); err != nil {
			return false
		}
	}
	return true
}

// Run executes args (without the program name) and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return ExitOK
	}

	cmd, ok := lookup(strings.ToLower(args[0]))
	if !ok {
		fmt.Fprintf(a.Out, "Unknown command %q.\n", args[0])
		a.usage()
		return ExitOK
	}

	rest := args[1:]
	if len(rest) < cmd.nargs {
		a.commandUsage(cmd)
		return ExitOK
	}

	err := cmd.run(a, ctx, rest)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage):
		a.commandUsage(cmd)
		return ExitOK
	default:
		slog.Error("command failed", "command", cmd.name, "error", err)
		fmt.Fprintln(a.Err, core.FormatUserError(err))
		return ExitFailure
	}
}

func (a *App) create(ctx context.Context, args []string) error {
	c := contactFromArgs(args)
	id, err := a.Store.Create(ctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Contact created with ID %s.\n", id)
	return nil
}

func (a *App) read(ctx context.Context, args []string) error {
	id, err := core.ParseContactID(args[0])
	if err != nil {
		return errUsage
	}
	c, err := a.Store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("read %s: %w", id, err)
	}
	return renderContact(a.Out, c)
}

func (a *App) list(ctx context.Context, _ []string) error {
	contacts, err := a.Store.List(ctx)
	if err != nil {
		return err
	}
	return renderTable(a.Out, contacts)
}

func (a *App) update(ctx context.Context, args []string) error {
	id, err := core.ParseContactID(args[0])
	if err != nil {
		return errUsage
	}
	c := contactFromArgs(args[1:])
	c.ContactID = id

	ok, err := a.Store.Update(ctx, c)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("update %s: %w", id, core.ErrNotFound)
	}
	fmt.Fprintf(a.Out, "Contact %s updated.\n", id)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	id, err := core.ParseContactID(args[0])
	if err != nil {
		return errUsage
	}
	ok, err := a.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delete %s: %w", id, core.ErrNotFound)
	}
	fmt.Fprintf(a.Out, "Contact %s deleted.\n", id)
	return nil
}

func (a *App) importFile(ctx context.Context, args []string) error {
	ctx, cancel := a.exchangeContext(ctx)
	defer cancel()

	res, err := a.Exchange.Import(ctx, args[0])
	if err != nil {
		if res != nil {
			fmt.Fprintf(a.Out, "Import stopped: %d imported, %d skipped before the failure.\n", res.Imported, res.Skipped)
		}
		return err
	}
	renderImportResult(a.Out, res)
	return nil
}

func (a *App) exportFile(ctx context.Context, args []string) error {
	ctx, cancel := a.exchangeContext(ctx)
	defer cancel()

	res, err := a.Exchange.Export(ctx, args[0])
	if err != nil {
		return err
	}
	renderExportResult(a.Out, res)
	return nil
}

func (a *App) serve(ctx context.Context, _ []string) error {
	if a.Serve == nil {
		return errors.New("serve is not available")
	}
	return a.Serve(ctx)
}

func (a *App) help(context.Context, []string) error {
	a.usage()
	return nil
}

func (a *App) exchangeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.ExchangeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.ExchangeTimeout)
}

// contactFromArgs builds a contact from <first> <last> <email> <phone>
// <city> <birthdate>. Blank phone or city and unparsable dates are absent.
func contactFromArgs(args []string) *core.Contact {
	return &core.Contact{
		FirstName:   args[0],
		LastName:    args[1],
		Email:       args[2],
		Phonenumber: core.OptionalString(args[3]),
		City:        core.OptionalString(args[4]),
		Birthdate:   core.ParseBirthdate(args[5]),
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.Out, "Usage: contacts <command> [arguments]")
	fmt.Fprintln(a.Out)
	fmt.Fprintln(a.Out, "Commands:")
	for _, c := range commands {
		fmt.Fprintln(a.Out, strings.TrimRight("  "+c.name+" "+c.args, " "))
	}
}

func (a *App) commandUsage(c command) {
	fmt.Fprintln(a.Out, strings.TrimRight("Usage: contacts "+c.name+" "+c.args, " "))
}
