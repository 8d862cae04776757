package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/exchange"
	"github.com/JonMunkholm/contacts/internal/store"
)

// spyStore counts calls so tests can assert the store was not touched.
type spyStore struct {
	store.Store
	calls int
}

func (s *spyStore) Create(ctx context.Context, c *core.Contact) (core.ContactID, error) {
	s.calls++
	return s.Store.Create(ctx, c)
}

func (s *spyStore) Get(ctx context.Context, id core.ContactID) (*core.Contact, error) {
	s.calls++
	return s.Store.Get(ctx, id)
}

func (s *spyStore) List(ctx context.Context) ([]*core.Contact, error) {
	s.calls++
	return s.Store.List(ctx)
}

func (s *spyStore) Update(ctx context.Context, c *core.Contact) (bool, error) {
	s.calls++
	return s.Store.Update(ctx, c)
}

func (s *spyStore) Delete(ctx context.Context, id core.ContactID) (bool, error) {
	s.calls++
	return s.Store.Delete(ctx, id)
}

type testApp struct {
	*App
	store *spyStore
	out   *bytes.Buffer
	err   *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	st := &spyStore{Store: store.NewMemory()}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &testApp{
		App: &App{
			Store:    st,
			Exchange: exchange.NewService(st, exchange.LocalFS{}, nil),
			Out:      out,
			Err:      errOut,
		},
		store: st,
		out:   out,
		err:   errOut,
	}
}

func (a *testApp) run(args ...string) int {
	a.out.Reset()
	a.err.Reset()
	return a.Run(context.Background(), args)
}

func TestRun_UsageNeverTouchesStore(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no arguments", args: nil, want: "Commands:"},
		{name: "help", args: []string{"help"}, want: "Commands:"},
		{name: "unknown command", args: []string{"frobnicate"}, want: `Unknown command "frobnicate"`},
		{name: "create missing fields", args: []string{"create", "Ana", "Pop"}, want: "Usage: contacts create"},
		{name: "read without id", args: []string{"read"}, want: "Usage: contacts read <id>"},
		{name: "read non-numeric id", args: []string{"read", "abc"}, want: "Usage: contacts read <id>"},
		{name: "update missing fields", args: []string{"update", "1", "Ana"}, want: "Usage: contacts update"},
		{name: "update non-numeric id", args: []string{"update", "x", "a", "b", "c", "d", "e", "f"}, want: "Usage: contacts update"},
		{name: "delete non-numeric id", args: []string{"delete", "one"}, want: "Usage: contacts delete"},
		{name: "import without path", args: []string{"import"}, want: "Usage: contacts import"},
		{name: "export without path", args: []string{"export"}, want: "Usage: contacts export"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			if code := app.run(tt.args...); code != ExitOK {
				t.Errorf("Run() = %d, want %d", code, ExitOK)
			}
			if !strings.Contains(app.out.String(), tt.want) {
				t.Errorf("output %q does not contain %q", app.out.String(), tt.want)
			}
			if app.store.calls != 0 {
				t.Errorf("store called %d times, want 0", app.store.calls)
			}
		})
	}
}

func TestRun_CommandsAreCaseInsensitive(t *testing.T) {
	app := newTestApp(t)
	if code := app.run("LIST"); code != ExitOK {
		t.Fatalf("Run(LIST) = %d, want %d", code, ExitOK)
	}
	if !strings.Contains(app.out.String(), "No contacts.") {
		t.Errorf("output = %q", app.out.String())
	}
}

func TestRun_CRUD(t *testing.T) {
	app := newTestApp(t)

	if code := app.run("create", "Ana", "Pop", "ana@x.com", "0711", "Cluj", "2000-01-01"); code != ExitOK {
		t.Fatalf("create = %d, stderr %q", code, app.err.String())
	}
	if !strings.Contains(app.out.String(), "Contact created with ID 1.") {
		t.Errorf("create output = %q", app.out.String())
	}

	app.run("read", "1")
	for _, want := range []string{"Ana", "Pop", "ana@x.com", "0711", "Cluj", "2000-01-01"} {
		if !strings.Contains(app.out.String(), want) {
			t.Errorf("read output %q missing %q", app.out.String(), want)
		}
	}

	if code := app.run("update", "1", "Ana", "Pop", "ana@y.com", "", "", "kein Datum"); code != ExitOK {
		t.Fatalf("update = %d, stderr %q", code, app.err.String())
	}
	got, _ := app.store.Store.Get(context.Background(), 1)
	if got.Email != "ana@y.com" || got.Phonenumber != nil || got.City != nil || got.Birthdate != nil {
		t.Errorf("after update = %+v", got)
	}

	app.run("list")
	if !strings.Contains(app.out.String(), "ana@y.com") || !strings.Contains(app.out.String(), "EMAIL") {
		t.Errorf("list output = %q", app.out.String())
	}

	if code := app.run("delete", "1"); code != ExitOK {
		t.Fatalf("delete = %d, stderr %q", code, app.err.String())
	}
	if code := app.run("delete", "1"); code != ExitFailure {
		t.Errorf("second delete = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(app.err.String(), "DB001") {
		t.Errorf("second delete stderr = %q, want DB001", app.err.String())
	}
}

func TestRun_NotFound(t *testing.T) {
	app := newTestApp(t)

	for _, args := range [][]string{
		{"read", "42"},
		{"update", "42", "a", "b", "c", "", "", ""},
		{"delete", "42"},
	} {
		if code := app.run(args...); code != ExitFailure {
			t.Errorf("%s = %d, want %d", args[0], code, ExitFailure)
		}
		if !strings.Contains(app.err.String(), "DB001") {
			t.Errorf("%s stderr = %q, want DB001", args[0], app.err.String())
		}
	}
}

func TestRun_ImportExport(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.csv")

	content := "FirstName;LastName;Email;Phonenumber;City;Birthdate\n" +
		"Ana;Pop;ana@x.com;;Cluj;2000-01-01\n" +
		"Ion;Ionescu;ANA@X.COM ;0711;;\n" +
		"broken\n"
	if err := os.WriteFile(in, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := app.run("import", in); code != ExitOK {
		t.Fatalf("import = %d, stderr %q", code, app.err.String())
	}
	if !strings.Contains(app.out.String(), "1 imported, 1 skipped") {
		t.Errorf("import output = %q", app.out.String())
	}
	if !strings.Contains(app.out.String(), "1 malformed rows ignored") {
		t.Errorf("import output = %q", app.out.String())
	}

	if code := app.run("export", out); code != ExitOK {
		t.Fatalf("export = %d, stderr %q", code, app.err.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "FirstName;LastName;Email;Phonenumber;City;Birthdate\nAna;Pop;ana@x.com;;Cluj;2000-01-01\n"
	if string(data) != want {
		t.Errorf("exported %q, want %q", data, want)
	}
}

func TestRun_FileErrors(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()

	if code := app.run("import", filepath.Join(dir, "missing.csv")); code != ExitFailure {
		t.Errorf("import missing = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(app.err.String(), "FILE001") {
		t.Errorf("import missing stderr = %q, want FILE001", app.err.String())
	}
	if app.store.calls != 0 {
		t.Errorf("store called %d times for missing file", app.store.calls)
	}

	if code := app.run("export", filepath.Join(dir, "no", "dir", "out.csv")); code != ExitFailure {
		t.Errorf("export to bad dir = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(app.err.String(), "FILE002") {
		t.Errorf("export stderr = %q, want FILE002", app.err.String())
	}
}

func TestRun_Serve(t *testing.T) {
	app := newTestApp(t)
	if code := app.run("serve"); code != ExitFailure {
		t.Errorf("serve without handler = %d, want %d", code, ExitFailure)
	}

	called := false
	app.Serve = func(context.Context) error { called = true; return nil }
	if code := app.run("serve"); code != ExitOK || !called {
		t.Errorf("serve = %d, called %v", code, called)
	}

	app.Serve = func(context.Context) error { return errors.New("listen tcp :8080: bind: address already in use") }
	if code := app.run("serve"); code != ExitFailure {
		t.Errorf("serve failure = %d, want %d", code, ExitFailure)
	}
}

func TestRenderTable_AbsentFieldsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := renderTable(&buf, []*core.Contact{{ContactID: 3, FirstName: "Ion", LastName: "Ionescu", Email: "ion@x.com"}})
	if err != nil {
		t.Fatalf("renderTable() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("renderTable() lines = %d, want 2", len(lines))
	}
	if strings.Contains(lines[1], "0001") || strings.Contains(lines[1], "<nil>") {
		t.Errorf("row = %q, want empty optional fields", lines[1])
	}
}

func TestNeedsStore(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"help"}, false},
		{[]string{"frobnicate"}, false},
		{[]string{"read"}, false},
		{[]string{"read", "1"}, true},
		{[]string{"read", "abc"}, false},
		{[]string{"delete", "one"}, false},
		{[]string{"update", "x", "a", "b", "c", "d", "e", "f"}, false},
		{[]string{"update", "2", "a", "b", "c", "d", "e", "f"}, true},
		{[]string{"LIST"}, true},
		{[]string{"serve"}, true},
		{[]string{"import", "a.csv"}, true},
	}

	for _, tt := range tests {
		if got := NeedsStore(tt.args); got != tt.want {
			t.Errorf("NeedsStore(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
