package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) WhoAmI(context.Context) error { return f.record("whoami", nil) }
func (f *fakeExec) Add(context.Context) error    { return f.record("add", nil) }
func (f *fakeExec) List(context.Context) error   { return f.record("list", nil) }
func (f *fakeExec) Sync(context.Context) error   { return f.record("sync", nil) }
func (f *fakeExec) Edit(_ context.Context, args []string) error {
	return f.record("edit", args)
}
func (f *fakeExec) Save(context.Context) error   { return f.record("save", nil) }
func (f *fakeExec) Cancel(context.Context) error { return f.record("cancel", nil) }
func (f *fakeExec) Delete(_ context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) Graph(context.Context) error { return f.record("graph", nil) }

// capturePrintln collects everything written through printlnFn.
func capturePrintln(t *testing.T) *strings.Builder {
	t.Helper()
	var b strings.Builder
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&b, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &b
}

func runLines(exec execIface, lines ...string) {
	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, sc)
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runLines(exec,
		"help",
		"login",
		"help",
		"add",
		"l",
		"edit 3",
		"save",
		"cancel",
		"delete 3",
		"sync",
		"graph",
		"whoami",
		"foobar",
		"logout",
		"exit",
	)

	want := []string{"login", "add", "list", "edit", "save", "cancel", "delete", "sync", "graph", "whoami", "logout"}
	require.Equal(t, want, exec.calls)
	assert.Equal(t, []string{"3"}, exec.args[3])
	assert.Equal(t, []string{"3"}, exec.args[6])
}

func TestRunREPL_SessionCommandsNeedLogin(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	runLines(exec, "list", "add", "delete 1", "graph", "quit")

	assert.Empty(t, exec.calls)
	assert.Equal(t, 4, strings.Count(out.String(), "You are not authorized. Please log in first."))
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := capturePrintln(t)

	runLines(&fakeExec{}, "help", "quit")
	assert.Contains(t, out.String(), "register, login, exit")

	out.Reset()
	runLines(&fakeExec{loggedIn: true}, "help", "quit")
	assert.Contains(t, out.String(), "delete <id>")
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runLines(exec, "delete", "", "frobnicate", "quit")

	assert.Empty(t, exec.calls)
	assert.Contains(t, out.String(), "Usage: delete <id>")
	assert.Contains(t, out.String(), "Unknown command: frobnicate")
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runLines(exec, "list")
	require.Equal(t, []string{"list"}, exec.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(strings.NewReader("list\nlist\n"))
	runREPL(ctx, exec, func() string { return "" }, sc)
	assert.Empty(t, exec.calls)
}
