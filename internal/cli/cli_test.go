package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-agent/internal/console"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "library.db")
}

func TestAsk(t *testing.T) {
	db := testDBPath(t)

	out, err := run(t, "", "ask", "--db", db, "What", "books", "are", "available?")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Books (11 found)")

	out, err = run(t, "", "ask", "--db", db, "--today", "2026-02-11", "which books are overdue")
	require.NoError(t, err)
	assert.Contains(t, out, "Overdue Books (2 found)")
	assert.Contains(t, out, "Henry Brown")
}

func TestAsk_ModerncDriver(t *testing.T) {
	out, err := run(t, "", "ask", "--db", testDBPath(t), "--driver", "sqlite", "library stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total copies: 55")
}

func TestAsk_RequiresQuestion(t *testing.T) {
	_, err := run(t, "", "ask", "--db", testDBPath(t))
	assert.Error(t, err)
}

func TestChat_IsDefault(t *testing.T) {
	out, err := run(t, "library stats\n\nquit\n", "--db", testDBPath(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Library Chat Agent")
	assert.Contains(t, out, "Agent: \n📊 Library Statistics:")
	assert.Contains(t, out, "Total students: 8")
	assert.Contains(t, out, console.GoodbyeMessage)
}

func TestSetup(t *testing.T) {
	db := testDBPath(t)

	out, err := run(t, "", "setup", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Sample data loaded: 12 books, 8 students, 13 borrowings")
	assert.Contains(t, out, db)

	out, err = run(t, "", "setup", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "already contains books")

	fixture := filepath.Join(t.TempDir(), "small.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(`
books:
  - {title: "Dune", author: "Frank Herbert", isbn: "978-0441013593", genre: "Science Fiction", total_copies: 2, available_copies: 1}
  - {title: "Field Notes", author: "Anon", total_copies: 1, available_copies: 1}
  - {title: "More Field Notes", author: "Anon", total_copies: 1, available_copies: 1}
students:
  - {name: "Zoe Park", grade: 11, student_id: "S2024001"}
borrowings:
  - {student: 1, book: 1, borrow_date: "2026-01-02", due_date: "2026-01-16", return_date: null}
`), 0o600))

	out, err = run(t, "", "setup", "--db", db, "--reset", "--fixture", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Database reset: 3 books, 1 students, 1 borrowings")

	out, err = run(t, "", "ask", "--db", db, "science fiction books")
	require.NoError(t, err)
	assert.Contains(t, out, "'Science Fiction' Books (1 found)")
	assert.Contains(t, out, "Dune by Frank Herbert [1/2 available] (Science Fiction)")
}

func TestSetup_BadFixture(t *testing.T) {
	fixture := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(`
books:
  - {title: "Dune", author: "Frank Herbert", total_copies: 1, available_copies: 3}
`), 0o600))

	_, err := run(t, "", "setup", "--db", testDBPath(t), "--fixture", fixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available copies 3 outside 0..1")
}

func TestIntents(t *testing.T) {
	out, err := run(t, "", "intents")
	require.NoError(t, err)
	assert.Contains(t, out, "student_borrowings")
	assert.Contains(t, out, "search_by_genre")
	assert.Contains(t, out, "(?i)help|what can you do|commands?")

	out, err = run(t, "", "intents", "--route", "Fantasy books")
	require.NoError(t, err)
	assert.Contains(t, out, "intent:  search_by_genre")
	assert.Contains(t, out, `group 1: "fantasy"`)

	out, err = run(t, "", "intents", "--route", "xyzabc123")
	require.NoError(t, err)
	assert.Contains(t, out, "intent:  unknown (no_match)")
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"driver", []string{"ask", "--driver", "postgres", "help"}, "unknown database driver"},
		{"reference date", []string{"ask", "--today", "11/02/2026", "help"}, "invalid reference date"},
		{"log level", []string{"ask", "--log-level", "loud", "help"}, "unknown log level"},
		{"config file", []string{"ask", "--config", "/does/not/exist.yaml", "help"}, "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", append(tt.args, "--db", testDBPath(t))...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigFile(t *testing.T) {
	db := testDBPath(t)
	cfgPath := filepath.Join(t.TempDir(), "library.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database_path: "+db+"\nreference_date: \"2026-02-10\"\n"), 0o600))

	out, err := run(t, "", "ask", "--config", cfgPath, "overdue", "books", "please")
	require.NoError(t, err)
	assert.Contains(t, out, "Overdue Books (1 found)")

	_, err = os.Stat(db)
	assert.NoError(t, err)
}
