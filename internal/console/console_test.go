package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	goleak.VerifyTestMain(m)
}

type recordingResponder struct {
	queries []string
}

func (r *recordingResponder) ProcessQuery(_ context.Context, input string) string {
	r.queries = append(r.queries, input)
	return "answer to " + input
}

func runConsole(t *testing.T, input string) (string, *recordingResponder) {
	t.Helper()
	r := &recordingResponder{}
	var out bytes.Buffer
	c := New(r, strings.NewReader(input), &out)
	require.NoError(t, c.Run(context.Background()))
	return out.String(), r
}

func TestConsole_Run(t *testing.T) {
	out, r := runConsole(t, "library stats\nhelp\nquit\nnever asked\n")

	assert.Equal(t, []string{"library stats", "help"}, r.queries)
	assert.Contains(t, out, "Library Chat Agent")
	assert.Contains(t, out, "\nAgent: answer to library stats\n\n")
	assert.Contains(t, out, "\nAgent: answer to help\n\n")
	assert.True(t, strings.HasSuffix(out, GoodbyeMessage+"\n"))
	assert.NotContains(t, out, "never asked")
}

func TestConsole_BlankLinesAreSkipped(t *testing.T) {
	out, r := runConsole(t, "\n   \n\t\nstats\nexit\n")

	assert.Equal(t, []string{"stats"}, r.queries)
	assert.Equal(t, 5, strings.Count(out, Prompt))
}

func TestConsole_EndOfInput(t *testing.T) {
	out, r := runConsole(t, "stats")

	assert.Equal(t, []string{"stats"}, r.queries)
	assert.Contains(t, out, GoodbyeMessage)
}

func TestConsole_QuestionsAreTrimmed(t *testing.T) {
	_, r := runConsole(t, "   fantasy books  \nBYE\n")
	assert.Equal(t, []string{"fantasy books"}, r.queries)
}

func TestConsole_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &recordingResponder{}
	var out bytes.Buffer
	err := New(r, strings.NewReader("stats\n"), &out).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, r.queries)
}

func TestConsole_SessionID(t *testing.T) {
	c := New(&recordingResponder{}, strings.NewReader(""), &bytes.Buffer{})
	_, err := uuid.Parse(c.SessionID())
	assert.NoError(t, err)
}

func TestIsQuit(t *testing.T) {
	for _, word := range []string{"quit", "EXIT", " Bye ", "q", "Q"} {
		assert.True(t, IsQuit(word), word)
	}
	for _, word := range []string{"quite", "exit now", "", "help"} {
		assert.False(t, IsQuit(word), word)
	}
}

func TestConsole_OverlongLineKeepsSession(t *testing.T) {
	out, r := runConsole(t, strings.Repeat("a", 70_000)+"\nhelp\nquit\n")

	assert.Equal(t, []string{"help"}, r.queries)
	assert.Contains(t, out, "\nAgent: "+TooLongMessage+"\n\n")
	assert.Contains(t, out, "\nAgent: answer to help\n\n")
	assert.True(t, strings.HasSuffix(out, GoodbyeMessage+"\n"))
}

func TestConsole_OverlongFinalLine(t *testing.T) {
	out, r := runConsole(t, strings.Repeat("b", 70_000))

	assert.Empty(t, r.queries)
	assert.Contains(t, out, TooLongMessage)
	assert.Contains(t, out, GoodbyeMessage)
}

func TestConsole_QuestionLengthLimit(t *testing.T) {
	atLimit := strings.Repeat("é", MaxQuestionLength)
	out, r := runConsole(t, atLimit+"\n"+atLimit+"x\nq\n")

	assert.Equal(t, []string{atLimit}, r.queries)
	assert.Equal(t, 1, strings.Count(out, TooLongMessage))
}

func TestConsole_CRLFInput(t *testing.T) {
	_, r := runConsole(t, "stats\r\nquit\r\n")
	assert.Equal(t, []string{"stats"}, r.queries)
}
