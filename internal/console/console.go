// Package console runs the interactive question loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/mrlokans/library-agent/internal/logger"
)

const (
	Prompt         = "You: "
	GoodbyeMessage = "Goodbye! Thank you for using the Library Chat Agent."

	// MaxQuestionLength caps a question in characters. Longer lines are
	// drained and answered with TooLongMessage.
	MaxQuestionLength = 4096
)

var TooLongMessage = fmt.Sprintf("That question is too long. Please keep it under %d characters.", MaxQuestionLength)

// QuitWords end the session, compared case-insensitively.
var QuitWords = []string{"quit", "exit", "bye", "q"}

// Responder answers a single question.
type Responder interface {
	ProcessQuery(ctx context.Context, input string) string
}

type Console struct {
	agent     Responder
	in        io.Reader
	out       io.Writer
	sessionID string
	log       *zap.SugaredLogger
}

func New(agent Responder, in io.Reader, out io.Writer) *Console {
	sessionID := uuid.NewString()
	return &Console{
		agent:     agent,
		in:        in,
		out:       out,
		sessionID: sessionID,
		log:       logger.Named("console").With(logger.FieldSessionID, sessionID),
	}
}

func (c *Console) SessionID() string {
	return c.sessionID
}

// Run prints the banner and answers lines until a quit word, end of input or
// context cancellation. Blank lines are skipped without a response.
func (c *Console) Run(ctx context.Context) error {
	c.log.Infow("Session started")
	c.printBanner()

	reader := bufio.NewReader(c.in)
	questions := 0
	for {
		if err := ctx.Err(); err != nil {
			c.log.Infow("Session cancelled", logger.FieldCount, questions)
			return err
		}

		fmt.Fprint(c.out, Prompt)
		raw, tooLong, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			fmt.Fprintf(c.out, "\n\n%s\n", pterm.FgGreen.Sprint(GoodbyeMessage))
			c.log.Infow("Input closed", logger.FieldCount, questions)
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to read input")
		}
		if tooLong {
			c.log.Warnw("Question too long", logger.FieldCount, questions)
			fmt.Fprintf(c.out, "\nAgent: %s\n\n", TooLongMessage)
			continue
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if IsQuit(line) {
			fmt.Fprintf(c.out, "\n%s\n", pterm.FgGreen.Sprint(GoodbyeMessage))
			c.log.Infow("Session ended", logger.FieldCount, questions)
			return nil
		}

		questions++
		fmt.Fprintf(c.out, "\nAgent: %s\n\n", c.agent.ProcessQuery(ctx, line))
	}
}

// readLine reads one line without its terminator, keeping at most
// 4*MaxQuestionLength bytes and discarding the rest of an oversized line. It
// returns io.EOF only once no data is left.
func readLine(r *bufio.Reader) (string, bool, error) {
	var buf []byte
	overflow := false
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if len(buf) > 0 || overflow {
				break
			}
			return "", false, err
		}
		if room := utf8.UTFMax*MaxQuestionLength - len(buf); len(chunk) > room {
			chunk = chunk[:room]
			overflow = true
		}
		buf = append(buf, chunk...)
		if !isPrefix {
			break
		}
	}
	return string(buf), overflow || utf8.RuneCount(buf) > MaxQuestionLength, nil
}

// IsQuit reports whether line is one of the QuitWords.
func IsQuit(line string) bool {
	return slices.Contains(QuitWords, strings.ToLower(strings.TrimSpace(line)))
}

func (c *Console) printBanner() {
	fmt.Fprintln(c.out, pterm.DefaultHeader.Sprint("📚 Library Chat Agent"))
	fmt.Fprintln(c.out, "Ask me questions about books, students, and borrowings.")
	fmt.Fprintln(c.out, "Type 'help' for examples or 'quit' to exit.")
	fmt.Fprintln(c.out)
}
