// Package agent answers natural-language library questions.
//
// A question is normalized, routed through an ordered PatternTable (the
// first matching pattern wins) and dispatched to the handler for the
// matched intent. Handlers read through Store and render plain text.
package agent

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/mrlokans/library-agent/internal/logger"
	"github.com/mrlokans/library-agent/internal/store"
)

var ErrInvalidGrade = errors.New("invalid grade")

// Store is the set of read views the handlers need.
type Store interface {
	AllBooks(ctx context.Context) ([]store.BookRecord, error)
	AvailableBooks(ctx context.Context) ([]store.BookRecord, error)
	UnavailableBooks(ctx context.Context) ([]store.BookRecord, error)
	SearchBooksByTitle(ctx context.Context, title string) ([]store.BookRecord, error)
	SearchBooksByAuthor(ctx context.Context, author string) ([]store.BookRecord, error)
	SearchBooksByGenre(ctx context.Context, genre string) ([]store.BookRecord, error)

	AllStudents(ctx context.Context) ([]store.StudentRecord, error)
	StudentsByGrade(ctx context.Context, grade int) ([]store.StudentRecord, error)
	SearchStudentsByName(ctx context.Context, name string) ([]store.StudentRecord, error)
	StudentByCode(ctx context.Context, code string) (*store.StudentRecord, error)

	BorrowingsByStudent(ctx context.Context, name string) ([]store.BorrowingRecord, error)
	CurrentBorrowingsByStudent(ctx context.Context, name string) ([]store.BorrowingRecord, error)
	CurrentBorrowings(ctx context.Context) ([]store.BorrowingRecord, error)
	OverdueBorrowings(ctx context.Context, ref time.Time) ([]store.BorrowingRecord, error)
	BorrowingHistory(ctx context.Context) ([]store.BorrowingRecord, error)

	Stats(ctx context.Context) (store.Stats, error)
}

// Agent is safe for sequential use by one console session; it keeps no
// per-question state.
type Agent struct {
	store    Store
	patterns PatternTable
	now      func() time.Time
	log      *zap.SugaredLogger
}

func New(s Store) *Agent {
	return &Agent{
		store:    s,
		patterns: defaultPatterns,
		now:      time.Now,
		log:      logger.Named("agent"),
	}
}

// SetClock overrides the date used to decide what is overdue.
func (a *Agent) SetClock(now func() time.Time) {
	if now != nil {
		a.now = now
	}
}

// SetReferenceDate pins the overdue clock to a fixed day. The zero time
// restores the wall clock.
func (a *Agent) SetReferenceDate(ref time.Time) {
	if ref.IsZero() {
		a.now = time.Now
		return
	}
	a.now = func() time.Time { return ref }
}

// ProcessQuery answers one question. It always returns a user-facing
// string; handler failures are reported inline, never returned.
func (a *Agent) ProcessQuery(ctx context.Context, input string) string {
	start := time.Now()
	outcome := a.patterns.Route(input)

	switch outcome.Kind {
	case OutcomeEmpty:
		return EmptyQueryMessage
	case OutcomeNoMatch:
		a.log.Debugw("No pattern matched", logger.FieldQuery, Normalize(input))
		return UnknownText
	}

	response, err := a.dispatch(ctx, outcome)
	if err != nil {
		a.log.Warnw("Handler failed",
			logger.FieldIntent, outcome.Intent,
			logger.FieldQuery, Normalize(input),
			logger.FieldError, err,
		)
		return errorPrefix + err.Error()
	}

	a.log.Debugw("Answered query",
		logger.FieldIntent, outcome.Intent,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return response
}

// dispatch runs the handler for a matched outcome. A panicking handler is
// turned into an error so one bad question cannot end the session.
func (a *Agent) dispatch(ctx context.Context, outcome MatchOutcome) (response string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("handler %s panicked: %v", outcome.Intent, r)
		}
	}()

	h, ok := a.handler(outcome.Intent)
	if !ok {
		return "", errors.Newf("no handler for intent %q", outcome.Intent)
	}
	return h(ctx, outcome.Groups)
}

type handlerFunc func(ctx context.Context, groups []string) (string, error)

func (a *Agent) handler(intent Intent) (handlerFunc, bool) {
	switch intent {
	case IntentStudentBorrowings:
		return a.studentBorrowings, true
	case IntentAvailableBooks:
		return a.availableBooks, true
	case IntentUnavailableBooks:
		return a.unavailableBooks, true
	case IntentAllBooks:
		return a.allBooks, true
	case IntentSearchByAuthor:
		return a.searchByAuthor, true
	case IntentSearchByGenre:
		return a.searchByGenre, true
	case IntentBookAvailability:
		return a.bookAvailability, true
	case IntentCurrentBorrowings:
		return a.currentBorrowings, true
	case IntentOverdueBooks:
		return a.overdueBooks, true
	case IntentAllStudents:
		return a.allStudents, true
	case IntentStudentsByGrade:
		return a.studentsByGrade, true
	case IntentLibraryStats:
		return a.libraryStats, true
	case IntentBorrowingHistory:
		return a.borrowingHistory, true
	case IntentHelp:
		return a.help, true
	case IntentStudentLookup:
		return a.studentLookup, true
	default:
		return nil, false
	}
}

// group returns capture group n (1-based), or "" when absent.
func group(groups []string, n int) string {
	if n < 1 || n > len(groups) {
		return ""
	}
	return groups[n-1]
}
