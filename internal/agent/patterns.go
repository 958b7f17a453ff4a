package agent

import (
	"regexp"
	"strings"
)

// Intent names the handler that owns a matched pattern.
type Intent string

const (
	IntentStudentBorrowings Intent = "student_borrowings"
	IntentAvailableBooks    Intent = "available_books"
	IntentUnavailableBooks  Intent = "unavailable_books"
	IntentAllBooks          Intent = "all_books"
	IntentSearchByAuthor    Intent = "search_by_author"
	IntentSearchByGenre     Intent = "search_by_genre"
	IntentBookAvailability  Intent = "book_availability"
	IntentCurrentBorrowings Intent = "current_borrowings"
	IntentOverdueBooks      Intent = "overdue_books"
	IntentAllStudents       Intent = "all_students"
	IntentStudentsByGrade   Intent = "students_by_grade"
	IntentLibraryStats      Intent = "library_stats"
	IntentBorrowingHistory  Intent = "borrowing_history"
	IntentHelp              Intent = "help"
	IntentStudentLookup     Intent = "student_lookup"
	IntentUnknown           Intent = "unknown"
)

// Pattern pairs a matcher with the intent it selects.
type Pattern struct {
	Intent Intent
	Regexp *regexp.Regexp
}

// PatternTable is evaluated in order and the first match wins, so broad
// patterns must stay below the narrower phrasings they would swallow.
type PatternTable []Pattern

func pattern(intent Intent, expr string) Pattern {
	return Pattern{Intent: intent, Regexp: regexp.MustCompile(`(?i)` + expr)}
}

var defaultPatterns = PatternTable{
	// Books borrowed by a student. The third form needs a possessive or
	// "borrowed", otherwise it would claim every "<x> books" question.
	pattern(IntentStudentBorrowings, `(?:what|which) books? (?:did|has|have) (.+?) borrow`),
	pattern(IntentStudentBorrowings, `books? borrowed by (.+)`),
	pattern(IntentStudentBorrowings, `(.+?)(?:'s(?: borrowed)?| borrowed) books?`),

	pattern(IntentAvailableBooks, `(?:which|what) books? (?:are|is) (?:currently )?available`),
	pattern(IntentAvailableBooks, `\bavailable books?`),
	pattern(IntentAvailableBooks, `books? (?:that are )?(?:in stock|available)`),

	pattern(IntentUnavailableBooks, `(?:which|what) books? (?:are|is) (?:not available|unavailable|borrowed out)`),
	pattern(IntentUnavailableBooks, `unavailable books?`),

	pattern(IntentAllBooks, `(?:list|show|get|what are) (?:all )?(?:the )?books?`),
	pattern(IntentAllBooks, `all books?`),

	pattern(IntentSearchByAuthor, `books? (?:written )?by (.+)`),
	pattern(IntentSearchByAuthor, `(?:find|search|get) (.+?)(?:'s)? books?`),

	// Catch-all "<x> books"; see precedence tests before moving it.
	pattern(IntentSearchByGenre, `(.+?) books?$`),
	pattern(IntentSearchByGenre, `books? (?:in|of) (?:the )?(.+?) genre`),

	pattern(IntentBookAvailability, `(?:is|are) (.+?) available`),
	pattern(IntentBookAvailability, `(?:check|find) availability (?:of|for) (.+)`),
	pattern(IntentBookAvailability, `(?:do you have|have) (.+)`),

	pattern(IntentCurrentBorrowings, `(?:current|active) borrowings?`),
	pattern(IntentCurrentBorrowings, `(?:who|which students?) (?:has|have) borrowed`),
	pattern(IntentCurrentBorrowings, `(?:what|which) books? (?:are|is) (?:currently )?borrowed`),

	pattern(IntentOverdueBooks, `overdue books?`),
	pattern(IntentOverdueBooks, `(?:which|what) books? (?:are|is) overdue`),
	pattern(IntentOverdueBooks, `late (?:returns?|books?)`),

	pattern(IntentAllStudents, `(?:list|show|get|all) students?`),
	pattern(IntentAllStudents, `(?:who are|which) (?:the )?students?`),

	pattern(IntentStudentsByGrade, `students? in grade (\d+)`),
	pattern(IntentStudentsByGrade, `grade (\d+) students?`),

	pattern(IntentLibraryStats, `(?:library )?(?:stats?|statistics|summary|overview)`),
	pattern(IntentLibraryStats, `how many books?`),

	pattern(IntentBorrowingHistory, `borrowing history`),
	pattern(IntentBorrowingHistory, `(?:all )?borrowings?`),

	pattern(IntentHelp, `help|what can you do|commands?`),

	pattern(IntentStudentLookup, `\b(s\d{3,})\b`),
}

// DefaultPatterns returns a copy of the built-in table.
func DefaultPatterns() PatternTable {
	return append(PatternTable(nil), defaultPatterns...)
}

type OutcomeKind int

const (
	OutcomeEmpty OutcomeKind = iota
	OutcomeNoMatch
	OutcomeMatched
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeEmpty:
		return "empty"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeMatched:
		return "matched"
	default:
		return "invalid"
	}
}

// MatchOutcome is the router's verdict for one input. Groups holds the
// capture groups in order (group 1 first); Position is the index of the
// winning pattern.
type MatchOutcome struct {
	Kind     OutcomeKind
	Intent   Intent
	Groups   []string
	Position int
}

// Normalize trims and lowercases a question.
func Normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Route normalizes input and returns the first pattern that matches anywhere
// in it.
func (t PatternTable) Route(input string) MatchOutcome {
	query := Normalize(input)
	if query == "" {
		return MatchOutcome{Kind: OutcomeEmpty, Position: -1}
	}

	for i, p := range t {
		m := p.Regexp.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		return MatchOutcome{
			Kind:     OutcomeMatched,
			Intent:   p.Intent,
			Groups:   m[1:],
			Position: i,
		}
	}

	return MatchOutcome{Kind: OutcomeNoMatch, Intent: IntentUnknown, Position: -1}
}

// Route uses the built-in table.
func Route(input string) MatchOutcome {
	return defaultPatterns.Route(input)
}
