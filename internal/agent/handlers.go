package agent

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/mrlokans/library-agent/internal/store"
)

var strayNameWords = regexp.MustCompile(`\b(?:` + strings.Join(StrayNameWords, "|") + `)\b`)

// cleanStudentName removes stray verbs from a captured name and collapses
// the whitespace they leave behind.
func cleanStudentName(raw string) string {
	name := strayNameWords.ReplaceAllString(raw, " ")
	return strings.Join(strings.Fields(name), " ")
}

// term trims a captured search term, including trailing punctuation that
// patterns ending in (.+) pick up from questions.
func term(groups []string, n int) string {
	return strings.TrimRight(strings.TrimSpace(group(groups, n)), "?!. ")
}

func (a *Agent) studentBorrowings(ctx context.Context, groups []string) (string, error) {
	name := cleanStudentName(term(groups, 1))
	if utf8.RuneCountInString(name) < 2 {
		return MissingNameMessage, nil
	}

	borrowings, err := a.store.BorrowingsByStudent(ctx, name)
	if err != nil {
		return "", err
	}
	if len(borrowings) == 0 {
		students, err := a.store.SearchStudentsByName(ctx, name)
		if err != nil {
			return "", err
		}
		if len(students) == 0 {
			return fmt.Sprintf(NoSuchStudentMessage, name), nil
		}
	}
	return FormatBorrowings(borrowings, fmt.Sprintf("Books borrowed by '%s'", name)), nil
}

func (a *Agent) availableBooks(ctx context.Context, _ []string) (string, error) {
	books, err := a.store.AvailableBooks(ctx)
	if err != nil {
		return "", err
	}
	return FormatBooks(books, "Available Books"), nil
}

func (a *Agent) unavailableBooks(ctx context.Context, _ []string) (string, error) {
	books, err := a.store.UnavailableBooks(ctx)
	if err != nil {
		return "", err
	}
	return FormatBooks(books, "Unavailable Books (All copies borrowed)"), nil
}

func (a *Agent) allBooks(ctx context.Context, _ []string) (string, error) {
	books, err := a.store.AllBooks(ctx)
	if err != nil {
		return "", err
	}
	return FormatBooks(books, "All Library Books"), nil
}

func (a *Agent) searchByAuthor(ctx context.Context, groups []string) (string, error) {
	author := term(groups, 1)
	books, err := a.store.SearchBooksByAuthor(ctx, author)
	if err != nil {
		return "", err
	}
	return FormatBooks(books, fmt.Sprintf("Books by '%s'", author)), nil
}

// searchByGenre also serves as the catch-all for "<x> books": a stop word
// lists everything, and a term that names no genre is retried as a title.
func (a *Agent) searchByGenre(ctx context.Context, groups []string) (string, error) {
	genre := term(groups, 1)
	if slices.Contains(GenreStopWords, genre) {
		return a.allBooks(ctx, nil)
	}

	books, err := a.store.SearchBooksByGenre(ctx, genre)
	if err != nil {
		return "", err
	}
	if len(books) > 0 {
		return FormatBooks(books, fmt.Sprintf("'%s' Books", titleCase(genre))), nil
	}

	books, err = a.store.SearchBooksByTitle(ctx, genre)
	if err != nil {
		return "", err
	}
	if len(books) > 0 {
		return FormatBooks(books, fmt.Sprintf("Books matching '%s'", genre)), nil
	}
	return fmt.Sprintf("No books found for genre or title '%s'.", genre), nil
}

func (a *Agent) bookAvailability(ctx context.Context, groups []string) (string, error) {
	title := term(groups, 1)
	books, err := a.store.SearchBooksByTitle(ctx, title)
	if err != nil {
		return "", err
	}
	if len(books) == 0 {
		return fmt.Sprintf("No book found matching '%s'.", title), nil
	}
	return formatAvailability(title, books), nil
}

func (a *Agent) currentBorrowings(ctx context.Context, _ []string) (string, error) {
	borrowings, err := a.store.CurrentBorrowings(ctx)
	if err != nil {
		return "", err
	}
	return FormatBorrowings(borrowings, "Current Borrowings"), nil
}

func (a *Agent) overdueBooks(ctx context.Context, _ []string) (string, error) {
	borrowings, err := a.store.OverdueBorrowings(ctx, a.now())
	if err != nil {
		return "", err
	}
	if len(borrowings) == 0 {
		return NoOverdueMessage, nil
	}
	return FormatBorrowings(borrowings, "Overdue Books"), nil
}

func (a *Agent) allStudents(ctx context.Context, _ []string) (string, error) {
	students, err := a.store.AllStudents(ctx)
	if err != nil {
		return "", err
	}
	return FormatStudents(students, "All Students"), nil
}

func (a *Agent) studentsByGrade(ctx context.Context, groups []string) (string, error) {
	raw := group(groups, 1)
	grade, err := strconv.Atoi(raw)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidGrade, "%q", raw)
	}

	students, err := a.store.StudentsByGrade(ctx, grade)
	if err != nil {
		return "", err
	}
	return FormatStudents(students, fmt.Sprintf("Grade %d Students", grade)), nil
}

func (a *Agent) libraryStats(ctx context.Context, _ []string) (string, error) {
	stats, err := a.store.Stats(ctx)
	if err != nil {
		return "", err
	}
	return formatStats(stats), nil
}

func (a *Agent) borrowingHistory(ctx context.Context, _ []string) (string, error) {
	borrowings, err := a.store.BorrowingHistory(ctx)
	if err != nil {
		return "", err
	}
	return FormatBorrowings(borrowings, "Borrowing History"), nil
}

func (a *Agent) help(context.Context, []string) (string, error) {
	return HelpText, nil
}

func (a *Agent) studentLookup(ctx context.Context, groups []string) (string, error) {
	code := strings.ToUpper(group(groups, 1))
	student, err := a.store.StudentByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No student found with ID '%s'.", code), nil
	}
	if err != nil {
		return "", err
	}

	current, err := a.store.CurrentBorrowingsByStudent(ctx, student.Name)
	if err != nil {
		return "", err
	}
	return formatStudentCard(student, current), nil
}
