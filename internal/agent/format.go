package agent

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrlokans/library-agent/internal/store"
)

const separatorWidth = 50

var separator = strings.Repeat("-", separatorWidth)

// Casers are stateful; build one per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func emptyResult(title string) string {
	return fmt.Sprintf("No %s found.", strings.ToLower(title))
}

func header(icon, title string, n int) string {
	return fmt.Sprintf("\n%s %s (%d found):\n%s\n", icon, title, n, separator)
}

// FormatBooks renders one line per book under a titled header.
func FormatBooks(books []store.BookRecord, title string) string {
	if len(books) == 0 {
		return emptyResult(title)
	}

	var sb strings.Builder
	sb.WriteString(header("📚", title, len(books)))
	for _, b := range books {
		fmt.Fprintf(&sb, "  • %s by %s [%d/%d available]", b.Title, b.Author, b.AvailableCopies, b.TotalCopies)
		if b.Genre != "" {
			fmt.Fprintf(&sb, " (%s)", b.Genre)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatBorrowings renders two lines per borrowing: what and who, then the
// dates and whatever status fields the view filled in.
func FormatBorrowings(borrowings []store.BorrowingRecord, title string) string {
	if len(borrowings) == 0 {
		return emptyResult(title)
	}

	var sb strings.Builder
	sb.WriteString(header("📖", title, len(borrowings)))
	for _, b := range borrowings {
		sb.WriteString("  • " + orNA(b.Title))
		if b.StudentName != "" {
			sb.WriteString(" - " + b.StudentName)
		}
		fmt.Fprintf(&sb, "\n    Borrowed: %s | Due: %s", orNA(b.BorrowDate), orNA(b.DueDate))
		if b.Status != "" {
			sb.WriteString(" | Status: " + b.Status)
		}
		if b.ReturnDate != nil {
			sb.WriteString(" | Returned: " + *b.ReturnDate)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatStudents renders one line per student.
func FormatStudents(students []store.StudentRecord, title string) string {
	if len(students) == 0 {
		return emptyResult(title)
	}

	var sb strings.Builder
	sb.WriteString(header("👤", title, len(students)))
	for _, s := range students {
		fmt.Fprintf(&sb, "  • %s (ID: %s, Grade: %d)\n", s.Name, s.StudentID, s.Grade)
	}
	return sb.String()
}

func formatAvailability(title string, books []store.BookRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n🔍 Availability for '%s':\n%s\n", title, separator)
	for _, b := range books {
		status := "✅ Available"
		if !b.IsAvailable() {
			status = "❌ Not Available"
		}
		fmt.Fprintf(&sb, "  • %s by %s\n    %s (%d/%d copies)\n", b.Title, b.Author, status, b.AvailableCopies, b.TotalCopies)
	}
	return sb.String()
}

func formatStats(s store.Stats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n📊 Library Statistics:\n%s\n", separator)
	fmt.Fprintf(&sb, "  📚 Total unique books: %d\n", s.TotalBooks)
	fmt.Fprintf(&sb, "  📦 Total copies: %d\n", s.TotalCopies)
	fmt.Fprintf(&sb, "  ✅ Available copies: %d\n", s.AvailableCopies)
	fmt.Fprintf(&sb, "  📖 Borrowed copies: %d\n", s.BorrowedCopies)
	fmt.Fprintf(&sb, "  👤 Total students: %d\n", s.TotalStudents)
	fmt.Fprintf(&sb, "  🔄 Active borrowings: %d\n", s.ActiveBorrowings)
	return sb.String()
}

func formatStudentCard(s *store.StudentRecord, current []store.BorrowingRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n👤 %s (ID: %s, Grade: %d)\n%s\n", s.Name, s.StudentID, s.Grade, separator)
	if len(current) == 0 {
		sb.WriteString("  No books currently borrowed.\n")
		return sb.String()
	}
	for _, b := range current {
		fmt.Fprintf(&sb, "  • %s\n    Borrowed: %s | Due: %s\n", b.Title, orNA(b.BorrowDate), orNA(b.DueDate))
	}
	return sb.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
