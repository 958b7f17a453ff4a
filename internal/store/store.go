// Package store is the read-only data access layer for the library agent.
//
// Every view issues a fixed, parameterized query against the books, students
// and borrowings tables and returns typed records. Query is the raw primitive
// for ad-hoc reads.
//
//	s := store.New(db.SQL)
//	books, err := s.AvailableBooks(ctx)
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/mrlokans/library-agent/internal/entities"
	"github.com/mrlokans/library-agent/internal/logger"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrNoConnection = errors.New("store has no database connection")
)

const bookColumns = `id, title, author, isbn, published_year, genre, total_copies, available_copies`

const borrowingJoin = `
	FROM borrowings br
	JOIN books b ON br.book_id = b.id
	JOIN students s ON br.student_id = s.id`

// Store issues read queries over a single database handle. It never writes.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func New(db *sql.DB) *Store {
	return &Store{db: db, log: logger.Named("store")}
}

// Query runs a parameterized read query and returns rows in result order.
// TEXT values come back as string, NULL as nil.
func (s *Store) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.query(ctx, "raw", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read columns")
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, errors.Wrap(rows.Err(), "failed to iterate rows")
}

// =============================================================================
// Books
// =============================================================================

func (s *Store) AllBooks(ctx context.Context) ([]BookRecord, error) {
	return s.queryBooks(ctx, "all_books",
		`SELECT `+bookColumns+` FROM books ORDER BY id`)
}

func (s *Store) AvailableBooks(ctx context.Context) ([]BookRecord, error) {
	return s.queryBooks(ctx, "available_books",
		`SELECT `+bookColumns+` FROM books WHERE available_copies > 0 ORDER BY id`)
}

// UnavailableBooks returns books with every copy borrowed out.
func (s *Store) UnavailableBooks(ctx context.Context) ([]BookRecord, error) {
	return s.queryBooks(ctx, "unavailable_books",
		`SELECT `+bookColumns+` FROM books WHERE available_copies = 0 ORDER BY id`)
}

// SearchBooksByTitle, SearchBooksByAuthor and SearchBooksByGenre match a
// case-insensitive substring.
func (s *Store) SearchBooksByTitle(ctx context.Context, title string) ([]BookRecord, error) {
	return s.queryBooks(ctx, "books_by_title",
		`SELECT `+bookColumns+` FROM books WHERE LOWER(title) LIKE LOWER(?) ESCAPE '\' ORDER BY id`,
		containsPattern(title))
}

func (s *Store) SearchBooksByAuthor(ctx context.Context, author string) ([]BookRecord, error) {
	return s.queryBooks(ctx, "books_by_author",
		`SELECT `+bookColumns+` FROM books WHERE LOWER(author) LIKE LOWER(?) ESCAPE '\' ORDER BY id`,
		containsPattern(author))
}

func (s *Store) SearchBooksByGenre(ctx context.Context, genre string) ([]BookRecord, error) {
	return s.queryBooks(ctx, "books_by_genre",
		`SELECT `+bookColumns+` FROM books WHERE LOWER(genre) LIKE LOWER(?) ESCAPE '\' ORDER BY id`,
		containsPattern(genre))
}

// =============================================================================
// Students
// =============================================================================

const studentColumns = `id, name, grade, student_id`

func (s *Store) AllStudents(ctx context.Context) ([]StudentRecord, error) {
	return s.queryStudents(ctx, "all_students",
		`SELECT `+studentColumns+` FROM students ORDER BY id`)
}

func (s *Store) StudentsByGrade(ctx context.Context, grade int) ([]StudentRecord, error) {
	return s.queryStudents(ctx, "students_by_grade",
		`SELECT `+studentColumns+` FROM students WHERE grade = ? ORDER BY id`, grade)
}

func (s *Store) SearchStudentsByName(ctx context.Context, name string) ([]StudentRecord, error) {
	return s.queryStudents(ctx, "students_by_name",
		`SELECT `+studentColumns+` FROM students WHERE LOWER(name) LIKE LOWER(?) ESCAPE '\' ORDER BY id`,
		containsPattern(name))
}

// StudentByCode looks a student up by the external code, e.g. "S2023001".
func (s *Store) StudentByCode(ctx context.Context, code string) (*StudentRecord, error) {
	students, err := s.queryStudents(ctx, "student_by_code",
		`SELECT `+studentColumns+` FROM students WHERE student_id = ?`, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "student %s", code)
	}
	return &students[0], nil
}

// =============================================================================
// Borrowings
// =============================================================================

// BorrowingsByStudent returns every borrowing, active or returned, of students
// whose name contains name. Newest first.
func (s *Store) BorrowingsByStudent(ctx context.Context, name string) ([]BorrowingRecord, error) {
	return s.queryBorrowings(ctx, "borrowings_by_student", `
		SELECT b.title, b.author, s.name, s.student_id,
		       date(br.borrow_date), date(br.due_date), date(br.return_date),
		       CASE WHEN br.return_date IS NULL THEN '`+StatusCurrentlyBorrowed+`' ELSE '`+StatusReturned+`' END`+
		borrowingJoin+`
		WHERE LOWER(s.name) LIKE LOWER(?) ESCAPE '\'
		ORDER BY br.borrow_date DESC, br.id DESC`,
		containsPattern(name))
}

func (s *Store) CurrentBorrowingsByStudent(ctx context.Context, name string) ([]BorrowingRecord, error) {
	return s.queryBorrowings(ctx, "current_borrowings_by_student", `
		SELECT b.title, b.author, s.name, s.student_id,
		       date(br.borrow_date), date(br.due_date), NULL, ''`+
		borrowingJoin+`
		WHERE LOWER(s.name) LIKE LOWER(?) ESCAPE '\' AND br.return_date IS NULL
		ORDER BY br.due_date, br.id`,
		containsPattern(name))
}

// CurrentBorrowings returns all active loans, soonest due first.
func (s *Store) CurrentBorrowings(ctx context.Context) ([]BorrowingRecord, error) {
	return s.queryBorrowings(ctx, "current_borrowings", `
		SELECT b.title, b.author, s.name, s.student_id,
		       date(br.borrow_date), date(br.due_date), NULL, ''`+
		borrowingJoin+`
		WHERE br.return_date IS NULL
		ORDER BY br.due_date, br.id`)
}

// OverdueBorrowings returns active loans due strictly before ref.
func (s *Store) OverdueBorrowings(ctx context.Context, ref time.Time) ([]BorrowingRecord, error) {
	return s.queryBorrowings(ctx, "overdue_borrowings", `
		SELECT b.title, b.author, s.name, s.student_id,
		       date(br.borrow_date), date(br.due_date), NULL, ''`+
		borrowingJoin+`
		WHERE br.return_date IS NULL AND date(br.due_date) < ?
		ORDER BY br.due_date, br.id`,
		ref.Format(entities.DateLayout))
}

// BorrowingHistory returns every borrowing, newest first.
func (s *Store) BorrowingHistory(ctx context.Context) ([]BorrowingRecord, error) {
	return s.queryBorrowings(ctx, "borrowing_history", `
		SELECT b.title, b.author, s.name, s.student_id,
		       date(br.borrow_date), date(br.due_date), date(br.return_date), ''`+
		borrowingJoin+`
		ORDER BY br.borrow_date DESC, br.id DESC`)
}

// =============================================================================
// Aggregates
// =============================================================================

// Stats sums are zero, not NULL, on an empty books table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.query(ctx, "stats", `
		SELECT
			(SELECT COUNT(*) FROM books),
			(SELECT COALESCE(SUM(total_copies), 0) FROM books),
			(SELECT COALESCE(SUM(available_copies), 0) FROM books),
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM borrowings WHERE return_date IS NULL)`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Stats{}, errors.Wrap(err, "failed to read stats")
		}
		return Stats{}, errors.New("stats query returned no rows")
	}

	var books, total, available, students, active sql.NullInt64
	if err := rows.Scan(&books, &total, &available, &students, &active); err != nil {
		return Stats{}, errors.Wrap(err, "failed to scan stats")
	}

	return Stats{
		TotalBooks:       books.Int64,
		TotalCopies:      total.Int64,
		AvailableCopies:  available.Int64,
		BorrowedCopies:   total.Int64 - available.Int64,
		TotalStudents:    students.Int64,
		ActiveBorrowings: active.Int64,
	}, nil
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Store) query(ctx context.Context, view, query string, args ...any) (*sql.Rows, error) {
	if s.db == nil {
		return nil, ErrNoConnection
	}
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", view)
	}
	s.log.Debugw("Query executed",
		"view", view,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return rows, nil
}

func (s *Store) queryBooks(ctx context.Context, view, query string, args ...any) ([]BookRecord, error) {
	rows, err := s.query(ctx, view, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []BookRecord
	for rows.Next() {
		var (
			b     BookRecord
			isbn  sql.NullString
			year  sql.NullInt64
			genre sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &isbn, &year, &genre, &b.TotalCopies, &b.AvailableCopies); err != nil {
			return nil, errors.Wrapf(err, "scan %s", view)
		}
		b.ISBN = isbn.String
		b.PublishedYear = int(year.Int64)
		b.Genre = genre.String
		books = append(books, b)
	}
	return books, errors.Wrapf(rows.Err(), "iterate %s", view)
}

func (s *Store) queryStudents(ctx context.Context, view, query string, args ...any) ([]StudentRecord, error) {
	rows, err := s.query(ctx, view, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []StudentRecord
	for rows.Next() {
		var (
			st    StudentRecord
			grade sql.NullInt64
			code  sql.NullString
		)
		if err := rows.Scan(&st.ID, &st.Name, &grade, &code); err != nil {
			return nil, errors.Wrapf(err, "scan %s", view)
		}
		st.Grade = int(grade.Int64)
		st.StudentID = code.String
		students = append(students, st)
	}
	return students, errors.Wrapf(rows.Err(), "iterate %s", view)
}

// queryBorrowings expects columns: title, author, student name, student code,
// borrow date, due date, return date, status.
func (s *Store) queryBorrowings(ctx context.Context, view, query string, args ...any) ([]BorrowingRecord, error) {
	rows, err := s.query(ctx, view, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var borrowings []BorrowingRecord
	for rows.Next() {
		var (
			br                           BorrowingRecord
			code, borrowed, due, ret, st sql.NullString
		)
		if err := rows.Scan(&br.Title, &br.Author, &br.StudentName, &code, &borrowed, &due, &ret, &st); err != nil {
			return nil, errors.Wrapf(err, "scan %s", view)
		}
		br.StudentCode = code.String
		br.BorrowDate = borrowed.String
		br.DueDate = due.String
		if ret.Valid {
			returned := ret.String
			br.ReturnDate = &returned
		}
		br.Status = st.String
		borrowings = append(borrowings, br)
	}
	return borrowings, errors.Wrapf(rows.Err(), "iterate %s", view)
}

// containsPattern builds a LIKE pattern matching value anywhere, with LIKE
// metacharacters in value taken literally.
func containsPattern(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(value) + "%"
}
