package store

// Row is one result row of a raw Query, keyed by column name.
type Row map[string]any

type BookRecord struct {
	ID              int64
	Title           string
	Author          string
	ISBN            string
	PublishedYear   int
	Genre           string // empty when the book has no genre
	TotalCopies     int
	AvailableCopies int
}

func (b BookRecord) IsAvailable() bool {
	return b.AvailableCopies > 0
}

type StudentRecord struct {
	ID        int64
	Name      string
	Grade     int
	StudentID string
}

// BorrowingRecord is a borrowing joined to its book and student. Which
// optional fields are filled depends on the view that produced it.
type BorrowingRecord struct {
	Title       string
	Author      string
	StudentName string
	StudentCode string
	BorrowDate  string
	DueDate     string
	ReturnDate  *string
	Status      string // only set by BorrowingsByStudent
}

func (b BorrowingRecord) IsActive() bool {
	return b.ReturnDate == nil
}

const (
	StatusCurrentlyBorrowed = "Currently Borrowed"
	StatusReturned          = "Returned"
)

type Stats struct {
	TotalBooks       int64
	TotalCopies      int64
	AvailableCopies  int64
	BorrowedCopies   int64
	TotalStudents    int64
	ActiveBorrowings int64
}
