package entities

// Dates are stored as ISO-8601 text (YYYY-MM-DD) so that lexical comparison
// in SQL matches calendar order.
const DateLayout = "2006-01-02"

type Book struct {
	ID              uint    `gorm:"primaryKey" json:"id" yaml:"-"`
	Title           string  `gorm:"not null" json:"title" yaml:"title"`
	Author          string  `gorm:"not null" json:"author" yaml:"author"`
	ISBN            *string `gorm:"column:isbn;uniqueIndex" json:"isbn,omitempty" yaml:"isbn"` // nil is stored as NULL
	PublishedYear   *int    `json:"published_year,omitempty" yaml:"published_year"`
	Genre           *string `json:"genre,omitempty" yaml:"genre"`
	TotalCopies     int     `gorm:"not null" json:"total_copies" yaml:"total_copies"`
	AvailableCopies int     `gorm:"not null" json:"available_copies" yaml:"available_copies"`
}

type Student struct {
	ID    uint   `gorm:"primaryKey" json:"id" yaml:"-"`
	Name  string `gorm:"not null" json:"name" yaml:"name"`
	Grade int    `json:"grade" yaml:"grade"`
	Code  string `gorm:"column:student_id;type:text;uniqueIndex" json:"student_id" yaml:"student_id"` // e.g. "S2023001"
}

// Borrowing links one student to one book. A nil ReturnDate means the loan
// is still active.
type Borrowing struct {
	ID         uint    `gorm:"primaryKey" json:"id" yaml:"-"`
	StudentID  uint    `gorm:"index" json:"student_id" yaml:"student"`
	BookID     uint    `gorm:"index" json:"book_id" yaml:"book"`
	BorrowDate string  `gorm:"type:text" json:"borrow_date" yaml:"borrow_date"`
	DueDate    string  `gorm:"type:text" json:"due_date" yaml:"due_date"`
	ReturnDate *string `gorm:"type:text" json:"return_date,omitempty" yaml:"return_date"`
	Student    Student `gorm:"foreignKey:StudentID;references:ID" json:"-" yaml:"-"`
	Book       Book    `gorm:"foreignKey:BookID;references:ID" json:"-" yaml:"-"`
}

// IsActive reports whether the book has not been returned yet.
func (b Borrowing) IsActive() bool {
	return b.ReturnDate == nil
}
