package database

import (
	_ "embed"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/mrlokans/library-agent/internal/entities"
	"github.com/mrlokans/library-agent/internal/logger"
)

//go:embed fixtures/seed.yaml
var defaultFixture []byte

var studentCodePattern = regexp.MustCompile(`^S\d+$`)

// Fixture is a complete data set. Borrowing.StudentID and Borrowing.BookID
// hold 1-based positions into Students and Books, not database IDs.
type Fixture struct {
	Books      []entities.Book      `yaml:"books"`
	Students   []entities.Student   `yaml:"students"`
	Borrowings []entities.Borrowing `yaml:"borrowings"`
}

type SeedResult struct {
	Books      int
	Students   int
	Borrowings int
}

// DefaultFixture returns the bundled sample data.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads and validates a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open fixture %s", path)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read fixture %s", path)
	}
	return ParseFixture(data)
}

func ParseFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, errors.Wrap(err, "failed to parse fixture")
	}
	if err := fixture.Validate(); err != nil {
		return nil, err
	}
	return &fixture, nil
}

// Validate checks the invariants the schema cannot express.
func (f *Fixture) Validate() error {
	for i, b := range f.Books {
		if b.Title == "" || b.Author == "" {
			return errors.Newf("book #%d: title and author are required", i+1)
		}
		if b.AvailableCopies < 0 || b.AvailableCopies > b.TotalCopies {
			return errors.Newf("book #%d %q: available copies %d outside 0..%d",
				i+1, b.Title, b.AvailableCopies, b.TotalCopies)
		}
	}

	for i, s := range f.Students {
		if s.Name == "" {
			return errors.Newf("student #%d: name is required", i+1)
		}
		if !studentCodePattern.MatchString(s.Code) {
			return errors.Newf("student #%d %q: student id %q must be S followed by digits",
				i+1, s.Name, s.Code)
		}
	}

	for i, br := range f.Borrowings {
		if br.StudentID < 1 || int(br.StudentID) > len(f.Students) {
			return errors.Newf("borrowing #%d: unknown student #%d", i+1, br.StudentID)
		}
		if br.BookID < 1 || int(br.BookID) > len(f.Books) {
			return errors.Newf("borrowing #%d: unknown book #%d", i+1, br.BookID)
		}
		dates := []string{br.BorrowDate, br.DueDate}
		if br.ReturnDate != nil {
			dates = append(dates, *br.ReturnDate)
		}
		for _, d := range dates {
			if _, err := time.Parse(entities.DateLayout, d); err != nil {
				return errors.Wrapf(err, "borrowing #%d: bad date %q", i+1, d)
			}
		}
	}
	return nil
}

// Seed inserts the fixture in a single transaction.
func (d *Database) Seed(fixture *Fixture) (*SeedResult, error) {
	if err := fixture.Validate(); err != nil {
		return nil, err
	}

	books := append([]entities.Book(nil), fixture.Books...)
	students := append([]entities.Student(nil), fixture.Students...)
	borrowings := make([]entities.Borrowing, 0, len(fixture.Borrowings))

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		if len(books) > 0 {
			if err := tx.Create(&books).Error; err != nil {
				return errors.Wrap(err, "failed to insert books")
			}
		}
		if len(students) > 0 {
			if err := tx.Create(&students).Error; err != nil {
				return errors.Wrap(err, "failed to insert students")
			}
		}

		for _, br := range fixture.Borrowings {
			br.StudentID = students[br.StudentID-1].ID
			br.BookID = books[br.BookID-1].ID
			borrowings = append(borrowings, br)
		}
		if len(borrowings) > 0 {
			if err := tx.Omit("Student", "Book").Create(&borrowings).Error; err != nil {
				return errors.Wrap(err, "failed to insert borrowings")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &SeedResult{
		Books:      len(books),
		Students:   len(students),
		Borrowings: len(borrowings),
	}
	logger.Named("database").Infow("Seeded sample data",
		"books", result.Books,
		"students", result.Students,
		"borrowings", result.Borrowings)
	return result, nil
}
