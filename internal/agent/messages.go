package agent

const (
	EmptyQueryMessage  = "Please enter a question about the library."
	MissingNameMessage = "Please specify a student name."
	NoOverdueMessage   = "No overdue books! All borrowed books are within their due dates."
	errorPrefix        = "Sorry, I encountered an error: "
)

// NoSuchStudentMessage takes the cleaned student name.
const NoSuchStudentMessage = "No student found matching '%s'."

// StrayNameWords are dropped from a captured student name; they leak in from
// phrasings like "what books has alice currently borrowed".
var StrayNameWords = []string{"currently", "borrow", "borrowed", "has", "have", "did"}

// GenreStopWords turn a "<x> books" question into a full listing.
var GenreStopWords = []string{"all", "the", "list", "show", "available", "borrowed"}

const HelpText = `
📚 Library Chat Agent - Help
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

You can ask me questions like:

📖 BOOKS:
  • "Show all books"
  • "What books are available?"
  • "Which books are unavailable?"
  • "Books by George Orwell"
  • "Fantasy books" or "Books in the Fiction genre"
  • "Is The Hobbit available?"
  • "Do you have Charlotte's Web?"

👤 STUDENTS:
  • "List all students"
  • "Students in grade 10"
  • "Who is S2023001?"

📋 BORROWINGS:
  • "What books did Alice Chan borrow?"
  • "Books borrowed by Bob Lee"
  • "Current borrowings"
  • "Which books are overdue?"
  • "Borrowing history"

📊 OTHER:
  • "Library stats"
  • "Help"

Type 'quit' or 'exit' to leave.
`

const UnknownText = `I'm not sure how to answer that question.

Try asking something like:
  • "What books are available?"
  • "What books did Alice Chan borrow?"
  • "Books by George Orwell"
  • "Students in grade 10"
  • "Library stats"

Type 'help' for more options.`
