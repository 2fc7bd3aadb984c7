package vocab

import "fmt"

// DuplicateIDError is returned when two lines share the same id
type DuplicateIDError struct {
	ID         int
	FirstLine  int
	FirstText  string
	SecondLine int
	SecondText string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("ID %d of '%s' (line %d) is used twice! First occurrence (line %d):\n'%s'",
		e.ID, e.SecondText, e.SecondLine, e.FirstLine, e.FirstText)
}

// InvalidTagError is returned for tags containing whitespace, which Anki does not support
type InvalidTagError struct {
	ID   int
	Line int
	Tag  string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("tag %q of phrase with ID %d (line %d) contains whitespace, Anki does not support this",
		e.Tag, e.ID, e.Line)
}

// MalformedEntryError is returned for lines that cannot be parsed into an entry
type MalformedEntryError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed vocabulary line %d %q: %s", e.Line, e.Text, e.Reason)
}
