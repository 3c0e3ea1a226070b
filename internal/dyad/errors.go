package dyad

import "fmt"

// MalformedRecordError reports an input line that is not a (label, int, float) triple.
type MalformedRecordError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s:%d: malformed record %q: %s", e.Source, e.Line, e.Text, e.Reason)
}

// EmptyInputError reports an input that produced no events at all.
type EmptyInputError struct {
	Source string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no dyad events in input", e.Source)
}
