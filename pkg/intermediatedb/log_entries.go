package intermediatedb

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Log entry types.
const (
	LogTypeInfo    = "info"
	LogTypeWarning = "warning"
	LogTypeError   = "error"
)

// ErrInvalidLogType is returned for a log entry type other than info,
// warning or error.
var ErrInvalidLogType = errors.New("invalid log entry type")

// LogEntry is a diagnostic row recorded during an import run. Exception
// is serialized with its full text; Details is stored as JSON.
type LogEntry struct {
	CreatedAt time.Time // zero means now
	Type      string    // required
	Message   string    // required
	Exception error
	Details   any
}

var logEntriesTable = define("log_entries", nil,
	required("created_at", datetime),
	required("type", text),
	required("message", text),
	optional("exception", text),
	optional("details", jsonText),
)

// CreateLogEntry records a diagnostic.
func (w *Writer) CreateLogEntry(e LogEntry) error {
	switch e.Type {
	case LogTypeInfo, LogTypeWarning, LogTypeError:
	case "":
		return &MissingFieldError{Table: logEntriesTable.name, Column: "type"}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogType, e.Type)
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	details, err := toJSON(logEntriesTable, "details", e.Details)
	if err != nil {
		return err
	}

	return w.insert(logEntriesTable,
		ts(createdAt),
		e.Type,
		str(e.Message),
		str(describeError(e.Exception)),
		details,
	)
}

// LogInfo records an info entry.
func (w *Writer) LogInfo(message string, details any) error {
	return w.CreateLogEntry(LogEntry{Type: LogTypeInfo, Message: message, Details: details})
}

// LogWarning records a warning entry.
func (w *Writer) LogWarning(message string, err error, details any) error {
	return w.CreateLogEntry(LogEntry{Type: LogTypeWarning, Message: message, Exception: err, Details: details})
}

// LogError records an error entry.
func (w *Writer) LogError(message string, err error, details any) error {
	return w.CreateLogEntry(LogEntry{Type: LogTypeError, Message: message, Exception: err, Details: details})
}

// describeError renders err as "<type>: <message>", followed by the %+v
// form when it carries more (such as a recorded stack) and by every
// wrapped cause.
func describeError(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	msg := err.Error()
	fmt.Fprintf(&b, "%T: %s", err, msg)
	if verbose := fmt.Sprintf("%+v", err); verbose != msg {
		b.WriteString("\n")
		b.WriteString(verbose)
	}

	causes := []error{err}
	for depth := 0; len(causes) > 0 && depth < 64; depth++ {
		cur := causes[0]
		causes = causes[1:]

		var next []error
		switch x := cur.(type) {
		case interface{ Unwrap() error }:
			if u := x.Unwrap(); u != nil {
				next = append(next, u)
			}
		case interface{ Unwrap() []error }:
			next = append(next, x.Unwrap()...)
		}
		for _, c := range next {
			fmt.Fprintf(&b, "\ncaused by %T: %s", c, c.Error())
		}
		causes = append(causes, next...)
	}

	return b.String()
}
