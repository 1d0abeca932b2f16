package todo

import (
	"errors"
	"strings"
)

// MaxTextLength is the advisory upper bound shown to the user. It is not
// enforced before submission.
const MaxTextLength = 100

type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// ValidationError rejects input before it reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

var errEmptyText = &ValidationError{Field: "text", Reason: "cannot be empty"}

// Normalize trims text and rejects the empty result.
func Normalize(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errEmptyText
	}
	return text, nil
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IndexOf returns the position of id in todos, or -1.
func IndexOf(todos []Todo, id string) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Counts returns the number of completed and pending todos.
func Counts(todos []Todo) (done, pending int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
