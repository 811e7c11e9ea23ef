package preset

import (
	"fmt"

	"github.com/aretw0/ltree/pkg/domain"
)

// ValidationError is a single schema violation in a preset document.
type ValidationError struct {
	Location string // JSON pointer to the offending value
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Location == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Location, e.Reason)
}

// AggregateError collects every violation found in a document.
type AggregateError struct {
	Source string
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s: %s", e.Source, e.Errors[0])
	}
	msg := fmt.Sprintf("%s: %d validation errors:\n", e.Source, len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err)
	}
	return msg
}

// Is makes schema failures match domain.ErrInvalidConfig.
func (e *AggregateError) Is(target error) bool {
	return target == domain.ErrInvalidConfig
}

// ValidationErrors returns the violations carried by err, or nil.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
