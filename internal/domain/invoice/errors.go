package invoice

import (
	"fmt"

	ierr "github.com/flexprice/gstbill/internal/errors"
)

// lineError reports a problem with one line item, naming its index
func lineError(index int, field, message string) error {
	return ierr.NewErrorf("line item %d: %s %s", index, field, message).
		WithHint(fmt.Sprintf("line_items[%d]: %s %s", index, field, message)).
		WithReportableDetails(map[string]any{
			"line_index": index,
			"field":      field,
		}).
		Mark(ierr.ErrValidation)
}

func fieldError(field, message string) error {
	return ierr.NewErrorf("%s %s", field, message).
		WithHint(fmt.Sprintf("%s %s", field, message)).
		WithReportableDetails(map[string]any{
			"field": field,
		}).
		Mark(ierr.ErrValidation)
}

// ErrInvalidTransition is returned for a status change the state machine forbids
func ErrInvalidTransition(from, to string) error {
	return ierr.NewErrorf("invalid status transition from %s to %s", from, to).
		WithHintf("Invoice cannot move from %s to %s", from, to).
		WithReportableDetails(map[string]any{
			"from": from,
			"to":   to,
		}).
		Mark(ierr.ErrInvalidOperation)
}
