package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Tiliavir/sitelog/internal/backend"
)

var (
	// ErrUnauthenticated means the acting user has no usable credential.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrNoActiveSession means no period is open for submission right now.
	ErrNoActiveSession = errors.New("no active reporting period")
	// ErrValidationFailed is matched by every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")
	// ErrDuplicateSubmission means the period already has a report for the day.
	ErrDuplicateSubmission = errors.New("period already submitted")
	// ErrNetworkFailure wraps transport failures and timeouts.
	ErrNetworkFailure = errors.New("backend unreachable")
	// ErrAggregateReconciliationFailed is matched by every *ReconcileWarning.
	ErrAggregateReconciliationFailed = errors.New("daily aggregate not updated")
)

// ValidationError lists every missing or inconsistent field of a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// ReconcileWarning reports that the hourly report was stored but folding it
// into the daily aggregate failed.
type ReconcileWarning struct {
	Date    string
	Period  string
	Project string
	Err     error
}

func (w *ReconcileWarning) Error() string {
	return fmt.Sprintf("%s for %s %s (%s): %v", ErrAggregateReconciliationFailed, w.Project, w.Date, w.Period, w.Err)
}

func (w *ReconcileWarning) Is(target error) bool { return target == ErrAggregateReconciliationFailed }

func (w *ReconcileWarning) Unwrap() error { return w.Err }

// classify tags transport failures with ErrNetworkFailure. Server answers
// (*backend.APIError) keep their status and message.
func classify(op string, err error) error {
	var netErr *backend.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, ErrNetworkFailure, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
