package review

import "errors"

// Domain errors for the review cycle.
var (
	// ErrMalformedResult indicates the backend payload failed validation.
	ErrMalformedResult = errors.New("malformed review result")

	// ErrBackendFailed is matched by every BackendError.
	ErrBackendFailed = errors.New("review backend failed")
)

// BackendError carries the failure text reported by the backend, shown verbatim.
type BackendError struct {
	Reason string
}

func (e *BackendError) Error() string {
	return e.Reason
}

// Is allows errors.Is to work with BackendError.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendFailed
}

// MalformedError describes why a payload was rejected.
type MalformedError struct {
	Problems []string
}

func (e *MalformedError) Error() string {
	msg := ErrMalformedResult.Error()
	for i, p := range e.Problems {
		if i == 0 {
			msg += ": " + p
		} else {
			msg += "; " + p
		}
	}
	return msg
}

// Is allows errors.Is to work with MalformedError.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedResult
}
