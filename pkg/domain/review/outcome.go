package review

import "errors"

// Outcome is the tagged result of a settled review: either findings or a failure.
type Outcome struct {
	result *Result
	err    error
}

// Ok wraps a validated result.
func Ok(r *Result) Outcome {
	if r == nil {
		r = &Result{}
	}
	return Outcome{result: r}
}

// Err wraps a failure. A nil error is treated as an unknown failure.
func Err(err error) Outcome {
	if err == nil {
		err = &BackendError{Reason: "unknown review failure"}
	}
	return Outcome{err: err}
}

// IsOk reports whether the outcome carries findings.
func (o Outcome) IsOk() bool {
	return o.err == nil
}

// Result returns the findings, or nil for a failure.
func (o Outcome) Result() *Result {
	return o.result
}

// Error returns the failure, or nil for a success.
func (o Outcome) Error() error {
	return o.err
}

// Reason returns the user-visible failure text.
func (o Outcome) Reason() string {
	if o.err == nil {
		return ""
	}
	return o.err.Error()
}

// Malformed reports whether the failure came from payload validation.
func (o Outcome) Malformed() bool {
	return errors.Is(o.err, ErrMalformedResult)
}
