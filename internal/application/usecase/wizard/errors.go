package wizard

import (
	"errors"
	"fmt"
)

// FailureNotice is the only failure text shown to the user; causes go to the log.
const FailureNotice = "Failed to create profile. Please try again."

var (
	ErrNotFinalStep = errors.New("submit is only allowed from the last step")
	ErrWizardClosed = errors.New("wizard already submitted")

	ErrUploadFailed = errors.New("picture upload failed")
	ErrAuthMissing  = errors.New("no authenticated user")
	ErrInsertFailed = errors.New("profile insert failed")
)

type FailureKind string

const (
	UploadFailure FailureKind = "upload_failure"
	AuthMissing   FailureKind = "auth_missing"
	InsertFailure FailureKind = "insert_failure"
)

func (k FailureKind) sentinel() error {
	switch k {
	case UploadFailure:
		return ErrUploadFailed
	case AuthMissing:
		return ErrAuthMissing
	default:
		return ErrInsertFailed
	}
}

// SubmitError is returned by Submit. errors.Is matches both the kind's sentinel and the cause.
type SubmitError struct {
	Kind FailureKind
	Err  error
}

func (e *SubmitError) Error() string {
	if e.Err == nil {
		return e.Kind.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
}

func (e *SubmitError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}
