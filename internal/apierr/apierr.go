package apierr

import "fmt"

// Error is the domain error carried across the service and handler layers.
// UserMessage is safe to show to an end user; Err is the internal cause.
type Error struct {
	Status      int
	Code        string
	UserMessage string
	Err         error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func WithUserMessage(status int, code, userMsg string, err error) *Error {
	return &Error{Status: status, Code: code, UserMessage: userMsg, Err: err}
}

// Codes shared between the allocation validation surface and the handlers.
const (
	CodeInvalidAllocation    = "INVALID_ALLOCATION"
	CodePlanGenerationFailed = "PLAN_GENERATION_FAILED"
	CodeReorderFailed        = "REORDER_FAILED"
	CodeNotFound             = "NOT_FOUND"
	CodeBadRequest           = "BAD_REQUEST"
)
