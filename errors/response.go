package errors

import (
	stderrors "errors"
)

// Response is the JSON envelope a plugin returns for an AppError:
//
//	{"error":{"code":"TIMEOUT","message":"...","status":504,"retryable":true}}
type Response struct {
	Error Body `json:"error"`
}

// Body is the error member of Response.
type Body struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Status    int            `json:"status,omitempty"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse renders e as a Response. Details are shared, not copied.
func (e *AppError) ToResponse() Response {
	return Response{Error: Body{
		Code:      e.Code,
		Message:   e.Message,
		Status:    e.HTTPStatus,
		Retryable: e.Retryable,
		Details:   e.Details,
	}}
}

// AsAppError reports the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}
