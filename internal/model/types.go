package model

// DateResponse is the body of a successful working-date query.
type DateResponse struct {
	Date string `json:"date"`
}

// ErrorCode is the user-visible error category.
type ErrorCode string

const (
	ErrInvalidParameters  ErrorCode = "InvalidParameters"
	ErrServiceUnavailable ErrorCode = "ServiceUnavailable"
	ErrInternal           ErrorCode = "InternalError"
	ErrNotFound           ErrorCode = "NotFound"
	ErrMethodNotAllowed   ErrorCode = "MethodNotAllowed"
)

// APIError is the body of every error response.
type APIError struct {
	Error   ErrorCode `json:"error"`
	Message string    `json:"message"`
}

// HolidaysResponse describes the holiday snapshot in use.
type HolidaysResponse struct {
	Source     string   `json:"source"`
	FetchedAt  string   `json:"fetchedAt"`
	AgeSeconds int64    `json:"ageSeconds"`
	Count      int      `json:"count"`
	Dates      []string `json:"dates"`
}
