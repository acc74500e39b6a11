package apperror

// AppError pairs a client-facing message with the HTTP status the failure
// should surface as. Handlers wrap domain errors once and response.Error
// does the translation.
type AppError struct {
	Code    int    // HTTP status
	Message string // shown to the client
	Err     error  // underlying cause, kept out of responses
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError carrying only a status and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches an underlying cause to a new AppError.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
