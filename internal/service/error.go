package service

// Error carries one of the constants error codes alongside the underlying
// cause. The HTTP error handler maps the code to a status; the cause stays
// in logs only.
type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
