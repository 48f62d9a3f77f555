package decode

// Error codes for audio ingestion failures
const (
	ErrCodeUnsupported   = "UNSUPPORTED_FORMAT"
	ErrCodeInvalidFormat = "INVALID_FORMAT"
	ErrCodeDecoding      = "DECODING_FAILED"
	ErrCodeEmptyAudio    = "EMPTY_AUDIO"
)

// DecodeError represents an audio decoding failure. Decoding faults are
// fatal input errors: the caller aborts the request rather than retrying.
type DecodeError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a new decode error
func NewDecodeError(path, code, message string, cause error) *DecodeError {
	return &DecodeError{
		Path:    path,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
