package errors

import "fmt"

// Error codes
const (
	CodePipeline      = "PIPELINE_ERROR"
	CodeParse         = "PARSE_ERROR"
	CodeRequiredField = "REQUIRED_FIELD_MISSING"
	CodeIdentity      = "IDENTITY_NOT_FOUND"
	CodeStoreWrite    = "STORE_WRITE_FAILURE"
	CodeCache         = "CACHE_ERROR"
)

type PipelineError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func NewPipelineError(message, code string, context map[string]any) *PipelineError {
	return &PipelineError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *PipelineError) WithCause(cause error) *PipelineError {
	e.Cause = cause
	return e
}

// ParseError marks a document whose bytes could not be decoded. The caller
// skips the file and keeps the run going.
type ParseError struct {
	*PipelineError
	Path string
}

func NewParseError(message, path string, cause error) *ParseError {
	return &ParseError{
		PipelineError: &PipelineError{
			Message: message,
			Code:    CodeParse,
			Context: map[string]any{
				"path": path,
			},
			Cause: cause,
		},
		Path: path,
	}
}

// RequiredFieldMissingError marks a document that matched a dialect
// fingerprint but did not yield the fields a canonical profile needs.
type RequiredFieldMissingError struct {
	*PipelineError
	Dialect string
	Field   string
}

func NewRequiredFieldMissingError(message, dialect, field string) *RequiredFieldMissingError {
	return &RequiredFieldMissingError{
		PipelineError: &PipelineError{
			Message: message,
			Code:    CodeRequiredField,
			Context: map[string]any{
				"dialect": dialect,
				"field":   field,
			},
		},
		Dialect: dialect,
		Field:   field,
	}
}

// IdentityNotFoundError marks a person identifier that did not resolve to
// exactly one persisted Mind record.
type IdentityNotFoundError struct {
	*PipelineError
	Slug       string
	Candidates int
}

func NewIdentityNotFoundError(slug string, candidates int) *IdentityNotFoundError {
	return &IdentityNotFoundError{
		PipelineError: &PipelineError{
			Message: fmt.Sprintf("no unique mind record for %q", slug),
			Code:    CodeIdentity,
			Context: map[string]any{
				"slug":       slug,
				"candidates": candidates,
			},
		},
		Slug:       slug,
		Candidates: candidates,
	}
}

type StoreWriteError struct {
	*PipelineError
	Operation string
	Slug      string
}

func NewStoreWriteError(message, operation, slug string, cause error) *StoreWriteError {
	return &StoreWriteError{
		PipelineError: &PipelineError{
			Message: message,
			Code:    CodeStoreWrite,
			Context: map[string]any{
				"operation": operation,
				"slug":      slug,
			},
			Cause: cause,
		},
		Operation: operation,
		Slug:      slug,
	}
}

type CacheError struct {
	*PipelineError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		PipelineError: &PipelineError{
			Message: message,
			Code:    CodeCache,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}
