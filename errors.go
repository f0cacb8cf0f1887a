package variant

import "fmt"

// ErrorKind is the closed error taxonomy. It is a kind, not a type: every
// EngineError carries one, and callers switch on Kind() rather than on
// concrete Go types.
type ErrorKind int

const (
	// KindTemplateInvalid wraps one or more structural/referential
	// problems found by Validate. Fatal, raised before any row runs.
	KindTemplateInvalid ErrorKind = iota
	// KindMissingField means a placeholder named a column absent from
	// the current row. Non-fatal: the placeholder renders as "".
	KindMissingField
	// KindAugmenterFailed means a single augmenter invocation errored or
	// returned nothing. Non-fatal: the original value is kept.
	KindAugmenterFailed
	// KindShuffleRequiresIndexGold means `shuffle` was listed for a field
	// without a matching index gold. Fatal.
	KindShuffleRequiresIndexGold
	// KindInsufficientFewShotData means the filtered pool was smaller
	// than the requested count. Fatal for the current row.
	KindInsufficientFewShotData
	// KindGoldExtractionFailed means the gold accessor could not be
	// evaluated against a row. Fatal for the current row.
	KindGoldExtractionFailed
	// KindParaphraserUnavailable means an augmenter needed the
	// Paraphraser capability and none was configured. The augmenter
	// returns it; the engine handles it like any augmenter failure (logged,
	// original value kept) and does not abort.
	KindParaphraserUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindTemplateInvalid:
		return "TemplateInvalid"
	case KindMissingField:
		return "MissingField"
	case KindAugmenterFailed:
		return "AugmenterFailed"
	case KindShuffleRequiresIndexGold:
		return "ShuffleRequiresIndexGold"
	case KindInsufficientFewShotData:
		return "InsufficientFewShotData"
	case KindGoldExtractionFailed:
		return "GoldExtractionFailed"
	case KindParaphraserUnavailable:
		return "ParaphraserUnavailable"
	default:
		return "Unknown"
	}
}

// EngineError is the single error type the engine and its components
// return; callers distinguish cases via Kind() instead of type-switching
// on a zoo of sentinel types.
type EngineError struct {
	Kind    ErrorKind
	Message string
	Err     error // optional wrapped cause
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *EngineError) Unwrap() error { return e.Err }

func newErr(kind ErrorKind, format string, args ...any) *EngineError {
	return &EngineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(kind ErrorKind, err error, format string, args ...any) *EngineError {
	return &EngineError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// ValidationErrors collects every problem Validate found, so a caller sees
// the whole list rather than the first failure.
type ValidationErrors struct {
	Errors []*EngineError
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d template validation errors:", len(v.Errors))
	for _, e := range v.Errors {
		msg += "\n  - " + e.Error()
	}
	return msg
}

func (v *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v.Errors))
	for i, e := range v.Errors {
		errs[i] = e
	}
	return errs
}
