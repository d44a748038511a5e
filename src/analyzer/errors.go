package analyzer

// Kind classifies analysis failures.
type Kind int

const (
	KindInput Kind = iota + 1
	KindPitchEstimation
	KindDomainAnalysis
	KindSynthesisEmpty
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input error"
	case KindPitchEstimation:
		return "pitch estimation failure"
	case KindDomainAnalysis:
		return "domain analysis failure"
	case KindSynthesisEmpty:
		return "synthesis empty result"
	}
	return "unknown error"
}

// Error is returned by every failing analysis stage.
// Compare with errors.Is against the sentinels below.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInput           = &Error{Kind: KindInput, Message: KindInput.String()}
	ErrPitchEstimation = &Error{Kind: KindPitchEstimation, Message: KindPitchEstimation.String()}
	ErrDomainAnalysis  = &Error{Kind: KindDomainAnalysis, Message: KindDomainAnalysis.String()}
	ErrSynthesisEmpty  = &Error{Kind: KindSynthesisEmpty, Message: KindSynthesisEmpty.String()}
)

func newError(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}
