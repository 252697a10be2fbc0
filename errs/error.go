package errs

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// Kind classifies a transformation failure.
type Kind int

const (
	KindUndefined Kind = iota
	// KindConfig is a wrong combination of options. The caller fixes the options and reruns.
	KindConfig
	// KindModel is an input model the reduction rules cannot process.
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration error"
	case KindModel:
		return "malformed model"
	default:
		return "undefined"
	}
}

// Sentinels for errors.Is.
var (
	ErrConfig = errors.New("configuration error")
	ErrModel  = errors.New("malformed model")
)

type Error struct {
	Kind    Kind
	Message string
	Err     error

	// Elements are the offending model elements, printed by Pretty.
	Elements []any
}

func (e Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e Error) Unwrap() error { return e.Err }

func (e Error) Is(target error) bool {
	switch target {
	case ErrConfig:
		return e.Kind == KindConfig
	case ErrModel:
		return e.Kind == KindModel
	}
	return false
}

func (e Error) Pretty() string {
	if len(e.Elements) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Error())
	}
	return fmt.Sprintf("%s: %s:\nelements:\n%s", e.Kind, e.Error(), spew.Sdump(e.Elements...))
}

func Config(format string, args ...any) error {
	return Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// Model reports a model the engine refuses to guess about.
func Model(message string, elements ...any) error {
	return Error{Kind: KindModel, Message: message, Elements: elements}
}

func Modelf(format string, args ...any) error {
	return Error{Kind: KindModel, Message: fmt.Sprintf(format, args...)}
}
