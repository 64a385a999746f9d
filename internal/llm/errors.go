package llm

import "errors"

var (
	// ErrParse matches any *ParseError.
	ErrParse = errors.New("menu parsing failed")

	// ErrGeneration matches any *GenerationError.
	ErrGeneration = errors.New("image generation failed")
)

// ParseError reports that menu text could not be turned into dishes.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return ErrParse.Error()
	}
	return ErrParse.Error() + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// GenerationError reports that no image could be produced for a dish.
type GenerationError struct {
	Dish string
	Err  error
}

func (e *GenerationError) Error() string {
	msg := ErrGeneration.Error()
	if e.Dish != "" {
		msg += " for " + e.Dish
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// IsParseError reports whether err came from menu parsing.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsGenerationError reports whether err came from image synthesis.
func IsGenerationError(err error) bool {
	return errors.Is(err, ErrGeneration)
}
