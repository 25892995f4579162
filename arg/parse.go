package arg

import (
	"fmt"
	"strconv"
)

// Parse converts text, as typed on a command line, to an argument of the given kind.
func Parse(kind Kind, text string) (Arg, error) {
	switch kind {
	case KindInt:
		v, err := strconv.ParseInt(text, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("parse int argument %q: %w", text, err)
		}

		return Int(v), nil
	case KindUint:
		v, err := strconv.ParseUint(text, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("parse uint argument %q: %w", text, err)
		}

		return Uint(v), nil
	case KindFloat:
		v, err := ParseFloat(text)
		if err != nil {
			return nil, err
		}

		return Float(v), nil
	case KindString:
		if err := validateString(text); err != nil {
			return nil, err
		}

		return String(text), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// ParseAll converts texts to arguments of the given kinds, pairwise.
//
// The number of texts must equal the number of kinds.
func ParseAll(kinds []Kind, texts []string) ([]Arg, error) {
	if len(kinds) != len(texts) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(kinds), len(texts))
	}

	args := make([]Arg, len(texts))
	for i, text := range texts {
		a, err := Parse(kinds[i], text)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}

	return args, nil
}
