package arg

import "fmt"

// Kind identifies the wire type of an argument.
//
// The numeric values follow the SharkSEM script library ordering.
type Kind uint8

const (
	KindInt    Kind = iota // signed 32-bit integer
	KindUint               // unsigned 32-bit integer
	KindString             // length-prefixed string
	KindFloat              // length-prefixed decimal text
)

var kindNames = map[Kind]string{
	KindInt:    "int",
	KindUint:   "uint",
	KindString: "string",
	KindFloat:  "float",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind converts a kind name ("int", "uint", "string", "float") to a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
