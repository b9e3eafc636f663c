package intern

import (
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"
)

// Tokens serialize as the plain serialized form of their value; identity
// is never written out, because storage addresses are meaningless
// outside the process. Deserializing re-interns the decoded value
// through the default interner specifically, so tokens round-trip
// meaningfully only through the default identity domain — a token
// decoded into a program using a custom [Interner] instance belongs to
// [Default], not to that instance.
//
// List tokens nest: the element tokens are themselves re-interned
// before the outer sequence is, so a decoded list deduplicates against
// live data exactly like a freshly interned one.

var errZeroToken = errors.New("intern: cannot marshal the zero token")

// MarshalJSON implements [json.Marshaler].
func (t Token[T]) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return nil, errZeroToken
	}
	return json.Marshal(*t.data)
}

// UnmarshalJSON implements [json.Unmarshaler], re-interning the decoded
// value through [Default].
func (t *Token[T]) UnmarshalJSON(b []byte) error {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*t = Make(v)
	return nil
}

// MarshalYAML implements [yaml.Marshaler].
func (t Token[T]) MarshalYAML() (any, error) {
	if t.IsZero() {
		return nil, errZeroToken
	}
	return *t.data, nil
}

// UnmarshalYAML implements [yaml.Unmarshaler], re-interning the decoded
// value through [Default].
func (t *Token[T]) UnmarshalYAML(node *yaml.Node) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*t = Make(v)
	return nil
}
