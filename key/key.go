package key

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
)

// ErrUnhashable reports that an argument value cannot participate in a key.
// Values of non-comparable kinds (maps, slices, functions), including such
// values nested inside interfaces, arrays, or struct fields, are unhashable.
var ErrUnhashable = errors.New("key: value is not hashable")

// KV holds a call's keyword arguments by name.
type KV map[string]any

// Func is the signature of a key generator. The memo adapter is
// parameterized over this type.
type Func func(args []any, kw KV) (*Key, error)

// mark separates the positional section of a key from the keyword section.
// It is a dedicated sentinel type so keys built purely from positional
// values can never collide with keys carrying keyword arguments.
type mark struct{}

var kwdMark = mark{}

// nilType stands in for the type of an untyped nil argument in typed keys.
type nilType struct{}

// pair is a single keyword argument as a key element.
type pair struct {
	name  string
	value any
}

// Key is an ordered, immutable sequence of hashable elements derived from
// call arguments. Its hash is computed lazily and at most once per
// instance; a cache operation may hash the same key several times (probe,
// then insert), and the memoized value makes the repeats free.
//
// A Key is built single-threaded and must not be hashed concurrently from
// multiple goroutines before its first Sum64 call completes. After that it
// is read-only and safe to share.
type Key struct {
	elems  []any
	hashed bool
	sum    uint64
}

// Len returns the number of elements in the key.
func (k *Key) Len() int { return len(k.elems) }

// Sum64 returns the key's 64-bit hash, computing it on first use and
// returning the memoized value afterwards.
func (k *Key) Sum64() uint64 {
	if !k.hashed {
		k.sum = sumElems(k.elems)
		k.hashed = true
	}
	return k.sum
}

// Equal reports whether two keys hold equal element sequences.
func (k *Key) Equal(other *Key) bool {
	if k == other {
		return true
	}
	if other == nil || len(k.elems) != len(other.elems) {
		return false
	}
	for i, e := range k.elems {
		if e != other.elems[i] {
			return false
		}
	}
	return true
}

// Compare orders keys like ordinary sequences: element by element under a
// deterministic total order over the canonical element encodings, with a
// shorter key ordering before any of its extensions. Equal keys compare 0.
func (k *Key) Compare(other *Key) int {
	n := len(k.elems)
	if len(other.elems) < n {
		n = len(other.elems)
	}
	for i := 0; i < n; i++ {
		if k.elems[i] == other.elems[i] {
			continue
		}
		a := appendElem(nil, k.elems[i])
		b := appendElem(nil, other.elems[i])
		if c := bytes.Compare(a, b); c != 0 {
			return c
		}
	}
	switch {
	case len(k.elems) < len(other.elems):
		return -1
	case len(k.elems) > len(other.elems):
		return 1
	}
	return 0
}

// Append concatenates two keys into a new key of the same kind. The result
// has fresh, not yet computed hash state.
func (k *Key) Append(other *Key) *Key {
	elems := make([]any, 0, len(k.elems)+len(other.elems))
	elems = append(elems, k.elems...)
	elems = append(elems, other.elems...)
	return &Key{elems: elems}
}

// Canonical appends the key's canonical binary encoding to b and returns
// the result. The encoding is injective over hashable values: two keys
// produce the same bytes exactly when they are Equal. It is the input to
// Sum64 and doubles as a flight identity for request collapsing.
func (k *Key) Canonical(b []byte) []byte {
	return appendElems(b, k.elems)
}

// String renders the key's elements for debugging.
func (k *Key) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range k.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch x := e.(type) {
		case mark:
			sb.WriteString("<kw>")
		case nilType:
			sb.WriteString("<nil type>")
		case pair:
			fmt.Fprintf(&sb, "%s=%v", x.name, x.value)
		default:
			fmt.Fprintf(&sb, "%v", e)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// Hash builds a key from positional arguments only.
func Hash(args ...any) (*Key, error) { return HashKV(args, nil) }

// HashKV builds a key from positional arguments followed by keyword
// arguments sorted by name. The keyword section is preceded by a sentinel
// marker element if and only if keyword arguments are present, so
// `f(a=1, b=2)` and `f(b=2, a=1)` yield identical keys and neither can
// collide with a purely positional call.
func HashKV(args []any, kw KV) (*Key, error) {
	elems := make([]any, 0, len(args)+2*len(kw)+1)
	for _, v := range args {
		e, err := element(v)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if len(kw) > 0 {
		elems = append(elems, kwdMark)
		for _, name := range sortedNames(kw) {
			e, err := element(kw[name])
			if err != nil {
				return nil, err
			}
			elems = append(elems, pair{name: name, value: e})
		}
	}
	return &Key{elems: elems}, nil
}

// Typed builds a typed key from positional arguments only.
func Typed(args ...any) (*Key, error) { return TypedKV(args, nil) }

// TypedKV builds a key like HashKV but prepends the runtime type of every
// positional and keyword value, so arguments equal in value but different
// in type produce distinct keys: Typed(1) differs from Typed(1.0) while
// Hash(1) equals Hash(1.0).
func TypedKV(args []any, kw KV) (*Key, error) {
	base, err := HashKV(args, kw)
	if err != nil {
		return nil, err
	}
	types := make([]any, 0, len(args)+len(kw))
	for _, v := range args {
		types = append(types, typeElem(v))
	}
	for _, name := range sortedNames(kw) {
		types = append(types, typeElem(kw[name]))
	}
	return (&Key{elems: types}).Append(base), nil
}

// Method builds a key for a bound-method call: the receiver participates
// in identity as the first positional element.
func Method(recv any, args []any, kw KV) (*Key, error) {
	return HashKV(prepend(recv, args), kw)
}

// TypedMethod is Method with typed key generation.
func TypedMethod(recv any, args []any, kw KV) (*Key, error) {
	return TypedKV(prepend(recv, args), kw)
}

// MethodKV adapts Method to the generator signature: the first
// positional argument is taken as the receiver.
func MethodKV(args []any, kw KV) (*Key, error) {
	if len(args) == 0 {
		return nil, errors.New("key: method key requires a receiver")
	}
	return Method(args[0], args[1:], kw)
}

// TypedMethodKV adapts TypedMethod to the generator signature.
func TypedMethodKV(args []any, kw KV) (*Key, error) {
	if len(args) == 0 {
		return nil, errors.New("key: method key requires a receiver")
	}
	return TypedMethod(args[0], args[1:], kw)
}

func prepend(recv any, args []any) []any {
	all := make([]any, 0, len(args)+1)
	all = append(all, recv)
	return append(all, args...)
}

func sortedNames(kw KV) []string {
	names := make([]string, 0, len(kw))
	for name := range kw {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func typeElem(v any) any {
	if v == nil {
		return nilType{}
	}
	return reflect.TypeOf(v)
}

// element validates that v is hashable and normalizes it for storage.
func element(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if !hashable(reflect.ValueOf(v)) {
		return nil, fmt.Errorf("%w: %T", ErrUnhashable, v)
	}
	return normalize(v), nil
}

// hashable walks dynamic values: a statically comparable type can still
// carry a non-comparable value behind an interface field.
func hashable(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func:
		return false
	case reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return hashable(rv.Elem())
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !hashable(rv.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !hashable(rv.Field(i)) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// normalize maps numeric values onto a canonical representation so that
// untyped keys treat 1, uint8(1), and 1.0 as the same argument. Typed keys
// recover the distinction through the prepended type elements. Named
// types and booleans are left as-is.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return normUint(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return normUint(x)
	case uintptr:
		return normUint(uint64(x))
	case float32:
		return normFloat(float64(x))
	case float64:
		return normFloat(x)
	case complex64:
		return normComplex(complex128(x))
	case complex128:
		return normComplex(x)
	default:
		return v
	}
}

func normUint(u uint64) any {
	if u <= 1<<63-1 {
		return int64(u)
	}
	return u
}

func normFloat(f float64) any {
	// Integral floats collapse onto int64 so Hash(1) == Hash(1.0).
	// NaN fails the Trunc equality and stays a float, making keys built
	// from NaN never equal each other, matching comparison semantics.
	if f >= minInt64Float && f < maxInt64Float && f == math.Trunc(f) {
		return int64(f)
	}
	return f
}

func normComplex(c complex128) any {
	if imag(c) == 0 {
		return normFloat(real(c))
	}
	return c
}

const (
	minInt64Float = -9223372036854775808.0 // -2^63, exact in float64
	maxInt64Float = 9223372036854775808.0  // 2^63, exact in float64
)
