package key

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Canonical encoding: every element is a tag byte followed by a
// length-delimited payload. The encoding is injective over the values
// element() admits, which makes it safe both as hash input and as a
// flight identity string.
const (
	tagNil byte = iota + 1
	tagBool
	tagInt
	tagUint
	tagFloat
	tagComplex
	tagString
	tagType
	tagNilType
	tagMark
	tagPair
	tagValue
	tagPointer
)

func sumElems(elems []any) uint64 {
	return xxhash.Sum64(appendElems(nil, elems))
}

func appendElems(b []byte, elems []any) []byte {
	for _, e := range elems {
		b = appendElem(b, e)
	}
	return b
}

// appendElem encodes one element. Elements reaching this point were
// validated as hashable at key construction.
func appendElem(b []byte, e any) []byte {
	switch x := e.(type) {
	case nil:
		return append(b, tagNil)
	case bool:
		if x {
			return append(b, tagBool, 1)
		}
		return append(b, tagBool, 0)
	case int64:
		b = append(b, tagInt)
		return binary.BigEndian.AppendUint64(b, uint64(x))
	case uint64:
		b = append(b, tagUint)
		return binary.BigEndian.AppendUint64(b, x)
	case float64:
		b = append(b, tagFloat)
		return binary.BigEndian.AppendUint64(b, math.Float64bits(x))
	case complex128:
		b = append(b, tagComplex)
		b = binary.BigEndian.AppendUint64(b, math.Float64bits(real(x)))
		return binary.BigEndian.AppendUint64(b, math.Float64bits(imag(x)))
	case string:
		b = append(b, tagString)
		return appendString(b, x)
	case mark:
		return append(b, tagMark)
	case nilType:
		return append(b, tagNilType)
	case pair:
		b = append(b, tagPair)
		b = appendString(b, x.name)
		return appendElem(b, x.value)
	case reflect.Type:
		b = append(b, tagType)
		return appendType(b, x)
	default:
		return appendValue(b, reflect.ValueOf(e))
	}
}

// appendValue encodes values that fall outside the normalized fast-path
// types: named scalars, structs, arrays, pointers, channels. The dynamic
// type is part of the encoding because interface equality requires type
// identity.
func appendValue(b []byte, rv reflect.Value) []byte {
	b = append(b, tagValue)
	b = appendType(b, rv.Type())
	return appendPayload(b, rv)
}

func appendPayload(b []byte, rv reflect.Value) []byte {
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return append(b, 1)
		}
		return append(b, 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return binary.BigEndian.AppendUint64(b, uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return binary.BigEndian.AppendUint64(b, rv.Uint())
	case reflect.Float32, reflect.Float64:
		return binary.BigEndian.AppendUint64(b, math.Float64bits(rv.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		b = binary.BigEndian.AppendUint64(b, math.Float64bits(real(c)))
		return binary.BigEndian.AppendUint64(b, math.Float64bits(imag(c)))
	case reflect.String:
		return appendString(b, rv.String())
	case reflect.Ptr, reflect.Chan, reflect.UnsafePointer:
		// Identity equality, identity encoding. The key retains the
		// referent, so the address is stable for the entry's lifetime.
		b = append(b, tagPointer)
		return binary.BigEndian.AppendUint64(b, uint64(rv.Pointer()))
	case reflect.Interface:
		if rv.IsNil() {
			return append(b, tagNil)
		}
		return appendValue(b, rv.Elem())
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			b = appendPayload(b, rv.Index(i))
		}
		return b
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			b = appendPayload(b, rv.Field(i))
		}
		return b
	default:
		// Unreachable: non-comparable kinds are rejected by element().
		return b
	}
}

func appendType(b []byte, t reflect.Type) []byte {
	b = appendString(b, t.PkgPath())
	return appendString(b, t.String())
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}
