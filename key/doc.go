// Package key derives cache keys from function call arguments.
//
// It provides the Key type, an ordered immutable sequence of hashable
// elements with a lazily memoized 64-bit hash, and generator functions
// (Hash, Typed, Method, TypedMethod) that build keys from positional and
// keyword arguments with deterministic keyword ordering.
package key
