package memo

import (
	"fmt"
	"reflect"
)

// Func1 adapts a statically typed one-argument function to Func. A call
// with the wrong arity or argument type fails with an error instead of
// reaching the function.
func Func1[A, R any](f func(A) (R, error)) Func {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("memo: want 1 argument, got %d", len(args))
		}
		a, ok := args[0].(A)
		if !ok && args[0] != nil {
			return nil, fmt.Errorf("memo: argument 1 is %T, want %v", args[0], reflect.TypeOf((*A)(nil)).Elem())
		}
		return f(a)
	}
}

// Func2 adapts a statically typed two-argument function to Func.
func Func2[A, B, R any](f func(A, B) (R, error)) Func {
	return func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("memo: want 2 arguments, got %d", len(args))
		}
		a, aok := args[0].(A)
		if !aok && args[0] != nil {
			return nil, fmt.Errorf("memo: argument 1 is %T, want %v", args[0], reflect.TypeOf((*A)(nil)).Elem())
		}
		b, bok := args[1].(B)
		if !bok && args[1] != nil {
			return nil, fmt.Errorf("memo: argument 2 is %T, want %v", args[1], reflect.TypeOf((*B)(nil)).Elem())
		}
		return f(a, b)
	}
}
