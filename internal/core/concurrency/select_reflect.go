package concurrency

import (
	"reflect"

	"ecsforge/internal/core/variant"
)

// selectReflect builds a dynamic select over N channels' underlying
// read ends using reflect.Select, since a Go select statement can't take
// a runtime-sized case list directly.
func selectReflect(channels []*Channel) (int, variant.Var) {
	cases := make([]reflect.SelectCase, len(channels))
	for i, c := range channels {
		cases[i] = reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(c.ch)}
	}
	chosen, value, ok := reflect.Select(cases)
	if !ok {
		return chosen, variant.NewNil()
	}
	return chosen, value.Interface().(variant.Var)
}
