package raw

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ErrNotFixedLayout is returned for element types that cannot live in
// memory handed out by an allocator strategy.
var ErrNotFixedLayout = errors.New("raw: element type is not fixed-layout")

// LayoutError describes why a type was rejected.
type LayoutError struct {
	Type   reflect.Type
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("raw: %v is not fixed-layout: %s", e.Type, e.Reason)
}

func (e *LayoutError) Unwrap() error { return ErrNotFixedLayout }

var layoutCache sync.Map // reflect.Type -> error (nil when accepted)

// CheckLayout verifies that T is a non-empty type without Go pointers.
//
// Allocator memory is either off the Go heap or byte-typed, and the garbage
// collector does not scan it. Strings, slices, maps, channels, functions,
// interfaces and pointers stored there would dangle.
func CheckLayout[T any]() error {
	t := reflect.TypeFor[T]()
	if cached, ok := layoutCache.Load(t); ok {
		err, _ := cached.(error)
		return err
	}

	var err error
	if t.Size() == 0 {
		err = &LayoutError{Type: t, Reason: "zero-sized"}
	} else if reason := pointerReason(t, ""); reason != "" {
		err = &LayoutError{Type: t, Reason: reason}
	}
	layoutCache.Store(t, err)
	return err
}

// pointerReason returns a non-empty description when t holds Go pointers.
func pointerReason(t reflect.Type, path string) string {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return ""
	case reflect.Array:
		if t.Len() == 0 {
			return ""
		}
		return pointerReason(t.Elem(), path+"[]")
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if reason := pointerReason(f.Type, path+"."+f.Name); reason != "" {
				return reason
			}
		}
		return ""
	default:
		if path == "" {
			return fmt.Sprintf("contains %s", t.Kind())
		}
		return fmt.Sprintf("%s contains %s", strings.TrimPrefix(path, "."), t.Kind())
	}
}
