package flow

import (
	"fmt"
	"reflect"

	"github.com/tapline-dev/tapline/types"
)

// toElementSlice converts x, which must be a slice or array of any element
// type, into a []types.Element. Concat uses it to iterate a pushed batch.
func toElementSlice(x types.Element) ([]types.Element, error) {
	if items, ok := x.([]types.Element); ok {
		return items, nil
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]types.Element, v.Len())
		for i := range out {
			out[i] = v.Index(i).Interface()
		}
		return out, nil
	default:
		return nil, fmt.Errorf("flow: concat expects a slice or array, got %T", x)
	}
}

// pluckIndex extracts the field at index from x, where x is a slice/array
// (integer index) or a map (arbitrary key type).
func pluckIndex(x, index types.Element) (types.Element, error) {
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := toInt(index)
		if !ok {
			return nil, fmt.Errorf("flow: pluck index %v is not an int for slice value", index)
		}
		if i < 0 || i >= v.Len() {
			return nil, fmt.Errorf("flow: pluck index %d out of range [0,%d)", i, v.Len())
		}
		return v.Index(i).Interface(), nil
	case reflect.Map:
		key := reflect.ValueOf(index)
		val := v.MapIndex(key)
		if !val.IsValid() {
			return nil, fmt.Errorf("flow: pluck key %v not found in map", index)
		}
		return val.Interface(), nil
	default:
		return nil, fmt.Errorf("flow: pluck expects a slice, array, or map, got %T", x)
	}
}

func toInt(x types.Element) (int, bool) {
	switch v := x.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
