package mvc

import (
	"fmt"
	"reflect"
	"strconv"
)

// canConvert reports whether convertValues can produce t. Slices are only accepted where
// a parameter may carry several values.
func canConvert(t reflect.Type, allowSlice bool) bool {
	switch t.Kind() {
	case reflect.Ptr:
		return isScalar(t.Elem().Kind())
	case reflect.Slice:
		return allowSlice && isScalar(t.Elem().Kind())
	default:
		return isScalar(t.Kind())
	}
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// convertValues turns raw request strings into a value of type t. Scalars and pointers use
// the first value, slices take all of them.
func convertValues(values []string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Slice:
		slice := reflect.MakeSlice(t, len(values), len(values))
		for i, raw := range values {
			if err := setScalar(slice.Index(i), raw); err != nil {
				return reflect.Value{}, err
			}
		}
		return slice, nil
	case reflect.Ptr:
		ptr := reflect.New(t.Elem())
		if err := setScalar(ptr.Elem(), values[0]); err != nil {
			return reflect.Value{}, err
		}
		return ptr, nil
	default:
		v := reflect.New(t).Elem()
		if err := setScalar(v, values[0]); err != nil {
			return reflect.Value{}, err
		}
		return v, nil
	}
}

func setScalar(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("convert %q to %s: %w", raw, v.Type(), err)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("convert %q to %s: %w", raw, v.Type(), err)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("convert %q to %s: %w", raw, v.Type(), err)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("convert %q to %s: %w", raw, v.Type(), err)
		}
		v.SetFloat(f)
	default:
		return fmt.Errorf("unsupported parameter type %s", v.Type())
	}
	return nil
}
