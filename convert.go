package dependency

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// parseNumber parses a numeric string the way loose typing does: decimal integers and
// floats with an optional exponent, surrounding whitespace allowed.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// truthy converts a scalar to a boolean with loose typing rules.
func truthy(v reflect.Value) bool {
	switch k := v.Kind(); {
	case k == reflect.Bool:
		return v.Bool()
	case isIntKind(k):
		return v.Int() != 0
	case isUintKind(k):
		return v.Uint() != 0
	case isFloatKind(k):
		return v.Float() != 0
	case k == reflect.String:
		s := v.String()
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return s != "" && s != "0"
	}
	return false
}

// stringify converts a scalar to a string with loose typing rules.
func stringify(v reflect.Value) string {
	switch k := v.Kind(); {
	case k == reflect.Bool:
		if v.Bool() {
			return "1"
		}
		return ""
	case isIntKind(k):
		return strconv.FormatInt(v.Int(), 10)
	case isUintKind(k):
		return strconv.FormatUint(v.Uint(), 10)
	case isFloatKind(k):
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case k == reflect.String:
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

func toFloat(v reflect.Value) (float64, bool) {
	switch k := v.Kind(); {
	case isIntKind(k):
		return float64(v.Int()), true
	case isUintKind(k):
		return float64(v.Uint()), true
	case isFloatKind(k):
		return v.Float(), true
	case k == reflect.String:
		return parseNumber(v.String())
	case k == reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// convertValue turns an accepted argument into a value assignable to target.
func convertValue(value any, target reflect.Type) (reflect.Value, error) {
	if isNil(value) {
		return reflect.Zero(target), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(target) {
		return v, nil
	}

	k := target.Kind()
	switch {
	case k == reflect.Bool && isScalarKind(v.Kind()):
		return reflect.ValueOf(truthy(v)).Convert(target), nil
	case k == reflect.String && isScalarKind(v.Kind()):
		return reflect.ValueOf(stringify(v)).Convert(target), nil
	case isIntKind(k) || isUintKind(k) || isFloatKind(k):
		if out, ok, err := convertNumber(value, v, target); ok {
			return out, err
		}
	case k == reflect.Slice && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array):
		out := reflect.MakeSlice(target, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := convertValue(v.Index(i).Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(elem)
		}
		return out, nil
	case k == reflect.Map && v.Kind() == reflect.Map:
		out := reflect.MakeMapWithSize(target, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key, err := convertValue(iter.Key().Interface(), target.Key())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key(), err)
			}
			elem, err := convertValue(iter.Value().Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("value for key %v: %w", iter.Key(), err)
			}
			out.SetMapIndex(key, elem)
		}
		return out, nil
	}

	if v.Type().ConvertibleTo(target) && v.Kind() == target.Kind() {
		return v.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), target)
}

func convertNumber(value any, v reflect.Value, target reflect.Type) (reflect.Value, bool, error) {
	out := reflect.New(target).Elem()
	overflow := fmt.Errorf("%v overflows %s", value, target)
	k := target.Kind()
	switch src := v.Kind(); {
	case isIntKind(src) && isIntKind(k):
		if out.OverflowInt(v.Int()) {
			return reflect.Value{}, true, overflow
		}
		out.SetInt(v.Int())
		return out, true, nil
	case isUintKind(src) && isUintKind(k):
		if out.OverflowUint(v.Uint()) {
			return reflect.Value{}, true, overflow
		}
		out.SetUint(v.Uint())
		return out, true, nil
	}

	f, ok := toFloat(v)
	if !ok {
		return reflect.Value{}, false, nil
	}
	switch {
	case isFloatKind(k):
		out.SetFloat(f)
	case math.IsInf(f, 0) || math.IsNaN(f):
		return reflect.Value{}, true, overflow
	case isIntKind(k):
		if f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
			return reflect.Value{}, true, overflow
		}
		out.SetInt(int64(f))
	default:
		if f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
			return reflect.Value{}, true, overflow
		}
		out.SetUint(uint64(f))
	}
	return out, true, nil
}
