package dependency

import (
	"reflect"
)

// Parameter type tags for builtin and untyped parameters.
const (
	TypeArray  = "array"
	TypeBool   = "bool"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "string"
	TypeObject = "object"
	TypeMixed  = "mixed"
)

// Parameter describes one formal argument of a factory, constructor or method.
//
// The set of implementations is closed: ArrayParameter, BooleanParameter,
// MixedParameter, NumericParameter, ObjectParameter, NamedClassParameter and
// StringParameter.
type Parameter interface {
	// Name returns the case-sensitive parameter name.
	Name() string
	// Type returns a type tag (TypeArray, TypeInt, ...) or a type name.
	Type() string
	// ReflectType returns the Go type the parameter was derived from.
	ReflectType() reflect.Type
	IsNullable() bool
	// IsBuiltin is true for array, bool, numeric and string parameters.
	IsBuiltin() bool
	HasDefault() bool
	// DefaultCallback returns the lazy default value provider.
	DefaultCallback() (func() any, error)
	// Accepts reports whether value can be passed for this parameter.
	Accepts(value any) bool

	sealed()
}

type baseParameter struct {
	name     string
	nullable bool
	fallback func() any
	rtype    reflect.Type
}

func (p *baseParameter) Name() string { return p.name }

func (p *baseParameter) IsNullable() bool { return p.nullable }

func (p *baseParameter) HasDefault() bool { return p.fallback != nil }

func (p *baseParameter) ReflectType() reflect.Type { return p.rtype }

func (p *baseParameter) DefaultCallback() (func() any, error) {
	if p.fallback == nil {
		return nil, newUndefinedDefaultValueError(p.name)
	}
	return p.fallback, nil
}

func (p *baseParameter) sealed() {}

// acceptsNil reports whether value is nil and nil is allowed.
func (p *baseParameter) acceptsNil(value any) bool {
	return p.nullable && isNil(value)
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func isScalarKind(k reflect.Kind) bool {
	return k == reflect.Bool || k == reflect.String || isIntKind(k) || isUintKind(k) || isFloatKind(k)
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUintKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isScalar(value any) bool {
	return value != nil && isScalarKind(reflect.TypeOf(value).Kind())
}

// isNumeric follows loose typing: numbers and strings holding a number.
func isNumeric(value any) bool {
	if value == nil {
		return false
	}
	v := reflect.ValueOf(value)
	switch k := v.Kind(); {
	case isIntKind(k), isUintKind(k), isFloatKind(k):
		return true
	case k == reflect.String:
		_, ok := parseNumber(v.String())
		return ok
	}
	return false
}

// describeValue names the type of a value for error messages.
func describeValue(value any) string {
	if value == nil {
		return "null"
	}
	return reflect.TypeOf(value).String()
}
