package dependency

import (
	"reflect"
)

var (
	defaultArrayType  = reflect.TypeOf((*[]any)(nil)).Elem()
	defaultBoolType   = reflect.TypeOf((*bool)(nil)).Elem()
	defaultIntType    = reflect.TypeOf((*int)(nil)).Elem()
	defaultFloatType  = reflect.TypeOf((*float64)(nil)).Elem()
	defaultStringType = reflect.TypeOf((*string)(nil)).Elem()
)

// ArrayParameter expects a slice, array or map.
type ArrayParameter struct{ baseParameter }

var _ Parameter = &ArrayParameter{}

func NewArrayParameter(name string, nullable bool, fallback func() any) *ArrayParameter {
	return &ArrayParameter{baseParameter{name, nullable, fallback, defaultArrayType}}
}

func (p *ArrayParameter) Type() string { return TypeArray }

func (p *ArrayParameter) IsBuiltin() bool { return true }

func (p *ArrayParameter) Accepts(value any) bool {
	if value == nil {
		return p.nullable
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

// BooleanParameter expects a boolean. Any scalar converts to one.
type BooleanParameter struct{ baseParameter }

var _ Parameter = &BooleanParameter{}

func NewBooleanParameter(name string, nullable bool, fallback func() any) *BooleanParameter {
	return &BooleanParameter{baseParameter{name, nullable, fallback, defaultBoolType}}
}

func (p *BooleanParameter) Type() string { return TypeBool }

func (p *BooleanParameter) IsBuiltin() bool { return true }

func (p *BooleanParameter) Accepts(value any) bool {
	return isScalar(value) || p.acceptsNil(value)
}

// MixedParameter has no type requirement and is always nullable.
type MixedParameter struct{ baseParameter }

var _ Parameter = &MixedParameter{}

func NewMixedParameter(name string, fallback func() any) *MixedParameter {
	return &MixedParameter{baseParameter{name, true, fallback, anyReflectType}}
}

func (p *MixedParameter) Type() string { return TypeMixed }

func (p *MixedParameter) IsBuiltin() bool { return false }

func (p *MixedParameter) Accepts(any) bool { return true }

// NumericParameter expects an int or a float. Both subtypes accept any number and
// numeric strings, integer targets truncate.
type NumericParameter struct {
	baseParameter
	subtype string
}

var _ Parameter = &NumericParameter{}

// NewNumericParameter creates a parameter of subtype TypeInt or TypeFloat.
func NewNumericParameter(name, subtype string, nullable bool, fallback func() any) *NumericParameter {
	rtype := defaultIntType
	if subtype == TypeFloat {
		rtype = defaultFloatType
	}
	return &NumericParameter{baseParameter{name, nullable, fallback, rtype}, subtype}
}

func (p *NumericParameter) Type() string { return p.subtype }

func (p *NumericParameter) IsBuiltin() bool { return true }

func (p *NumericParameter) Accepts(value any) bool {
	return isNumeric(value) || p.acceptsNil(value)
}

// StringParameter expects a string. Any scalar converts to one.
type StringParameter struct{ baseParameter }

var _ Parameter = &StringParameter{}

func NewStringParameter(name string, nullable bool, fallback func() any) *StringParameter {
	return &StringParameter{baseParameter{name, nullable, fallback, defaultStringType}}
}

func (p *StringParameter) Type() string { return TypeString }

func (p *StringParameter) IsBuiltin() bool { return true }

func (p *StringParameter) Accepts(value any) bool {
	return isScalar(value) || p.acceptsNil(value)
}

// ObjectParameter expects any object: a pointer or a struct value.
type ObjectParameter struct{ baseParameter }

var _ Parameter = &ObjectParameter{}

func NewObjectParameter(name string, nullable bool, fallback func() any) *ObjectParameter {
	return &ObjectParameter{baseParameter{name, nullable, fallback, objectReflectType}}
}

func (p *ObjectParameter) Type() string { return TypeObject }

func (p *ObjectParameter) IsBuiltin() bool { return false }

func (p *ObjectParameter) Accepts(value any) bool {
	if isNil(value) {
		return p.nullable
	}
	k := reflect.TypeOf(value).Kind()
	return k == reflect.Ptr || k == reflect.Struct
}

// NamedClassParameter expects a value assignable to a given type,
// implementations included when the type is an interface.
type NamedClassParameter struct{ baseParameter }

var _ Parameter = &NamedClassParameter{}

func NewNamedClassParameter(name string, class reflect.Type, nullable bool, fallback func() any) *NamedClassParameter {
	return &NamedClassParameter{baseParameter{name, nullable, fallback, class}}
}

func (p *NamedClassParameter) Type() string { return TypeName(p.rtype) }

func (p *NamedClassParameter) IsBuiltin() bool { return false }

func (p *NamedClassParameter) Accepts(value any) bool {
	if isNil(value) {
		return p.nullable
	}
	return reflect.TypeOf(value).AssignableTo(p.rtype)
}

// withReflectType replaces the Go type a builtin parameter converts to.
func withReflectType(p Parameter, t reflect.Type) Parameter {
	switch v := p.(type) {
	case *ArrayParameter:
		v.rtype = t
	case *BooleanParameter:
		v.rtype = t
	case *NumericParameter:
		v.rtype = t
	case *StringParameter:
		v.rtype = t
	case *MixedParameter:
		v.rtype = t
	case *ObjectParameter:
		v.rtype = t
	}
	return p
}
