package dependency

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

const injectTag = "inject"

// Inspector turns a constructor, method or function into its ordered parameter list.
type Inspector interface {
	// InspectClass returns the constructor parameters of a type.
	InspectClass(class reflect.Type) ([]Parameter, error)
	// InspectMethod returns the parameters of a method of a type or an instance.
	InspectMethod(classOrInstance any, method string) ([]Parameter, error)
	// InspectFunction returns the parameters of a func, a *Function or an invokable value.
	InspectFunction(function any) ([]Parameter, error)
}

// ReflectionInspector reads parameters from Go types: inject-tagged struct fields for
// constructors, func signatures plus Func metadata for functions and methods.
type ReflectionInspector struct{}

var _ Inspector = &ReflectionInspector{}

func NewReflectionInspector() *ReflectionInspector {
	return &ReflectionInspector{}
}

// InspectClass lists the inject-tagged fields of a struct type S or *S, in declaration
// order. Concrete types with no such fields have no parameters.
func (i *ReflectionInspector) InspectClass(class reflect.Type) ([]Parameter, error) {
	structType, err := constructedStruct(class)
	if err != nil || structType == nil {
		return nil, err
	}

	parameters := make([]Parameter, 0, structType.NumField())
	for index := 0; index < structType.NumField(); index++ {
		field := structType.Field(index)
		tag, ok := field.Tag.Lookup(injectTag)
		if !ok {
			continue
		}
		if !field.IsExported() {
			return nil, newInvalidDefinitionError(
				fmt.Sprintf("use inject tag on unsettable field %s of %s", field.Name, TypeName(class)))
		}
		options := parseInjectTag(tag)
		name := options.name
		if name == "" {
			name = field.Name
		}
		var fallback func() any
		if options.hasDefault {
			literal := options.fallback
			fallback = func() any { return literal }
		}
		parameter, err := parameterFor(name, field.Type, options.optional, fallback)
		if err != nil {
			return nil, err
		}
		parameters = append(parameters, parameter)
	}
	return parameters, nil
}

// InspectMethod lists the parameters of a method, named arg0, arg1, ... Use Func on a
// method value to name them.
func (i *ReflectionInspector) InspectMethod(classOrInstance any, method string) ([]Parameter, error) {
	fn, err := Method{Receiver: classOrInstance, Name: method}.bind()
	if err != nil {
		return nil, err
	}
	return inspectSignature(Func(fn.Interface()), fn.Type(), Method{classOrInstance, method}.String())
}

// InspectFunction lists the parameters of a function with the names, nullability
// and defaults declared through Func.
func (i *ReflectionInspector) InspectFunction(function any) ([]Parameter, error) {
	f, err := asFunction(function)
	if err != nil {
		return nil, err
	}
	return inspectSignature(f, f.value.Type(), f.String())
}

func inspectSignature(f *Function, fnType reflect.Type, name string) ([]Parameter, error) {
	if fnType.IsVariadic() {
		return nil, newVariadicParameterError(name)
	}
	parameters := make([]Parameter, 0, fnType.NumIn())
	for index := 0; index < fnType.NumIn(); index++ {
		paramName := f.parameterName(index)
		parameter, err := parameterFor(paramName, fnType.In(index), f.nullable[paramName], f.defaults[paramName])
		if err != nil {
			return nil, err
		}
		parameters = append(parameters, parameter)
	}
	return parameters, nil
}

// asFunction normalizes a function subject into a *Function. nil funcs and nil
// *Function values are undefined.
func asFunction(function any) (*Function, error) {
	f := toFunction(function)
	if !f.value.IsValid() {
		return nil, newUndefinedFunctionError(f.String())
	}
	return f, nil
}

// constructedStruct returns the struct type built for class, or nil when class is a
// concrete type without a constructor.
func constructedStruct(class reflect.Type) (reflect.Type, error) {
	if class == nil {
		return nil, newUndefinedClassError(TypeName(class), "")
	}
	if class.Kind() == reflect.Interface {
		return nil, newUndefinedClassError(TypeName(class), "has no concrete implementation")
	}
	structType := class
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, nil
	}
	return structType, nil
}

// parameterFor classifies a Go type into a Parameter variant.
func parameterFor(name string, t reflect.Type, nullable bool, fallback func() any) (Parameter, error) {
	if t == objectReflectType {
		return NewObjectParameter(name, nullable, fallback), nil
	}
	switch k := t.Kind(); {
	case k == reflect.Interface && t.NumMethod() == 0:
		return withReflectType(NewMixedParameter(name, fallback), t), nil
	case k == reflect.Bool:
		return withReflectType(NewBooleanParameter(name, nullable, fallback), t), nil
	case isIntKind(k), isUintKind(k):
		return withReflectType(NewNumericParameter(name, TypeInt, nullable, fallback), t), nil
	case isFloatKind(k):
		return withReflectType(NewNumericParameter(name, TypeFloat, nullable, fallback), t), nil
	case k == reflect.String:
		return withReflectType(NewStringParameter(name, nullable, fallback), t), nil
	case k == reflect.Slice, k == reflect.Array, k == reflect.Map:
		return withReflectType(NewArrayParameter(name, nullable, fallback), t), nil
	case isNamedClass(t):
		return NewNamedClassParameter(name, t, nullable, fallback), nil
	}
	return nil, newUnknownTypeError(name, TypeName(t))
}

func isNamedClass(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct, reflect.Interface, reflect.Func, reflect.Chan:
		return t.Name() != ""
	case reflect.Ptr:
		elem := t.Elem()
		return elem.Name() != "" && elem.PkgPath() != "" && elem.Kind() != reflect.Ptr
	}
	return false
}

type injectOptions struct {
	name       string
	optional   bool
	hasDefault bool
	fallback   string
}

// parseInjectTag reads `inject:"[name][,optional][,default=<literal>]"`. The default
// literal runs to the end of the tag and may contain commas.
func parseInjectTag(tag string) injectOptions {
	parts := strings.Split(tag, ",")
	options := injectOptions{name: strings.TrimSpace(parts[0])}
	for index := 1; index < len(parts); index++ {
		option := strings.TrimSpace(parts[index])
		switch {
		case option == "optional":
			options.optional = true
		case strings.HasPrefix(option, "default="):
			options.hasDefault = true
			options.fallback = strings.TrimPrefix(strings.TrimLeft(strings.Join(parts[index:], ","), " "), "default=")
			return options
		}
	}
	return options
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
