package dependency

import (
	"fmt"
	"reflect"
	"strings"
)

// Function attaches to a callable the metadata Go reflection can't recover:
// parameter names, nullability and default values.
//
//	dependency.Func(NewMailer, "transport", "?from").
//		Default("from", func() any { return "noreply@example.org" })
type Function struct {
	subject  any
	value    reflect.Value
	names    []string
	nullable map[string]bool
	defaults map[string]func() any
}

// Func wraps a Go func, or a value with an Invoke method, naming its parameters in
// declaration order. A name starting with '?' declares a nullable parameter.
// Parameters left unnamed are called arg0, arg1, ...
func Func(fn any, names ...string) *Function {
	f := &Function{
		subject:  fn,
		nullable: make(map[string]bool),
		defaults: make(map[string]func() any),
	}
	if fn != nil {
		v := reflect.ValueOf(fn)
		if v.Kind() == reflect.Func {
			if !v.IsNil() {
				f.value = v
			}
		} else if m := v.MethodByName(invokeMethodName); m.IsValid() {
			f.value = m
		}
	}
	for _, name := range names {
		if strings.HasPrefix(name, "?") {
			name = name[1:]
			f.nullable[name] = true
		}
		f.names = append(f.names, name)
	}
	return f
}

// Default installs a lazy default value provider for the named parameter.
func (f *Function) Default(name string, provider func() any) *Function {
	f.defaults[name] = provider
	return f
}

// Optional marks the named parameters as nullable.
func (f *Function) Optional(names ...string) *Function {
	for _, name := range names {
		f.nullable[name] = true
	}
	return f
}

// bare reports whether f carries no metadata, inspecting it then gives the same
// parameters as inspecting the wrapped func.
func (f *Function) bare() bool {
	return len(f.names) == 0 && len(f.nullable) == 0 && len(f.defaults) == 0
}

func (f *Function) parameterName(i int) string {
	if i < len(f.names) && f.names[i] != "" {
		return f.names[i]
	}
	return fmt.Sprintf("arg%d", i)
}

func (f *Function) String() string {
	if !f.value.IsValid() {
		return fmt.Sprintf("%v", f.subject)
	}
	return functionName(f.value)
}

// Method is a receiver/method pair. Receiver is an instance, or a reflect.Type in
// which case the method is called on a fresh zero value of that type.
//
// Method parameters are named arg0, arg1, ... To name them, mark them nullable or give
// them defaults, wrap the method value with Func instead:
//
//	dependency.Func(factory.Build, "transport", "?port")
type Method struct {
	Receiver any
	Name     string
}

func (m Method) receiverType() reflect.Type {
	if t, ok := m.Receiver.(reflect.Type); ok {
		return t
	}
	if m.Receiver == nil {
		return nil
	}
	return reflect.TypeOf(m.Receiver)
}

func (m Method) String() string {
	return TypeName(m.receiverType()) + "::" + m.Name
}

// bind returns the callable method value.
func (m Method) bind() (reflect.Value, error) {
	t := m.receiverType()
	if t == nil {
		return reflect.Value{}, newUndefinedClassError(TypeName(t), "")
	}
	var receiver reflect.Value
	if _, ok := m.Receiver.(reflect.Type); ok {
		if t.Kind() == reflect.Interface {
			return reflect.Value{}, newUndefinedClassError(TypeName(t), "has no concrete implementation")
		}
		receiver = zeroReceiver(t, m.Name)
	} else {
		receiver = reflect.ValueOf(m.Receiver)
	}
	method := receiver.MethodByName(m.Name)
	if !method.IsValid() {
		return reflect.Value{}, newUndefinedMethodError(TypeName(t), m.Name)
	}
	return method, nil
}

// zeroReceiver builds a receiver of type t, addressable when the method has a
// pointer receiver.
func zeroReceiver(t reflect.Type, name string) reflect.Value {
	if t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem())
	}
	if _, ok := t.MethodByName(name); ok {
		return reflect.Zero(t)
	}
	return reflect.New(t)
}

func functionName(v reflect.Value) string {
	return v.Type().String()
}

// callable is the closed set of call shapes a service can be produced from.
type callable interface {
	inspect(inspector Inspector) ([]Parameter, error)
	call(parameters []Parameter, arguments []any) (reflect.Value, error)
	String() string
}

// newCallable decides once how a registration subject is invoked, from its Shape.
// A nil subject constructs fallback. Invokable values are instances here, Call is the
// only place invoking them.
func newCallable(subject any, fallback reflect.Type) callable {
	switch Classify(subject) {
	case ShapeUnknown:
		return &constructorCall{class: fallback}
	case ShapeType:
		return &constructorCall{class: subject.(reflect.Type)}
	case ShapeMethod:
		return &methodCall{method: asMethod(subject)}
	case ShapeFunction:
		return &functionCall{function: toFunction(subject)}
	}
	return &instanceCall{instance: reflect.ValueOf(subject)}
}

// asMethod reads a Method or *Method subject. A nil *Method has no receiver.
func asMethod(subject any) Method {
	switch m := subject.(type) {
	case Method:
		return m
	case *Method:
		if m != nil {
			return *m
		}
	}
	return Method{}
}

// toFunction reads a func or *Function subject. A nil *Function wraps nothing.
func toFunction(subject any) *Function {
	if f, ok := subject.(*Function); ok {
		if f == nil {
			return Func(nil)
		}
		return f
	}
	return Func(subject)
}

type constructorCall struct {
	class reflect.Type
}

func (c *constructorCall) inspect(inspector Inspector) ([]Parameter, error) {
	return inspector.InspectClass(c.class)
}

func (c *constructorCall) call(parameters []Parameter, arguments []any) (reflect.Value, error) {
	if c.class == nil {
		return reflect.Value{}, newUndefinedClassError(TypeName(c.class), "")
	}
	structType := c.class
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		if len(parameters) > 0 {
			return reflect.Value{}, newInvalidDefinitionError(
				fmt.Sprintf("type %s has parameters but is not a struct", TypeName(c.class)))
		}
		if c.class.Kind() == reflect.Ptr {
			return reflect.New(structType), nil
		}
		return reflect.Zero(c.class), nil
	}

	instance := reflect.New(structType)
	for i, parameter := range parameters {
		field, ok := constructorField(structType, parameter.Name())
		if !ok {
			return reflect.Value{}, newInvalidDefinitionError(
				fmt.Sprintf("type %s has no field for parameter $%s", TypeName(c.class), parameter.Name()))
		}
		target := instance.Elem().FieldByIndex(field.Index)
		if !target.CanSet() {
			return reflect.Value{}, newInvalidDefinitionError(
				fmt.Sprintf("field %s of %s can not be set", field.Name, TypeName(c.class)))
		}
		value, err := convertValue(arguments[i], field.Type)
		if err != nil {
			return reflect.Value{}, newInvalidArgumentError(parameter.Name(), TypeName(field.Type), err.Error())
		}
		target.Set(value)
	}
	if c.class.Kind() == reflect.Ptr {
		return instance, nil
	}
	return instance.Elem(), nil
}

func (c *constructorCall) String() string { return TypeName(c.class) }

// constructorField finds the struct field feeding a constructor parameter:
// the field whose inject name matches, then a field with that name.
func constructorField(structType reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if tag, ok := field.Tag.Lookup(injectTag); ok && parseInjectTag(tag).name == name {
			return field, true
		}
	}
	if field, ok := structType.FieldByName(name); ok {
		return field, true
	}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if lowerFirst(field.Name) == name {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

type functionCall struct {
	function *Function
}

func (c *functionCall) inspect(inspector Inspector) ([]Parameter, error) {
	return inspector.InspectFunction(c.function)
}

func (c *functionCall) call(parameters []Parameter, arguments []any) (reflect.Value, error) {
	if !c.function.value.IsValid() {
		return reflect.Value{}, newUndefinedFunctionError(c.function.String())
	}
	return invoke(c.function.value, parameters, arguments)
}

func (c *functionCall) String() string { return c.function.String() }

type methodCall struct {
	method Method
}

func (c *methodCall) inspect(inspector Inspector) ([]Parameter, error) {
	return inspector.InspectMethod(c.method.Receiver, c.method.Name)
}

func (c *methodCall) call(parameters []Parameter, arguments []any) (reflect.Value, error) {
	fn, err := c.method.bind()
	if err != nil {
		return reflect.Value{}, err
	}
	return invoke(fn, parameters, arguments)
}

func (c *methodCall) String() string { return c.method.String() }

// instanceCall returns a pre-built value and never goes through an Inspector.
type instanceCall struct {
	instance reflect.Value
}

func (c *instanceCall) inspect(Inspector) ([]Parameter, error) { return nil, nil }

func (c *instanceCall) call([]Parameter, []any) (reflect.Value, error) {
	return c.instance, nil
}

func (c *instanceCall) String() string { return c.instance.Type().String() }

// invoke calls fn with converted arguments. fn returns a value, a value and an error,
// only an error or nothing, the value being invalid in the last two cases.
func invoke(fn reflect.Value, parameters []Parameter, arguments []any) (result reflect.Value, err error) {
	fnType := fn.Type()
	returnsError := fnType.NumOut() > 0 && fnType.Out(fnType.NumOut()-1) == errorReflectType
	if fnType.NumOut() > 2 || (fnType.NumOut() == 2 && !returnsError) {
		return reflect.Value{}, newInvalidDefinitionError(
			fmt.Sprintf("%s should return an instance and optionally an error", fnType))
	}
	if fnType.NumIn() != len(parameters) {
		return reflect.Value{}, newInvalidDefinitionError(
			fmt.Sprintf("%s takes %d arguments but %d parameters were described", fnType, fnType.NumIn(), len(parameters)))
	}

	in := make([]reflect.Value, fnType.NumIn())
	for i := range in {
		if in[i], err = convertValue(arguments[i], fnType.In(i)); err != nil {
			return reflect.Value{}, newInvalidArgumentError(parameters[i].Name(), TypeName(fnType.In(i)), err.Error())
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = newFactoryFailureError(functionName(fn), fmt.Errorf("panic: %v", r))
		}
	}()
	out := fn.Call(in)
	if returnsError {
		if errValue := out[len(out)-1]; !errValue.IsNil() {
			return reflect.Value{}, newFactoryFailureError(functionName(fn), errValue.Interface().(error))
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return reflect.Value{}, nil
	}
	return out[0], nil
}
