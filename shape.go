package dependency

import (
	"reflect"
)

// Shape is the call shape of an opaque registration subject.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeInstance is a ready-made value, returned as-is.
	ShapeInstance
	// ShapeType is a type constructed through its inject-tagged fields.
	ShapeType
	// ShapeMethod is a Method receiver/name pair.
	ShapeMethod
	// ShapeInvokable is a value exposing an Invoke method.
	ShapeInvokable
	// ShapeFunction is a Go func or a *Function.
	ShapeFunction
)

const invokeMethodName = "Invoke"

func (s Shape) String() string {
	switch s {
	case ShapeInstance:
		return "instance"
	case ShapeType:
		return "type"
	case ShapeMethod:
		return "method"
	case ShapeInvokable:
		return "invokable"
	case ShapeFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Classify returns the call shape of subject.
func Classify(subject any) Shape {
	switch subject.(type) {
	case nil:
		return ShapeUnknown
	case reflect.Type:
		return ShapeType
	case Method, *Method:
		return ShapeMethod
	case *Function:
		return ShapeFunction
	}
	v := reflect.ValueOf(subject)
	if v.Kind() == reflect.Func {
		return ShapeFunction
	}
	if v.MethodByName(invokeMethodName).IsValid() {
		return ShapeInvokable
	}
	return ShapeInstance
}

// IsServiceInstance reports whether subject is a ready-made value rather than something
// to call or construct. Invokable values count as instances.
func IsServiceInstance(subject any) bool {
	shape := Classify(subject)
	return shape == ShapeInstance || shape == ShapeInvokable
}

// IsClassname reports whether subject names a type.
func IsClassname(subject any) bool {
	return Classify(subject) == ShapeType
}

// IsMethod reports whether subject is a receiver/method pair.
func IsMethod(subject any) bool {
	return Classify(subject) == ShapeMethod
}

// IsInvokable reports whether subject is a non-func value with an Invoke method.
func IsInvokable(subject any) bool {
	return Classify(subject) == ShapeInvokable
}

// IsFunction reports whether subject is a Go func or a *Function.
func IsFunction(subject any) bool {
	return Classify(subject) == ShapeFunction
}
