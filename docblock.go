package dependency

import (
	"reflect"
	"regexp"
	"strings"
)

var docblockPattern = regexp.MustCompile(
	`(?m)^[\s*/]*@(?:param|var)(?:\s+(\??[A-Za-z_*\\][A-Za-z0-9_.*\\|&\[\]]*))?\s+\$([A-Za-z_][A-Za-z0-9_]*)`)

// DocblockInspector determines parameters from documentation strings of the form
//
//	@param int $port
//	@param ?app.Logger $logger
//
// attached to constructors, methods and functions with Document. Type names that are
// not builtin are looked up in a TypeRegistry. Documented parameters never have
// default values.
type DocblockInspector struct {
	types *TypeRegistry
	docs  map[any]string
}

var _ Inspector = &DocblockInspector{}

func NewDocblockInspector(types *TypeRegistry) *DocblockInspector {
	if types == nil {
		types = NewTypeRegistry()
	}
	return &DocblockInspector{
		types: types,
		docs:  make(map[any]string),
	}
}

type methodKey struct {
	receiver reflect.Type
	name     string
}

// funcKey identifies a func by code pointer and type, generic instantiations may
// share code.
type funcKey struct {
	code uintptr
	typ  reflect.Type
}

// docKey identifies a documented subject: a type, a method or a function code pointer.
// Undefined subjects have no key.
func docKey(subject any) any {
	switch Classify(subject) {
	case ShapeType:
		return subject
	case ShapeMethod:
		m := asMethod(subject)
		return methodKey{m.receiverType(), m.Name}
	case ShapeFunction:
		if f, ok := subject.(*Function); ok {
			if f == nil {
				return nil
			}
			return docKey(f.subject)
		}
		v := reflect.ValueOf(subject)
		if v.IsNil() {
			return nil
		}
		return funcKey{v.Pointer(), v.Type()}
	case ShapeInvokable:
		return methodKey{reflect.TypeOf(subject), invokeMethodName}
	}
	return nil
}

// Document attaches a documentation string to a type, a Method, a function or an
// invokable value.
func (i *DocblockInspector) Document(subject any, doc string) *DocblockInspector {
	if key := docKey(subject); key != nil {
		i.docs[key] = doc
	}
	return i
}

func (i *DocblockInspector) InspectClass(class reflect.Type) ([]Parameter, error) {
	if _, err := constructedStruct(class); err != nil {
		return nil, err
	}
	return i.parse(i.docs[class], TypeName(class))
}

func (i *DocblockInspector) InspectMethod(classOrInstance any, method string) ([]Parameter, error) {
	m := Method{Receiver: classOrInstance, Name: method}
	if _, err := m.bind(); err != nil {
		return nil, err
	}
	return i.parse(i.docs[methodKey{m.receiverType(), method}], m.String())
}

func (i *DocblockInspector) InspectFunction(function any) ([]Parameter, error) {
	f, err := asFunction(function)
	if err != nil {
		return nil, err
	}
	return i.parse(i.docs[docKey(f.subject)], f.String())
}

func (i *DocblockInspector) parse(doc, subject string) ([]Parameter, error) {
	matches := docblockPattern.FindAllStringSubmatch(doc, -1)
	parameters := make([]Parameter, 0, len(matches))
	for _, match := range matches {
		typ := match[1]
		if typ == "" {
			typ = TypeMixed
		}
		parameter, err := i.parameter(typ, match[2], subject)
		if err != nil {
			return nil, err
		}
		parameters = append(parameters, parameter)
	}
	return parameters, nil
}

func (i *DocblockInspector) parameter(typ, name, subject string) (Parameter, error) {
	if strings.ContainsAny(typ, "|&") {
		return nil, newCompoundTypeError(name, subject)
	}
	nullable := strings.HasPrefix(typ, "?")
	typ = strings.TrimPrefix(typ, "?")

	switch typ {
	case "array":
		return NewArrayParameter(name, nullable, nil), nil
	case "bool", "boolean":
		return NewBooleanParameter(name, nullable, nil), nil
	case TypeMixed:
		return NewMixedParameter(name, nil), nil
	case "int", "integer":
		return NewNumericParameter(name, TypeInt, nullable, nil), nil
	case "float", "double":
		return NewNumericParameter(name, TypeFloat, nullable, nil), nil
	case TypeString:
		return NewStringParameter(name, nullable, nil), nil
	case TypeObject:
		return NewObjectParameter(name, nullable, nil), nil
	}
	t, ok := i.types.Lookup(typ)
	if !ok {
		return nil, newUnknownTypeError(name, typ)
	}
	return NewNamedClassParameter(name, t, nullable, nil), nil
}
