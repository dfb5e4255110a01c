package dependency

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies what went wrong while registering, inspecting or resolving a service.
type Kind int

const (
	KindUnknown Kind = iota

	// lookup errors
	KindUndefinedService
	KindUndefinedClass
	KindUndefinedMethod
	KindUndefinedFunction

	// shape errors
	KindCompoundType
	KindUnknownType
	KindVariadicParameter
	KindUndefinedDefaultValue
	KindInvalidDefinition

	// argument errors
	KindMissingArgument
	KindInvalidArgument

	// composition errors
	KindNestedService
	KindServiceInstantiation
	KindCyclicDependency
	KindFactoryFailure

	// contract errors
	KindUnexpectedType
)

// Category groups error kinds.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryLookup
	CategoryShape
	CategoryArgument
	CategoryComposition
	CategoryContract
)

func (c Category) String() string {
	switch c {
	case CategoryLookup:
		return "lookup"
	case CategoryShape:
		return "shape"
	case CategoryArgument:
		return "argument"
	case CategoryComposition:
		return "composition"
	case CategoryContract:
		return "contract"
	default:
		return "unknown"
	}
}

// Category returns the family the kind belongs to.
func (k Kind) Category() Category {
	switch k {
	case KindUndefinedService, KindUndefinedClass, KindUndefinedMethod, KindUndefinedFunction:
		return CategoryLookup
	case KindCompoundType, KindUnknownType, KindVariadicParameter, KindUndefinedDefaultValue, KindInvalidDefinition:
		return CategoryShape
	case KindMissingArgument, KindInvalidArgument:
		return CategoryArgument
	case KindNestedService, KindServiceInstantiation, KindCyclicDependency, KindFactoryFailure:
		return CategoryComposition
	case KindUnexpectedType:
		return CategoryContract
	default:
		return CategoryUnknown
	}
}

var kindNames = map[Kind]string{
	KindUndefinedService:      "undefined service",
	KindUndefinedClass:        "undefined class",
	KindUndefinedMethod:       "undefined method",
	KindUndefinedFunction:     "undefined function",
	KindCompoundType:          "compound type",
	KindUnknownType:           "unknown type",
	KindVariadicParameter:     "variadic parameter",
	KindUndefinedDefaultValue: "undefined default value",
	KindInvalidDefinition:     "invalid definition",
	KindMissingArgument:       "missing argument",
	KindInvalidArgument:       "invalid argument",
	KindNestedService:         "nested service",
	KindServiceInstantiation:  "service instantiation",
	KindCyclicDependency:      "cyclic dependency",
	KindFactoryFailure:        "factory failure",
	KindUnexpectedType:        "unexpected type",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is the single error type returned by the container and its inspectors.
// Service and Parameter are set when they are relevant to the kind.
type Error struct {
	Kind      Kind
	Service   string
	Parameter string
	Message   string
	Cause     error
}

var _ error = &Error{}

// Sentinels usable with errors.Is, they match any *Error of the same kind.
var (
	ErrUndefinedService      = &Error{Kind: KindUndefinedService}
	ErrUndefinedClass        = &Error{Kind: KindUndefinedClass}
	ErrUndefinedMethod       = &Error{Kind: KindUndefinedMethod}
	ErrUndefinedFunction     = &Error{Kind: KindUndefinedFunction}
	ErrCompoundType          = &Error{Kind: KindCompoundType}
	ErrUnknownType           = &Error{Kind: KindUnknownType}
	ErrVariadicParameter     = &Error{Kind: KindVariadicParameter}
	ErrUndefinedDefaultValue = &Error{Kind: KindUndefinedDefaultValue}
	ErrInvalidDefinition     = &Error{Kind: KindInvalidDefinition}
	ErrMissingArgument       = &Error{Kind: KindMissingArgument}
	ErrInvalidArgument       = &Error{Kind: KindInvalidArgument}
	ErrNestedService         = &Error{Kind: KindNestedService}
	ErrServiceInstantiation  = &Error{Kind: KindServiceInstantiation}
	ErrCyclicDependency      = &Error{Kind: KindCyclicDependency}
	ErrFactoryFailure        = &Error{Kind: KindFactoryFailure}
	ErrUnexpectedType        = &Error{Kind: KindUnexpectedType}
)

func (e *Error) Error() string {
	switch {
	case e.Kind == KindServiceInstantiation && e.Cause != nil:
		return fmt.Sprintf("encountered an error while resolving service %q:\n%s", e.Service, renderCause(e.Cause))
	case e.Cause != nil:
		return e.Message + ": " + e.Cause.Error()
	case e.Message == "":
		return e.Kind.String()
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Cause == nil
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// renderCause flattens a cause chain into one line per failure,
// indenting by one tab for every dependency level crossed.
func renderCause(err error) string {
	var lines []string
	depth := 0
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			lines = append(lines, strings.Repeat("\t", depth)+err.Error())
			break
		}
		switch e.Kind {
		case KindServiceInstantiation:
			// the header is carried by the surrounding nested line
		case KindNestedService:
			lines = append(lines, strings.Repeat("\t", depth)+e.Message)
			depth++
		default:
			lines = append(lines, strings.Repeat("\t", depth)+e.Message)
		}
		err = e.Cause
	}
	return strings.Join(lines, "\n")
}

func newUndefinedServiceError(service string) *Error {
	return &Error{
		Kind:    KindUndefinedService,
		Service: service,
		Message: fmt.Sprintf("service %q is not registered", service),
	}
}

func newUndefinedClassError(class string, reason string) *Error {
	msg := fmt.Sprintf("class %q is undefined", class)
	if reason != "" {
		msg = fmt.Sprintf("class %q %s", class, reason)
	}
	return &Error{Kind: KindUndefinedClass, Service: class, Message: msg}
}

func newUndefinedMethodError(class, method string) *Error {
	return &Error{
		Kind:    KindUndefinedMethod,
		Service: class,
		Message: fmt.Sprintf("method %s::%s is undefined", class, method),
	}
}

func newUndefinedFunctionError(function string) *Error {
	return &Error{
		Kind:    KindUndefinedFunction,
		Message: fmt.Sprintf("function %s is undefined", function),
	}
}

func newCompoundTypeError(parameter, function string) *Error {
	return &Error{
		Kind:      KindCompoundType,
		Parameter: parameter,
		Message:   fmt.Sprintf("failed resolving union/intersection type for parameter $%s of %s", parameter, function),
	}
}

func newUnknownTypeError(parameter, typ string) *Error {
	return &Error{
		Kind:      KindUnknownType,
		Parameter: parameter,
		Message:   fmt.Sprintf("could not determine the type %q expected by parameter $%s", typ, parameter),
	}
}

func newVariadicParameterError(function string) *Error {
	return &Error{
		Kind:    KindVariadicParameter,
		Message: fmt.Sprintf("variadic parameters are not supported (in %s)", function),
	}
}

func newUndefinedDefaultValueError(parameter string) *Error {
	return &Error{
		Kind:      KindUndefinedDefaultValue,
		Parameter: parameter,
		Message:   fmt.Sprintf("could not determine a default value for parameter $%s", parameter),
	}
}

func newInvalidDefinitionError(message string) *Error {
	return &Error{Kind: KindInvalidDefinition, Message: message}
}

func newMissingArgumentError(parameter string) *Error {
	return &Error{
		Kind:      KindMissingArgument,
		Parameter: parameter,
		Message:   fmt.Sprintf("no value provided for required parameter $%s", parameter),
	}
}

func newInvalidArgumentError(parameter, expected, provided string) *Error {
	return &Error{
		Kind:      KindInvalidArgument,
		Parameter: parameter,
		Message: fmt.Sprintf(
			"invalid argument provided for parameter $%s, expected %s but received %s instead",
			parameter, expected, provided),
	}
}

func newNestedServiceError(service string, cause error) *Error {
	return &Error{
		Kind:    KindNestedService,
		Service: service,
		Message: fmt.Sprintf("dependency %q could not be resolved", service),
		Cause:   cause,
	}
}

func newServiceInstantiationError(service string, cause error) *Error {
	return &Error{
		Kind:    KindServiceInstantiation,
		Service: service,
		Message: fmt.Sprintf("encountered an error while resolving service %q", service),
		Cause:   cause,
	}
}

func newCyclicDependencyError(service string, path []string) *Error {
	return &Error{
		Kind:    KindCyclicDependency,
		Service: service,
		Message: fmt.Sprintf("service %q depends on itself (%s)", service, strings.Join(path, " -> ")),
	}
}

func newFactoryFailureError(service string, cause error) *Error {
	return &Error{
		Kind:    KindFactoryFailure,
		Service: service,
		Message: fmt.Sprintf("factory for %q failed", service),
		Cause:   cause,
	}
}

func newUnexpectedTypeError(expected, actual string) *Error {
	return &Error{
		Kind:    KindUnexpectedType,
		Service: expected,
		Message: fmt.Sprintf("container expected to resolve a dependency of type %s, but instead resolved a %s", expected, actual),
	}
}
