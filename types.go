package dependency

import (
	"reflect"
)

// Object may be used as a parameter type to request any object instance,
// whatever its concrete type.
type Object interface{}

var (
	objectReflectType = reflect.TypeOf((*Object)(nil)).Elem()
	errorReflectType  = reflect.TypeOf((*error)(nil)).Elem()
	anyReflectType    = reflect.TypeOf((*any)(nil)).Elem()
)

// TypeOf returns the reflect.Type identifying T, interfaces included.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TypeName returns the display name of a type, "<nil>" for a nil type.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func qualifiedName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	if t.Kind() == reflect.Ptr {
		if elem := t.Elem(); elem.Name() != "" && elem.PkgPath() != "" {
			return "*" + elem.PkgPath() + "." + elem.Name()
		}
	}
	return ""
}

// TypeRegistry maps type names to types for stringly-typed inspection and configuration.
// A type is reachable by its short name ("app.Mailer"), its package qualified name
// ("github.com/acme/app.Mailer") and any explicit name given to AddNamed.
type TypeRegistry struct {
	types map[string]reflect.Type
}

// NewTypeRegistry creates a registry holding the given types.
func NewTypeRegistry(types ...reflect.Type) *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]reflect.Type)}
	r.Add(types...)
	return r
}

// Add registers types under their short and qualified names.
func (r *TypeRegistry) Add(types ...reflect.Type) *TypeRegistry {
	for _, t := range types {
		if t == nil {
			continue
		}
		r.types[t.String()] = t
		if q := qualifiedName(t); q != "" {
			r.types[q] = t
		}
	}
	return r
}

// AddNamed registers a type under an explicit name.
func (r *TypeRegistry) AddNamed(name string, t reflect.Type) *TypeRegistry {
	if t != nil && name != "" {
		r.types[name] = t
	}
	return r
}

// Lookup returns the type registered under name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.types[name]
	return t, ok
}
