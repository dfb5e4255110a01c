package loader

import (
	"reflect"

	"github.com/pkg/errors"

	dependency "github.com/illuin-tech/godependency"
)

// Catalog names the Go types and factories a definition file may refer to.
type Catalog struct {
	types     *dependency.TypeRegistry
	factories map[string]any
}

func NewCatalog() *Catalog {
	return &Catalog{
		types:     dependency.NewTypeRegistry(),
		factories: make(map[string]any),
	}
}

// Add makes types available under their short and package qualified names.
func (c *Catalog) Add(types ...reflect.Type) *Catalog {
	c.types.Add(types...)
	return c
}

// AddType makes t available under name.
func (c *Catalog) AddType(name string, t reflect.Type) *Catalog {
	c.types.AddNamed(name, t)
	return c
}

// AddFactory makes a factory available under name. factory is a func, a
// *dependency.Function, a dependency.Method or a reflect.Type; anything else fails
// when a definition refers to it.
func (c *Catalog) AddFactory(name string, factory any) *Catalog {
	c.factories[name] = factory
	return c
}

// Types returns the type registry backing the catalog, suitable for a DocblockInspector.
func (c *Catalog) Types() *dependency.TypeRegistry {
	return c.types
}

func (c *Catalog) Type(name string) (reflect.Type, bool) {
	return c.types.Lookup(name)
}

func (c *Catalog) Factory(name string) (any, bool) {
	factory, ok := c.factories[name]
	return factory, ok
}

// handler resolves a handler name to a registration subject: a factory, a type to
// construct, or a method of a type. An empty handler constructs the service itself.
func (c *Catalog) handler(name string) (any, error) {
	if name == "" {
		return nil, nil
	}
	if factory, ok := c.Factory(name); ok {
		if !dependency.IsFunction(factory) && !dependency.IsMethod(factory) && !dependency.IsClassname(factory) {
			return nil, errors.Errorf("factory %q is not a function, a method or a type: %s given",
				name, dependency.Classify(factory))
		}
		return factory, nil
	}
	if t, ok := c.Type(name); ok {
		return t, nil
	}
	if typ, method, ok := splitMethod(name); ok {
		t, ok := c.Type(typ)
		if !ok {
			return nil, errors.Errorf("unknown type %q in handler %q", typ, name)
		}
		return dependency.Method{Receiver: t, Name: method}, nil
	}
	return nil, errors.Errorf("unknown handler %q", name)
}
