package dependency

import (
	"reflect"
	"slices"
)

// Entry is the registration record of a service.
type Entry struct {
	typeof    reflect.Type
	subject   any
	call      callable
	tags      []string
	arguments map[string]any
	once      bool
}

func newEntry(typeof reflect.Type, subject any) *Entry {
	return &Entry{
		typeof:    typeof,
		subject:   subject,
		call:      newCallable(subject, typeof),
		arguments: make(map[string]any),
		once:      true,
	}
}

// Type returns the service type the entry is registered under.
func (e *Entry) Type() reflect.Type { return e.typeof }

// Subject returns the factory or instance the entry was registered with, nil when the
// service type is constructed directly.
func (e *Entry) Subject() any { return e.subject }

// Tags returns the entry tags in the order they were set.
func (e *Entry) Tags() []string { return slices.Clone(e.tags) }

// SetTags replaces the entry tags.
func (e *Entry) SetTags(tags ...string) *Entry {
	e.tags = slices.Clone(tags)
	return e
}

func (e *Entry) HasTag(tag string) bool {
	return slices.Contains(e.tags, tag)
}

// Arguments returns the manual arguments, by parameter name.
func (e *Entry) Arguments() map[string]any {
	arguments := make(map[string]any, len(e.arguments))
	for name, value := range e.arguments {
		arguments[name] = value
	}
	return arguments
}

// SetArguments replaces the manual arguments. A manual argument always wins over
// dependency resolution and default values, nil included.
func (e *Entry) SetArguments(arguments map[string]any) *Entry {
	e.arguments = make(map[string]any, len(arguments))
	for name, value := range arguments {
		e.arguments[name] = value
	}
	return e
}

// Once reports whether the resolved instance is cached and shared.
func (e *Entry) Once() bool { return e.once }

// SetOnce enables or disables caching of the resolved instance.
func (e *Entry) SetOnce(once bool) *Entry {
	e.once = once
	return e
}

func (e *Entry) String() string {
	return TypeName(e.typeof) + " <- " + e.call.String()
}
