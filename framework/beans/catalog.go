package beans

import (
	"fmt"
	"path"
	"reflect"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Catalog resolves TypeIds to Go types. Go cannot load a type by name at run
// time, so components announce themselves from an init func, the same way
// database/sql drivers do:
//
//	func init() {
//	    beans.Register("app.controller", (*DemoAction)(nil))
//	    beans.RegisterInterface("app.service", (*IDemoService)(nil))
//	}
//
// A TypeId is the dotted namespace followed by the simple type name,
// e.g. "app.controller.DemoAction".
type Catalog struct {
	mu     sync.RWMutex
	types  map[string]reflect.Type
	ids    map[reflect.Type]string
	order  []string
	ifaces []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types: make(map[string]reflect.Type),
		ids:   make(map[reflect.Type]string),
	}
}

// Default is the process-wide catalog used by Register and RegisterInterface.
var Default = NewCatalog()

// Register adds struct types to the Default catalog under namespace.
func Register(namespace string, prototypes ...any) { Default.Register(namespace, prototypes...) }

// RegisterInterface adds interface types to the Default catalog under namespace.
func RegisterInterface(namespace string, prototypes ...any) {
	Default.RegisterInterface(namespace, prototypes...)
}

// Register adds struct types under namespace. A prototype is a struct value
// or a pointer to one; (*T)(nil) is the usual form. It panics on a nil
// prototype, a non-struct type or a TypeId registered twice.
func (c *Catalog) Register(namespace string, prototypes ...any) {
	for _, p := range prototypes {
		t := indirect(reflect.TypeOf(p))
		if t == nil || t.Kind() != reflect.Struct {
			panic(fmt.Sprintf("beans: Register(%q): %T is not a struct type", namespace, p))
		}
		c.add(namespace, t)
	}
}

// RegisterInterface adds interface types under namespace. Prototypes must be
// nil pointers to the interface: (*IDemoService)(nil).
func (c *Catalog) RegisterInterface(namespace string, prototypes ...any) {
	for _, p := range prototypes {
		t := reflect.TypeOf(p)
		if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Interface {
			panic(fmt.Sprintf("beans: RegisterInterface(%q): %T is not a pointer to an interface", namespace, p))
		}
		id := c.add(namespace, t.Elem())
		c.mu.Lock()
		c.ifaces = append(c.ifaces, id)
		c.mu.Unlock()
	}
}

func (c *Catalog) add(namespace string, t reflect.Type) string {
	if t.Name() == "" {
		panic(fmt.Sprintf("beans: cannot register unnamed type %s", t))
	}
	id := t.Name()
	if ns := Namespace(namespace); ns != "" {
		id = ns + "." + t.Name()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.types[id]; dup {
		panic(fmt.Sprintf("beans: type %s registered twice", id))
	}
	c.types[id] = t
	c.ids[t] = id
	c.order = append(c.order, id)
	return id
}

// Lookup returns the type registered under id.
func (c *Catalog) Lookup(id string) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[id]
	return t, ok
}

// IDOf returns the TypeId of t (pointers unwrapped), falling back to TypeKey
// for types that were never registered.
func (c *Catalog) IDOf(t reflect.Type) string {
	t = indirect(t)
	c.mu.RLock()
	id, ok := c.ids[t]
	c.mu.RUnlock()
	if ok {
		return id
	}
	return TypeKey(t)
}

// IDs returns every registered TypeId in registration order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Implements returns the TypeIds of every registered interface that *t
// satisfies, in registration order.
func (c *Catalog) Implements(t reflect.Type) []string {
	ptr := reflect.PointerTo(indirect(t))
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, id := range c.ifaces {
		if ptr.Implements(c.types[id]) {
			out = append(out, id)
		}
	}
	return out
}

// Mount writes one empty marker file per registered type onto fs, at
// "<namespace as path>/<TypeName><suffix>", so the class path can be scanned.
func (c *Catalog) Mount(fs afero.Fs, suffix string) error {
	for _, id := range c.IDs() {
		name := path.Join(strings.Split(id, ".")...) + suffix
		if err := fs.MkdirAll(path.Dir(name), 0o755); err != nil {
			return fmt.Errorf("beans: mount %s: %w", id, err)
		}
		if err := afero.WriteFile(fs, name, nil, 0o644); err != nil {
			return fmt.Errorf("beans: mount %s: %w", id, err)
		}
	}
	return nil
}
