package container

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/km-arc/go-mvc/framework/beans"
	"github.com/km-arc/go-mvc/framework/diag"
)

// ── Bean ──────────────────────────────────────────────────────────────────────

// Bean is an instantiated, named component. Instance is always a pointer to
// the bean's struct (or the pre-built value given to Instance).
type Bean struct {
	Name     string
	Role     beans.Role
	TypeID   string
	Instance any
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container maps bean names to beans. Service beans are additionally
// reachable under the TypeId of every interface they implement; those alias
// keys point at the very same *Bean.
//
// A container is filled during the init phase, then frozen. After Freeze any
// write panics, and reads are safe from any number of goroutines.
type Container struct {
	mu sync.RWMutex

	// name or alias → bean
	entries map[string]*Bean

	// keys in insertion order
	order []string

	frozen atomic.Bool
}

// New creates an empty container.
func New() *Container {
	return &Container{
		entries: make(map[string]*Bean),
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Instance stores bean under name, replacing any previous entry.
//
//	c.Instance("config", &container.Bean{Name: "config", Instance: cfg})
func (c *Container) Instance(name string, bean *Bean) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mustBeOpen()
	c.put(name, bean)
}

// Alias makes the bean stored under name reachable under alias as well.
// An alias that is already taken is left untouched and ErrDuplicateAlias is
// returned.
//
//	c.Alias("demoService", "app.service.IDemoService")
func (c *Container) Alias(name, alias string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mustBeOpen()

	if name == alias {
		return fmt.Errorf("container: [%s] is aliased to itself", name)
	}
	bean, ok := c.entries[name]
	if !ok {
		return fmt.Errorf("container: cannot alias unknown bean [%s]", name)
	}
	if existing, taken := c.entries[alias]; taken {
		return diag.New(diag.DuplicateAlias, alias,
			fmt.Sprintf("already bound to bean %q", existing.Name), nil)
	}
	c.put(alias, bean)
	return nil
}

// put must hold mu.Lock.
func (c *Container) put(key string, bean *Bean) {
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = bean
}

// Freeze ends the init phase. Every later Instance or Alias panics.
func (c *Container) Freeze() { c.frozen.Store(true) }

// Frozen returns true once Freeze has been called.
func (c *Container) Frozen() bool { return c.frozen.Load() }

func (c *Container) mustBeOpen() {
	if c.frozen.Load() {
		panic("container: write after Freeze")
	}
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get returns the bean stored under name or alias.
func (c *Container) Get(name string) (*Bean, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[name]
	return b, ok
}

// Make returns the instance stored under name, or nil.
func (c *Container) Make(name string) any {
	if b, ok := c.Get(name); ok {
		return b.Instance
	}
	return nil
}

// Bound returns true if name or alias is present.
func (c *Container) Bound(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Len returns the number of keys, aliases included.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Names returns every key (names and aliases) in insertion order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Beans returns each bean once, under its primary name, in insertion order.
// A bean whose primary name was later overwritten is no longer listed.
func (c *Container) Beans() []*Bean {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Bean, 0, len(c.order))
	for _, key := range c.order {
		if b := c.entries[key]; b.Name == key {
			out = append(out, b)
		}
	}
	return out
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve fetches name and type-asserts its instance.
//
//	svc, ok := container.Resolve[service.IDemoService](c, "app.service.IDemoService")
func Resolve[T any](c *Container, name string) (T, bool) {
	var zero T
	b, ok := c.Get(name)
	if !ok {
		return zero, false
	}
	typed, ok := b.Instance.(T)
	return typed, ok
}

// TypeKey returns the key framework beans are stored under: the
// package-qualified type name of v.
//
//	container.TypeKey(logger)  // "go.uber.org/zap.Logger"
func TypeKey(v any) string {
	return beans.TypeKey(reflect.TypeOf(v))
}
