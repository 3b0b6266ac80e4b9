package beans

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ── Role markers ──────────────────────────────────────────────────────────────

// Controller marks a struct as a request-handling bean. Embed it anonymously;
// the optional `path` tag is the base path shared by every mapping:
//
//	type DemoAction struct {
//	    beans.Controller `path:"/demo"`
//	}
type Controller struct{}

// Service marks a struct as a service bean. Embed it anonymously; the
// optional `bean` tag overrides the derived bean name:
//
//	type DemoService struct {
//	    beans.Service `bean:"demo"`
//	}
type Service struct{}

// Role is the component role a type declares through its embedded marker.
type Role int

const (
	RoleNone Role = iota
	RoleController
	RoleService
)

func (r Role) String() string {
	switch r {
	case RoleController:
		return "controller"
	case RoleService:
		return "service"
	default:
		return "none"
	}
}

// Struct tags read off the markers and injected fields.
const (
	TagPath     = "path"
	TagBean     = "bean"
	TagAutowire = "autowired"
)

var (
	controllerType = reflect.TypeOf(Controller{})
	serviceType    = reflect.TypeOf(Service{})
)

// RoleOf inspects the anonymous fields of t (or *t) for a role marker.
// Controller wins over Service when both are embedded.
func RoleOf(t reflect.Type) Role {
	if _, ok := marker(t, controllerType); ok {
		return RoleController
	}
	if _, ok := marker(t, serviceType); ok {
		return RoleService
	}
	return RoleNone
}

// BasePath returns the `path` tag of the embedded Controller marker.
func BasePath(t reflect.Type) string {
	f, ok := marker(t, controllerType)
	if !ok {
		return ""
	}
	return f.Tag.Get(TagPath)
}

// ServiceName returns the trimmed `bean` tag of the embedded Service marker.
func ServiceName(t reflect.Type) string {
	f, ok := marker(t, serviceType)
	if !ok {
		return ""
	}
	return strings.TrimSpace(f.Tag.Get(TagBean))
}

func marker(t reflect.Type, want reflect.Type) (reflect.StructField, bool) {
	t = indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == want {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// ── Method markers ────────────────────────────────────────────────────────────

// Mapping binds one exported method of a controller to a path.
//
// Params names the request parameters bound, in order, to the method's value
// parameters (string, numbers, bool, []string). Request and response
// parameters are bound by type and take no name.
//
// Rules optionally validates the named parameters before the method runs,
// using the pipe syntax of the validation package ("required|min:2").
type Mapping struct {
	Method string
	Path   string
	Params []string
	Rules  map[string]string
}

// Mapper is implemented by controllers that expose request mappings.
// A method without a Mapping is never routed.
//
//	func (a *DemoAction) RequestMappings() []beans.Mapping {
//	    return []beans.Mapping{
//	        {Method: "Query", Path: "/query", Params: []string{"name"}},
//	    }
//	}
type Mapper interface {
	RequestMappings() []Mapping
}

// Constructor is an optional hook run right after zero-value construction.
// A returned error aborts the registration of that bean.
type Constructor interface {
	Construct() error
}

// ── Naming ────────────────────────────────────────────────────────────────────

// BeanName lower-cases the first character of a simple type name:
// DemoAction → demoAction.
func BeanName(simple string) string {
	r, size := utf8.DecodeRuneInString(simple)
	if size == 0 {
		return simple
	}
	return string(unicode.ToLower(r)) + simple[size:]
}

// SimpleName returns the part of a TypeId after its last namespace separator.
func SimpleName(id string) string {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return id
}

// Namespace normalizes a dotted or slash separated namespace to dotted form,
// dropping empty segments: "/app/controller/" → "app.controller".
func Namespace(ns string) string {
	parts := strings.FieldsFunc(strings.TrimSpace(ns), func(r rune) bool {
		return r == '.' || r == '/'
	})
	return strings.Join(parts, ".")
}

// TypeKey returns the package-qualified name of t, unwrapping pointers.
// It identifies types that were never registered in a Catalog.
//
//	beans.TypeKey(reflect.TypeOf(&zap.Logger{}))  // "go.uber.org/zap.Logger"
func TypeKey(t reflect.Type) string {
	t = indirect(t)
	if t == nil {
		return ""
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
