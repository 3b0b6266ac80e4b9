package container

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/km-arc/go-mvc/framework/beans"
	"github.com/km-arc/go-mvc/framework/diag"
)

// Inject fills every `autowired` field of every bean.
//
// Only fields declared directly on the bean's struct are considered; fields
// promoted from embedded structs are not. The target bean is the tag value
// (trimmed) or, when blank, the TypeId of the field's declared type as
// catalog.IDOf reports it. Unexported fields are written too.
//
// A target that is not in the container leaves the field at its zero value
// and records a MissingDependency; a target of the wrong type records an
// InjectionFailure.
func (c *Container) Inject(catalog *beans.Catalog, report *diag.Report) {
	if report == nil {
		report = diag.NewReport(nil)
	}
	for _, b := range c.Beans() {
		c.injectBean(catalog, b, report)
	}
}

func (c *Container) injectBean(catalog *beans.Catalog, b *Bean, report *diag.Report) {
	v := reflect.ValueOf(b.Instance)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return
	}
	elem := v.Elem()
	t := elem.Type()

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup(beans.TagAutowire)
		if !ok {
			continue
		}
		site := b.Name + "." + f.Name

		target := strings.TrimSpace(tag)
		if target == "" {
			target = catalog.IDOf(f.Type)
		}

		dep, ok := c.Get(target)
		if !ok {
			report.Add(diag.New(diag.MissingDependency, site, fmt.Sprintf("no bean named %q", target), nil))
			continue
		}

		value := reflect.ValueOf(dep.Instance)
		if !value.IsValid() || !value.Type().AssignableTo(f.Type) {
			report.Add(diag.New(diag.InjectionFailure, site,
				fmt.Sprintf("bean %q is %T, field wants %s", target, dep.Instance, f.Type), nil))
			continue
		}

		field := elem.Field(i)
		if !field.CanSet() {
			field = reflect.NewAt(f.Type, unsafe.Pointer(field.UnsafeAddr())).Elem()
		}
		field.Set(value)
	}
}
