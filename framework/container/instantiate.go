package container

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/km-arc/go-mvc/framework/beans"
	"github.com/km-arc/go-mvc/framework/diag"
)

// Instantiate resolves every TypeId through catalog and registers the
// Controller and Service types among them. Types without a role marker are
// skipped silently.
//
// Nothing here aborts the loop: an unknown TypeId or a failing Constructor
// is an InstantiationFailure, and an interface alias that is already taken
// is a DuplicateAlias (the first mapping is kept and the failing service's
// remaining aliases are skipped). All of them are recorded on report.
func (c *Container) Instantiate(catalog *beans.Catalog, ids []string, report *diag.Report) {
	if report == nil {
		report = diag.NewReport(nil)
	}
	for _, id := range ids {
		c.register(catalog, id, report)
	}
}

func (c *Container) register(catalog *beans.Catalog, id string, report *diag.Report) {
	t, ok := catalog.Lookup(id)
	if !ok {
		report.Add(diag.New(diag.InstantiationFailure, id, "type not registered in the catalog", nil))
		return
	}

	role := beans.RoleOf(t)
	if role == beans.RoleNone {
		return
	}

	name := beans.BeanName(t.Name())
	if role == beans.RoleService {
		if explicit := beans.ServiceName(t); explicit != "" {
			name = explicit
		}
	}

	instance, err := construct(t)
	if err != nil {
		report.Add(diag.New(diag.InstantiationFailure, id, "", err))
		return
	}
	c.Instance(name, &Bean{Name: name, Role: role, TypeID: id, Instance: instance})

	if role != beans.RoleService {
		return
	}
	for _, iface := range catalog.Implements(t) {
		if err := c.Alias(name, iface); err != nil {
			var issue *diag.Issue
			if errors.As(err, &issue) {
				issue.Detail = fmt.Sprintf("%s, %s not aliased", issue.Detail, id)
				report.Add(issue)
			} else {
				report.Add(diag.New(diag.DuplicateAlias, iface, "", err))
			}
			return
		}
	}
}

// construct is the zero-argument constructor: a new zero value of t, then the
// optional Constructor hook. Panics are turned into errors.
func construct(t reflect.Type) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance, err = nil, fmt.Errorf("panic during construction: %v", r)
		}
	}()

	v := reflect.New(t).Interface()
	if ctor, ok := v.(beans.Constructor); ok {
		if err := ctor.Construct(); err != nil {
			return nil, err
		}
	}
	return v, nil
}
