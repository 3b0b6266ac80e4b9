// Package container is the bean registry: it instantiates the Controller and
// Service types discovered by the scanner, stores them by name and wires their
// `autowired` fields.
//
// # Overview
//
// A container is built once, during the init phase, then frozen and shared by
// every request goroutine. Building it is three calls:
//
//	report := diag.NewReport(logger)
//	ids, _ := scanner.Scan(classPath, "app", ".bean", report)
//
//	c := container.New()
//	c.Instantiate(beans.Default, ids, report) // Controller / Service beans
//	c.Inject(beans.Default, report)           // autowired fields
//	c.Freeze()
//
// # Bean names
//
//	// Controller: simple type name, first character lower-cased
//	type DemoAction struct{ beans.Controller }   // → "demoAction"
//
//	// Service: explicit name, or the same rule
//	type DemoService struct{ beans.Service `bean:"demo"` } // → "demo"
//
//	// plus one alias per catalog interface it implements
//	//   "app.service.IDemoService" → same *Bean as "demo"
//
// # Injection
//
//	type DemoAction struct {
//	    beans.Controller
//
//	    service IDemoService `autowired:""`     // by declared type: "app.service.IDemoService"
//	    other   *Helper      `autowired:"demo"` // by explicit bean name
//	}
//
// # Resolving
//
//	raw := c.Make("demoAction")
//	svc, ok := container.Resolve[IDemoService](c, "app.service.IDemoService")
package container
