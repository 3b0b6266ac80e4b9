// Package beans holds the declarative markers the container reads by
// reflection and the type catalog that stands in for class loading.
//
// # Markers
//
//	type DemoAction struct {
//	    beans.Controller `path:"/demo"`
//
//	    service IDemoService `autowired:""`
//	}
//
//	func (a *DemoAction) RequestMappings() []beans.Mapping {
//	    return []beans.Mapping{{Method: "Query", Path: "/query", Params: []string{"name"}}}
//	}
//
//	type DemoService struct {
//	    beans.Service `bean:"demoService"`
//	}
//
// Four markers exist:
//   - Controller (embedded, optional `path` base path)
//   - Service    (embedded, optional `bean` explicit name)
//   - Mapping    (returned by Mapper.RequestMappings, one per routed method)
//   - autowired  (field tag, optional explicit target bean name)
//
// # Catalog
//
// Types are registered from init funcs and scanned back by namespace:
//
//	beans.Register("app.controller", (*DemoAction)(nil))
//	beans.RegisterInterface("app.service", (*IDemoService)(nil))
//
//	fs := afero.NewMemMapFs()
//	_ = beans.Default.Mount(fs, ".bean") // app/controller/DemoAction.bean, ...
package beans
