package routing

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/beans"
	"github.com/km-arc/go-mvc/framework/container"
	"github.com/km-arc/go-mvc/framework/diag"
)

// Build walks the controller beans of c in registration order and maps each
// of their declared request mappings to "/" + base + "/" + path, normalized.
// Rejected mappings and overwritten paths are added to report; the returned
// table is frozen.
func Build(c *container.Container, report *diag.Report, logger *zap.Logger) *Table {
	if report == nil {
		report = diag.NewReport(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	table := NewTable()

	for _, b := range c.Beans() {
		if b.Role != beans.RoleController {
			continue
		}
		mapper, ok := b.Instance.(beans.Mapper)
		if !ok {
			logger.Debug("controller has no mappings", zap.String("bean", b.Name))
			continue
		}
		owner := reflect.TypeOf(b.Instance)
		base := beans.BasePath(owner)

		for _, m := range mapper.RequestMappings() {
			subject := b.TypeID + "." + m.Method
			h, err := newHandler(owner, m)
			if err != nil {
				report.Add(diag.New(diag.InvalidMapping, subject, "", err))
				continue
			}
			path := Normalize("/" + base + "/" + m.Path)
			entry := &Entry{Path: path, Bean: b.Name, TypeID: b.TypeID, Handler: h}
			if prev := table.Put(entry); prev != nil {
				report.Addf(diag.RouteOverwritten, path, "%s.%s replaces %s.%s",
					b.TypeID, m.Method, prev.TypeID, prev.Handler.Method)
			}
			logger.Info("Mapped",
				zap.String("path", path),
				zap.String("handler", subject),
			)
		}
	}

	table.Freeze()
	return table
}
