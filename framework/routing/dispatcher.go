package routing

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/container"
	"github.com/km-arc/go-mvc/framework/diag"
	gohttp "github.com/km-arc/go-mvc/framework/http"
	"github.com/km-arc/go-mvc/framework/http/validation"
)

// Dispatcher routes a request to the mapped method of its controller bean.
// It only reads the table and container, so one Dispatcher serves any
// number of concurrent requests.
type Dispatcher struct {
	table  *Table
	beans  *container.Container
	logger *zap.Logger
}

// NewDispatcher creates a Dispatcher over a built table and its container.
func NewDispatcher(table *Table, beans *container.Container, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{table: table, beans: beans, logger: logger}
}

// Dispatch serves one request. It never panics: a miss writes the 404 body,
// and every other failure is logged with whatever output was already
// written left in place.
func (d *Dispatcher) Dispatch(req gohttp.Request, resp gohttp.Response) {
	path := Normalize(Strip(req.URI(), req.ContextPath()))

	entry, ok := d.table.Lookup(path)
	if !ok {
		d.logger.Debug(diag.RouteMiss.String(), zap.String("path", path))
		gohttp.NotFound(resp)
		return
	}

	bean, ok := d.beans.Get(entry.Bean)
	if !ok {
		d.fail(resp, http.StatusInternalServerError, diag.New(diag.InvocationFailure, path, "bean "+entry.Bean+" not found", nil))
		return
	}

	h := entry.Handler
	if len(h.Rules) > 0 {
		v := validation.Make(req.Params(), h.Rules)
		if v.Fails() {
			_ = gohttp.WriteJSON(resp, http.StatusUnprocessableEntity, v.Errors())
			return
		}
	}

	in, err := h.bind(bean.Instance, req, resp)
	if err != nil {
		d.fail(resp, http.StatusBadRequest, diag.New(diag.InvocationFailure, path, "binding "+h.Method, err))
		return
	}
	if err := h.call(in); err != nil {
		d.fail(resp, http.StatusInternalServerError, diag.New(diag.InvocationFailure, path, entry.TypeID+"."+h.Method, err))
	}
}

// fail logs issue and sets status when the sink supports it and nothing
// was sent yet.
func (d *Dispatcher) fail(resp gohttp.Response, status int, issue *diag.Issue) {
	if s, ok := resp.(gohttp.StatusWriter); ok {
		s.WriteHeader(status)
	}
	fields := []zap.Field{
		zap.String("path", issue.Subject),
		zap.String("detail", issue.Detail),
		zap.NamedError("cause", issue.Cause),
	}
	if p, ok := resp.(progress); ok {
		fields = append(fields, zap.Int("status", p.Status()), zap.Int("written", p.Written()))
	}
	d.logger.Error(issue.Kind.String(), fields...)
}

// progress is implemented by *gohttp.WebResponse.
type progress interface {
	Status() int
	Written() int
}

// Handler adapts the dispatcher to net/http for an application served
// under contextPath.
func (d *Dispatcher) Handler(contextPath string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.Dispatch(gohttp.NewRequest(r, contextPath), gohttp.NewResponse(w))
	})
}
