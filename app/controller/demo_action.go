// Package controller holds the demo application's controllers.
package controller

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/app/service"
	"github.com/km-arc/go-mvc/framework/beans"
	gohttp "github.com/km-arc/go-mvc/framework/http"
	"github.com/km-arc/go-mvc/framework/http/validation"
	"github.com/km-arc/go-mvc/framework/routing"
)

// DemoAction serves /demo/query, /demo/add and /demo/remove.
type DemoAction struct {
	beans.Controller `path:"/demo"`

	demoService service.IDemoService `autowired:""`
	logger      *zap.Logger          `autowired:"logger"`
}

func init() {
	beans.Register("app.controller", (*DemoAction)(nil))
}

func (a *DemoAction) RequestMappings() []beans.Mapping {
	return []beans.Mapping{
		{Method: "Query", Path: "/query", Params: []string{"name"}},
		{
			Method: "Add", Path: "/add", Params: []string{"a", "b"},
			Rules: map[string]string{"a": "required|integer", "b": "required|integer"},
		},
		{Method: "Remove", Path: "/remove"},
	}
}

// Query: GET /demo/query?name=Bob → "My name is Bob"
func (a *DemoAction) Query(req gohttp.Request, resp gohttp.Response, name string) error {
	_, err := io.WriteString(resp, a.demoService.Get(name))
	return err
}

// Add: GET /demo/add?a=1&b=2 → "1+2=3"
func (a *DemoAction) Add(resp gohttp.Response, x, y int) error {
	_, err := fmt.Fprintf(resp, "%d+%d=%d", x, y, x+y)
	return err
}

// Remove: GET|POST /demo/remove?id=7 → {"data":{"removed":7}}
func (a *DemoAction) Remove(req *gohttp.WebRequest, resp *gohttp.WebResponse) {
	if !req.Has("id") {
		resp.Error(http.StatusBadRequest, "id is required")
		return
	}
	v := validation.Make(req.Params(), validation.Rules{"id": "integer|gt:0"})
	if v.Fails() {
		resp.ValidationError(v.Errors())
		return
	}

	id, _ := strconv.Atoi(req.Input("id"))
	a.logger.Info("remove",
		zap.Int("id", id),
		zap.String("method", req.Method()),
		zap.String("request_id", req.Header(routing.RequestIDHeader)),
	)
	resp.Success(map[string]int{"removed": id})
}
