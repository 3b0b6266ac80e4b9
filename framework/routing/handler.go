package routing

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/km-arc/go-mvc/framework/beans"
	gohttp "github.com/km-arc/go-mvc/framework/http"
	"github.com/km-arc/go-mvc/framework/http/validation"
)

// ErrMissingParam is returned when a request lacks a value a handler needs.
var ErrMissingParam = errors.New("missing request parameter")

type argKind int

const (
	argRequest argKind = iota
	argResponse
	argWebRequest
	argWebResponse
	argRawRequest
	argRawWriter
	argValue
	argValues
)

type arg struct {
	kind argKind
	typ  reflect.Type
	name string
}

var (
	requestType     = reflect.TypeOf((*gohttp.Request)(nil)).Elem()
	responseType    = reflect.TypeOf((*gohttp.Response)(nil)).Elem()
	writerType      = reflect.TypeOf((*io.Writer)(nil)).Elem()
	webRequestType  = reflect.TypeOf((**gohttp.WebRequest)(nil)).Elem()
	webResponseType = reflect.TypeOf((**gohttp.WebResponse)(nil)).Elem()
	rawRequestType  = reflect.TypeOf((**http.Request)(nil)).Elem()
	rawWriterType   = reflect.TypeOf((*http.ResponseWriter)(nil)).Elem()
	stringSliceType = reflect.TypeOf((*[]string)(nil)).Elem()
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
)

// Handler describes a mapped controller method: its parameter signature,
// the request parameters feeding it and the rules checked before a call.
type Handler struct {
	Method string
	Rules  validation.Rules

	fn   reflect.Value
	args []arg
}

// newHandler resolves m.Method on the pointer type of a controller and
// classifies its parameters. Signatures that cannot be bound are rejected.
func newHandler(owner reflect.Type, m beans.Mapping) (*Handler, error) {
	method, ok := owner.MethodByName(m.Method)
	if !ok {
		return nil, fmt.Errorf("no exported method %q", m.Method)
	}
	ft := method.Type
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%s: variadic handlers are not supported", m.Method)
	}
	switch {
	case ft.NumOut() == 0:
	case ft.NumOut() == 1 && ft.Out(0) == errorType:
	default:
		return nil, fmt.Errorf("%s: handlers return nothing or a single error", m.Method)
	}
	if err := validation.Rules(m.Rules).Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Method, err)
	}

	h := &Handler{Method: m.Method, Rules: m.Rules, fn: method.Func}
	names := m.Params
	// In(0) is the receiver.
	for i := 1; i < ft.NumIn(); i++ {
		a, err := classify(ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("%s: parameter %d: %w", m.Method, i, err)
		}
		if a.kind == argValue || a.kind == argValues {
			if len(names) == 0 {
				return nil, fmt.Errorf("%s: parameter %d (%s) has no name in Params", m.Method, i, a.typ)
			}
			a.name, names = names[0], names[1:]
		}
		h.args = append(h.args, a)
	}
	if len(names) > 0 {
		return nil, fmt.Errorf("%s: %d unused Params %v", m.Method, len(names), names)
	}
	return h, nil
}

func classify(t reflect.Type) (arg, error) {
	a := arg{typ: t}
	switch t {
	case requestType:
		a.kind = argRequest
	case responseType, writerType:
		a.kind = argResponse
	case webRequestType:
		a.kind = argWebRequest
	case webResponseType:
		a.kind = argWebResponse
	case rawRequestType:
		a.kind = argRawRequest
	case rawWriterType:
		a.kind = argRawWriter
	case stringSliceType:
		a.kind = argValues
	default:
		switch t.Kind() {
		case reflect.String, reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			a.kind = argValue
		default:
			return a, fmt.Errorf("unsupported type %s", t)
		}
	}
	return a, nil
}

// Signature returns the declared parameter types, receiver excluded.
func (h *Handler) Signature() []reflect.Type {
	out := make([]reflect.Type, len(h.args))
	for i, a := range h.args {
		out[i] = a.typ
	}
	return out
}

// Params returns the request parameter names bound to value parameters.
func (h *Handler) Params() []string {
	var out []string
	for _, a := range h.args {
		if a.name != "" {
			out = append(out, a.name)
		}
	}
	return out
}

// bind builds the argument list for one call, receiver first.
func (h *Handler) bind(receiver any, req gohttp.Request, resp gohttp.Response) ([]reflect.Value, error) {
	in := make([]reflect.Value, 0, len(h.args)+1)
	in = append(in, reflect.ValueOf(receiver))
	params := req.Params()
	for _, a := range h.args {
		var v reflect.Value
		switch a.kind {
		case argRequest:
			v = reflect.ValueOf(&req).Elem()
		case argResponse:
			v = reflect.New(a.typ).Elem()
			v.Set(reflect.ValueOf(resp))
		case argWebRequest:
			web, ok := req.(*gohttp.WebRequest)
			if !ok {
				return nil, fmt.Errorf("request %T is not a *WebRequest", req)
			}
			v = reflect.ValueOf(web)
		case argWebResponse:
			web, ok := resp.(*gohttp.WebResponse)
			if !ok {
				return nil, fmt.Errorf("response %T is not a *WebResponse", resp)
			}
			v = reflect.ValueOf(web)
		case argRawRequest:
			raw, ok := req.(interface{ Raw() *http.Request })
			if !ok {
				return nil, fmt.Errorf("request %T carries no *http.Request", req)
			}
			v = reflect.ValueOf(raw.Raw())
		case argRawWriter:
			// The response itself, so a status sent through it is seen by
			// the dispatcher.
			w, ok := resp.(http.ResponseWriter)
			if !ok {
				return nil, fmt.Errorf("response %T is not an http.ResponseWriter", resp)
			}
			v = reflect.New(rawWriterType).Elem()
			v.Set(reflect.ValueOf(w))
		case argValues:
			vals, ok := params[a.name]
			if !ok {
				return nil, fmt.Errorf("%w %q", ErrMissingParam, a.name)
			}
			v = reflect.ValueOf(append([]string(nil), vals...))
		case argValue:
			s, ok := gohttp.First(params, a.name)
			if !ok {
				return nil, fmt.Errorf("%w %q", ErrMissingParam, a.name)
			}
			var err error
			if v, err = convert(s, a.typ); err != nil {
				return nil, fmt.Errorf("parameter %q: %w", a.name, err)
			}
		}
		in = append(in, v)
	}
	return in, nil
}

// call invokes the method, turning a panic into an error.
func (h *Handler) call(in []reflect.Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	out := h.fn.Call(in)
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

func convert(s string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return v, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetFloat(f)
	}
	return v, nil
}
