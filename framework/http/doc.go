// Package http defines the request and response abstractions the dispatcher
// works against, with adapters for net/http and in-memory versions for
// other transports.
//
// # Contracts
//
// A Request exposes the full path, the context path to strip from it and
// the parameter map. A Response is any io.Writer; a Response that also
// implements StatusWriter or HeaderWriter gets status codes and headers.
//
// # net/http
//
//	req := gohttp.NewRequest(r, "/app-context")
//	res := gohttp.NewResponse(w)
//
//	name := req.Input("name", "guest")  // query string OR form body
//	ok   := req.Has("id")
//
//	res.JSON(200, data)                 // raw JSON with status
//	res.Success(data)                   // 200 {"data": ...}
//	res.Error(400, "bad input")         // {"message": "bad input"}
//	res.ValidationError(v.Errors())     // 422 {"errors": {...}}
//
// Handlers get these helpers by declaring *WebRequest or *WebResponse
// parameters. Those that need the transport objects can declare
// *http.Request or http.ResponseWriter instead; the dispatcher passes
// req.Raw() and the *WebResponse itself, so the status it sends is still
// tracked.
//
// # In memory
//
//	req := gohttp.StaticRequest{Path: "/demo/query", Values: map[string][]string{"name": {"Bob"}}}
//	res := &gohttp.BufferResponse{}
//	dispatcher.Dispatch(req, res)
//	res.String()  // "My name is Bob"
package http
