// Package handler provides type-safe HTTP request handling for the qrforge
// web surface.
//
// Handlers are generic functions that receive a bound request struct and
// return a Response. Wrap turns them into http.HandlerFunc values that any
// router accepts:
//
//	type formatRequest struct {
//		Type   payload.ContentType `json:"type"`
//		Fields payload.Fields      `json:"fields"`
//	}
//
//	func format(ctx handler.Context, req formatRequest) handler.Response {
//		res := payload.Validate(req.Type, req.Fields)
//		if err := res.Err(); err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(map[string]string{"payload": payload.FormatFields(req.Type, req.Fields)})
//	}
//
//	r.Post("/api/format", handler.Wrap(format,
//		handler.WithBinder[handler.Context, formatRequest](binder.JSON()),
//	))
//
// # Responses
//
//	handler.JSON(data)                          // 200 with {"data": ...}
//	handler.JSON(data, handler.WithJSONStatus(201))
//	handler.JSONError(err)                      // status derived from err
//	handler.Blob("image/png", png)              // raw bytes
//	handler.Templ(component)                    // HTML or DataStar patch
//	handler.TemplPartial(partial, full)         // patch for DataStar, page otherwise
//	handler.SSE(func(stream *handler.Stream) error { ... })
//	handler.Redirect("/codes")                  // 303, or client side for DataStar
//	handler.Empty()                             // 204
//	handler.Status(http.StatusAccepted)         // any status, no body
//
// # Errors
//
// JSONError and the default ErrorHandler classify errors:
//
//   - validator.ValidationErrors anywhere in the chain: 422 with per-field details
//   - HTTPError anywhere in the chain: its Code and Key
//   - anything else: 500 with a generic message
//
// Domain errors are attached to a status with HTTPError.Wrap, which keeps
// the cause visible to errors.Is:
//
//	return handler.JSONError(handler.ErrNotFound.Wrap(err))
//
// Binder failures become 400, or 415 for a wrong Content-Type.
//
// # DataStar
//
// Requests that accept text/event-stream or carry the datastar query
// parameter are DataStar requests. Templ responses are then sent as element
// patches and Signals binds the client signal store into the request struct.
package handler
