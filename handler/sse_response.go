package handler

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// Stream is the Context handed to SSE handlers. Every method sends one
// DataStar event on the open connection.
type Stream struct {
	Context
	sse *datastar.ServerSentEventGenerator
}

// Component patches a templ component into the page.
//
//	err := stream.Component(views.PreviewResult(p), handler.WithTarget("#preview"))
func (s *Stream) Component(c templ.Component, opts ...PatchOption) error {
	return s.sse.PatchElementTempl(c, opts...)
}

// Signal updates one client signal.
func (s *Stream) Signal(name string, value any) error {
	return s.Signals(map[string]any{name: value})
}

// Signals updates several client signals in one event.
func (s *Stream) Signals(signals map[string]any) error {
	data, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	return s.sse.PatchSignals(data)
}

// SSE creates a response that runs fn on an event stream. Use it when one
// request has to patch several elements and signals. Non-DataStar requests
// fail with 400 datastar_required.
//
//	return handler.SSE(func(stream *handler.Stream) error {
//		if err := stream.Component(views.PreviewResult(p), handler.WithTarget("#preview")); err != nil {
//			return err
//		}
//		return stream.Signal("payload", p.Payload)
//	})
func SSE(fn func(stream *Stream) error) Response {
	return ResponseFunc(func(w http.ResponseWriter, r *http.Request) error {
		if !IsDataStar(r) {
			return NewHTTPError(http.StatusBadRequest, "datastar_required")
		}
		ctx := NewContext(w, r)
		sse := ctx.SSE()
		if sse == nil {
			return ErrSSENotInitialized
		}
		return fn(&Stream{Context: ctx, sse: sse})
	})
}
