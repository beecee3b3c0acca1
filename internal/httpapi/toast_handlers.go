// internal/httpapi/toast_handlers.go
package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "interview-portal/internal/common/errors"
	"interview-portal/internal/events"
	"interview-portal/internal/toast"
)

type ToastHandler struct {
	Toasts *toast.Registry
	Hub    *events.Hub
}

type createToastRequest struct {
	Kind    toast.Kind `json:"kind"`
	Message string     `json:"message"`
}

func (h ToastHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"toasts": h.Toasts.For(ClientIDFrom(r.Context())).List(),
	})
}

func (h ToastHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createToastRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteStandardError(w, r, err)
		return
	}
	if req.Kind == "" {
		req.Kind = toast.KindInfo
	}
	if !req.Kind.Valid() || strings.TrimSpace(req.Message) == "" {
		WriteStandardError(w, r, apperrors.NewValidationFailedError("kind must be success, error, info or warning and message must not be empty"))
		return
	}
	t := h.Toasts.For(ClientIDFrom(r.Context())).Show(req.Kind, req.Message)
	WriteJSON(w, http.StatusCreated, t)
}

func (h ToastHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.Toasts.For(ClientIDFrom(r.Context())).Dismiss(id) {
		WriteStandardError(w, r, apperrors.NewToastNotFoundError(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeSSE streams the caller's toast events until the client disconnects.
func (h ToastHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "STREAM_UNSUPPORTED", "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	clientID := ClientIDFrom(r.Context())
	ch := h.Hub.Subscribe(clientID)
	defer h.Hub.Unsubscribe(clientID, ch)

	ping := events.MakeEvent(RequestIDFrom(r.Context()), events.TypePing, 1, nil)
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", ping)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
