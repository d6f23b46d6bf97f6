package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/sse"
	"github.com/goccy/go-json"
)

const streamKeepalive = 30 * time.Second

// EventHandler streams domain events to the employee they concern.
type EventHandler interface {
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type eventHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
}

func NewEventHandler(hub *sse.Hub, jwtService jwt.Service) EventHandler {
	return &eventHandlerImpl{
		hub:        hub,
		jwtService: jwtService,
	}
}

// StreamToken issues a short-lived token for opening the stream, which cannot carry headers.
func (h *eventHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	principal, err := user.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	employeeID := principal.OwnEmployeeID()
	if employeeID == "" {
		response.HandleError(w, user.ErrEmployeeProfileRequired)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(employeeID)
	if err != nil {
		slog.Error("Failed to generate stream token", "error", err)
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, StreamTokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream handles GET /events/stream?token=...
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	employeeID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(employeeID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"employee_id\":\"%s\"}\n\n", employeeID)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				slog.Warn("failed to encode stream event", "type", event.Type, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
