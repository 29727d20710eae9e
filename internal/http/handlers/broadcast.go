package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/notifications"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/observability"
	"github.com/gin-gonic/gin"
)

// BroadcastHandler exposes the admin channel: any connected client may
// publish an admin_message and every subscriber receives the same
// payload as an admin_broadcast event. The channel itself is
// unauthenticated, matching the system this replaces.
type BroadcastHandler struct {
	hub         *notifications.Hub
	broadcaster notifications.Broadcaster
	prom        *observability.Prom
}

func NewBroadcastHandler(hub *notifications.Hub, broadcaster notifications.Broadcaster, prom *observability.Prom) *BroadcastHandler {
	h := &BroadcastHandler{
		hub:         hub,
		broadcaster: broadcaster,
		prom:        prom,
	}

	if prom != nil {
		hub.OnSubscriberCount(func(n int) {
			prom.BroadcastSubscribers.Set(float64(n))
		})
	}

	return h
}

func (h *BroadcastHandler) Publish(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)

	if err != nil || !json.Valid(body) {
		RespondBadRequest(ctx, "Invalid request body", gin.H{"json": "invalid_json_syntax"})
		return
	}

	// fire and forget
	_ = h.broadcaster.Publish(ctx.Request.Context(), json.RawMessage(body))

	if h.prom != nil {
		h.prom.BroadcastsTotal.Inc()
	}

	ctx.JSON(http.StatusAccepted, gin.H{"message": "broadcast sent"})
}

func (h *BroadcastHandler) Stream(ctx *gin.Context) {
	ch, cancel := h.hub.Subscribe()
	defer cancel()

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")

	clientGone := ctx.Request.Context().Done()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			ctx.SSEvent("admin_broadcast", msg)
			return true
		}
	})
}
