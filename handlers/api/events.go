package api

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/auth"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// IdentityEvent is pushed to connected pages whenever the signed-in state
// changes
type IdentityEvent struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"` // always "identity"
	Identity models.Identity `json:"identity"`
	Time     time.Time       `json:"time"`
}

// EventsHandler fans the session controller's notifications out to browser
// websockets, so every open page reflects sign-in and sign-out immediately
type EventsHandler struct {
	controller  *auth.Controller
	mu          sync.RWMutex
	subscribers map[string]chan IdentityEvent
}

// NewEventsHandler creates the handler and hooks it into the controller's
// subscription
func NewEventsHandler(controller *auth.Controller) *EventsHandler {
	h := &EventsHandler{
		controller:  controller,
		subscribers: make(map[string]chan IdentityEvent),
	}

	controller.Subscribe(func(identity models.Identity) {
		h.broadcast(identity)
	})

	return h
}

func (h *EventsHandler) broadcast(identity models.Identity) {
	event := IdentityEvent{
		ID:       uuid.New().String(),
		Type:     "identity",
		Identity: identity,
		Time:     time.Now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Slow subscriber, drop rather than block the controller
		}
	}
}

// Upgrade rejects non-websocket requests on the events route
func (h *EventsHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleEvents streams identity events over a websocket connection
func (h *EventsHandler) HandleEvents() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		subscriberID := uuid.New().String()
		events := make(chan IdentityEvent, 10)

		h.mu.Lock()
		h.subscribers[subscriberID] = events
		h.mu.Unlock()

		defer func() {
			h.mu.Lock()
			delete(h.subscribers, subscriberID)
			h.mu.Unlock()
			utils.Log.Debug("Events subscriber disconnected: %s", subscriberID)
		}()

		utils.Log.Debug("Events subscriber connected: %s", subscriberID)

		// Send the current state up front so a freshly opened page is in sync
		if err := conn.WriteJSON(IdentityEvent{
			ID:       uuid.New().String(),
			Type:     "identity",
			Identity: h.controller.Current(),
			Time:     time.Now(),
		}); err != nil {
			return
		}

		keepAlive := time.NewTicker(30 * time.Second)
		defer keepAlive.Stop()

		for {
			select {
			case event := <-events:
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case <-keepAlive.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	})
}
