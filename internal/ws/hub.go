package ws

import (
	"encoding/json"
	"sync"

	"github.com/hellocms/blackforest/internal/logger"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// branchEvent routes an event to one branch room
type branchEvent struct {
	BranchID string
	Event    Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Every screen of a branch (cashier, second screen, customer display) joins
// the branch's room.
type Hub struct {
	// Registered clients by branch ID
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *branchEvent

	mu  sync.RWMutex
	log *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *branchEvent, 256),
		log:        log.WithComponent("ws_hub"),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.branchID] == nil {
				h.rooms[client.branchID] = make(map[*Client]bool)
			}
			h.rooms[client.branchID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.branchID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.branchID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.BranchID]

			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.BranchID], client)
					if len(h.rooms[event.BranchID]) == 0 {
						delete(h.rooms, event.BranchID)
					}
					h.log.Warnw("dropped slow websocket client", "branch_id", event.BranchID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToBranch sends an event to all clients subscribed to a branch.
func (h *Hub) BroadcastToBranch(branchID string, event Event) {
	h.broadcast <- &branchEvent{
		BranchID: branchID,
		Event:    event,
	}
}

// Publish marshals payload and broadcasts it under eventType. It satisfies
// terminal.Notifier; a payload that fails to marshal is logged and dropped.
func (h *Hub) Publish(branchID, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Errorw("marshal websocket payload", "type", eventType, "error", err)
		return
	}
	h.BroadcastToBranch(branchID, Event{Type: eventType, Payload: data})
}

// Clients counts the connections in a branch room.
func (h *Hub) Clients(branchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[branchID])
}
