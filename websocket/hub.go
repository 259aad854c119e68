package websocket

import (
	"context"
	"log"

	"github.com/clubsplusplus/club_recruitment/models"
	"github.com/clubsplusplus/club_recruitment/services"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

type Client struct {
	UID  string
	Conn Conn
}

// EventsMessage is pushed to a client whenever new events it can see appear.
type EventsMessage struct {
	Type   string                 `json:"type"`
	Events []models.CalendarEvent `json:"events"`
}

// Hub fans newly materialized calendar events out to connected users. All
// client bookkeeping happens on the Run goroutine.
type Hub struct {
	directory  services.ClubDirectory
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []models.CalendarEvent
	done       chan struct{}
}

func NewHub(directory services.ClubDirectory) *Hub {
	return &Hub{
		directory:  directory,
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []models.CalendarEvent, 16),
		done:       make(chan struct{}),
	}
}

// Register adds a client. Once Run has returned the client is closed instead.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Conn.Close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues events for delivery and never blocks the caller.
func (h *Hub) Publish(events []models.CalendarEvent) {
	if len(events) == 0 {
		return
	}
	select {
	case h.broadcast <- events:
	default:
		log.Printf("⚠️ Calendar hub is busy, dropping %d event(s)", len(events))
	}
}

// Run serves the hub until ctx is cancelled. It must be called only once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					client.Conn.Close()
				}
			}
			return
		case client := <-h.register:
			log.Printf("Client registered: %s", client.UID)
			if h.clients[client.UID] == nil {
				h.clients[client.UID] = make(map[*Client]struct{})
			}
			h.clients[client.UID][client] = struct{}{}
		case client := <-h.unregister:
			log.Printf("Client unregistered: %s", client.UID)
			h.remove(client)
		case events := <-h.broadcast:
			h.deliver(ctx, events)
		}
	}
}

func (h *Hub) deliver(ctx context.Context, events []models.CalendarEvent) {
	for uid, conns := range h.clients {
		clubIDs, err := h.directory.ClubIDsForMember(ctx, uid)
		if err != nil {
			log.Printf("Error fetching memberships for %s: %v", uid, err)
			continue
		}

		visible := make([]models.CalendarEvent, 0, len(events))
		for _, e := range events {
			if services.IsVisibleTo(e, uid, clubIDs) {
				visible = append(visible, e)
			}
		}
		if len(visible) == 0 {
			continue
		}

		msg := EventsMessage{Type: "calendar.events", Events: visible}
		for client := range conns {
			if err := client.Conn.WriteJSON(msg); err != nil {
				log.Printf("Error sending events to client %s: %v", uid, err)
				client.Conn.Close()
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.UID]
	if !ok {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.UID)
	}
}
