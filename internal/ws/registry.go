package ws

import (
	"log/slog"
	"sync"
)

// Conn is the slice of a websocket connection the registry needs. The
// concrete type in production is *websocket.Conn; tests register fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client is one registered connection. Every write to the underlying socket
// must go through WriteJSON: gorilla permits at most one concurrent writer
// per connection, so room broadcasts and direct replies to the same client
// have to be serialized.
type Client struct {
	conn Conn
	mu   sync.Mutex
}

func (c *Client) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Registry tracks live connections per chat room for message fan-out. It does
// no authorization of its own; callers register a connection only after the
// owner was authenticated and confirmed as a chat participant.
type Registry struct {
	mu    sync.Mutex
	rooms map[uint]map[*Client]struct{}
	log   *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		rooms: make(map[uint]map[*Client]struct{}),
		log:   log,
	}
}

// Connect registers the connection and returns the Client callers must use
// for any further writes to it.
func (r *Registry) Connect(chatID uint, conn Conn) *Client {
	client := &Client{conn: conn}

	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[chatID]
	if !ok {
		room = make(map[*Client]struct{})
		r.rooms[chatID] = room
	}
	room[client] = struct{}{}
	return client
}

// Disconnect removes the client; the room entry is dropped with its last
// connection so the map does not accumulate dead rooms.
func (r *Registry) Disconnect(chatID uint, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[chatID]
	if !ok {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(r.rooms, chatID)
	}
}

// Broadcast sends v to every connection registered to the room. A failed
// write is logged and skipped; it never aborts delivery to the others.
func (r *Registry) Broadcast(chatID uint, v interface{}) {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.rooms[chatID]))
	for client := range r.rooms[chatID] {
		clients = append(clients, client)
	}
	r.mu.Unlock()

	for _, client := range clients {
		if err := client.WriteJSON(v); err != nil {
			r.log.Warn("broadcast_write_failed", "chat_id", chatID, "error", err)
		}
	}
}

// Count reports how many connections a room currently holds.
func (r *Registry) Count(chatID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[chatID])
}
