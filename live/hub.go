package live

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/services"
	"github.com/yeremiapane/burger-storefront/utils"
)

// Server events
const (
	EventCartUpdate    = "cart_update"
	EventToast         = "toast"
	EventCarouselSlide = "carousel_slide"
)

// Client events
const (
	EventCarouselPause  = "carousel_pause"
	EventCarouselResume = "carousel_resume"
	EventCarouselGoTo   = "carousel_goto"
	EventCarouselNext   = "carousel_next"
	EventCarouselPrev   = "carousel_prev"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ClientMessage is what the page sends back, e.g. {"event":"carousel_goto","index":2}.
type ClientMessage struct {
	Event string `json:"event"`
	Index int    `json:"index"`
}

// CartUpdate is the payload of cart_update.
type CartUpdate struct {
	Items  models.Cart           `json:"items"`
	Count  int                   `json:"count"`
	Totals models.TotalsSnapshot `json:"totals"`
}

// Client is one open page. Writes are serialized per connection.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	writeMu   sync.Mutex
}

func (c *Client) SessionID() string { return c.sessionID }

// Send writes msg to this client only.
func (c *Client) Send(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks the open pages of every session.
type Hub struct {
	clients map[*Client]struct{}
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds conn for sessionID.
func (h *Hub) Register(conn *websocket.Conn, sessionID string) *Client {
	client := &Client{conn: conn, sessionID: sessionID}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[client] = struct{}{}
	return client
}

// Unregister drops the client and closes its connection.
func (h *Hub) Unregister(client *Client) {
	h.mutex.Lock()
	delete(h.clients, client)
	h.mutex.Unlock()
	client.conn.Close()
}

// Count is the number of open connections for sessionID.
func (h *Hub) Count(sessionID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for c := range h.clients {
		if c.sessionID == sessionID {
			n++
		}
	}
	return n
}

// SendToSession pushes msg to every open page of sessionID.
func (h *Hub) SendToSession(sessionID string, msg Message) {
	h.mutex.Lock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.sessionID == sessionID {
			targets = append(targets, c)
		}
	}
	h.mutex.Unlock()

	for _, c := range targets {
		if err := c.Send(msg); err != nil {
			utils.Error().WithField("session", sessionID).Errorf("Error sending %s: %v", msg.Event, err)
		}
	}
}

// PushCart sends the cart badge, lines and totals to the session's pages.
func (h *Hub) PushCart(sessionID string, cart models.Cart, totals models.CartTotals) {
	h.SendToSession(sessionID, Message{
		Event: EventCartUpdate,
		Data: CartUpdate{
			Items:  cart,
			Count:  cart.Count(),
			Totals: totals.Snapshot(),
		},
	})
}

// Notifier returns a services.Notifier that pushes toasts to sessionID.
func (h *Hub) Notifier(sessionID string) services.Notifier {
	return services.NotifierFunc(func(_ context.Context, toast services.Toast) {
		h.SendToSession(sessionID, Message{Event: EventToast, Data: toast})
	})
}
