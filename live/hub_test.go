package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/services"
)

// dialHub starts a server that registers every connection under the
// session given in the query string.
func dialHub(t *testing.T, hub *Hub, sessionID string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := hub.Register(conn, r.URL.Query().Get("sid"))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?sid=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Count(sessionID) > 0 }, time.Second, 5*time.Millisecond)
	return conn
}

func TestHub_PushCartOnlyToSession(t *testing.T) {
	hub := NewHub()
	mine := dialHub(t, hub, "s1")
	other := dialHub(t, hub, "s2")

	cart := models.Cart{{ID: "A", Price: 5, Quantity: 2}}
	hub.PushCart("s1", cart, services.ComputeTotals(cart, 2.5, 0.16))

	var got struct {
		Event string     `json:"event"`
		Data  CartUpdate `json:"data"`
	}
	mine.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, mine.ReadJSON(&got))
	assert.Equal(t, EventCartUpdate, got.Event)
	assert.Equal(t, 2, got.Data.Count)
	assert.Equal(t, "14.10", got.Data.Totals.Total)

	other.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestHub_Notifier(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, "s1")

	hub.Notifier("s1").Notify(context.Background(), services.Toast{Type: services.ToastSuccess, Message: "Item added to cart"})

	var got struct {
		Event string         `json:"event"`
		Data  services.Toast `json:"data"`
	}
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventToast, got.Event)
	assert.Equal(t, "Item added to cart", got.Data.Message)
}
