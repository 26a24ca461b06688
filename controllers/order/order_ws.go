package orderControllers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[*websocket.Conn]bool)
)

// StatusEvent is pushed to subscribers whenever an order's status changes.
type StatusEvent struct {
	OrderID uint               `json:"orderId"`
	Status  models.OrderStatus `json:"status"`
}

// GET /orders/ws
func OrderEventsHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wsMu.Lock()
	wsClients[conn] = true
	wsMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsMu.Lock()
			delete(wsClients, conn)
			wsMu.Unlock()
			break
		}
	}
}

// BroadcastStatus pushes the order's current status to every subscriber.
func BroadcastStatus(order *models.Order) {
	event := StatusEvent{OrderID: order.ID, Status: order.Status}

	wsMu.Lock()
	defer wsMu.Unlock()
	for client := range wsClients {
		if err := client.WriteJSON(event); err != nil {
			client.Close()
			delete(wsClients, client)
		}
	}
}
