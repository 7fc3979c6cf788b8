package services

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/internal/observability"
	"github.com/caminoapp/camino-backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	UserID string
	Role   string
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	log        *logger.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			observability.WebsocketClients.Set(float64(len(h.clients)))
			h.mutex.Unlock()
			h.log.Debug("websocket client connected",
				logger.String("user_id", client.UserID),
				logger.String("role", client.Role))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			observability.WebsocketClients.Set(float64(len(h.clients)))
			h.mutex.Unlock()
			h.log.Debug("websocket client disconnected",
				logger.String("user_id", client.UserID))
		}
	}
}

// ConnectedClients returns the number of connected clients
func (h *Hub) ConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// SendToUser sends a message to every connection of a specific user
func (h *Hub) SendToUser(userID string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Send <- message:
			default:
				h.log.Warn("websocket send channel full, dropping message",
					logger.String("user_id", client.UserID))
			}
		}
	}
}

// SendToRole sends a message to all users holding the given role
func (h *Hub) SendToRole(role string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.Role == role {
			select {
			case client.Send <- message:
			default:
				h.log.Warn("websocket send channel full, dropping message",
					logger.String("user_id", client.UserID))
			}
		}
	}
}

// Message is the envelope for every frame pushed to clients
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// TripCreated notifies drivers of a new open trip
type TripCreated struct {
	TripID        string  `json:"tripId"`
	PickupLat     float64 `json:"pickupLat"`
	PickupLng     float64 `json:"pickupLng"`
	PickupAddress string  `json:"pickupAddress"`
	ProposedPrice float64 `json:"proposedPrice"`
	Type          string  `json:"type"`
}

// OfferReceived notifies a passenger of a new offer on their trip
type OfferReceived struct {
	OfferID        string  `json:"offerId"`
	TripID         string  `json:"tripId"`
	DriverID       string  `json:"driverId"`
	Price          float64 `json:"price"`
	EstimatedTime  *int    `json:"estimatedTime,omitempty"`
	IsCounterOffer bool    `json:"isCounterOffer"`
}

// OfferAccepted notifies the winning driver that their offer was taken
type OfferAccepted struct {
	OfferID    string  `json:"offerId"`
	TripID     string  `json:"tripId"`
	FinalPrice float64 `json:"finalPrice"`
}

// TripStatusChanged notifies trip participants of a lifecycle transition
type TripStatusChanged struct {
	TripID string `json:"tripId"`
	Status string `json:"status"`
}

func (h *Hub) push(msg Message, send func([]byte)) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal websocket message", logger.Err(err))
		return
	}
	send(data)
}

// NotifyTripCreated fans a new trip out to all connected drivers
func (h *Hub) NotifyTripCreated(trip *models.Trip) {
	h.push(Message{Type: "trip_created", Data: TripCreated{
		TripID:        trip.ID,
		PickupLat:     trip.PickupLat,
		PickupLng:     trip.PickupLng,
		PickupAddress: trip.PickupAddress,
		ProposedPrice: trip.ProposedPrice,
		Type:          string(trip.Type),
	}}, func(data []byte) { h.SendToRole(string(models.RoleDriver), data) })
}

// NotifyOfferReceived tells the trip's passenger about a new offer
func (h *Hub) NotifyOfferReceived(passengerID string, offer *models.Offer) {
	h.push(Message{Type: "offer_received", Data: OfferReceived{
		OfferID:        offer.ID,
		TripID:         offer.TripID,
		DriverID:       offer.DriverID,
		Price:          offer.Price,
		EstimatedTime:  offer.EstimatedTime,
		IsCounterOffer: offer.IsCounterOffer,
	}}, func(data []byte) { h.SendToUser(passengerID, data) })
}

// NotifyOfferAccepted tells the winning driver their offer was accepted
func (h *Hub) NotifyOfferAccepted(driverID string, offer *models.Offer, finalPrice float64) {
	h.push(Message{Type: "offer_accepted", Data: OfferAccepted{
		OfferID:    offer.ID,
		TripID:     offer.TripID,
		FinalPrice: finalPrice,
	}}, func(data []byte) { h.SendToUser(driverID, data) })
}

// NotifyTripStatus tells both participants about a status change
func (h *Hub) NotifyTripStatus(trip *models.Trip) {
	h.push(Message{Type: "trip_status", Data: TripStatusChanged{
		TripID: trip.ID,
		Status: string(trip.Status),
	}}, func(data []byte) {
		h.SendToUser(trip.PassengerID, data)
		if trip.DriverID != nil {
			h.SendToUser(*trip.DriverID, data)
		}
	})
}

// HandleWebSocket upgrades the connection and registers the client
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error("websocket upgrade", logger.Err(err))
		return
	}

	client := &Client{
		UserID: userID,
		Role:   role,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    hub,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection until it closes
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Debug("websocket read", logger.Err(err))
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.Hub.log.Debug("websocket write", logger.Err(err))
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
