package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"sync"

	"github.com/crapstable/craps-backend/models"
	"github.com/crapstable/craps-backend/utils/logger"
	"github.com/crapstable/craps-backend/wscodec"
)

// Client is one realtime connection. Reads and writes run in separate
// pumps; writes go through the buffered send channel so a slow consumer
// never blocks the table.
type Client struct {
	id       string
	conn     net.Conn
	rw       *bufio.ReadWriter
	hub      *Hub
	send     chan []byte
	playerID *uint
	once     sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// trySend queues a message, dropping it if the client's buffer is full
// or the channel is already closed.
func (c *Client) trySend(msg []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf("ws client %s: send on closed channel", c.id)
		}
	}()
	select {
	case c.send <- msg:
	default:
		logger.Infof("ws client %s: dropping message", c.id)
	}
}

func (c *Client) sendEvent(event envelope) {
	raw, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("ws client %s: marshal %s: %v", c.id, event.Type, err)
		return
	}
	c.trySend(raw)
}

// wsRequest is the client-to-server action payload.
type wsRequest struct {
	Action   string            `json:"action"`
	PlayerID uint              `json:"player_id"`
	Name     string            `json:"name"`
	Role     models.PlayerRole `json:"role"`
	BetType  models.BetType    `json:"bet_type"`
	Amount   models.Cents      `json:"amount"`
}

func (c *Client) readPump() {
	defer c.hub.remove(c.id)

	for {
		payload, err := wscodec.ReadText(c.rw.Reader)
		if err != nil {
			if !errors.Is(err, wscodec.ErrConnectionClosed) {
				logger.Debugf("ws client %s: read: %v", c.id, err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			logger.Debugf("ws client %s: invalid message: %v", c.id, err)
			continue
		}
		c.handle(&req)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := wscodec.WriteText(c.rw.Writer, msg); err != nil {
			logger.Debugf("ws client %s: write: %v", c.id, err)
			return
		}
		if err := c.rw.Writer.Flush(); err != nil {
			return
		}
	}
}

func (c *Client) handle(req *wsRequest) {
	table := c.hub.table

	switch req.Action {
	case "register":
		// Bind an existing player id to this connection for liveness.
		if req.PlayerID != 0 {
			id := req.PlayerID
			c.playerID = &id
			table.Touch(id)
		}

	case "join":
		name := req.Name
		if name == "" {
			name = "Player"
		}
		role := req.Role
		if role == "" {
			role = models.RolePlayer
		}
		result, err := table.Join(name, role)
		if err != nil {
			c.sendEvent(envelope{Type: "error", Message: err.Error()})
			return
		}
		id := result.PlayerID
		c.playerID = &id
		c.sendEvent(envelope{Type: "join_result", Data: result})
		c.hub.BroadcastState()

	case "bet":
		c.touch()
		result, err := table.PlaceBet(req.PlayerID, req.BetType, req.Amount)
		if err != nil {
			c.sendEvent(envelope{Type: "error", Message: err.Error()})
			return
		}
		c.sendEvent(envelope{Type: "bet_result", Data: result})
		c.hub.BroadcastState()

	case "roll":
		c.touch()
		result, err := table.RollDice(req.PlayerID)
		if err != nil {
			c.sendEvent(envelope{Type: "error", Message: err.Error()})
			return
		}
		c.hub.BroadcastState()
		c.hub.Broadcast(envelope{Type: "roll_result", Data: result})

	case "ping":
		// Heartbeat doubles as a liveness refresh.
		c.touch()
		c.sendEvent(envelope{Type: "pong"})

	default:
		logger.Debugf("ws client %s: unknown action %q", c.id, req.Action)
	}
}

func (c *Client) touch() {
	if c.playerID != nil {
		c.hub.table.Touch(*c.playerID)
	}
}
