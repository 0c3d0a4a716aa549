package services

import (
	"bufio"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crapstable/craps-backend/utils/logger"
	"github.com/crapstable/craps-backend/wscodec"
)

// HandleWS upgrades an HTTP request to the realtime channel. A failed
// handshake drops only the offending connection.
func (h *Hub) HandleWS(c *gin.Context) {
	if !strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade required"})
		return
	}
	key := c.GetHeader("Sec-WebSocket-Key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing Sec-WebSocket-Key"})
		return
	}

	hijacker, ok := c.Writer.(http.Hijacker)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "connection cannot be hijacked"})
		return
	}
	conn, rw, err := hijacker.Hijack()
	if err != nil {
		logger.Errorf("ws hijack: %v", err)
		return
	}

	if _, err := rw.WriteString(wscodec.HandshakeResponse(key)); err != nil {
		conn.Close()
		return
	}
	if err := rw.Flush(); err != nil {
		conn.Close()
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		rw:   bufio.NewReadWriter(rw.Reader, bufio.NewWriter(conn)),
		hub:  h,
		send: make(chan []byte, 32),
	}
	h.add(client)

	go client.writePump()
	go client.readPump()
}
