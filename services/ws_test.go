package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crapstable/craps-backend/models"
)

type wsEvent struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// newWSServer exposes a hub on a test HTTP server and returns a dialed
// connection from an independent websocket implementation, so the
// hand-rolled server framing is exercised against a second party.
func newWSServer(t *testing.T, rolls ...[2]int) (*Hub, *websocket.Conn) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	tbl, _ := newTestTable(t, rolls...)
	hub := NewHub(tbl)

	router := gin.New()
	router.GET("/ws", hub.HandleWS)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return hub, conn
}

func sendAction(t *testing.T, conn *websocket.Conn, req map[string]any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))
}

// awaitEvent reads until an event of the wanted type arrives, skipping
// interleaved broadcasts.
func awaitEvent(t *testing.T, conn *websocket.Conn, eventType string) wsEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var ev wsEvent
		require.NoError(t, conn.ReadJSON(&ev))
		if ev.Type == eventType {
			return ev
		}
	}
}

func TestWSRejectsPlainHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tbl, _ := newTestTable(t)
	hub := NewHub(tbl)

	router := gin.New()
	router.GET("/ws", hub.HandleWS)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWSJoinFlow(t *testing.T) {
	hub, conn := newWSServer(t)

	sendAction(t, conn, map[string]any{"action": "join", "name": "Ada"})

	ev := awaitEvent(t, conn, "join_result")
	var join JoinResult
	require.NoError(t, json.Unmarshal(ev.Data, &join))
	assert.True(t, join.Success)
	assert.NotZero(t, join.PlayerID)

	// Every committed mutation is followed by a state broadcast.
	ev = awaitEvent(t, conn, "game_state")
	var snap Snapshot
	require.NoError(t, json.Unmarshal(ev.Data, &snap))
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "Ada", snap.Players[0].Name)
	require.NotNil(t, snap.ShooterID)
	assert.Equal(t, join.PlayerID, *snap.ShooterID)

	assert.Equal(t, 1, hub.clientCount())
}

func TestWSBetAndRoll(t *testing.T) {
	_, conn := newWSServer(t, [2]int{3, 4})

	sendAction(t, conn, map[string]any{"action": "join", "name": "Ada"})
	ev := awaitEvent(t, conn, "join_result")
	var join JoinResult
	require.NoError(t, json.Unmarshal(ev.Data, &join))
	require.True(t, join.Success)

	sendAction(t, conn, map[string]any{
		"action": "bet", "player_id": join.PlayerID,
		"bet_type": "pass_line", "amount": 10.00,
	})
	ev = awaitEvent(t, conn, "bet_result")
	var bet BetResult
	require.NoError(t, json.Unmarshal(ev.Data, &bet))
	assert.True(t, bet.Success, bet.Message)
	assert.Equal(t, models.Cents(99000), bet.NewBankroll)

	sendAction(t, conn, map[string]any{"action": "roll", "player_id": join.PlayerID})
	ev = awaitEvent(t, conn, "roll_result")
	var roll RollResult
	require.NoError(t, json.Unmarshal(ev.Data, &roll))
	require.True(t, roll.Success)
	require.NotNil(t, roll.Roll)
	assert.Equal(t, 7, roll.Roll.Total)
	assert.Contains(t, roll.Roll.Message, "Natural")
}

func TestWSPingPong(t *testing.T) {
	_, conn := newWSServer(t)

	sendAction(t, conn, map[string]any{"action": "ping"})
	ev := awaitEvent(t, conn, "pong")
	assert.Equal(t, "pong", ev.Type)
}

func TestWSClientRemovedOnDisconnect(t *testing.T) {
	hub, conn := newWSServer(t)

	sendAction(t, conn, map[string]any{"action": "ping"})
	awaitEvent(t, conn, "pong")
	require.Equal(t, 1, hub.clientCount())

	conn.Close()
	require.Eventually(t, func() bool {
		return hub.clientCount() == 0
	}, 2*time.Second, 20*time.Millisecond)
}
