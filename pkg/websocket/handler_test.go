package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dualshot/config"
	"dualshot/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Hub, *jwt.JWTService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtSvc := jwt.NewJWTService(config.JWTConfig{Secret: "ws-secret", ExpireTime: time.Hour, Issuer: "dualshot"})
	h := NewHub(nil)

	r := gin.New()
	r.GET("/ws", h.Handler(jwtSvc, config.WebSocketConfig{PingInterval: time.Second, ReadTimeout: 5 * time.Second}))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return h, jwtSvc, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestHandlerRejectsMissingToken(t *testing.T) {
	_, _, url := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandlerDeliversEventsAndHeartbeat(t *testing.T) {
	h, jwtSvc, url := newTestServer(t)
	token, err := jwtSvc.GenerateToken(7, nil)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.IsOnline(7) }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"heartbeat"}`)))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(msg))

	h.Notify(7, EventFriendAccepted, map[string]uint{"friend_id": 8})
	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, EventFriendAccepted, ev.Type)

	conn.Close()
	require.Eventually(t, func() bool { return !h.IsOnline(7) }, 2*time.Second, 10*time.Millisecond)
}

func TestHandlerAcceptsSubprotocolToken(t *testing.T) {
	h, jwtSvc, url := newTestServer(t)
	token, err := jwtSvc.GenerateToken(9, nil)
	require.NoError(t, err)

	dialer := websocket.Dialer{Subprotocols: []string{token}}
	conn, resp, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, token, resp.Header.Get("Sec-WebSocket-Protocol"))
	require.Eventually(t, func() bool { return h.IsOnline(9) }, time.Second, 10*time.Millisecond)
}
