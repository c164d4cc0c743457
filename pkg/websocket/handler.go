package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"dualshot/config"
	"dualshot/pkg/jwt"
	"dualshot/pkg/logger"
	"dualshot/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域
	},
}

// Handler 返回 /ws 路由处理函数
// token 可以放在 query 参数中，也可以放在 Sec-WebSocket-Protocol 中
func (h *Hub) Handler(jwtSvc *jwt.JWTService, cfg config.WebSocketConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Sec-WebSocket-Protocol"), "Bearer ")
		}
		if token == "" {
			response.Unauthorized(c, "缺少token")
			return
		}

		claims, err := jwtSvc.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "token无效或已过期")
			return
		}
		userID, _ := claims.AccountID()

		// 回显子协议，避免客户端提示 "Server sent no subprotocol"
		respHeader := http.Header{}
		if protocol := c.GetHeader("Sec-WebSocket-Protocol"); protocol != "" {
			respHeader.Set("Sec-WebSocket-Protocol", protocol)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, respHeader)
		if err != nil {
			logger.Warn("WebSocket升级失败", zap.Error(err))
			return
		}

		client := &Client{
			UserID: userID,
			Conn:   conn,
			Send:   make(chan []byte, 64),
		}
		h.AddClient(client)
		logger.Info("WebSocket连接建立", zap.Uint("user_id", userID))
		defer func() {
			h.RemoveClient(client)
			logger.Info("WebSocket连接关闭", zap.Uint("user_id", userID))
		}()

		go writePump(client, cfg.PingInterval)
		h.readPump(client, cfg.ReadTimeout)
	}
}

// writePump 写协程，定时发送ping
func writePump(client *Client, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = client.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump 读协程，超时未收到任何数据则断开
func (h *Hub) readPump(client *Client, readTimeout time.Duration) {
	conn := client.Conn
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(payload, &msg) == nil && msg.Type == "heartbeat" {
			h.reply(client, []byte(`{"type":"pong"}`))
		}
	}
}
