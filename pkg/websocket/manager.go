package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"dualshot/pkg/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 推送事件类型
const (
	EventFriendRequest  = "friend_request"
	EventFriendAccepted = "friend_accepted"
	EventNewPost        = "new_post"
	EventReaction       = "reaction"
	EventDailyPrompt    = "daily_prompt"
)

// Event 推送给客户端的消息
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	Time time.Time   `json:"time"`
}

// OfflineStore 离线通知存储，未启用时可为 nil
type OfflineStore interface {
	PushOffline(ctx context.Context, userID uint, payload []byte) error
	PopOffline(ctx context.Context, userID uint) ([][]byte, error)
}

// Client 代表一个WebSocket连接的账号
type Client struct {
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub 管理所有在线账号的连接，每个账号只保留最新的一条连接
type Hub struct {
	clients map[uint]*Client
	lock    sync.RWMutex
	offline OfflineStore
	now     func() time.Time
}

// NewHub 创建连接管理器
func NewHub(offline OfflineStore) *Hub {
	return &Hub{
		clients: make(map[uint]*Client),
		offline: offline,
		now:     time.Now,
	}
}

// AddClient 添加新连接，同一账号的旧连接会被关闭
func (h *Hub) AddClient(client *Client) {
	h.lock.Lock()
	if old, ok := h.clients[client.UserID]; ok && old != client {
		close(old.Send)
	}
	h.clients[client.UserID] = client
	h.lock.Unlock()

	if h.offline != nil {
		go h.flushOffline(client)
	}
}

// RemoveClient 移除连接，只有当前登记的就是该连接时才生效
func (h *Hub) RemoveClient(client *Client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if c, ok := h.clients[client.UserID]; ok && c == client {
		close(c.Send)
		delete(h.clients, client.UserID)
	}
}

// IsOnline 判断账号是否在线
func (h *Hub) IsOnline(userID uint) bool {
	h.lock.RLock()
	defer h.lock.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// OnlineCount 在线连接数
func (h *Hub) OnlineCount() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}

// Notify 给指定账号推送事件
func (h *Hub) Notify(userID uint, eventType string, data interface{}) {
	msg, err := h.encode(eventType, data)
	if err != nil {
		return
	}
	h.SendToUser(userID, msg)
}

// Broadcast 推送给所有在线账号
func (h *Hub) Broadcast(eventType string, data interface{}) int {
	msg, err := h.encode(eventType, data)
	if err != nil {
		return 0
	}
	h.lock.RLock()
	defer h.lock.RUnlock()
	sent := 0
	for _, c := range h.clients {
		select {
		case c.Send <- msg:
			sent++
		default:
		}
	}
	return sent
}

// SendToUser 推送原始消息，不在线时写入离线存储
// 返回是否已投递到在线连接
func (h *Hub) SendToUser(userID uint, msg []byte) bool {
	h.lock.RLock()
	client, ok := h.clients[userID]
	delivered := false
	if ok {
		select {
		case client.Send <- msg:
			delivered = true
		default:
			// 发送队列已满
		}
	}
	h.lock.RUnlock()

	if !ok && h.offline != nil {
		go h.storeOffline(userID, msg)
	}
	return delivered
}

// reply 只在 client 仍是当前连接时投递
func (h *Hub) reply(client *Client, msg []byte) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	if h.clients[client.UserID] != client {
		return
	}
	select {
	case client.Send <- msg:
	default:
	}
}

func (h *Hub) encode(eventType string, data interface{}) ([]byte, error) {
	msg, err := json.Marshal(Event{Type: eventType, Data: data, Time: h.now()})
	if err != nil {
		logger.Error("序列化推送事件失败", zap.String("type", eventType), zap.Error(err))
	}
	return msg, err
}

func (h *Hub) storeOffline(userID uint, msg []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.offline.PushOffline(ctx, userID, msg); err != nil {
		logger.Warn("保存离线通知失败", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// flushOffline 推送离线期间积累的通知
func (h *Hub) flushOffline(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := h.offline.PopOffline(ctx, client.UserID)
	if err != nil {
		logger.Warn("读取离线通知失败", zap.Uint("user_id", client.UserID), zap.Error(err))
		return
	}
	for _, msg := range events {
		h.lock.RLock()
		current := h.clients[client.UserID] == client
		if current {
			select {
			case client.Send <- msg:
			default:
				current = false
			}
		}
		h.lock.RUnlock()
		if !current {
			return
		}
	}
}
