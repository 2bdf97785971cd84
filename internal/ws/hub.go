package ws

import (
	"sync"
)

// Hub keeps client sets per lot.
type Hub struct {
	rooms sync.Map // lotID (int64) -> *room
}

func NewHub() *Hub { return &Hub{} }

// Broadcast is called by the Redis subscriber.
func (h *Hub) Broadcast(lotID int64, msg []byte) {
	if v, ok := h.rooms.Load(lotID); ok {
		v.(*room).broadcast(msg)
	}
}

func (h *Hub) Join(lotID int64, c *clientConn) {
	r, _ := h.rooms.LoadOrStore(lotID, newRoom())
	r.(*room).add(c)
}

func (h *Hub) Leave(lotID int64, c *clientConn) {
	if v, ok := h.rooms.Load(lotID); ok {
		v.(*room).remove(c)
	}
}
