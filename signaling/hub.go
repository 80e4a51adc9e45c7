package signaling

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Emitter is how the router hands outbound events to the transport layer.
// Every send is best effort: an unknown connection id is a no-op, not an
// error, because signaling targets routinely go stale mid-call.
type Emitter interface {
	Emit(connID, event string, data interface{})
	Broadcast(event string, data interface{})
	BroadcastExcept(connID, event string, data interface{})
}

// Hub owns the set of live client connections and implements Emitter over
// them. Events to one connection leave in submission order via the client's
// send channel; nothing is acknowledged or retried.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log,
	}
}

func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.log.Info("client connected", zap.String("connID", c.ID))
}

// Remove drops the client from the hub and closes its send channel, which
// stops the write pump. Safe to call for a client already removed.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	if ok {
		delete(h.clients, c.ID)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		h.log.Info("client disconnected", zap.String("connID", c.ID))
	}
}

func (h *Hub) Emit(connID, event string, data interface{}) {
	message, err := marshalEnvelope(event, data)
	if err != nil {
		h.log.Warn("dropping unmarshalable event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		// Stale or never-registered target; the relay degrades to a no-op.
		h.log.Debug("emit to unknown connection", zap.String("event", event), zap.String("connID", connID))
		return
	}
	client.enqueue(message, h.log)
}

func (h *Hub) Broadcast(event string, data interface{}) {
	h.broadcast("", event, data)
}

func (h *Hub) BroadcastExcept(connID, event string, data interface{}) {
	h.broadcast(connID, event, data)
}

func (h *Hub) broadcast(exceptConnID, event string, data interface{}) {
	message, err := marshalEnvelope(event, data)
	if err != nil {
		h.log.Warn("dropping unmarshalable event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, client := range h.clients {
		if id == exceptConnID {
			continue
		}
		client.enqueue(message, h.log)
	}
}

func marshalEnvelope(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
