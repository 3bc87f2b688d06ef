package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// SubscribeAll é o tópico curinga: recebe atualização de qualquer stake
const SubscribeAll = "*"

// Hub gerencia conexões WebSocket e assinaturas de mudanças de status
// subs: mapeia stakeID para o conjunto de conexões inscritas
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// stakeID -> set of connections
	subs map[string]map[*websocket.Conn]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*websocket.Conn]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe por stake (ou "*") e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.mu.Lock()
			if _, ok := h.subs[msg.StakeID]; !ok {
				h.subs[msg.StakeID] = make(map[*websocket.Conn]struct{})
			}
			h.subs[msg.StakeID][conn] = struct{}{}
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			if m, ok := h.subs[msg.StakeID]; ok {
				delete(m, conn)
				if len(m) == 0 {
					delete(h.subs, msg.StakeID)
				}
			}
			h.mu.Unlock()
		case "ping":
			_ = conn.WriteJSON(map[string]string{"type": "pong"})
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for _, set := range h.subs {
		delete(set, conn)
	}
	h.mu.Unlock()
}

// Broadcast envia a atualização para os inscritos na stake e no curinga
func (h *Hub) Broadcast(update StakeUpdate) {
	h.mu.RLock()
	conns := make(map[*websocket.Conn]struct{}, len(h.subs[update.StakeID])+len(h.subs[SubscribeAll]))
	for c := range h.subs[update.StakeID] {
		conns[c] = struct{}{}
	}
	for c := range h.subs[SubscribeAll] {
		conns[c] = struct{}{}
	}
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	b, _ := json.Marshal(update)
	for c := range conns {
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}
