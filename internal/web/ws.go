package web

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	appLog "github.com/SturdyFool10/CoreCalendar/internal/log"
	"github.com/SturdyFool10/CoreCalendar/internal/model"
)

// wsClient wraps a websocket connection. Writes from the read loop
// (echo) and the hub (broadcast) are serialized by mu so frames never
// interleave.
type wsClient struct {
	conn net.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return wsutil.WriteServerMessage(c.conn, ws.OpText, payload)
}

// hub tracks connected viewer clients.
type hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*wsClient]struct{})}
}

func (h *hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// broadcast sends payload to every client, dropping clients whose
// connection fails. Returns how many clients were reached.
func (h *hub) broadcast(payload []byte) int {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	sent := 0
	for _, c := range clients {
		if err := c.send(payload); err != nil {
			h.remove(c)
			_ = c.conn.Close()
			continue
		}
		sent++
	}
	return sent
}

// handleWS upgrades the connection and keeps it registered until the
// client goes away. Incoming text frames are echoed back, which the
// viewer uses as a liveness probe.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		appLog.Error("websocket upgrade failed", err, "remote", r.RemoteAddr)
		return
	}

	client := &wsClient{conn: conn}
	s.hub.add(client)
	appLog.Info("websocket client connected", "remote", r.RemoteAddr)

	go s.wsReadLoop(client, r.RemoteAddr)
}

func (s *Server) wsReadLoop(client *wsClient, remote string) {
	defer func() {
		s.hub.remove(client)
		_ = client.conn.Close()
		appLog.Info("websocket client disconnected", "remote", remote)
	}()

	for {
		msg, op, err := wsutil.ReadClientData(client.conn)
		if err != nil {
			return
		}
		if op == ws.OpText {
			if err := client.send(msg); err != nil {
				return
			}
		}
	}
}

// wsMessage is the JSON payload pushed to viewer clients.
type wsMessage struct {
	Type string `json:"type"`
	Day  string `json:"day,omitempty"`
}

// NotifyLayoutChanged tells connected viewers a fresh sheet exists for
// the given day. The refresh loop in cmd/corecal calls this each tick.
func (s *Server) NotifyLayoutChanged(day model.Date) {
	payload, err := json.Marshal(wsMessage{Type: "layout_updated", Day: day.String()})
	if err != nil {
		return
	}
	if n := s.hub.broadcast(payload); n > 0 {
		appLog.Debug("notified websocket clients", "clients", n, "day", day.String())
	}
}

// NotifyDataChanged tells connected viewers the event set changed and
// the current view should be refetched.
func (s *Server) NotifyDataChanged() {
	payload, err := json.Marshal(wsMessage{Type: "data_changed"})
	if err != nil {
		return
	}
	if n := s.hub.broadcast(payload); n > 0 {
		appLog.Debug("notified websocket clients", "clients", n)
	}
}
