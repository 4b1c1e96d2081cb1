// Package livereload tells open browser tabs to reload when the site or its
// data documents change on disk.
package livereload

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// SocketPath is the websocket endpoint browsers connect to.
	SocketPath = "/__livereload"
	// ScriptPath serves the client script.
	ScriptPath = "/__livereload.js"

	// ReloadMessage is sent to every client on change.
	ReloadMessage = "reload"

	writeWait = 5 * time.Second
)

// ScriptTag is appended to every served page while live reload is on.
const ScriptTag = `<script src="` + ScriptPath + `"></script>`

const clientScript = `(function () {
  var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  var socket = new WebSocket(proto + '//' + location.host + '` + SocketPath + `');
  socket.onmessage = function (e) {
    if (e.data === '` + ReloadMessage + `') location.reload();
  };
})();
`

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks connected browsers.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *zap.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{clients: make(map[*websocket.Conn]struct{}), logger: logger}
}

// RegisterRoutes mounts the socket and script endpoints.
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Get(SocketPath, h.ServeWS)
	r.Get(ScriptPath, h.ServeScript)
}

// ServeScript writes the client script.
func (h *Hub) ServeScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(clientScript))
}

// ServeWS upgrades the request and keeps the client registered until it
// disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("livereload: websocket upgrade", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Clients never send anything meaningful; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("livereload: websocket read", zap.Error(err))
			}
			return
		}
	}
}

// Broadcast sends msg to every client and returns how many received it.
func (h *Hub) Broadcast(msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			h.logger.Debug("livereload: websocket write", zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
		conn.Close()
	}
}
