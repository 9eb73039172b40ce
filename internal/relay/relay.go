// ============================================================================
// schedclients - Fleet Scheduler Client Library
// ============================================================================
//
// Package:     relay
// Description: Websocket relay of scheduler updates
// Created:     2026-03-09
// License:     MIT
// ============================================================================

// Package relay republishes the updates of a client fleet to websocket
// clients as JSON messages.
package relay

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/msto63/schedclients/pkg/clients"
	"github.com/msto63/schedclients/pkg/core/health"
	"github.com/msto63/schedclients/pkg/core/logging"
)

const (
	// sendBuffer is the number of messages queued per websocket client
	sendBuffer = 64

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Source is what the relay reads updates and health from. *clients.Fleet
// implements it.
type Source interface {
	Observe(fn func(clients.Update), kinds ...string) (remove func())
	Health() *health.Registry
}

// Message is the JSON envelope sent to websocket clients
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// ErrorPayload is the payload of an "error" message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type peer struct {
	conn *websocket.Conn
	send chan Message
	once sync.Once
}

func (p *peer) close() {
	p.once.Do(func() { close(p.send) })
}

// Relay fans fleet updates out to websocket clients
type Relay struct {
	source Source
	logger *logging.Logger

	mu     sync.Mutex
	peers  map[*peer]struct{}
	closed bool
	remove func()
	wg     sync.WaitGroup
}

// New creates a relay and starts observing source
func New(source Source, logger *logging.Logger) *Relay {
	if logger == nil {
		logger = logging.New("relay")
	}
	r := &Relay{
		source: source,
		logger: logger,
		peers:  make(map[*peer]struct{}),
	}
	r.remove = source.Observe(r.publish)
	return r
}

// Clients returns the number of connected websocket clients
func (r *Relay) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}

func (r *Relay) publish(u clients.Update) {
	msg := Message{Type: u.Kind, Timestamp: u.Received, Payload: u.Payload}

	r.mu.Lock()
	defer r.mu.Unlock()
	for p := range r.peers {
		select {
		case p.send <- msg:
		default:
			r.logger.Warn("Websocket client too slow, update dropped",
				"remote", p.conn.RemoteAddr().String(),
				"type", u.Kind,
			)
		}
	}
}

// Handler returns the HTTP handler serving /ws and /healthz
func (r *Relay) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", r.ServeWS)
	mux.HandleFunc("/healthz", r.serveHealth)
	return loggingMiddleware(r.logger, mux)
}

// ServeWS upgrades the request and relays updates until the client leaves
func (r *Relay) ServeWS(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	p := &peer{conn: conn, send: make(chan Message, sendBuffer)}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		conn.Close()
		return
	}
	r.peers[p] = struct{}{}
	r.wg.Add(1)
	r.mu.Unlock()

	r.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	go r.writeLoop(p)
	r.readLoop(p)
}

func (r *Relay) drop(p *peer) {
	r.mu.Lock()
	if _, ok := r.peers[p]; ok {
		delete(r.peers, p)
		p.close()
	}
	r.mu.Unlock()
}

// readLoop answers pings and notices when the client goes away
func (r *Relay) readLoop(p *peer) {
	defer r.drop(p)

	p.conn.SetReadLimit(4096)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.logger.Error("WebSocket read error", "error", err)
			} else {
				r.logger.Info("WebSocket connection closed", "remote", p.conn.RemoteAddr().String())
			}
			return
		}

		reply := Message{Type: "pong", Timestamp: time.Now()}
		if msg.Type != "ping" {
			reply = Message{
				Type:      "error",
				Timestamp: time.Now(),
				Payload:   ErrorPayload{Code: "unknown_type", Message: "Unknown message type: " + msg.Type},
			}
		}

		r.mu.Lock()
		if _, ok := r.peers[p]; ok {
			select {
			case p.send <- reply:
			default:
			}
		}
		r.mu.Unlock()
	}
}

func (r *Relay) writeLoop(p *peer) {
	defer r.wg.Done()
	defer p.conn.Close()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := p.conn.WriteJSON(msg); err != nil {
				r.logger.Error("WebSocket send error", "error", err)
				r.drop(p)
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				r.drop(p)
				return
			}
		}
	}
}

func (r *Relay) serveHealth(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
	defer cancel()
	report := r.source.Health().Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if report.Status == health.StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(report); err != nil {
		r.logger.Error("Failed to write health report", "error", err)
	}
}

// Close stops observing the source and disconnects every client
func (r *Relay) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	for p := range r.peers {
		delete(r.peers, p)
		p.close()
	}
	r.mu.Unlock()

	r.remove()
	r.wg.Wait()
}

// ListenAndServe serves the relay on addr until ctx is done
func (r *Relay) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("Relay listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("relay server: %w", err)
	case <-ctx.Done():
	}

	r.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("relay shutdown: %w", err)
	}
	return nil
}

func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection
func (rw *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}
