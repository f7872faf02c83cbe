package websocket

import (
	"log/slog"
	"net/http"
	"slices"

	gorillaws "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-duel/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-duel/internal/pkg"
)

type Server struct {
	logger   *slog.Logger
	hub      *Hub
	metrics  *metrics.Metrics
	options  ConnectionOptions
	upgrader gorillaws.Upgrader
}

// New - creates the handler that upgrades /ws requests and hands connections to the hub.
// An empty allowedOrigins accepts any origin.
func New(logger *slog.Logger, hub *Hub, m *metrics.Metrics, options ConnectionOptions, allowedOrigins []string) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		hub:     hub,
		metrics: m,
		options: options,
	}

	server.upgrader = gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(req *http.Request) bool {
			origin := req.Header.Get("Origin")
			return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
		},
	}

	return server
}

// ServeHTTP - upgrades the request unless both seats are already taken.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP", "remote", req.RemoteAddr)

	if !that.hub.HasFreeSeat() {
		that.metrics.ConnectionRejected()
		log.Info("rejecting connection, no free seat")
		http.Error(writer, RejectReason, http.StatusForbidden)
		return
	}

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		// the upgrader has already replied
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(that.logger, pkg.GenerateClientID(), ws, that.options)
	go conn.writePump()

	// a concurrent upgrade may have taken the last seat; Connect closes conn then
	if err = that.hub.Connect(conn); err != nil {
		return
	}

	go conn.readPump(that.hub)
}
