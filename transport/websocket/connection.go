package websocket

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	gorillaws "github.com/gorilla/websocket"
)

var (
	ErrSendBufferFull   = errors.New("send buffer is full")
	ErrConnectionClosed = errors.New("connection is closed")
)

const (
	defaultWriteWait      = 10 * time.Second
	defaultPongWait       = 60 * time.Second
	defaultSendBuffer     = 16
	defaultMaxMessageSize = 4096
)

type ConnectionOptions struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	SendBuffer     int
	MaxMessageSize int64
}

// connection - one upgraded client. The writer goroutine is the only one writing data frames.
type connection struct {
	id      string
	ws      *gorillaws.Conn
	logger  *slog.Logger
	options ConnectionOptions

	send chan []byte
	done chan struct{}

	closeOnce   sync.Once
	closeCode   int
	closeReason string
}

func (that ConnectionOptions) withDefaults() ConnectionOptions {
	if that.WriteWait <= 0 {
		that.WriteWait = defaultWriteWait
	}

	if that.PongWait <= 0 {
		that.PongWait = defaultPongWait
	}

	if that.PingPeriod <= 0 || that.PingPeriod >= that.PongWait {
		that.PingPeriod = that.PongWait * 9 / 10
	}

	if that.SendBuffer <= 0 {
		that.SendBuffer = defaultSendBuffer
	}

	if that.MaxMessageSize <= 0 {
		that.MaxMessageSize = defaultMaxMessageSize
	}

	return that
}

func newConnection(logger *slog.Logger, id string, ws *gorillaws.Conn, options ConnectionOptions) *connection {
	options = options.withDefaults()

	return &connection{
		id:      id,
		ws:      ws,
		logger:  logger.With("clientID", id),
		options: options,
		send:    make(chan []byte, options.SendBuffer),
		done:    make(chan struct{}),
	}
}

func (that *connection) ID() string {
	return that.id
}

// Send - queues a frame for the writer. It never blocks.
func (that *connection) Send(data []byte) error {
	select {
	case <-that.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case that.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close - asks the writer to send a close frame and drop the connection. Only the first call counts.
func (that *connection) Close(code int, reason string) {
	that.closeOnce.Do(func() {
		that.closeCode = code
		that.closeReason = reason
		close(that.done)
	})
}

// writePump - writes queued frames and keeps the connection alive with pings.
func (that *connection) writePump() {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(that.options.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.ws.Close()
	}()

	for {
		select {
		case data := <-that.send:
			_ = that.ws.SetWriteDeadline(time.Now().Add(that.options.WriteWait))
			if err := that.ws.WriteMessage(gorillaws.TextMessage, data); err != nil {
				log.Debug("failed to write message", "error", err)
				that.Close(gorillaws.CloseAbnormalClosure, "")
				return
			}
		case <-ticker.C:
			_ = that.ws.SetWriteDeadline(time.Now().Add(that.options.WriteWait))
			if err := that.ws.WriteMessage(gorillaws.PingMessage, nil); err != nil {
				log.Debug("failed to write ping", "error", err)
				that.Close(gorillaws.CloseAbnormalClosure, "")
				return
			}
		case <-that.done:
			// closeCode and closeReason are published by close(done)
			frame := gorillaws.FormatCloseMessage(that.closeCode, that.closeReason)
			if err := that.ws.WriteControl(gorillaws.CloseMessage, frame, time.Now().Add(that.options.WriteWait)); err != nil {
				log.Debug("failed to write close frame", "error", err)
			}
			return
		}
	}
}

// readPump - feeds inbound frames to the hub until the connection fails, then disconnects it.
func (that *connection) readPump(hub *Hub) {
	log := that.logger.With("method", "readPump")

	defer func() {
		hub.Disconnect(that)
		that.Close(gorillaws.CloseNormalClosure, "")
	}()

	that.ws.SetReadLimit(that.options.MaxMessageSize)
	_ = that.ws.SetReadDeadline(time.Now().Add(that.options.PongWait))
	that.ws.SetPongHandler(func(string) error {
		return that.ws.SetReadDeadline(time.Now().Add(that.options.PongWait))
	})

	for {
		msgType, data, err := that.ws.ReadMessage()
		if err != nil {
			if gorillaws.IsUnexpectedCloseError(err, gorillaws.CloseGoingAway, gorillaws.CloseNormalClosure, gorillaws.CloseNoStatusReceived) {
				log.Warn("connection closed unexpectedly", "error", err)
			} else {
				log.Debug("connection closed", "error", err)
			}
			return
		}

		if msgType != gorillaws.TextMessage {
			log.Warn("ignoring non-text frame", "frameType", msgType)
			continue
		}

		if err = hub.Receive(that, data); err != nil {
			log.Debug("frame not applied", "error", err)
		}
	}
}
