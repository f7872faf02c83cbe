package websocket

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-duel/internal/service"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
)

// RejectReason is sent to a connection that arrives when both seats are taken.
const RejectReason = "Only two players are allowed."

const sendFailedReason = "send buffer full"

// Conn - a live client connection as the hub sees it.
// Send must not block and Close must not call back into the hub.
type Conn interface {
	ID() string
	Send(data []byte) error
	Close(code int, reason string)
}

type eventNotifier interface {
	Notify(event entity.GameEvent)
}

type HubOptions struct {
	// AutoResetDelay starts a new game this long after one finishes. Zero disables it.
	AutoResetDelay      time.Duration
	NotifyRejectedMoves bool
}

type messageHandler func(conn Conn, seat entity.PlayerIndex, msg *Message) error

// Hub - owns the game session and the two seats, and fans state out to connections.
type Hub struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	notifier eventNotifier
	options  HubOptions
	now      func() time.Time

	mu          sync.Mutex
	session     *tictactoe.Session
	seats       *service.SeatManager
	connections map[string]Conn
	generation  uint64
	resetTimer  *time.Timer

	handlers map[MessageType]messageHandler
}

func NewHub(logger *slog.Logger, options HubOptions, m *metrics.Metrics, notifier eventNotifier) *Hub {
	hub := &Hub{
		logger:   logger.With("component", "hub"),
		metrics:  m,
		notifier: notifier,
		options:  options,
		now:      time.Now,

		session:     tictactoe.NewSession(),
		seats:       service.NewSeatManager(),
		connections: make(map[string]Conn),

		handlers: make(map[MessageType]messageHandler),
	}

	hub.handlers[TypeMakeMove] = hub.handleMakeMove
	hub.handlers[TypeRequestGameReset] = hub.handleRequestGameReset

	return hub
}

// HasFreeSeat - reports whether a new connection could be seated right now.
func (that *Hub) HasFreeSeat() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return !that.seats.Full()
}

// Connect - seats the connection and sends it the current game.
// When no seat is free the connection is closed with a policy violation.
func (that *Hub) Connect(conn Conn) error {
	log := that.logger.With("method", "Connect", "clientID", conn.ID())

	that.mu.Lock()
	defer that.mu.Unlock()

	seat, err := that.seats.Assign(conn.ID())
	if err != nil {
		that.metrics.ConnectionRejected()
		log.Warn("rejecting connection", "error", err)
		conn.Close(gorillaws.ClosePolicyViolation, RejectReason)

		return fmt.Errorf("could not seat connection: %w", err)
	}

	that.connections[conn.ID()] = conn
	that.metrics.SetSeated(that.seats.Occupied())
	that.notify(entity.NewSeatEvent(entity.EventSeatTaken, seat, that.now()))

	log.Info("client connected", "player", seat)

	that.sendTo(conn, TypeConnected, ConnectedPayload{ClientID: conn.ID(), Player: seat})
	that.sendTo(conn, TypeUpdateGame, newUpdateGamePayload(that.session.Snapshot()))

	return nil
}

// Receive - decodes one inbound frame and dispatches it. Bad frames are dropped.
func (that *Hub) Receive(conn Conn, data []byte) error {
	log := that.logger.With("method", "Receive", "clientID", conn.ID())

	msg, err := Decode(data)
	if err != nil {
		that.dropMessage(err)
		log.Warn("dropping message", "error", err)

		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	seat, ok := that.seats.SeatOf(conn.ID())
	if !ok {
		log.Warn("message from a connection without a seat", "type", msg.Type)
		return nil
	}

	handler, ok := that.handlers[msg.Type]
	if !ok {
		that.metrics.MessageDropped(metrics.DropUnknown)
		log.Warn("dropping message", "type", msg.Type, "error", ErrUnknownMessage)

		return fmt.Errorf("%w: %s is not accepted from clients", ErrUnknownMessage, msg.Type)
	}

	if err = handler(conn, seat, msg); err != nil {
		log.Info("message not applied", "type", msg.Type, "error", err)
		return err
	}

	return nil
}

// Disconnect - frees the connection's seat and restarts the game for whoever is left.
// Calling it again for the same connection does nothing.
func (that *Hub) Disconnect(conn Conn) {
	log := that.logger.With("method", "Disconnect", "clientID", conn.ID())

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.connections[conn.ID()]; !ok {
		return
	}

	delete(that.connections, conn.ID())

	vacancy, ok := that.seats.Vacate(conn.ID())
	if !ok {
		return
	}

	that.metrics.SetSeated(that.seats.Occupied())
	that.notify(entity.NewSeatEvent(entity.EventSeatVacated, vacancy.Seat, that.now()))

	log.Info("client disconnected", "player", vacancy.Seat)

	if vacancy.Reassigned {
		holder, _ := that.seats.Holder(entity.PlayerX)
		if moved, found := that.connections[holder]; found {
			log.Info("player reassigned", "clientID", holder, "player", entity.PlayerX)
			that.sendTo(moved, TypePlayerReassigned, PlayerReassignedPayload{NewPlayerNumber: entity.PlayerX})
		}
	}

	that.reset(metrics.ResetSeatVacated)
	that.broadcast(TypeUpdateGame, newUpdateGamePayload(that.session.Snapshot()))
	that.broadcast(TypePlayerDisconnected, PlayerDisconnectedPayload{DisconnectedPlayer: vacancy.Seat})
}

// Close - stops the pending auto-reset and closes every connection.
func (that *Hub) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.generation++
	that.stopResetTimer()

	for _, conn := range that.connections {
		conn.Close(gorillaws.CloseGoingAway, "server shutting down")
	}
}

// reset - starts a new game and invalidates any scheduled auto-reset. Caller holds mu.
func (that *Hub) reset(cause string) {
	that.session.Reset()
	that.generation++
	that.stopResetTimer()

	that.metrics.Reset(cause)
	that.notify(entity.NewResetEvent(cause, that.now()))
}

func (that *Hub) stopResetTimer() {
	if that.resetTimer != nil {
		that.resetTimer.Stop()
		that.resetTimer = nil
	}
}

// scheduleAutoReset - caller holds mu.
func (that *Hub) scheduleAutoReset() {
	if that.options.AutoResetDelay <= 0 {
		return
	}

	generation := that.generation
	that.resetTimer = time.AfterFunc(that.options.AutoResetDelay, func() {
		that.autoReset(generation)
	})
}

func (that *Hub) autoReset(generation uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if generation != that.generation || !that.session.Outcome().IsTerminal() {
		return
	}

	that.logger.Info("starting a new game after game over", "method", "autoReset")

	that.reset(metrics.ResetAuto)
	that.broadcast(TypeUpdateGame, newUpdateGamePayload(that.session.Snapshot()))
}

// broadcast - encodes once and queues the frame for every connection. Caller holds mu.
func (that *Hub) broadcast(msgType MessageType, payload any) {
	data, err := Encode(msgType, payload)
	if err != nil {
		that.logger.Error("failed to encode broadcast", "type", msgType, "error", err)
		return
	}

	for _, conn := range that.connections {
		that.send(conn, msgType, data)
	}
}

func (that *Hub) sendTo(conn Conn, msgType MessageType, payload any) {
	data, err := Encode(msgType, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "type", msgType, "error", err)
		return
	}

	that.send(conn, msgType, data)
}

// send - a connection that cannot take the frame is closed and later reaped by Disconnect.
func (that *Hub) send(conn Conn, msgType MessageType, data []byte) {
	if err := conn.Send(data); err != nil {
		that.metrics.SendFailed()
		that.logger.Warn("failed to send message, closing connection",
			"clientID", conn.ID(), "type", msgType, "error", err)
		conn.Close(gorillaws.CloseTryAgainLater, sendFailedReason)
	}
}

func (that *Hub) notify(event entity.GameEvent) {
	if that.notifier != nil {
		that.notifier.Notify(event)
	}
}

func (that *Hub) dropMessage(err error) {
	reason := metrics.DropMalformed
	if isUnknown(err) {
		reason = metrics.DropUnknown
	}

	that.metrics.MessageDropped(reason)
}
