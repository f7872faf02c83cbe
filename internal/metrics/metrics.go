package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tictactoe"

const (
	MoveAccepted = "accepted"
	MoveRejected = "rejected"

	OutcomeX    = "x"
	OutcomeO    = "o"
	OutcomeDraw = "draw"

	DropMalformed = "malformed"
	DropUnknown   = "unknown"

	ResetRequested   = "requested"
	ResetSeatVacated = "seat_vacated"
	ResetAuto        = "auto"
)

// Metrics - collectors describing the hub. A nil *Metrics records nothing.
type Metrics struct {
	SeatedConnections    prometheus.Gauge
	RejectedConnections  prometheus.Counter
	Moves                *prometheus.CounterVec
	GamesFinished        *prometheus.CounterVec
	DroppedMessages      *prometheus.CounterVec
	BroadcastSendFailure prometheus.Counter
	Resets               *prometheus.CounterVec
}

// New - creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		SeatedConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seated_connections",
			Help:      "Number of connections currently holding a seat.",
		}),
		RejectedConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_connections_total",
			Help:      "Connections turned away because both seats were occupied.",
		}),
		Moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Move requests by result.",
		}, []string{"result"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by outcome.",
		}, []string{"outcome"}),
		DroppedMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_messages_total",
			Help:      "Inbound messages dropped before dispatch.",
		}, []string{"reason"}),
		BroadcastSendFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_send_failures_total",
			Help:      "Broadcast frames that could not be queued for a connection.",
		}),
		Resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Session resets by cause.",
		}, []string{"cause"}),
	}

	reg.MustRegister(
		metrics.SeatedConnections,
		metrics.RejectedConnections,
		metrics.Moves,
		metrics.GamesFinished,
		metrics.DroppedMessages,
		metrics.BroadcastSendFailure,
		metrics.Resets,
	)

	return metrics
}

func (that *Metrics) SetSeated(count int) {
	if that == nil {
		return
	}

	that.SeatedConnections.Set(float64(count))
}

func (that *Metrics) ConnectionRejected() {
	if that == nil {
		return
	}

	that.RejectedConnections.Inc()
}

func (that *Metrics) Move(result string) {
	if that == nil {
		return
	}

	that.Moves.WithLabelValues(result).Inc()
}

func (that *Metrics) GameFinished(outcome string) {
	if that == nil {
		return
	}

	that.GamesFinished.WithLabelValues(outcome).Inc()
}

func (that *Metrics) MessageDropped(reason string) {
	if that == nil {
		return
	}

	that.DroppedMessages.WithLabelValues(reason).Inc()
}

func (that *Metrics) SendFailed() {
	if that == nil {
		return
	}

	that.BroadcastSendFailure.Inc()
}

func (that *Metrics) Reset(cause string) {
	if that == nil {
		return
	}

	that.Resets.WithLabelValues(cause).Inc()
}
