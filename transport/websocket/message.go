package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
)

type MessageType string

const (
	TypeConnected          MessageType = "connected"
	TypeUpdateGame         MessageType = "updateGame"
	TypeGameOver           MessageType = "gameOver"
	TypePlayerDisconnected MessageType = "playerDisconnected"
	TypePlayerReassigned   MessageType = "playerReassigned"
	TypeMakeMove           MessageType = "makeMove"
	TypeRequestGameReset   MessageType = "requestGameReset"
	TypeMoveRejected       MessageType = "moveRejected"
)

var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrUnknownMessage   = errors.New("unknown message type")
)

// Envelope - the frame shape shared by every message: {"type": ..., "payload": {...}}.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Message - a decoded envelope. Payload holds a pointer to the payload struct of Type.
type Message struct {
	Type    MessageType
	Payload any
}

type ConnectedPayload struct {
	ClientID string             `json:"clientId"`
	Player   entity.PlayerIndex `json:"player"`
}

type UpdateGamePayload struct {
	Board      [entity.BoardSize]*string `json:"board"`
	PlayerTurn entity.PlayerIndex        `json:"playerTurn"`
	Winner     *string                   `json:"winner"`
	IsDraw     bool                      `json:"isDraw"`
}

type GameOverPayload struct {
	Winner *string `json:"winner"`
	IsDraw bool    `json:"isDraw"`
}

type PlayerDisconnectedPayload struct {
	DisconnectedPlayer entity.PlayerIndex `json:"disconnectedPlayer"`
}

type PlayerReassignedPayload struct {
	NewPlayerNumber entity.PlayerIndex `json:"newPlayerNumber"`
}

type MakeMovePayload struct {
	Position int                `json:"position"`
	Player   entity.PlayerIndex `json:"player"`
}

type RequestGameResetPayload struct{}

type MoveRejectedPayload struct {
	Position int    `json:"position"`
	Reason   string `json:"reason"`
}

type messageKind struct {
	required   []string
	newPayload func() any
}

var messageKinds = map[MessageType]messageKind{
	TypeConnected: {
		required:   []string{"clientId", "player"},
		newPayload: func() any { return &ConnectedPayload{} },
	},
	TypeUpdateGame: {
		required:   []string{"board", "playerTurn", "isDraw"},
		newPayload: func() any { return &UpdateGamePayload{} },
	},
	TypeGameOver: {
		required:   []string{"isDraw"},
		newPayload: func() any { return &GameOverPayload{} },
	},
	TypePlayerDisconnected: {
		required:   []string{"disconnectedPlayer"},
		newPayload: func() any { return &PlayerDisconnectedPayload{} },
	},
	TypePlayerReassigned: {
		required:   []string{"newPlayerNumber"},
		newPayload: func() any { return &PlayerReassignedPayload{} },
	},
	TypeMakeMove: {
		required:   []string{"position", "player"},
		newPayload: func() any { return &MakeMovePayload{} },
	},
	TypeRequestGameReset: {
		newPayload: func() any { return &RequestGameResetPayload{} },
	},
	TypeMoveRejected: {
		required:   []string{"position", "reason"},
		newPayload: func() any { return &MoveRejectedPayload{} },
	},
}

// Encode - wraps payload into an envelope of the given type.
func Encode(msgType MessageType, payload any) ([]byte, error) {
	if payload == nil {
		payload = struct{}{}
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", msgType, err)
	}

	data, err := json.Marshal(Envelope{Type: msgType, Payload: payloadJSON})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s envelope: %w", msgType, err)
	}

	return data, nil
}

// Decode - parses a frame and its payload. Payload fields required by the type must be present and not null.
func Decode(data []byte) (*Message, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	if envelope.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}

	kind, ok := messageKinds[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, envelope.Type)
	}

	payload := kind.newPayload()

	if len(envelope.Payload) == 0 || string(envelope.Payload) == "null" {
		if len(kind.required) > 0 {
			return nil, fmt.Errorf("%w: %s without payload", ErrMalformedMessage, envelope.Type)
		}

		return &Message{Type: envelope.Type, Payload: payload}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(envelope.Payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: payload is not an object: %w", ErrMalformedMessage, err)
	}

	for _, field := range kind.required {
		if raw, found := fields[field]; !found || string(raw) == "null" {
			return nil, fmt.Errorf("%w: %s payload missing %q", ErrMalformedMessage, envelope.Type, field)
		}
	}

	if err := json.Unmarshal(envelope.Payload, payload); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %w", ErrMalformedMessage, envelope.Type, err)
	}

	return &Message{Type: envelope.Type, Payload: payload}, nil
}

func symbolPtr(symbol string) *string {
	if symbol == "" {
		return nil
	}

	return &symbol
}

// newUpdateGamePayload - renders a session snapshot the way clients draw it.
func newUpdateGamePayload(snapshot tictactoe.Snapshot) UpdateGamePayload {
	var payload UpdateGamePayload

	for i, symbol := range snapshot.Board.Symbols() {
		payload.Board[i] = symbolPtr(symbol)
	}

	payload.PlayerTurn = snapshot.Turn
	payload.Winner = snapshot.Outcome.WinnerSymbol()
	payload.IsDraw = snapshot.Outcome.IsDraw()

	return payload
}

func newGameOverPayload(outcome entity.Outcome) GameOverPayload {
	return GameOverPayload{
		Winner: outcome.WinnerSymbol(),
		IsDraw: outcome.IsDraw(),
	}
}
