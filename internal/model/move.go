package model

import (
	"encoding/json"
	"fmt"
)

// Classification tags every legal move and decides how it is executed.
type Classification uint8

const (
	ClassNone Classification = iota
	ClassNormal
	ClassEnPassant
	ClassCastle
)

func (c Classification) String() string {
	switch c {
	case ClassNormal:
		return "normal"
	case ClassEnPassant:
		return "en passant"
	case ClassCastle:
		return "castle"
	}
	return "none"
}

func (c Classification) MarshalJSON() ([]byte, error) {
	if c == ClassNone {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// MoveRecord is one entry of the append-only move history. Piece and Target hold the
// contents of From and To as they were before the move.
type MoveRecord struct {
	From           Square          `json:"from"`
	To             Square          `json:"to"`
	Piece          Piece           `json:"piece"`
	Target         Piece           `json:"target"`
	Classification Classification  `json:"classification"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Notation       string          `json:"notation"`
}

func (r MoveRecord) isPawnDoubleStep() bool {
	return r.Piece.Type == Pawn && abs(r.To.Row-r.From.Row) == 2
}

// SimpleMove is a (source, destination) request as it arrives from a client.
type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// UnmarshalJSON accepts either {"row":6,"col":4} objects or "e2" strings for each square.
func (m *SimpleMove) UnmarshalJSON(data []byte) error {
	var raw struct {
		From json.RawMessage `json:"from"`
		To   json.RawMessage `json:"to"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	from, err := decodeSquare(raw.From)
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	to, err := decodeSquare(raw.To)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}
	m.From, m.To = from, to
	return nil
}

func decodeSquare(data json.RawMessage) (Square, error) {
	if len(data) == 0 {
		return Square{}, fmt.Errorf("%w: missing square", ErrSquareOutOfRange)
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		return ParseSquare(name)
	}
	var sq Square
	if err := json.Unmarshal(data, &sq); err != nil {
		return Square{}, err
	}
	return sq, nil
}

type MoveResult struct {
	Accepted       bool           `json:"accepted"`
	Classification Classification `json:"classification"`
}
