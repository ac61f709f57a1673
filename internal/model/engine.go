package model

import (
	"fmt"
	"iter"
)

// Engine decides move legality and applies accepted moves. It is not safe for
// concurrent use; Game serializes access to it.
type Engine struct {
	position Position
	toMove   Color
	rights   CastlingRights
	history  []MoveRecord
}

// NewEngine starts from the standard layout, white to move, all castling rights held.
func NewEngine() *Engine {
	return NewEngineFromPosition(StartingPosition(), White, CastlingAll)
}

func NewEngineFromPosition(pos Position, toMove Color, rights CastlingRights) *Engine {
	return &Engine{
		position: pos,
		toMove:   toMove,
		rights:   rights,
		history:  make([]MoveRecord, 0),
	}
}

func (e *Engine) PieceAt(sq Square) Piece {
	return e.position.At(sq)
}

func (e *Engine) Position() Position {
	return e.position
}

func (e *Engine) ToMove() Color {
	return e.toMove
}

func (e *Engine) CastlingRights() CastlingRights {
	return e.rights
}

func (e *Engine) History() []MoveRecord {
	out := make([]MoveRecord, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) LastMove() (MoveRecord, bool) {
	if len(e.history) == 0 {
		return MoveRecord{}, false
	}
	return e.history[len(e.history)-1], true
}

// Validate runs the legality checks without touching engine state. An illegal move is
// reported as false with a nil error; an error means the input or the position is corrupt.
func (e *Engine) Validate(from, to Square) (bool, Classification, error) {
	if !from.InBounds() || !to.InBounds() {
		return false, ClassNone, fmt.Errorf("%w: %v -> %v", ErrSquareOutOfRange, from, to)
	}
	piece := e.position.At(from)
	target := e.position.At(to)

	if piece.IsEmpty() {
		return false, ClassNone, nil
	}
	if piece.Color != e.toMove {
		return false, ClassNone, nil
	}
	if !target.IsEmpty() && target.Color == piece.Color {
		return false, ClassNone, nil
	}

	m := moveContext{from: from, to: to, piece: piece, target: target, rights: e.rights}
	if last, ok := e.LastMove(); ok && piece.Type == Pawn {
		m.lastMove = &last
	}
	ok, class, err := pieceRule(m)
	if err != nil || !ok {
		return false, ClassNone, err
	}
	if !pathClear(&e.position, piece, from, to) {
		return false, ClassNone, nil
	}
	return true, class, nil
}

// ApplyMove validates the move and, when legal, commits the turn flip, castling-rights
// update, board mutation and history append together.
func (e *Engine) ApplyMove(from, to Square) (bool, Classification, error) {
	ok, class, err := e.Validate(from, to)
	if err != nil || !ok {
		return false, ClassNone, err
	}
	piece := e.position.At(from)
	e.rights = e.rights.revoke(rightsLostBy(piece, from))
	e.toMove = e.toMove.Opponent()
	e.execute(from, to, class)
	return true, class, nil
}

// LegalDestinations sweeps all 64 squares in row-major order. The sequence can be
// ranged over repeatedly and reflects the engine state at iteration time.
// It is stricter than Validate: an unknown piece kind on from is an error even when
// that piece belongs to the side not on move.
func (e *Engine) LegalDestinations(from Square) (iter.Seq2[Square, bool], error) {
	if !from.InBounds() {
		return nil, fmt.Errorf("%w: %v", ErrSquareOutOfRange, from)
	}
	if p := e.position.At(from); !p.IsEmpty() && !p.Type.known() {
		return nil, fmt.Errorf("%w: %q at %s", ErrUnknownPieceKind, p.Type, from)
	}
	return func(yield func(Square, bool) bool) {
		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				to := Square{Row: row, Col: col}
				ok, _, _ := e.Validate(from, to)
				if !yield(to, ok) {
					return
				}
			}
		}
	}, nil
}
