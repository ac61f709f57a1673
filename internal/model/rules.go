package model

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func sign[T constraints.Signed](v T) T {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// moveContext is everything the rule table may look at. lastMove is nil when the
// history is empty.
type moveContext struct {
	from, to Square
	piece    Piece
	target   Piece
	rights   CastlingRights
	lastMove *MoveRecord
}

func (m moveContext) deltas() (int, int) {
	return m.to.Row - m.from.Row, m.to.Col - m.from.Col
}

// pieceRule decides geometric legality and classification for one move. It does not
// know about blocking pieces.
func pieceRule(m moveContext) (bool, Classification, error) {
	dRow, dCol := m.deltas()
	switch m.piece.Type {
	case King:
		return kingRule(m, dRow, dCol)
	case Queen:
		return classify(isStraight(dRow, dCol) || isDiagonal(dRow, dCol))
	case Rook:
		return classify(isStraight(dRow, dCol))
	case Bishop:
		return classify(isDiagonal(dRow, dCol))
	case Knight:
		return classify(isKnightJump(dRow, dCol))
	case Pawn:
		return pawnRule(m, dRow, dCol)
	}
	return false, ClassNone, fmt.Errorf("%w: %q at %s", ErrUnknownPieceKind, m.piece.Type, m.from)
}

func classify(ok bool) (bool, Classification, error) {
	if !ok {
		return false, ClassNone, nil
	}
	return true, ClassNormal, nil
}

func isStraight(dRow, dCol int) bool {
	return (dRow == 0) != (dCol == 0)
}

func isDiagonal(dRow, dCol int) bool {
	return dRow != 0 && abs(dRow) == abs(dCol)
}

func isKnightJump(dRow, dCol int) bool {
	r, c := abs(dRow), abs(dCol)
	return (r == 1 && c == 2) || (r == 2 && c == 1)
}

func kingRule(m moveContext, dRow, dCol int) (bool, Classification, error) {
	if side, ok := castleSideFor(m.piece.Color, m.from, m.to); ok {
		if !m.rights.Allows(m.piece.Color, side) || !m.target.IsEmpty() {
			return false, ClassNone, nil
		}
		return true, ClassCastle, nil
	}
	return classify(abs(dRow) <= 1 && abs(dCol) <= 1)
}

type pawnRanks struct {
	forward   int
	startRow  int
	passerRow int
}

func pawnRanksFor(color Color) pawnRanks {
	if color == White {
		return pawnRanks{forward: -1, startRow: 6, passerRow: 3}
	}
	return pawnRanks{forward: 1, startRow: 1, passerRow: 4}
}

func pawnRule(m moveContext, dRow, dCol int) (bool, Classification, error) {
	ranks := pawnRanksFor(m.piece.Color)
	diag := abs(dRow) == 1 && abs(dCol) == 1 && dRow == ranks.forward

	if diag && m.target.IsEmpty() && m.from.Row == ranks.passerRow && capturesEnPassant(m) {
		return true, ClassEnPassant, nil
	}
	if diag && !m.target.IsEmpty() && m.target.Color != m.piece.Color {
		return true, ClassNormal, nil
	}

	if dCol != 0 || !m.target.IsEmpty() {
		return false, ClassNone, nil
	}
	switch dRow {
	case ranks.forward:
		return true, ClassNormal, nil
	case 2 * ranks.forward:
		return classify(m.from.Row == ranks.startRow)
	}
	return false, ClassNone, nil
}

// capturesEnPassant checks only the latest history entry: it must be a pawn double step
// landing on the destination file, beside the capturing pawn.
func capturesEnPassant(m moveContext) bool {
	last := m.lastMove
	if last == nil || !last.isPawnDoubleStep() {
		return false
	}
	return last.To.Col == m.to.Col && abs(m.from.Col-last.To.Col) == 1
}
