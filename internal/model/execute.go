package model

// execute mutates the position for an already validated move and appends the history
// record. It is never called for a rejected move.
func (e *Engine) execute(from, to Square, class Classification) {
	record := MoveRecord{
		From:           from,
		To:             to,
		Piece:          e.position.At(from),
		Target:         e.position.At(to),
		Classification: class,
		Notation:       from.String() + to.String(),
	}

	switch class {
	case ClassEnPassant:
		e.relocate(from, to)
		// the captured pawn sits beside the source, on the destination file
		e.position.set(Square{Row: from.Row, Col: to.Col}, Empty)
	case ClassCastle:
		record.CastleRookMove = e.castle(record.Piece.Color, from, to)
	default:
		e.relocate(from, to)
	}

	e.history = append(e.history, record)
}

func (e *Engine) relocate(from, to Square) {
	e.position.set(to, e.position.At(from))
	e.position.set(from, Empty)
}

func (e *Engine) castle(color Color, from, to Square) *CastleRookMove {
	side, _ := castleSideFor(color, from, to)
	g := castleLayout(color, side)

	king := e.position.At(g.kingStart)
	rook := e.position.At(g.rookFrom)
	e.position.set(g.kingTo, king)
	e.position.set(g.rookTo, rook)
	e.position.set(g.kingStart, Empty)
	e.position.set(g.rookFrom, Empty)

	return &CastleRookMove{From: g.rookFrom, To: g.rookTo}
}
