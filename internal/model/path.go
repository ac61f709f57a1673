package model

// pathClear reports whether every square strictly between from and to is empty.
// Knights jump and are never blocked. Only straight and diagonal shapes reach here
// for other pieces, so unit steps always land on to.
func pathClear(pos *Position, piece Piece, from, to Square) bool {
	if piece.Type == Knight {
		return true
	}
	stepRow, stepCol := sign(to.Row-from.Row), sign(to.Col-from.Col)
	for sq := (Square{Row: from.Row + stepRow, Col: from.Col + stepCol}); sq != to; {
		if !sq.InBounds() {
			return false
		}
		if !pos.At(sq).IsEmpty() {
			return false
		}
		sq = Square{Row: sq.Row + stepRow, Col: sq.Col + stepCol}
	}
	return true
}
