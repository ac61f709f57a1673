package model

import "encoding/json"

// CastlingRights holds one flag per color and side. Rights are only ever revoked.
type CastlingRights uint8

const CastlingNone CastlingRights = 0

const (
	CastlingWhiteKingside CastlingRights = 1 << iota
	CastlingWhiteQueenside
	CastlingBlackKingside
	CastlingBlackQueenside

	CastlingAll = CastlingWhiteKingside | CastlingWhiteQueenside | CastlingBlackKingside | CastlingBlackQueenside
)

type CastlingSide uint8

const (
	Kingside CastlingSide = iota
	Queenside
)

func CastlingRight(color Color, side CastlingSide) CastlingRights {
	switch color {
	case White:
		if side == Queenside {
			return CastlingWhiteQueenside
		}
		return CastlingWhiteKingside
	case Black:
		if side == Queenside {
			return CastlingBlackQueenside
		}
		return CastlingBlackKingside
	}
	return CastlingNone
}

func (r CastlingRights) Allows(color Color, side CastlingSide) bool {
	right := CastlingRight(color, side)
	return right != CastlingNone && r&right != 0
}

func (r CastlingRights) revoke(rights CastlingRights) CastlingRights {
	return r &^ rights
}

func (r CastlingRights) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]bool{
		"whiteKingside":  r.Allows(White, Kingside),
		"whiteQueenside": r.Allows(White, Queenside),
		"blackKingside":  r.Allows(Black, Kingside),
		"blackQueenside": r.Allows(Black, Queenside),
	})
}

// castleGeometry is the fixed home-rank layout castling works from.
type castleGeometry struct {
	kingStart Square
	kingTo    Square
	rookFrom  Square
	rookTo    Square
}

func homeRow(color Color) int {
	if color == White {
		return 7
	}
	return 0
}

func castleLayout(color Color, side CastlingSide) castleGeometry {
	row := homeRow(color)
	if side == Queenside {
		return castleGeometry{
			kingStart: Square{Row: row, Col: 4},
			kingTo:    Square{Row: row, Col: 2},
			rookFrom:  Square{Row: row, Col: 0},
			rookTo:    Square{Row: row, Col: 3},
		}
	}
	return castleGeometry{
		kingStart: Square{Row: row, Col: 4},
		kingTo:    Square{Row: row, Col: 6},
		rookFrom:  Square{Row: row, Col: 7},
		rookTo:    Square{Row: row, Col: 5},
	}
}

// castleSideFor reports which castle, if any, a king move from->to targets.
func castleSideFor(color Color, from, to Square) (CastlingSide, bool) {
	for _, side := range []CastlingSide{Kingside, Queenside} {
		g := castleLayout(color, side)
		if from == g.kingStart && to == g.kingTo {
			return side, true
		}
	}
	return Kingside, false
}

// rightsLostBy returns the rights a mover gives up by leaving from.
// Capturing a never-moved rook on its corner does not revoke anything.
func rightsLostBy(piece Piece, from Square) CastlingRights {
	switch piece.Type {
	case King:
		return CastlingRight(piece.Color, Kingside) | CastlingRight(piece.Color, Queenside)
	case Rook:
		for _, side := range []CastlingSide{Kingside, Queenside} {
			if from == castleLayout(piece.Color, side).rookFrom {
				return CastlingRight(piece.Color, side)
			}
		}
	}
	return CastlingNone
}
