package model

import (
	"fmt"
	"strings"
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) known() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

func (p PieceType) letter() byte {
	switch p {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'p'
	}
	return '?'
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Piece is the content of a square. The zero value is Empty.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// Empty marks an unoccupied square.
var Empty = Piece{}

func (p Piece) IsEmpty() bool {
	return p == Empty
}

// Code renders the piece as a two-character code such as "wK" or "bp", "--" when empty.
func (p Piece) Code() string {
	if p.IsEmpty() {
		return "--"
	}
	side := byte('?')
	switch p.Color {
	case White:
		side = 'w'
	case Black:
		side = 'b'
	}
	return fmt.Sprintf("%c%c", side, p.Type.letter())
}

// Square addresses the board as (row, col). Row 0 is black's back rank, row 7 is white's.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// String returns the square in file/rank form, e.g. (6,4) is "e2".
func (s Square) String() string {
	return fmt.Sprintf("%c%d", s.Col+'a', 8-s.Row)
}

func ParseSquare(name string) (Square, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) != 2 || name[0] < 'a' || name[0] > 'h' || name[1] < '1' || name[1] > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrSquareOutOfRange, name)
	}
	return Square{Row: 8 - int(name[1]-'0'), Col: int(name[0] - 'a')}, nil
}

// Position is the 8x8 grid indexed [row][col].
type Position [8][8]Piece

func (p *Position) At(sq Square) Piece {
	return p[sq.Row][sq.Col]
}

func (p *Position) set(sq Square, piece Piece) {
	p[sq.Row][sq.Col] = piece
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func StartingPosition() Position {
	var pos Position
	for col, t := range backRank {
		pos[0][col] = Piece{Type: t, Color: Black}
		pos[7][col] = Piece{Type: t, Color: White}
		pos[1][col] = Piece{Type: Pawn, Color: Black}
		pos[6][col] = Piece{Type: Pawn, Color: White}
	}
	return pos
}
