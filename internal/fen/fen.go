// Package fen loads positions written in Forsyth-Edwards Notation into engine state.
package fen

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/dylhunn/dragontoothmg"

	"github.com/benbeisheim/movecheck-backend/internal/model"
)

const startPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid FEN")

// Setup is a parsed FEN ready to seed an engine.
type Setup struct {
	Position model.Position
	ToMove   model.Color
	Rights   model.CastlingRights
}

func (s Setup) Engine() *model.Engine {
	return model.NewEngineFromPosition(s.Position, s.ToMove, s.Rights)
}

// Parse reads placement, side to move and castling availability. The en-passant,
// halfmove and fullmove fields are accepted but not carried: the engine derives
// en passant from its own move history, which starts empty.
func Parse(s string) (setup Setup, err error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return Setup{}, fmt.Errorf("%w: expected at least 4 fields, got %d", ErrInvalidFEN, len(fields))
	}
	if err := checkPlacement(fields[0]); err != nil {
		return Setup{}, err
	}
	if fields[1] != "w" && fields[1] != "b" {
		return Setup{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}
	rights, err := parseCastling(fields[2])
	if err != nil {
		return Setup{}, err
	}
	if len(fields) < 6 {
		fields = append(fields, "0", "1")[:6]
	}
	// dragontoothmg misreads the rest of the record on a bad en-passant square
	fields[3] = "-"

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidFEN, r)
		}
	}()
	board := dragontoothmg.ParseFen(strings.Join(fields, " "))

	setup = Setup{Position: placement(&board), ToMove: model.Black, Rights: rights}
	if fields[1] == "w" {
		setup.ToMove = model.White
	}
	return setup, nil
}

func placement(board *dragontoothmg.Board) model.Position {
	var pos model.Position
	for _, side := range []struct {
		color model.Color
		bb    *dragontoothmg.Bitboards
	}{
		{model.White, &board.White},
		{model.Black, &board.Black},
	} {
		for _, set := range []struct {
			kind model.PieceType
			bits uint64
		}{
			{model.Pawn, side.bb.Pawns},
			{model.Knight, side.bb.Knights},
			{model.Bishop, side.bb.Bishops},
			{model.Rook, side.bb.Rooks},
			{model.Queen, side.bb.Queens},
			{model.King, side.bb.Kings},
		} {
			for b := set.bits; b != 0; b &= b - 1 {
				// bit 0 is a1, bit 63 is h8
				idx := bits.TrailingZeros64(b)
				pos[7-idx/8][idx%8] = model.Piece{Type: set.kind, Color: side.color}
			}
		}
	}
	return pos
}

func checkPlacement(field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, rank := range ranks {
		files := 0
		for _, r := range rank {
			switch {
			case r >= '1' && r <= '8':
				files += int(r - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", r):
				files++
			default:
				return fmt.Errorf("%w: unexpected %q in rank %d", ErrInvalidFEN, r, 8-i)
			}
		}
		if files != 8 {
			return fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, 8-i, files)
		}
	}
	return nil
}

func parseCastling(field string) (model.CastlingRights, error) {
	rights := model.CastlingNone
	if field == "-" {
		return rights, nil
	}
	for _, r := range field {
		switch r {
		case 'K':
			rights |= model.CastlingWhiteKingside
		case 'Q':
			rights |= model.CastlingWhiteQueenside
		case 'k':
			rights |= model.CastlingBlackKingside
		case 'q':
			rights |= model.CastlingBlackQueenside
		default:
			return model.CastlingNone, fmt.Errorf("%w: castling %q", ErrInvalidFEN, field)
		}
	}
	return rights, nil
}
