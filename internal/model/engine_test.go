package model

import (
	"errors"
	"testing"
)

func sq(t *testing.T, name string) Square {
	t.Helper()
	s, err := ParseSquare(name)
	if err != nil {
		t.Fatalf("parse square %q: %v", name, err)
	}
	return s
}

var (
	wK = Piece{Type: King, Color: White}
	wQ = Piece{Type: Queen, Color: White}
	wR = Piece{Type: Rook, Color: White}
	wB = Piece{Type: Bishop, Color: White}
	wN = Piece{Type: Knight, Color: White}
	wP = Piece{Type: Pawn, Color: White}
	bK = Piece{Type: King, Color: Black}
	bR = Piece{Type: Rook, Color: Black}
	bN = Piece{Type: Knight, Color: Black}
	bP = Piece{Type: Pawn, Color: Black}
)

func newTestEngine(t *testing.T, toMove Color, rights CastlingRights, pieces map[string]Piece) *Engine {
	t.Helper()
	var pos Position
	for name, p := range pieces {
		pos.set(sq(t, name), p)
	}
	return NewEngineFromPosition(pos, toMove, rights)
}

func mustApply(t *testing.T, e *Engine, from, to string) Classification {
	t.Helper()
	ok, class, err := e.ApplyMove(sq(t, from), sq(t, to))
	if err != nil {
		t.Fatalf("%s%s: unexpected error: %v", from, to, err)
	}
	if !ok {
		t.Fatalf("%s%s: expected move to be accepted", from, to)
	}
	return class
}

func mustReject(t *testing.T, e *Engine, from, to string) {
	t.Helper()
	before := *e
	beforeHistory := len(e.history)
	ok, class, err := e.ApplyMove(sq(t, from), sq(t, to))
	if err != nil {
		t.Fatalf("%s%s: unexpected error: %v", from, to, err)
	}
	if ok || class != ClassNone {
		t.Fatalf("%s%s: expected rejection, got accepted as %s", from, to, class)
	}
	if e.position != before.position || e.toMove != before.toMove || e.rights != before.rights || len(e.history) != beforeHistory {
		t.Fatalf("%s%s: rejected move changed engine state", from, to)
	}
}

func TestNewEngineStartingState(t *testing.T) {
	e := NewEngine()
	if e.ToMove() != White {
		t.Fatalf("expected white to move, got %s", e.ToMove())
	}
	if e.CastlingRights() != CastlingAll {
		t.Fatalf("expected all castling rights, got %b", e.CastlingRights())
	}
	if len(e.History()) != 0 {
		t.Fatalf("expected empty history")
	}
	if got := e.PieceAt(Square{Row: 7, Col: 4}); got != wK {
		t.Fatalf("expected white king on e1, got %+v", got)
	}
	if got := e.PieceAt(Square{Row: 0, Col: 3}); got != (Piece{Type: Queen, Color: Black}) {
		t.Fatalf("expected black queen on d8, got %+v", got)
	}
	for row := 2; row < 6; row++ {
		for col := 0; col < 8; col++ {
			if !e.PieceAt(Square{Row: row, Col: col}).IsEmpty() {
				t.Fatalf("expected (%d,%d) to be empty", row, col)
			}
		}
	}
}

func TestPawnDoubleStepFromStart(t *testing.T) {
	e := NewEngine()
	if class := mustApply(t, e, "e2", "e4"); class != ClassNormal {
		t.Fatalf("expected normal move, got %s", class)
	}
	if got := e.PieceAt(Square{Row: 4, Col: 4}); got != wP {
		t.Fatalf("expected pawn on (4,4), got %+v", got)
	}
	if !e.PieceAt(Square{Row: 6, Col: 4}).IsEmpty() {
		t.Fatalf("expected (6,4) to be empty")
	}
	last, ok := e.LastMove()
	if !ok || last.Piece != wP || !last.Target.IsEmpty() || last.Notation != "e2e4" {
		t.Fatalf("unexpected history entry %+v", last)
	}
}

func TestEnPassantCapture(t *testing.T) {
	e := NewEngine()
	mustApply(t, e, "e2", "e4")
	mustApply(t, e, "a7", "a6")
	mustApply(t, e, "e4", "e5")
	mustApply(t, e, "d7", "d5")

	ok, class, err := e.Validate(sq(t, "e5"), sq(t, "d6"))
	if err != nil || !ok || class != ClassEnPassant {
		t.Fatalf("expected en passant, got ok=%v class=%s err=%v", ok, class, err)
	}
	mustApply(t, e, "e5", "d6")

	if got := e.PieceAt(sq(t, "d6")); got != wP {
		t.Fatalf("expected white pawn on d6, got %+v", got)
	}
	if !e.PieceAt(sq(t, "d5")).IsEmpty() {
		t.Fatalf("expected captured pawn on d5 to be removed")
	}
	if !e.PieceAt(sq(t, "e5")).IsEmpty() {
		t.Fatalf("expected e5 to be empty")
	}
	last, _ := e.LastMove()
	if last.Classification != ClassEnPassant {
		t.Fatalf("expected history to record en passant, got %s", last.Classification)
	}
}

func TestEnPassantBlackSide(t *testing.T) {
	e := NewEngine()
	mustApply(t, e, "a2", "a3")
	mustApply(t, e, "d7", "d5")
	mustApply(t, e, "a3", "a4")
	mustApply(t, e, "d5", "d4")
	mustApply(t, e, "e2", "e4")

	if class := mustApply(t, e, "d4", "e3"); class != ClassEnPassant {
		t.Fatalf("expected en passant, got %s", class)
	}
	if !e.PieceAt(sq(t, "e4")).IsEmpty() {
		t.Fatalf("expected white pawn on e4 to be captured")
	}
	if got := e.PieceAt(sq(t, "e3")); got != bP {
		t.Fatalf("expected black pawn on e3, got %+v", got)
	}
}

func TestEnPassantOnlyImmediatelyAfterDoubleStep(t *testing.T) {
	e := NewEngine()
	mustApply(t, e, "e2", "e4")
	mustApply(t, e, "a7", "a6")
	mustApply(t, e, "e4", "e5")
	mustApply(t, e, "d7", "d5")
	mustApply(t, e, "h2", "h3")
	mustApply(t, e, "h7", "h6")

	mustReject(t, e, "e5", "d6")
}

func TestEnPassantRequiresDoubleStep(t *testing.T) {
	e := NewEngine()
	mustApply(t, e, "e2", "e4")
	mustApply(t, e, "d7", "d6")
	mustApply(t, e, "e4", "e5")
	mustApply(t, e, "d6", "d5")

	mustReject(t, e, "e5", "d6")
}

func TestKingsideCastle(t *testing.T) {
	e := newTestEngine(t, White, CastlingAll, map[string]Piece{
		"e1": wK, "h1": wR, "a1": wR, "e8": bK,
	})

	if class := mustApply(t, e, "e1", "g1"); class != ClassCastle {
		t.Fatalf("expected castle, got %s", class)
	}
	if got := e.PieceAt(Square{Row: 7, Col: 6}); got != wK {
		t.Fatalf("expected king on (7,6), got %+v", got)
	}
	if got := e.PieceAt(Square{Row: 7, Col: 5}); got != wR {
		t.Fatalf("expected rook on (7,5), got %+v", got)
	}
	for _, s := range []Square{{Row: 7, Col: 4}, {Row: 7, Col: 7}} {
		if !e.PieceAt(s).IsEmpty() {
			t.Fatalf("expected %v to be empty after castling", s)
		}
	}
	if e.CastlingRights().Allows(White, Kingside) || e.CastlingRights().Allows(White, Queenside) {
		t.Fatalf("expected white castling rights to be revoked")
	}
	if !e.CastlingRights().Allows(Black, Kingside) {
		t.Fatalf("black rights must be untouched")
	}
	last, _ := e.LastMove()
	if last.CastleRookMove == nil || last.CastleRookMove.From != (Square{Row: 7, Col: 7}) || last.CastleRookMove.To != (Square{Row: 7, Col: 5}) {
		t.Fatalf("unexpected rook move record %+v", last.CastleRookMove)
	}
}

func TestQueensideCastleBlack(t *testing.T) {
	e := newTestEngine(t, Black, CastlingAll, map[string]Piece{
		"e1": wK, "e8": bK, "a8": bR,
	})

	if class := mustApply(t, e, "e8", "c8"); class != ClassCastle {
		t.Fatalf("expected castle, got %s", class)
	}
	if got := e.PieceAt(sq(t, "c8")); got != bK {
		t.Fatalf("expected king on c8, got %+v", got)
	}
	if got := e.PieceAt(sq(t, "d8")); got != bR {
		t.Fatalf("expected rook on d8, got %+v", got)
	}
	if !e.PieceAt(sq(t, "a8")).IsEmpty() || !e.PieceAt(sq(t, "e8")).IsEmpty() {
		t.Fatalf("expected home squares to be cleared")
	}
}

func TestCastleRejections(t *testing.T) {
	tests := []struct {
		name   string
		rights CastlingRights
		extra  map[string]Piece
		to     string
	}{
		{name: "NoRight", rights: CastlingAll &^ CastlingWhiteKingside, to: "g1"},
		{name: "KingPathBlocked", rights: CastlingAll, extra: map[string]Piece{"f1": wB}, to: "g1"},
		{name: "DestinationOccupied", rights: CastlingAll, extra: map[string]Piece{"g1": bN}, to: "g1"},
		{name: "QueensidePathBlocked", rights: CastlingAll, extra: map[string]Piece{"d1": wQ}, to: "c1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			pieces := map[string]Piece{"e1": wK, "h1": wR, "a1": wR, "e8": bK}
			for k, v := range tt.extra {
				pieces[k] = v
			}
			e := newTestEngine(t, White, tt.rights, pieces)
			mustReject(t, e, "e1", tt.to)
		})
	}
}

func TestKingMoveRevokesCastling(t *testing.T) {
	e := newTestEngine(t, White, CastlingAll, map[string]Piece{
		"e1": wK, "h1": wR, "a1": wR, "e8": bK, "h7": bP,
	})

	mustApply(t, e, "e1", "f1")
	if e.CastlingRights().Allows(White, Kingside) || e.CastlingRights().Allows(White, Queenside) {
		t.Fatalf("expected both white rights to be revoked")
	}
	mustApply(t, e, "h7", "h6")
	mustApply(t, e, "f1", "e1")
	mustApply(t, e, "h6", "h5")

	mustReject(t, e, "e1", "g1")
	mustReject(t, e, "e1", "c1")
}

func TestRookMoveRevokesOneSide(t *testing.T) {
	e := newTestEngine(t, White, CastlingAll, map[string]Piece{
		"e1": wK, "h1": wR, "a1": wR, "e8": bK,
	})

	mustApply(t, e, "h1", "h4")
	rights := e.CastlingRights()
	if rights.Allows(White, Kingside) {
		t.Fatalf("expected white kingside to be revoked")
	}
	if !rights.Allows(White, Queenside) {
		t.Fatalf("expected white queenside to remain")
	}
}

func TestCapturedHomeRookKeepsRight(t *testing.T) {
	e := newTestEngine(t, White, CastlingAll, map[string]Piece{
		"e1": wK, "a1": wR, "e8": bK, "a8": bR,
	})

	mustApply(t, e, "a1", "a8")
	rights := e.CastlingRights()
	if rights.Allows(White, Queenside) {
		t.Fatalf("expected white queenside to be revoked by the rook leaving a1")
	}
	if !rights.Allows(Black, Queenside) {
		t.Fatalf("capturing a never-moved rook does not revoke its right")
	}
}

func TestCastlingRightsMonotonic(t *testing.T) {
	e := NewEngine()
	moves := [][2]string{
		{"e2", "e4"}, {"e7", "e5"},
		{"g1", "f3"}, {"b8", "c6"},
		{"f1", "c4"}, {"g8", "f6"},
		{"e1", "g1"}, {"a8", "b8"},
		{"f1", "e1"}, {"b8", "a8"},
		{"g1", "h1"}, {"e8", "e7"},
	}
	prev := e.CastlingRights()
	for _, m := range moves {
		mustApply(t, e, m[0], m[1])
		cur := e.CastlingRights()
		if cur&^prev != 0 {
			t.Fatalf("after %s%s rights grew from %b to %b", m[0], m[1], prev, cur)
		}
		prev = cur
	}
	if prev != CastlingNone {
		t.Fatalf("expected every right to be gone, got %b", prev)
	}
}

func TestSelfCaptureAlwaysRejected(t *testing.T) {
	e := NewEngine()
	pairs := [][2]string{
		{"a1", "a2"}, {"b1", "d2"}, {"c1", "d2"}, {"d1", "e1"}, {"e1", "d1"}, {"e2", "d1"},
	}
	for _, p := range pairs {
		mustReject(t, e, p[0], p[1])
	}
}

func TestEmptySourceNeverLegal(t *testing.T) {
	e := NewEngine()
	for row := 2; row < 6; row++ {
		for col := 0; col < 8; col++ {
			from := Square{Row: row, Col: col}
			for r := 0; r < 8; r++ {
				for c := 0; c < 8; c++ {
					ok, _, err := e.Validate(from, Square{Row: r, Col: c})
					if err != nil || ok {
						t.Fatalf("empty source %v accepted (err=%v)", from, err)
					}
				}
			}
		}
	}
}

func TestTurnEnforcement(t *testing.T) {
	e := NewEngine()
	mustReject(t, e, "e7", "e5")
	mustApply(t, e, "e2", "e4")
	if e.ToMove() != Black {
		t.Fatalf("expected black to move")
	}
	mustReject(t, e, "d2", "d4")
	if e.ToMove() != Black {
		t.Fatalf("rejected move must not flip the turn")
	}
}

func TestValidateIsPure(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 2; i++ {
		ok, class, err := e.Validate(sq(t, "g1"), sq(t, "f3"))
		if err != nil || !ok || class != ClassNormal {
			t.Fatalf("call %d: expected legal normal move, got ok=%v class=%s err=%v", i, ok, class, err)
		}
	}
	if e.ToMove() != White || len(e.History()) != 0 || e.Position() != StartingPosition() {
		t.Fatalf("validate must not change engine state")
	}
}

func TestKnightRoundTrip(t *testing.T) {
	e := NewEngine()
	mustApply(t, e, "g1", "f3")
	mustApply(t, e, "b8", "c6")
	mustApply(t, e, "f3", "g1")
	if got := e.PieceAt(sq(t, "g1")); got != wN {
		t.Fatalf("expected knight back on g1, got %+v", got)
	}
	if !e.PieceAt(sq(t, "f3")).IsEmpty() {
		t.Fatalf("expected f3 to be empty")
	}
}

func TestUnknownPieceKindIsNotIllegal(t *testing.T) {
	e := newTestEngine(t, White, CastlingNone, map[string]Piece{
		"e1": {Type: "archbishop", Color: White},
	})

	ok, class, err := e.ApplyMove(sq(t, "e1"), sq(t, "e2"))
	if !errors.Is(err, ErrUnknownPieceKind) {
		t.Fatalf("expected ErrUnknownPieceKind, got %v", err)
	}
	if ok || class != ClassNone {
		t.Fatalf("corrupt piece must not produce a move")
	}
	if _, err := e.LegalDestinations(sq(t, "e1")); !errors.Is(err, ErrUnknownPieceKind) {
		t.Fatalf("expected ErrUnknownPieceKind from LegalDestinations, got %v", err)
	}
}

func TestLegalDestinationsRejectsUnknownKindOffTurn(t *testing.T) {
	e := newTestEngine(t, White, CastlingNone, map[string]Piece{
		"e8": {Type: "archbishop", Color: Black},
	})

	ok, _, err := e.Validate(sq(t, "e8"), sq(t, "e7"))
	if ok || err != nil {
		t.Fatalf("off-turn piece should be plainly illegal to Validate, got ok=%v err=%v", ok, err)
	}
	if _, err := e.LegalDestinations(sq(t, "e8")); !errors.Is(err, ErrUnknownPieceKind) {
		t.Fatalf("expected ErrUnknownPieceKind from LegalDestinations, got %v", err)
	}
}

func TestOutOfRangeSquare(t *testing.T) {
	e := NewEngine()
	_, _, err := e.Validate(Square{Row: 8, Col: 0}, Square{Row: 0, Col: 0})
	if !errors.Is(err, ErrSquareOutOfRange) {
		t.Fatalf("expected ErrSquareOutOfRange, got %v", err)
	}
	if _, err := e.LegalDestinations(Square{Row: -1, Col: 3}); !errors.Is(err, ErrSquareOutOfRange) {
		t.Fatalf("expected ErrSquareOutOfRange, got %v", err)
	}
}

func TestLegalDestinations(t *testing.T) {
	e := NewEngine()
	seq, err := e.LegalDestinations(sq(t, "e2"))
	if err != nil {
		t.Fatalf("legal destinations: %v", err)
	}

	for pass := 0; pass < 2; pass++ {
		total := 0
		var legal []string
		for to, ok := range seq {
			total++
			if ok {
				legal = append(legal, to.String())
			}
		}
		if total != 64 {
			t.Fatalf("pass %d: expected 64 squares, got %d", pass, total)
		}
		if len(legal) != 2 || legal[0] != "e4" || legal[1] != "e3" {
			t.Fatalf("pass %d: expected [e4 e3], got %v", pass, legal)
		}
	}

	seen := 0
	for range seq {
		seen++
		if seen == 3 {
			break
		}
	}
	if seen != 3 {
		t.Fatalf("expected early break to stop iteration")
	}
}

func TestLegalDestinationsAgreeWithValidate(t *testing.T) {
	e := NewEngine()
	mustApply(t, e, "e2", "e4")
	mustApply(t, e, "d7", "d5")
	for _, from := range []string{"e4", "d1", "f1", "g1", "e1", "a2"} {
		seq, err := e.LegalDestinations(sq(t, from))
		if err != nil {
			t.Fatalf("%s: %v", from, err)
		}
		for to, ok := range seq {
			want, _, _ := e.Validate(sq(t, from), to)
			if ok != want {
				t.Fatalf("%s->%s: sweep says %v, validate says %v", from, to, ok, want)
			}
		}
	}
}
