package model

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/movecheck-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex

	broadcastMu sync.Mutex
	sentPly     int // ply of the newest state broadcast so far
}

// Game is one session: it owns a single engine and serializes every access to it.
type Game struct {
	ID          string
	mu          sync.Mutex
	engine      *Engine
	players     struct{ white, black ClientPlayer }
	connections *GameConnections
}

type GameState struct {
	Board          Position       `json:"board"`
	ToMove         Color          `json:"toMove"`
	CastlingRights CastlingRights `json:"castlingRights"`
	MoveHistory    []MoveRecord   `json:"moveHistory"`
	Ply            int            `json:"ply"`
	LastMove       *SimpleMove    `json:"lastMove"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

func NewGame(id string) *Game {
	return NewGameWithEngine(id, NewEngine())
}

func NewGameWithEngine(id string, engine *Engine) *Game {
	return &Game{
		ID:          id,
		engine:      engine,
		connections: NewGameConnections(),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.seatOf(playerID); ok {
		return color, nil
	}
	if g.players.white.ID == "" {
		g.players.white = ClientPlayer{ID: playerID, Color: White}
		log.Infof("game %s: %s seated as white", g.ID, playerID)
		return White, nil
	}
	if g.players.black.ID == "" {
		g.players.black = ClientPlayer{ID: playerID, Color: Black}
		log.Infof("game %s: %s seated as black", g.ID, playerID)
		return Black, nil
	}
	return "", ErrGameFull
}

func (g *Game) seatOf(playerID string) (Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case g.players.white.ID == playerID:
		return White, true
	case g.players.black.ID == playerID:
		return Black, true
	}
	return "", false
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.seatOf(playerID)
	return ok
}

func (g *Game) canSpectate() bool {
	return g.players.white.ID == "" || g.players.black.ID == ""
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	state := GameState{
		Board:          g.engine.Position(),
		ToMove:         g.engine.ToMove(),
		CastlingRights: g.engine.CastlingRights(),
		MoveHistory:    g.engine.History(),
	}
	state.Ply = len(state.MoveHistory)
	if last, ok := g.engine.LastMove(); ok {
		state.LastMove = &SimpleMove{From: last.From, To: last.To}
	}
	state.Players.White = g.players.white
	state.Players.Black = g.players.black
	return state
}

// MakeMove applies a move for a seated player whose color is to move.
func (g *Game) MakeMove(playerID string, move SimpleMove) (MoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.seatOf(playerID)
	if !ok {
		return MoveResult{}, ErrNotInGame
	}
	if color != g.engine.ToMove() {
		return MoveResult{}, ErrNotYourTurn
	}

	accepted, class, err := g.engine.ApplyMove(move.From, move.To)
	if err != nil {
		log.Errorf("game %s: move %v rejected: %v", g.ID, move, err)
		return MoveResult{}, err
	}
	if !accepted {
		return MoveResult{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, move.From, move.To)
	}
	log.Debugf("game %s: %s played %s%s (%s)", g.ID, color, move.From, move.To, class)

	go g.broadcastState(g.snapshot())
	return MoveResult{Accepted: true, Classification: class}, nil
}

// LegalMoves lists the destinations reachable from a square for the side to move.
func (g *Game) LegalMoves(from Square) ([]Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seq, err := g.engine.LegalDestinations(from)
	if err != nil {
		return nil, err
	}
	legal := []Square{}
	for sq, ok := range seq {
		if ok {
			legal = append(legal, sq)
		}
	}
	return legal, nil
}

func (g *Game) PieceAt(sq Square) (Piece, error) {
	if !sq.InBounds() {
		return Empty, fmt.Errorf("%w: %v", ErrSquareOutOfRange, sq)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.engine.PieceAt(sq), nil
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	_, seated := g.seatOf(playerID)
	isAuthorized := seated || g.canSpectate()
	state := g.snapshot()
	g.mu.Unlock()

	if !isAuthorized {
		return fmt.Errorf("not authorized to join game %s", g.ID)
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the healthy connection, reject the duplicate
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("game %s: registered connection %p for player %s", g.ID, conn, playerID)

	go g.broadcastState(state)
	return nil
}

func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	// an old connection closing must not drop its replacement
	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Infof("game %s: unregistering connection %p for player %s", g.ID, conn, playerID)
		delete(g.connections.connections, playerID)
	}
}

// Send writes one message to a connection, serialized with broadcasts.
func (g *Game) Send(conn *websocket.Conn, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// claimPly reports whether a state at ply may still be sent. A state older than one
// already broadcast is stale and dropped. Callers hold broadcastMu.
func (gc *GameConnections) claimPly(ply int) bool {
	if ply < gc.sentPly {
		return false
	}
	gc.sentPly = ply
	return true
}

// broadcastState sends state to every connection. Broadcasts run one at a time, so
// observers never receive an older position after a newer one.
func (g *Game) broadcastState(state GameState) {
	g.connections.broadcastMu.Lock()
	defer g.connections.broadcastMu.Unlock()

	if !g.connections.claimPly(state.Ply) {
		log.Debugf("game %s: dropping stale state at ply %d", g.ID, state.Ply)
		return
	}

	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.RLock()
	active := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		err := g.Send(conn, ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		})
		if err != nil {
			log.Warnf("game %s: failed to send state to %s: %v", g.ID, playerID, err)
			g.UnregisterConnection(playerID, conn)
		}
	}
}
