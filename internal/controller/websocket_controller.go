package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/movecheck-backend/internal/model"
	"github.com/benbeisheim/movecheck-backend/internal/service"
	"github.com/benbeisheim/movecheck-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	game, err := wsc.gameService.Game(gameID)
	if err != nil {
		log.Warnf("websocket: %v", err)
		c.Close()
		return
	}
	if err := game.RegisterConnection(playerID, c); err != nil {
		log.Warnf("websocket: failed to register connection: %v", err)
		c.Close()
		return
	}
	defer game.UnregisterConnection(playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("websocket: read error for %s: %v", playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(game, c, fmt.Errorf("parse error: %w", err))
			continue
		}

		reply, err := wsc.handleMessage(game, playerID, msg)
		if err != nil {
			wsc.sendError(game, c, err)
			continue
		}
		if err := game.Send(c, reply); err != nil {
			log.Warnf("websocket: write to %s failed: %v", playerID, err)
			return
		}
	}
}

// handleMessage dispatches one inbound message and builds the direct reply.
// State changes reach every observer through the game's broadcast.
func (wsc *WebSocketController) handleMessage(game *model.Game, playerID string, msg ws.Message) (ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.SimpleMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return ws.Message{}, err
		}
		result, err := game.MakeMove(playerID, move)
		if err != nil {
			return ws.Message{}, err
		}
		return ws.NewMessage(ws.MessageTypeMoveResult, result)

	case ws.MessageTypeLegalMoves:
		var req ws.LegalMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return ws.Message{}, err
		}
		from, err := model.ParseSquare(req.From)
		if err != nil {
			return ws.Message{}, err
		}
		legal, err := game.LegalMoves(from)
		if err != nil {
			return ws.Message{}, err
		}
		resp := ws.LegalMovesResponse{From: from.String(), Destinations: make([]string, 0, len(legal))}
		for _, sq := range legal {
			resp.Destinations = append(resp.Destinations, sq.String())
		}
		return ws.NewMessage(ws.MessageTypeLegalMoves, resp)
	}
	return ws.Message{}, fmt.Errorf("unknown message type: %s", msg.Type)
}

func (wsc *WebSocketController) sendError(game *model.Game, c *websocket.Conn, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		log.Errorf("websocket: marshal error payload: %v", merr)
		return
	}
	if werr := game.Send(c, msg); werr != nil {
		log.Warnf("websocket: failed to send error: %v", werr)
	}
}
