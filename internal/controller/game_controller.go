package controller

import (
	"errors"

	"github.com/benbeisheim/movecheck-backend/internal/fen"
	"github.com/benbeisheim/movecheck-backend/internal/model"
	"github.com/benbeisheim/movecheck-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNotYourTurn), errors.Is(err, model.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrSquareOutOfRange), errors.Is(err, fen.ErrInvalidFEN):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var body struct {
		FEN string `json:"fen"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	gameID, err := gc.gameService.CreateGame(body.FEN)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var move model.SimpleMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := gc.gameService.HandleMove(gameID, playerID, move)
	if err != nil {
		return errorResponse(c, err)
	}
	state, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"accepted":       result.Accepted,
		"classification": result.Classification,
		"state":          state,
	})
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from, err := model.ParseSquare(c.Params("square"))
	if err != nil {
		return errorResponse(c, err)
	}

	legal, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return errorResponse(c, err)
	}
	destinations := make([]string, 0, len(legal))
	for _, sq := range legal {
		destinations = append(destinations, sq.String())
	}
	return c.JSON(fiber.Map{
		"square":       from.String(),
		"destinations": destinations,
	})
}

func (gc *GameController) PieceAt(c *fiber.Ctx) error {
	sq, err := model.ParseSquare(c.Params("square"))
	if err != nil {
		return errorResponse(c, err)
	}

	piece, err := gc.gameService.PieceAt(c.Params("gameId"), sq)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"square": sq.String(),
		"piece":  piece,
		"code":   piece.Code(),
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	match, queued := gc.gameService.MatchStatus(playerID)
	switch {
	case match != nil:
		return c.JSON(fiber.Map{
			"status": "matched",
			"match":  match,
		})
	case queued:
		return c.JSON(fiber.Map{
			"status": "queued",
		})
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "player is not in matchmaking",
	})
}
