package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbeisheim/movecheck-backend/internal/config"
	"github.com/benbeisheim/movecheck-backend/internal/controller"
	"github.com/benbeisheim/movecheck-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

var (
	flagAddr        = flag.String("addr", "", "Listen address (overrides config)")
	flagLogLevel    = flag.String("loglevel", "", "Log level: trace, debug, info, warn, error")
	flagWriteConfig = flag.Bool("write-config", false, "Write the effective config to the user config dir and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatal(err)
	}
	if *flagAddr != "" {
		cfg.Server.ListenAddr = *flagAddr
	}
	if *flagLogLevel != "" {
		cfg.LogLevel = *flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if *flagWriteConfig {
		if err := cfg.Save(); err != nil {
			log.Fatal(err)
		}
		return
	}
	log.SetLevel(cfg.Level())

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.AllowOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	gameManager := service.NewGameManager()
	gameService := service.NewGameService(gameManager)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go gameManager.RunMatchmaking(ctx, cfg.MatchmakingInterval())

	controller.Register(app,
		controller.NewGameController(gameService),
		controller.NewWebSocketController(gameService),
		websocket.Config{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			Origins:         cfg.Server.AllowOrigins,
		},
	)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Server.ListenAddr)
	if err := app.Listen(cfg.Server.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
