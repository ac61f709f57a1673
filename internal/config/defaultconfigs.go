package config

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr:   ":3000",
			AllowOrigins: []string{"http://localhost:5173"},
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Matchmaking: MatchmakingConfig{
			IntervalMillis: 1000,
		},
		LogLevel: "info",
	}
}
