package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/joho/godotenv"
	"github.com/oriumgames/fakeinv"
)

func main() {
	// load .env file automatically
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found (continuing with system environment)")
	}

	cfg, err := parseConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid config: %v\n", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if err = logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level: '%s'\n", cfg.LogLevel)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	userConf, err := readServerConfig(cfg.ServerConfigPath)
	if err != nil {
		logger.Error("failed to read server config", "path", cfg.ServerConfigPath, "error", err)
		os.Exit(1)
	}
	conf, err := userConf.Config(logger)
	if err != nil {
		logger.Error("failed to build server config", "error", err)
		os.Exit(1)
	}

	m := fakeinv.NewBuilder().
		Logger(logger).
		TickRate(cfg.TickRate()).
		BehindPlayer(cfg.BehindPlayer).
		Init()
	defer m.Shutdown()
	fakeinv.WrapListeners(&conf, m)

	shopTitle = cfg.ShopTitle
	cmd.Register(cmd.New("shop", "Opens the shop.", []string{"store"}, shopCommand{}))

	srv := conf.New()
	srv.CloseOnProgramEnd()
	srv.Listen()

	logger.Info("server started", "fakeinv", fakeinv.Version)
	for p := range srv.Accept() {
		m.Track(p)
		p.Handle(m.NewHandler(nil))
	}
}
