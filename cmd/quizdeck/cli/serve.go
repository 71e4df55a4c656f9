package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quizdeck/quizdeck/internal/audit"
	"github.com/quizdeck/quizdeck/internal/config"
	"github.com/quizdeck/quizdeck/internal/server"
	"github.com/quizdeck/quizdeck/internal/service"
	"github.com/quizdeck/quizdeck/internal/store"
)

const banner = `
  ___  _   _ ___ _____ ___  ___ ___ _  __
 / _ \| | | |_ _|_  / |   \| __/ __| |/ /
| (_) | |_| || | / /| | |) | _| (__| ' <
 \__\_\\___/|___/___|_|___/|___\___|_|\_\
`

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the QuizDeck API server",
		Long:  "Start the HTTP server that exposes the game catalog and the admin API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Development mode (verbose logging, ephemeral signing secret)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, dev bool) error {
	fmt.Print(banner)
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Server.Host = host
	cfg.Server.Port = port
	if dev {
		cfg.Logging.Level = "debug"
	}

	logger := newLogger(cfg.Logging)

	// A missing signing secret is fatal outside dev: anyone able to guess
	// it can mint admin tokens.
	if err := cfg.Auth.ValidateSecret(); err != nil {
		if !dev {
			return err
		}
		secret := make([]byte, config.MinSecretLen)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate dev secret: %w", err)
		}
		cfg.Auth.JWTSecret = hex.EncodeToString(secret)
		logger.Warn("no signing secret configured, using an ephemeral one; all tokens die with this process")
	}

	// SQLite with no configured path persists under ~/.quizdeck.
	if cfg.Database.Driver == store.DriverSQLite && cfg.Database.DSN == "" {
		home, _ := os.UserHomeDir()
		cfg.Database.DSN = home + "/.quizdeck"
	}

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	logger.Info("store opened", "driver", cfg.Database.Driver)

	authSvc := service.NewAuthService(st, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLDuration())

	rec := audit.NewRecorder(st, logger, 256)
	defer rec.Close()

	hasAdmin, err := st.HasAnyAdmin(context.Background())
	if err != nil {
		logger.Warn("failed to check for admin accounts", "error", err)
	}
	if !hasAdmin {
		logger.Warn("no admin account found - run: quizdeck admin create")
	}

	srvCfg := server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ShutdownTimeout: cfg.Server.ShutdownTimeoutDuration(),
		CORSOrigins:     cfg.Server.CORSOrigins,
		LoginPerMinute:  cfg.Auth.LoginPerMinute,
		RequestsPerMin:  300,
	}
	srv := server.New(srvCfg, st, authSvc, rec, logger)

	fmt.Printf("→ Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ API:       http://%s:%d/api\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Health:    http://%s:%d/healthz\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()

	return srv.ListenAndServe()
}

// loadConfig reads the YAML config file when one is present and layers
// environment overrides (QUIZDECK_ prefix) on top.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	path := viper.ConfigFileUsed()
	if cfgFile != "" {
		path = cfgFile
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := viper.GetString("auth.jwt_secret"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := viper.GetString("auth.token_ttl"); v != "" {
		cfg.Auth.TokenTTL = v
	}
	if v := viper.GetString("database.driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v := viper.GetString("database.dsn"); v != "" {
		cfg.Database.DSN = v
	}
	if v := viper.GetString("logging.level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := viper.GetString("logging.format"); v != "" {
		cfg.Logging.Format = v
	}
	return cfg, nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
