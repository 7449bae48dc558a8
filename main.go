// Command minesweeper starts the Minesweeper game server.
//
// It supports these commands:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, metrics and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "validate" – checks every preset file in the config directory
//  4. "analyze" – generates sample boards per preset and prints difficulty figures
//
// Flags control host/port, config directory, logging, and optional ngrok
// tunneling for easy external access during development. Every flag can also
// be set through the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/minesweeper/api"
	"github.com/wricardo/minesweeper/game/config"
	"github.com/wricardo/minesweeper/game/service"
	"github.com/wricardo/minesweeper/game/session"
	"github.com/wricardo/minesweeper/logging"
	"github.com/wricardo/minesweeper/transport/mcp"
	"github.com/wricardo/minesweeper/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Minesweeper Game Server"
)

// Session retention
const (
	cleanupInterval = time.Hour
	sessionMaxAge   = 24 * time.Hour
)

var log = logging.WithComponent("main")

// appConfig holds the resolved command-line and environment settings
type appConfig struct {
	host        string
	port        int
	configDir   string
	debug       bool
	logJSON     bool
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

func (c appConfig) addr() string {
	return net.JoinHostPort(c.host, fmt.Sprint(c.port))
}

// loopbackURL is the address the in-process MCP client uses to reach the API
func (c appConfig) loopbackURL() string {
	host := c.host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, fmt.Sprint(c.port))
}

func configFromCommand(cmd *cli.Command) appConfig {
	return appConfig{
		host:        cmd.String("host"),
		port:        cmd.Int("port"),
		configDir:   cmd.String("config-dir"),
		debug:       cmd.Bool("debug"),
		logJSON:     cmd.Bool("log-json"),
		ngrok:       cmd.Bool("ngrok"),
		ngrokAuth:   cmd.String("ngrok-auth"),
		ngrokDomain: cmd.String("ngrok-domain"),
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:           "minesweeper",
		Usage:          AppName,
		Version:        Version,
		DefaultCommand: "server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game presets (JSON or YAML)",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Usage:   "Emit logs as JSON",
				Sources: cli.EnvVars("LOG_JSON"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Init(cmd.Bool("debug"), cmd.Bool("log-json"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, metrics and MCP endpoint",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := configFromCommand(cmd)
					svc, err := initializeServices(ctx, cfg, prometheus.DefaultRegisterer)
					if err != nil {
						return err
					}
					return runHTTPServer(ctx, cfg, svc)
				},
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, starting an internal HTTP API if none is running",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					// stdout carries the MCP protocol
					logging.SetOutput(os.Stderr)
					cfg := configFromCommand(cmd)
					svc, err := initializeServices(ctx, cfg, prometheus.DefaultRegisterer)
					if err != nil {
						return err
					}
					return runStdioMCPWithInternalServer(ctx, cfg, svc)
				},
			},
			{
				Name:  "validate",
				Usage: "Validate every preset file in the config directory",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runValidate(os.Stdout, cmd.String("config-dir"))
				},
			},
			{
				Name:  "analyze",
				Usage: "Print mine density, openings and 3BV over sample boards for each preset",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "samples",
						Value: 20,
						Usage: "Boards generated per preset",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Value: 1,
						Usage: "First seed; sample i uses seed+i",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runAnalyze(os.Stdout, cmd.String("config-dir"), cmd.Int("samples"), cmd.Uint64("seed"))
				},
			},
		},
	}
}

// main loads .env, then runs the selected command until it returns or a signal arrives.
func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp()
	app.Before = loadEnvBefore(envErr, app.Before)

	if err := app.Run(ctx, os.Args); err != nil {
		log.WithError(err).Fatal("Exiting")
	}
}

// loadEnvBefore reports the .env outcome once logging is configured
func loadEnvBefore(envErr error, next cli.BeforeFunc) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		ctx, err := next(ctx, cmd)
		switch {
		case envErr == nil:
			log.Debug("Loaded environment variables from .env file")
		case !errors.Is(envErr, os.ErrNotExist):
			log.WithError(envErr).Warn("Error loading .env file")
		}
		return ctx, err
	}
}

// services bundles the long-lived components shared by every transport
type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// initializeServices wires session/config managers, metrics and the game service.
// It also starts a background cleanup routine that lives as long as ctx.
func initializeServices(ctx context.Context, cfg appConfig, reg prometheus.Registerer) (*services, error) {
	configManager, err := config.NewManager(cfg.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()

	metrics := service.NewMetrics(reg)
	if reg != nil {
		service.RegisterSessionGauge(reg, sessionManager)
	}

	gameService := service.NewGameService(sessionManager, configManager, service.WithMetrics(metrics))

	sessionManager.StartCleanup(ctx, cleanupInterval, sessionMaxAge)

	log.WithFields(logrus.Fields{
		"config_dir": cfg.configDir,
		"version":    Version,
	}).Info("Services initialized")

	return &services{
		game:     gameService,
		sessions: sessionManager,
		configs:  configManager,
	}, nil
}

// newRouter mounts the REST API at the root and the MCP endpoint at /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpClient.HTTPHandler())
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel. It returns once ctx is cancelled
// and the server has shut down.
func runHTTPServer(ctx context.Context, cfg appConfig, svc *services) error {
	hub := websocket.NewHub()
	go hub.Run(ctx)

	apiServer := api.NewServer(svc.game, hub)
	mcpClient := mcp.NewClient(cfg.loopbackURL())
	handler := newRouter(apiServer, mcpClient)

	addr := cfg.addr()
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.WithField("addr", addr).Info("HTTP server listening")
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)
		log.Infof("Metrics: http://%s/metrics", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if cfg.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, handler)
		}()
	}

	var err error
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received. Shutting down...")
	case err = <-serveErr:
		log.WithError(err).Error("HTTP server failed")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.WithError(shutdownErr).Error("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info("Server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runNgrokTunnel(ctx context.Context, cfg appConfig, handler http.Handler) {
	if cfg.ngrokAuth == "" {
		log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.ngrokDomain))
		log.WithField("domain", cfg.ngrokDomain).Info("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.ngrokAuth))
	if err != nil {
		log.WithError(err).Error("Failed to start ngrok tunnel")
		return
	}

	// Serve returns once the tunnel is closed
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.WithError(err).Warn("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.WithField("url", ngrokURL).Info("Ngrok tunnel established")
	log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	log.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.WithError(err).Error("Ngrok server error")
	}
	log.Info("Ngrok tunnel closed")
}

// externalAPIAvailable reports whether a server already answers /health at baseURL
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalServer serves the API on a random loopback port and returns its base URL
func startInternalServer(ctx context.Context, svc *services) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	httpServer := &http.Server{
		Handler: api.NewServer(svc.game, hub),
	}

	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Internal HTTP server error")
		}
	}()

	baseURL := "http://" + listener.Addr().String()
	log.WithField("url", baseURL).Info("Started internal HTTP server for MCP stdio")
	return baseURL, httpServer, nil
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an API already listening on the configured port; otherwise it
// starts an internal one bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, cfg appConfig, svc *services) error {
	baseURL := cfg.loopbackURL()
	log.WithField("url", baseURL).Info("Checking for external API server")

	if externalAPIAvailable(ctx, baseURL) {
		log.Info("MCP stdio server ready (using external HTTP server)")
	} else {
		var (
			httpServer *http.Server
			err        error
		)
		baseURL, httpServer, err = startInternalServer(ctx, svc)
		if err != nil {
			return err
		}
		defer httpServer.Close()
		log.Info("MCP stdio server ready (using internal HTTP server)")
	}

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
