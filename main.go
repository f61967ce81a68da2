// Command connect4-server runs the two-player connect four match
// server.
//
// It supports two modes:
//  1. default – serves the TCP game protocol, plus an optional HTTP
//     surface with a WebSocket player endpoint and a JSON game list,
//     optionally shared through an ngrok tunnel
//  2. "mcp" – same server with a read-only MCP admin surface on stdio
//
// Configuration comes from C4_* environment variables (a .env file is
// honored) with command line flags taking precedence.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/mpiech/connect4-server/api"
	"github.com/mpiech/connect4-server/config"
	"github.com/mpiech/connect4-server/game/hub"
	"github.com/mpiech/connect4-server/game/session"
	"github.com/mpiech/connect4-server/protocol"
	"github.com/mpiech/connect4-server/transport/mcp"
	"github.com/mpiech/connect4-server/transport/tcp"
	ws "github.com/mpiech/connect4-server/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Connect Four Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cmd := &cli.Command{
		Name:    "connect4-server",
		Usage:   "two-player connect four match server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "TCP game listen address (overrides C4_LISTEN_ADDR)",
			},
			&cli.StringFlag{
				Name:  "http",
				Usage: "HTTP listen address for /api, /ws and /mcp; empty disables (overrides C4_HTTP_ADDR)",
			},
			&cli.IntFlag{
				Name:  "rows",
				Usage: "board rows (overrides C4_ROWS)",
			},
			&cli.IntFlag{
				Name:  "cols",
				Usage: "board columns (overrides C4_COLS)",
			},
			&cli.IntFlag{
				Name:  "max-games",
				Usage: "maximum concurrent games (overrides C4_MAX_GAMES)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging (overrides C4_DEBUG)",
			},
			&cli.BoolFlag{
				Name:  "ngrok",
				Usage: "serve the HTTP surface through an ngrok tunnel (overrides NGROK_ENABLED)",
			},
			&cli.StringFlag{
				Name:  "ngrok-auth",
				Usage: "ngrok auth token (overrides NGROK_AUTHTOKEN)",
			},
			&cli.StringFlag{
				Name:  "ngrok-domain",
				Usage: "custom ngrok domain (overrides NGROK_DOMAIN)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(ctx, cfg, false)
		},
		Commands: []*cli.Command{
			{
				Name:  "mcp",
				Usage: "run the server with a read-only MCP admin surface on stdio",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return runServer(ctx, cfg, true)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if cmd.IsSet("listen") {
		cfg.ListenAddr = cmd.String("listen")
	}
	if cmd.IsSet("http") {
		cfg.HTTPAddr = cmd.String("http")
	}
	if cmd.IsSet("rows") {
		cfg.Rows = int(cmd.Int("rows"))
	}
	if cmd.IsSet("cols") {
		cfg.Cols = int(cmd.Int("cols"))
	}
	if cmd.IsSet("max-games") {
		cfg.MaxGames = int(cmd.Int("max-games"))
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("ngrok") {
		cfg.NgrokEnabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		cfg.NgrokAuth = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		cfg.NgrokDomain = cmd.String("ngrok-domain")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runServer wires the registry, hub and transports, then blocks until
// a shutdown signal arrives.
func runServer(ctx context.Context, cfg *config.Config, mcpStdio bool) error {
	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	log.Printf("Starting %s v%s", AppName, Version)
	log.Printf("Board %dx%d, %d game slots", cfg.Rows, cfg.Cols, cfg.MaxGames)

	codec := protocol.NewCodec(cfg.Rows, cfg.Cols)
	registry := session.NewRegistry(cfg.Rows, cfg.Cols, cfg.MaxGames)
	gameHub := hub.New(registry)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		gameHub.Run(ctx)
	}()

	gameServer := tcp.NewServer(cfg.ListenAddr, gameHub, codec)
	if err := gameServer.Listen(); err != nil {
		return err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gameServer.Serve(ctx); err != nil {
			log.Printf("game server failed: %v", err)
			cancel()
		}
	}()

	var httpServer *http.Server
	var httpHandler http.Handler
	if cfg.HTTPAddr != "" || cfg.NgrokEnabled {
		admin := mcp.NewAdmin(registry, cfg.Rows, cfg.Cols)
		httpHandler = newHTTPHandler(registry, gameHub, codec, admin)
	}

	if cfg.HTTPAddr != "" {
		httpServer = &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      httpHandler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
			log.Printf("Game list: http://%s/api/games", cfg.HTTPAddr)
			log.Printf("WebSocket players: ws://%s/ws", cfg.HTTPAddr)
			log.Printf("MCP endpoint: http://%s/mcp", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("HTTP server failed: %v", err)
				cancel()
			}
		}()
	}

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrokTunnel(ctx, cfg, httpHandler)
		}()
	}

	if mcpStdio {
		admin := mcp.NewAdmin(registry, cfg.Rows, cfg.Cols)
		// Not in the WaitGroup: ServeStdio blocks on stdin and only
		// returns when the client hangs up, which also ends the run.
		go func() {
			log.Println("MCP stdio admin ready")
			if err := admin.ServeStdio(); err != nil {
				log.Printf("MCP stdio server error: %v", err)
			}
			cancel()
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// serveNgrokTunnel exposes the HTTP surface through an ngrok tunnel
// until the context is cancelled. Tunnel failures are logged, never
// fatal: the local listeners keep running.
func serveNgrokTunnel(ctx context.Context, cfg *config.Config, handler http.Handler) {
	if cfg.NgrokAuth == "" {
		log.Println("WARNING: ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Printf("Using custom ngrok domain: %s", cfg.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuth))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("Game list (ngrok): %s/api/games", ngrokURL)
	log.Printf("WebSocket players (ngrok): %s/ws", ngrokURL)
	log.Printf("MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// newHTTPHandler combines the JSON API, the WebSocket player endpoint
// and an HTTP MCP endpoint into one handler, shared by the local HTTP
// listener and the ngrok tunnel.
func newHTTPHandler(registry *session.Registry, gameHub *hub.Hub, codec *protocol.Codec, admin *mcp.Admin) http.Handler {
	apiServer := api.NewServer(registry, ws.NewHandler(gameHub, codec))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := admin.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}
