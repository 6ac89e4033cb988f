// Command dragons runs the Dungeon & Dragons game.
//
// Commands:
//  1. "play" (default) – the interactive terminal game with accounts and a leaderboard
//  2. "serve" – HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  3. "mcp" – an MCP stdio server that spins up an internal HTTP API if none is available
//  4. "leaderboard" and "register" – manage player statistics from the shell
//
// Flags read their defaults from the environment and from a .env file, and
// serve can publish itself through an ngrok tunnel.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/term"

	"github.com/wricardo/dragons-dungeon/api"
	"github.com/wricardo/dragons-dungeon/game/config"
	"github.com/wricardo/dragons-dungeon/game/players"
	"github.com/wricardo/dragons-dungeon/game/service"
	"github.com/wricardo/dragons-dungeon/game/session"
	"github.com/wricardo/dragons-dungeon/transport/mcp"
	"github.com/wricardo/dragons-dungeon/transport/terminal"
	"github.com/wricardo/dragons-dungeon/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Dungeon & Dragons"
)

const (
	defaultConfigDir = "configs"
	defaultStatsFile = "database.json"
	sessionMaxAge    = 24 * time.Hour
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. Running without a command plays the game.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "dragons",
		Usage:   "find the hidden door before the dragons find you",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   defaultConfigDir,
				Usage:   "directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Postgres connection string for player statistics",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "stats-file",
				Value:   defaultStatsFile,
				Usage:   "JSON file for player statistics when no database is set",
				Sources: cli.EnvVars("STATS_FILE"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "play in the terminal",
				Flags:  playFlags(),
				Action: runPlay,
			},
			{
				Name:   "serve",
				Usage:  "run the HTTP server with API, WebSocket, and MCP endpoint",
				Flags:  serveFlags(),
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Value:   "http://localhost:8080",
						Usage:   "external API to reuse when it is running",
						Sources: cli.EnvVars("API_URL"),
					},
				},
				Action: runStdioMCP,
			},
			{
				Name:   "leaderboard",
				Usage:  "print the player standings",
				Action: runLeaderboard,
			},
			{
				Name:      "register",
				Usage:     "create a player account",
				ArgsUsage: "<username>",
				Action:    runRegister,
			},
		},
	}
}

func playFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "mute",
			Usage:   "disable sound",
			Sources: cli.EnvVars("MUTE"),
		},
		&cli.BoolFlag{
			Name:  "guest",
			Usage: "play without an account or statistics",
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "write logs here while the board owns the terminal",
			Sources: cli.EnvVars("LOG_FILE"),
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "HTTP server port",
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "HTTP server host",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

// openConfigs loads the config directory. The default directory is optional;
// without it the built-in presets are served.
func openConfigs(cmd *cli.Command) (*config.Manager, error) {
	dir := cmd.String("config-dir")
	if !cmd.IsSet("config-dir") {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			log.Printf("Config directory %s not found, using built-in presets", dir)
			dir = ""
		}
	}
	return config.NewManager(dir)
}

// openRegistry picks Postgres when a database URL is set and the JSON file
// otherwise.
func openRegistry(databaseURL, statsFile string) (*players.Registry, error) {
	var (
		store players.Store
		err   error
	)
	if databaseURL != "" {
		store, err = players.NewPostgresStore(databaseURL)
	} else {
		store, err = players.NewJSONStore(statsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open player store: %w", err)
	}
	return players.NewRegistry(store), nil
}

func registryFromFlags(cmd *cli.Command) (*players.Registry, error) {
	return openRegistry(cmd.String("database-url"), cmd.String("stats-file"))
}

// initializeServices wires session/config managers and the game service.
func initializeServices(configs *config.Manager, registry service.PlayerRegistry) (service.GameService, *session.Manager) {
	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configs, registry), sessionManager
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the provided retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, every, maxAge time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	// The board takes over the terminal, so logs go to a file or nowhere
	logOut := io.Discard
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	log.SetOutput(logOut)
	defer log.SetOutput(os.Stderr)

	configs, err := openConfigs(cmd)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	var accounts terminal.Accounts
	if !cmd.Bool("guest") {
		registry, err := registryFromFlags(cmd)
		if err != nil {
			return err
		}
		defer registry.Close()
		accounts = registry
	}

	var sounds terminal.Sounds = terminal.Silent{}
	if !cmd.Bool("mute") {
		sounds = terminal.NewSounds()
	}
	defer sounds.Close()

	menu := terminal.NewMenu(os.Stdin, os.Stdout, accounts, configs, terminal.ScreenPlayer(sounds))
	menu.HidePasswords(int(os.Stdin.Fd()))
	return menu.Run(ctx)
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s", AppName, Version)

	configs, err := openConfigs(cmd)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}
	registry, err := registryFromFlags(cmd)
	if err != nil {
		return err
	}
	defer registry.Close()

	gameService, sessions := initializeServices(configs, registry)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go sessionCleanupRoutine(ctx, sessions, time.Hour, sessionMaxAge)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mainRouter := newRouter(api.NewServer(gameService, hub), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
			cancel()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// newRouter mounts the API at the root and answers MCP JSON-RPC on /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

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

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server.
// It tries to reuse an external API first; if unavailable, it starts an
// internal HTTP API bound to a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	baseURL := strings.TrimSuffix(cmd.String("api-url"), "/")
	log.Printf("Checking for external API server at %s...", baseURL)

	if !apiAvailable(ctx, baseURL) {
		log.Printf("No external API server found, starting internal HTTP server")

		configs, err := openConfigs(cmd)
		if err != nil {
			return fmt.Errorf("failed to create config manager: %w", err)
		}
		registry, err := registryFromFlags(cmd)
		if err != nil {
			return err
		}
		defer registry.Close()

		gameService, sessions := initializeServices(configs, registry)
		go sessionCleanupRoutine(ctx, sessions, time.Hour, sessionMaxAge)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.Printf("Internal HTTP server on %s for MCP stdio", listener.Addr())
	} else {
		log.Printf("External API server found at %s, using it for MCP", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
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

func runLeaderboard(ctx context.Context, cmd *cli.Command) error {
	registry, err := registryFromFlags(cmd)
	if err != nil {
		return err
	}
	defer registry.Close()

	standings, err := registry.Leaderboard()
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}
	fmt.Fprintln(cmd.Root().Writer, terminal.RenderLeaderboard(standings))
	return nil
}

func runRegister(ctx context.Context, cmd *cli.Command) error {
	username := cmd.Args().First()
	if username == "" {
		return fmt.Errorf("usage: %s register <username>", cmd.Root().Name)
	}

	registry, err := registryFromFlags(cmd)
	if err != nil {
		return err
	}
	defer registry.Close()

	src := cmd.Root().Reader
	in := bufio.NewReader(src)
	out := cmd.Root().Writer

	fd := -1
	if f, ok := src.(*os.File); ok {
		fd = int(f.Fd())
	}

	password, err := readSecret(in, fd, out, "Password: ")
	if err != nil {
		return err
	}
	repeat, err := readSecret(in, fd, out, "Repeat password: ")
	if err != nil {
		return err
	}

	p, err := registry.Register(username, password, repeat)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Account created for %s\n", p.Username)
	return nil
}

// readSecret reads without echo from a terminal and a plain line otherwise
func readSecret(in *bufio.Reader, fd int, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)

	if fd >= 0 && term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		return string(b), err
	}

	line, err := in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
