// Command memorygame runs the memory matching game.
//
// Commands:
//  1. "serve" (default) – HTTP server exposing the REST API, WebSocket events and an /mcp HTTP endpoint
//  2. "mcp" – MCP stdio server; spins up an internal HTTP API if none is available
//  3. "play" – plays a session in the terminal
//  4. "watch" – prints session events published on NATS
//  5. "validate" – checks rule set files
//
// Flags can also be set from the environment or a .env file. A running
// server reloads its rule sets on SIGHUP.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/memorygame/api"
	"github.com/wricardo/mcp-training/memorygame/game/config"
	"github.com/wricardo/mcp-training/memorygame/game/service"
	"github.com/wricardo/mcp-training/memorygame/game/session"
	"github.com/wricardo/mcp-training/memorygame/transport/events"
	"github.com/wricardo/mcp-training/memorygame/transport/mcp"
	"github.com/wricardo/mcp-training/memorygame/transport/tui"
	"github.com/wricardo/mcp-training/memorygame/transport/websocket"
	"github.com/wricardo/mcp-training/memorygame/validate"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Memory Game Server"
)

const (
	defaultSessionTTL      = 24 * time.Hour
	defaultCleanupInterval = time.Hour
	externalAPIURL         = "http://localhost:8080"
)

// ErrInvalidConfigs is returned by the validate command when a rule set fails
var ErrInvalidConfigs = errors.New("some configurations have errors")

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp()
	app.Before = func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if err := setupLogging(cmd.String("log-level"), cmd.Bool("pretty"), os.Stderr); err != nil {
			return ctx, err
		}
		if envErr == nil {
			log.Debug().Msg("Loaded environment variables from .env file")
		} else if !os.IsNotExist(envErr) {
			log.Warn().Err(envErr).Msg("Error loading .env file")
		}
		return ctx, nil
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("memorygame failed")
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "memorygame",
		Usage:   "Memory matching game server",
		Version: Version,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing rule sets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "default-config",
				Usage:   "Rule set used when a session names none (defaults to classic)",
				Sources: cli.EnvVars("DEFAULT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "pretty",
				Usage:   "Human readable console logs",
				Sources: cli.EnvVars("LOG_PRETTY"),
			},
		}, serveFlags()...),
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			playCommand(),
			watchCommand(),
			validateCommand(),
		},
		Action: runServe,
	}
}

// serveFlags live on the root command, which serves by default. Subcommands
// inherit them, so "serve --port 9090" and "watch --nats-url ..." both work.
func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
		&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
		&cli.StringFlag{Name: "nats-url", Usage: "Publish session events to this NATS server", Sources: cli.EnvVars("NATS_URL")},
		&cli.StringFlag{Name: "nats-prefix", Value: events.DefaultPrefix, Usage: "NATS subject prefix", Sources: cli.EnvVars("NATS_PREFIX")},
		&cli.DurationFlag{Name: "session-ttl", Value: defaultSessionTTL, Usage: "Remove sessions idle for longer than this"},
		&cli.DurationFlag{Name: "cleanup-interval", Value: defaultCleanupInterval, Usage: "How often idle sessions are removed"},
		&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server", "http"},
		Usage:   "Run the HTTP server with API, WebSocket, and MCP endpoint",
		Action:  runServe,
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "Run an MCP stdio server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   externalAPIURL,
				Usage:   "REST API to proxy; an internal server is started when it is unreachable",
				Sources: cli.EnvVars("MEMORY_API_URL"),
			},
		},
		Action: runMCP,
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a game in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Rule set to play (defaults to the server default)"},
		},
		Action: runPlay,
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Print session events published on NATS",
		ArgsUsage: "[session-id]",
		Action:    runWatch,
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate rule set files",
		ArgsUsage: "[dir...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dirs := cmd.Args().Slice()
			if len(dirs) == 0 {
				dirs = []string{cmd.String("config-dir")}
			}
			return runValidate(os.Stdout, dirs)
		},
	}
}

// setupLogging configures the global zerolog logger
func setupLogging(level string, pretty bool, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}

// services holds the managers behind a running game service
type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// initializeServices wires the session and config managers into a game
// service. A non-empty defaultConfig replaces the built-in default rule set.
func initializeServices(configDir, defaultConfig string, opts ...service.Option) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if defaultConfig != "" {
		if err := configManager.SetDefault(defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
	}

	sessionManager := session.NewManager()
	return &services{
		game:     service.NewGameService(sessionManager, configManager, opts...),
		sessions: sessionManager,
		configs:  configManager,
	}, nil
}

// configReloadRoutine drops cached rule sets whenever reload fires, so edited
// files apply to new sessions without a restart
func configReloadRoutine(ctx context.Context, configs *config.Manager, defaultConfig string, reload <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-reload:
			reloadConfigs(configs, defaultConfig)
		}
	}
}

func reloadConfigs(configs *config.Manager, defaultConfig string) {
	dropped := configs.Count()
	configs.RefreshCache()
	if defaultConfig != "" {
		if err := configs.SetDefault(defaultConfig); err != nil {
			log.Error().Err(err).Str("config", defaultConfig).Msg("Default rule set no longer loads, using the built-in default")
		}
	}
	log.Info().Int("dropped", dropped).Msg("Rule sets reloaded")
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp
// proxy endpoint. Session events also go to NATS when a URL is set.
func runServe(ctx context.Context, cmd *cli.Command) error {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	opts := []service.Option{service.WithNotifier(hub)}
	if url := cmd.String("nats-url"); url != "" {
		nc, err := events.Connect(url, AppName)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer nc.Drain()
		opts = append(opts, service.WithNotifier(events.NewNotifier(nc, events.WithPrefix(cmd.String("nats-prefix")))))
		log.Info().Str("url", nc.ConnectedUrl()).Str("prefix", cmd.String("nats-prefix")).Msg("Publishing session events to NATS")
	}

	svcs, err := initializeServices(cmd.String("config-dir"), cmd.String("default-config"), opts...)
	if err != nil {
		return err
	}
	defer svcs.sessions.Close()

	go sessionCleanupRoutine(ctx, svcs.sessions, cmd.Duration("cleanup-interval"), cmd.Duration("session-ttl"))

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go configReloadRoutine(ctx, svcs.configs, cmd.String("default-config"), reload)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	handler := newRootHandler(api.NewServer(svcs.game, hub), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errc := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("addr", addr).
			Str("api", fmt.Sprintf("http://%s/api", addr)).
			Str("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)).
			Str("mcp", fmt.Sprintf("http://%s/mcp", addr)).
			Msgf("Starting %s v%s", AppName, Version)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, handler, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"))
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down...")
	case runErr = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("Server stopped")
	return runErr
}

// newRootHandler mounts the API at the root and the MCP JSON-RPC endpoint at
// /mcp
func newRootHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
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
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error().Err(err).Msg("Failed to encode MCP response")
		}
	})
	return mux
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, handler http.Handler, authToken, domain string) {
	if authToken == "" {
		log.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	log.Info().Msg("Starting ngrok tunnel...")

	tunnel := ngrokConfig.HTTPEndpoint()
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Info().Str("domain", domain).Msg("Using custom ngrok domain")
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return
	}

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Info().
		Str("url", tun.URL()).
		Str("api", tun.URL()+"/api").
		Str("mcp", tun.URL()+"/mcp").
		Msg("🚀 Ngrok tunnel established")

	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Ngrok server error")
	}
	log.Info().Msg("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl. Removing a session cancels its pending timers.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = defaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Info().Int("removed", removed).Msg("Cleaned up expired sessions")
			}
		}
	}
}

// runMCP runs an MCP stdio server. It reuses the API at --api-url when it
// answers; otherwise it starts an internal HTTP API on a random loopback port.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")

	if !apiAvailable(baseURL) {
		log.Info().Str("url", baseURL).Msg("No external API server found, starting internal HTTP server")

		hub := websocket.NewHub()
		go hub.Run()
		defer hub.Stop()

		svcs, err := initializeServices(cmd.String("config-dir"), cmd.String("default-config"), service.WithNotifier(hub))
		if err != nil {
			return err
		}
		defer svcs.sessions.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		httpServer := &http.Server{Handler: api.NewServer(svcs.game, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// apiAvailable reports whether a memory game API answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(strings.TrimRight(baseURL, "/") + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runPlay plays one session in the terminal against an in-process service
func runPlay(ctx context.Context, cmd *cli.Command) error {
	// Logs would tear the alternate screen
	log.Logger = log.Output(io.Discard)

	svcs, err := initializeServices(cmd.String("config-dir"), cmd.String("default-config"))
	if err != nil {
		return err
	}
	defer svcs.sessions.Close()

	return tui.Run(ctx, svcs.game, cmd.String("config"), tea.WithAltScreen())
}

// runWatch prints every event published for one session, or for all
// sessions when no ID is given, until interrupted
func runWatch(ctx context.Context, cmd *cli.Command) error {
	nc, err := events.Connect(cmd.String("nats-url"), AppName+" watcher")
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer nc.Close()

	sessionID := cmd.Args().First()
	sub, err := events.Watch(nc, cmd.String("nats-prefix"), sessionID,
		func(event service.GameEvent) {
			fmt.Println(formatEvent(event))
		},
		func(err error) {
			log.Warn().Err(err).Msg("Dropping malformed event")
		})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	log.Info().Str("subject", sub.Subject).Msg("Watching session events")
	<-ctx.Done()
	return nil
}

// formatEvent renders one event as a single line
func formatEvent(event service.GameEvent) string {
	line := fmt.Sprintf("%s %s %-10s", event.Timestamp.Format(time.TimeOnly), event.SessionID, event.Type)
	if view := event.GameState; view != nil {
		line += fmt.Sprintf(" phase=%s", view.Phase)
		if view.Difficulty != "" {
			line += fmt.Sprintf(" difficulty=%s pairs=%d/%d clicks=%d", view.Difficulty, view.MatchedPairs, view.PairCount, view.Clicks)
		}
	}
	return line
}

// runValidate validates every rule set in dirs and prints a report
func runValidate(w io.Writer, dirs []string) error {
	var results []validate.Result
	for _, dir := range dirs {
		found, err := validate.Dir(dir)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", dir, err)
		}
		results = append(results, found...)
	}

	if !validate.Report(w, results) {
		return ErrInvalidConfigs
	}
	return nil
}
