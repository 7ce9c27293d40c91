// Command autoplay plays memory game sessions against a running server over
// the REST API with a perfect-memory strategy. It is handy for smoke testing
// a deployment and for watching games arrive on the WebSocket or NATS feeds.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/memorygame/game/engine"
	"github.com/wricardo/mcp-training/memorygame/game/service"
	"github.com/wricardo/mcp-training/memorygame/game/solver"
)

// ErrTooManyWaits is returned when the board stays locked or loading for
// longer than the player is willing to poll
var ErrTooManyWaits = errors.New("autoplay: board never became playable")

// Player drives one session with the solver
type Player struct {
	client    *Client
	sessionID string
	poll      time.Duration
	maxWaits  int
	// sleep waits between polls; tests replace it to advance a fake clock
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPlayer creates a player for an existing session
func NewPlayer(client *Client, sessionID string, poll time.Duration) *Player {
	return &Player{
		client:    client,
		sessionID: sessionID,
		poll:      poll,
		maxWaits:  200,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Play selects difficulty d, or redeals it when redeal is set, and flips
// until the deck is cleared. It returns the click count of the finished game.
func (p *Player) Play(ctx context.Context, d engine.Difficulty, redeal bool) (int, error) {
	var (
		result *service.ActionResult
		err    error
	)
	if redeal {
		result, err = p.client.Reset(ctx, p.sessionID)
	} else {
		result, err = p.client.SelectDifficulty(ctx, p.sessionID, d)
	}
	if err != nil {
		return 0, err
	}

	s := solver.New()
	view := result.GameState
	waits := 0
	limit := 4 * d.PairCount()

	for !view.Won {
		index, ok := s.Next(view)
		if !ok {
			if waits++; waits > p.maxWaits {
				return view.Clicks, ErrTooManyWaits
			}
			if err := p.sleep(ctx, p.poll); err != nil {
				return view.Clicks, err
			}
			if view, err = p.client.State(ctx, p.sessionID); err != nil {
				return 0, err
			}
			continue
		}

		if limit == 0 {
			return view.Clicks, solver.ErrStuck
		}
		limit--

		result, err := p.client.Flip(ctx, p.sessionID, index)
		if err != nil {
			return view.Clicks, err
		}
		view = result.GameState
		s.Observe(view)

		log.Debug().
			Int("index", index).
			Str("event", string(result.Event)).
			Bool("accepted", result.Accepted).
			Int("clicks", view.Clicks).
			Msg("Flip")
	}
	return view.Clicks, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "Play memory game sessions over the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL", Sources: cli.EnvVars("MEMORY_API_URL")},
			&cli.StringFlag{Name: "config", Usage: "Rule set ID for new sessions"},
			&cli.StringFlag{Name: "continue", Usage: "Play an existing session by ID"},
			&cli.StringFlag{Name: "difficulty", Value: string(engine.Medium), Usage: "easy, medium or hard"},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "Games to play in a row"},
			&cli.DurationFlag{Name: "poll", Value: 250 * time.Millisecond, Usage: "Wait between polls while the board is locked"},
			&cli.BoolFlag{Name: "v", Usage: "Log every flip"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("autoplay failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cmd.Bool("v") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	d, err := engine.ParseDifficulty(cmd.String("difficulty"))
	if err != nil {
		return err
	}

	client := NewClient(cmd.String("url"))
	sessionID := cmd.String("continue")
	if sessionID == "" {
		info, err := client.CreateSession(ctx, cmd.String("config"))
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		sessionID = info.ID
		log.Info().Str("session", sessionID).Str("config", info.ConfigName).Msg("✨ Session created")
	} else if _, err := client.State(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to resume session %s: %w", sessionID, err)
	}

	player := NewPlayer(client, sessionID, cmd.Duration("poll"))
	total := 0
	games := int(cmd.Int("games"))
	for i := 0; i < games; i++ {
		start := time.Now()
		clicks, err := player.Play(ctx, d, i > 0)
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		total += clicks
		log.Info().
			Int("game", i+1).
			Int("clicks", clicks).
			Int("optimal", engine.MinimumClicks(d.PairCount())).
			Dur("took", time.Since(start)).
			Msg("🎉 Victory")
	}

	if games > 1 {
		log.Info().Float64("mean_clicks", float64(total)/float64(games)).Int("games", games).Msg("Done")
	}
	return nil
}
