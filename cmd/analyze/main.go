// Command analyze prints human-readable statistics about rule sets. For each
// config and difficulty it plays many seeded games with the perfect-memory
// solver and summarizes the click counts, then checks that the shuffle puts
// a given icon in every slot about equally often.
package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/memorygame/game/config"
	"github.com/wricardo/mcp-training/memorygame/game/engine"
	"github.com/wricardo/mcp-training/memorygame/game/solver"
)

// DifficultyStats summarizes solver games on one difficulty
type DifficultyStats struct {
	Difficulty engine.Difficulty
	Games      int
	Failures   int
	MinClicks  int
	MaxClicks  int
	MeanClicks float64
	// Optimal is the fewest clicks any game of this size can take
	Optimal int
}

// Efficiency is Optimal divided by the mean, 1.0 being a perfect score
func (s DifficultyStats) Efficiency() float64 {
	if s.MeanClicks == 0 {
		return 0
	}
	return float64(s.Optimal) / s.MeanClicks
}

// Uniformity reports how evenly the shuffle spreads one icon over the slots
type Uniformity struct {
	Deals int
	Slots int
	// MaxDeviation is the largest relative gap between an observed slot
	// frequency and the expected one
	MaxDeviation float64
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "Play seeded solver games against rule sets and print statistics",
		ArgsUsage: "[config files or directories]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "games", Value: 200, Usage: "Games per difficulty"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "First seed; game i uses seed+i"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				paths = []string{"configs"}
			}
			files, err := expand(paths)
			if err != nil {
				return err
			}
			for _, file := range files {
				fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
				analyzeConfig(os.Stdout, file, int(cmd.Int("games")), cmd.Uint64("seed"))
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("analyze failed")
	}
}

// expand replaces directories with the rule set files they contain
func expand(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		for _, pattern := range []string{"*.json", "*.hcl"} {
			matches, err := filepath.Glob(filepath.Join(path, pattern))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
	}
	sort.Strings(files)
	return files, nil
}

func analyzeConfig(w io.Writer, path string, games int, seed uint64) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "Error reading file: %v\n", err)
		return
	}

	cfg, err := config.Parse(data, path)
	if err != nil {
		fmt.Fprintf(w, "Error parsing config: %v\n", err)
		return
	}
	if err := engine.ValidateGameConfig(cfg); err != nil {
		fmt.Fprintf(w, "❌ %v\n", err)
		return
	}

	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Palette: %d icons\n", len(cfg.Palette))
	fmt.Fprintf(w, "Deal delay: %v, resolve delay: %v\n", cfg.DealDelay(), cfg.ResolveDelay())

	for _, d := range engine.Difficulties() {
		stats := playGames(cfg, d, games, seed)
		fmt.Fprintf(w, "\n%s (%d pairs, %d cards)\n", d, d.PairCount(), 2*d.PairCount())
		if stats.Failures > 0 {
			fmt.Fprintf(w, "⚠️  %d of %d games could not be completed\n", stats.Failures, stats.Games)
		}
		fmt.Fprintf(w, "  Clicks: min %d, mean %.1f, max %d (optimal %d)\n",
			stats.MinClicks, stats.MeanClicks, stats.MaxClicks, stats.Optimal)
		fmt.Fprintf(w, "  Efficiency: %.0f%%\n", 100*stats.Efficiency())

		u := shuffleUniformity(cfg.Palette, d.PairCount(), games*10, seed)
		if u.MaxDeviation > 0.25 {
			fmt.Fprintf(w, "  ⚠️  Shuffle skew: a slot deviates %.0f%% from expected over %d deals\n", 100*u.MaxDeviation, u.Deals)
		} else {
			fmt.Fprintf(w, "  ✅ Shuffle spread within %.0f%% over %d deals\n", 100*u.MaxDeviation, u.Deals)
		}
	}
}

// playGames plays games seeded solver games of difficulty d
func playGames(cfg *engine.GameConfig, d engine.Difficulty, games int, seed uint64) DifficultyStats {
	stats := DifficultyStats{
		Difficulty: d,
		Optimal:    engine.MinimumClicks(d.PairCount()),
		MinClicks:  math.MaxInt,
	}

	total := 0
	for i := 0; i < games; i++ {
		eng, err := engine.NewSeededEngine(cfg, seed+uint64(i))
		if err != nil {
			stats.Failures++
			continue
		}
		clicks, err := solver.Play(eng, d)
		stats.Games++
		if err != nil {
			stats.Failures++
			continue
		}
		total += clicks
		stats.MinClicks = min(stats.MinClicks, clicks)
		stats.MaxClicks = max(stats.MaxClicks, clicks)
	}

	completed := stats.Games - stats.Failures
	if completed == 0 {
		stats.MinClicks = 0
		return stats
	}
	stats.MeanClicks = float64(total) / float64(completed)
	return stats
}

// shuffleUniformity deals deals decks and counts where the first palette
// icon lands. Each icon appears twice, so every slot should hold it in
// 2/slots of the deals.
func shuffleUniformity(palette []string, pairCount, deals int, seed uint64) Uniformity {
	slots := 2 * pairCount
	u := Uniformity{Deals: deals, Slots: slots}
	if deals == 0 || pairCount == 0 {
		return u
	}

	r := rand.New(rand.NewPCG(seed, seed+1))
	counts := make([]int, slots)
	for i := 0; i < deals; i++ {
		deck := engine.Shuffle(palette, pairCount, r)
		for slot, icon := range deck {
			if icon == palette[0] {
				counts[slot]++
			}
		}
	}

	expected := 2 * float64(deals) / float64(slots)
	for _, n := range counts {
		u.MaxDeviation = max(u.MaxDeviation, math.Abs(float64(n)-expected)/expected)
	}
	return u
}
