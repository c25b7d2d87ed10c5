package cmd

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kwonjungwook/short0812/internal/collection"
	"github.com/kwonjungwook/short0812/internal/config"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/searchcache"
	"github.com/kwonjungwook/short0812/internal/storage"
)

var (
	statsHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"})
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection and search cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log := logger.NewNop()
		store, err := storage.Open(cfg.DataDir(), log)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}

		_, stats, err := collection.New(store, log).List()
		if err != nil {
			return fmt.Errorf("reading collection: %w", err)
		}

		fmt.Println(statsHeaderStyle.Render("Collection"))
		fmt.Printf("  %s %s\n", statsLabelStyle.Render("data dir:"), store.Dir())
		fmt.Printf("  %s %d\n", statsLabelStyle.Render("collected:"), stats.Total)
		printCounts("by platform", stats.Platforms)
		printCounts("by country", stats.Countries)
		printCounts("by category", stats.Categories)
		printCounts("by status", stats.Statuses)

		cacheStats := searchcache.New(store, log).Stats()
		fmt.Println(statsHeaderStyle.Render("Search cache"))
		fmt.Printf("  %s %d\n", statsLabelStyle.Render("active entries:"), cacheStats.ActiveCount)
		fmt.Printf("  %s %d\n", statsLabelStyle.Render("expired entries:"), cacheStats.ExpiredCount)
		fmt.Printf("  %s %d\n", statsLabelStyle.Render("cached items:"), cacheStats.TotalItemCount)
		return nil
	},
}

func printCounts(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("  %s\n", statsLabelStyle.Render(label+":"))
	for _, k := range keys {
		fmt.Printf("    %-16s %d\n", k, counts[k])
	}
}
