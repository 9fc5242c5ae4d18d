package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gamezone/portal/internal/models"
	"github.com/gamezone/portal/internal/seed"
	"github.com/gamezone/portal/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	GamesOnly bool
}

type seedDump struct {
	Games    []models.Game    `json:"games"`
	Comments []models.Comment `json:"comments"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Print the seed catalog as JSON",
		Long: `Loads the seed catalog into a fresh in-memory store and prints the result,
ids and comment dates included. SEED_RANDOM fixes the comment dates.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.GamesOnly, "games-only", false, "print only the games array")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	cfg, err := loadConfig(cmd, opts.RootOptions)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st := store.NewMemory()
	defer st.Close()
	if _, err := seed.Load(ctx, st, seed.Options{Rand: seedRand(cfg.SeedRandom)}); err != nil {
		return err
	}

	var dump seedDump
	if dump.Games, err = st.ListGames(ctx); err != nil {
		return err
	}
	if dump.Comments, err = st.ListComments(ctx); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	var v any = dump
	if opts.GamesOnly {
		v = dump.Games
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write seed: %w", err)
	}
	return nil
}
