package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/itqanlabs/itqan/internal/config"
	"github.com/itqanlabs/itqan/internal/llm"
	"github.com/itqanlabs/itqan/internal/selector"
	"github.com/itqanlabs/itqan/internal/storygen"
)

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "Generate pronunciation drills for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		userID, err := userFlag(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), llm.ConfigFromEnv().Timeout)
		defer cancel()

		provider, err := newProvider(ctx, st)
		if err != nil {
			return err
		}

		sel := selector.New(st, log)
		svc := storygen.NewService(provider, st, sel, log)

		count, _ := cmd.Flags().GetInt("count")
		set, err := svc.GenerateExercises(ctx, userID, count)
		if err != nil {
			return err
		}
		return printJSON(set)
	},
}

func init() {
	exercisesCmd.Flags().String("user", "", "User ID (required)")
	exercisesCmd.Flags().Int("count", 5, "Number of exercises")
	_ = exercisesCmd.MarkFlagRequired("user")
}
