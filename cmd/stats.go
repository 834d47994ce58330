package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itqanlabs/itqan/internal/config"
	"github.com/itqanlabs/itqan/internal/speech"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a user's reading statistics",
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

		svc := speech.NewService(st, log)
		stats, err := svc.UserStats(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

func init() {
	statsCmd.Flags().String("user", "", "User ID (required)")
	_ = statsCmd.MarkFlagRequired("user")
}
