package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itqanlabs/itqan/internal/config"
	"github.com/itqanlabs/itqan/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show or advance a user's progress",
	Long: `Without advancement flags, prints the user's full progress overview.
With --level and --fraction, advances the level; with --level, --lesson
and --step, advances the lesson.`,
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

		svc := progress.NewService(st, log)
		ctx := cmd.Context()

		levelID, _ := cmd.Flags().GetUint("level")
		lessonID, _ := cmd.Flags().GetUint("lesson")
		switch {
		case levelID != 0 && lessonID != 0:
			step, _ := cmd.Flags().GetInt("step")
			lp, err := svc.AdvanceLesson(ctx, userID, levelID, lessonID, step)
			if err != nil {
				return err
			}
			return printJSON(lp)
		case levelID != 0:
			fraction, _ := cmd.Flags().GetFloat64("fraction")
			lp, err := svc.AdvanceLevel(ctx, userID, levelID, fraction)
			if err != nil {
				return err
			}
			return printJSON(lp)
		default:
			ov, err := svc.Overview(ctx, userID)
			if err != nil {
				return err
			}
			return printJSON(ov)
		}
	},
}

func init() {
	progressCmd.Flags().String("user", "", "User ID (required)")
	progressCmd.Flags().Uint("level", 0, "Level to advance")
	progressCmd.Flags().Uint("lesson", 0, "Lesson to advance (requires --level)")
	progressCmd.Flags().Int("step", 0, "Current step within the lesson")
	progressCmd.Flags().Float64("fraction", 0, "Level completion fraction 0-100")
	_ = progressCmd.MarkFlagRequired("user")
}
