package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itqanlabs/itqan/internal/config"
	"github.com/itqanlabs/itqan/internal/speech"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a reading attempt and classify its errors",
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

		storyID, _ := cmd.Flags().GetString("story")
		original, _ := cmd.Flags().GetString("text")
		recognized, _ := cmd.Flags().GetString("recognized")
		audio, _ := cmd.Flags().GetString("audio")

		svc := speech.NewService(st, log)
		res, err := svc.RecordActivity(cmd.Context(), speech.ActivityInput{
			UserID:         userID,
			StoryID:        storyID,
			OriginalText:   original,
			RecognizedText: recognized,
			AudioRef:       audio,
		})
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

func init() {
	recordCmd.Flags().String("user", "", "User ID (required)")
	recordCmd.Flags().String("story", "", "Story ID (required)")
	recordCmd.Flags().String("text", "", "Original text the user read (required)")
	recordCmd.Flags().String("recognized", "", "Recognized speech transcript")
	recordCmd.Flags().String("audio", "", "Audio file reference")
	_ = recordCmd.MarkFlagRequired("user")
	_ = recordCmd.MarkFlagRequired("story")
	_ = recordCmd.MarkFlagRequired("text")
}
