package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/itqanlabs/itqan/internal/config"
	"github.com/itqanlabs/itqan/internal/illustrator"
	"github.com/itqanlabs/itqan/internal/llm"
	"github.com/itqanlabs/itqan/internal/selector"
	"github.com/itqanlabs/itqan/internal/storygen"
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Generate a practice story for a user",
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

		withImages, _ := cmd.Flags().GetBool("images")
		style, _ := cmd.Flags().GetString("style")
		var worker *illustrator.Worker
		if withImages {
			images, err := llm.NewOpenAIImageGenerator(llm.ConfigFromEnv().OpenAI)
			if err != nil {
				return err
			}
			worker = illustrator.NewWorker(st, images, log, 1)
		}

		theme, _ := cmd.Flags().GetString("theme")
		length, _ := cmd.Flags().GetString("length")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		story, err := svc.GenerateStory(ctx, userID, storygen.Options{
			Theme:      theme,
			Length:     length,
			Difficulty: difficulty,
			Style:      style,
		})
		if err != nil {
			return err
		}

		if worker != nil {
			if err := worker.Process(ctx, illustrator.Job{BundleID: story.ID, Style: style}); err != nil {
				log.Warn("illustrations failed", "error", err)
			}
		}

		return printJSON(story)
	},
}

func init() {
	storyCmd.Flags().String("user", "", "User ID (required)")
	storyCmd.Flags().String("theme", "", "Story theme (random when empty)")
	storyCmd.Flags().String("length", "short", "Story length: short or medium")
	storyCmd.Flags().String("difficulty", "intermediate", "Difficulty: beginner, intermediate, advanced")
	storyCmd.Flags().String("style", "", "Illustration style hint")
	storyCmd.Flags().Bool("images", false, "Generate scene illustrations as well")
	_ = storyCmd.MarkFlagRequired("user")
}

// userFlag parses the required --user flag.
func userFlag(cmd *cobra.Command) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("user")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id %q: %w", raw, err)
	}
	return id, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
