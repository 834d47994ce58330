package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itqanlabs/itqan/internal/config"
	"github.com/itqanlabs/itqan/internal/store"
)

// defaultCurriculum is the starter level/lesson set provisioned by seed.
var defaultCurriculum = []struct {
	title   string
	lessons []string
}{
	{"الحروف والأصوات", []string{"الحروف المتشابهة", "الحركات القصيرة", "المد الطويل"}},
	{"الكلمات والجمل", []string{"كلمات من ثلاثة حروف", "كلمات من أربعة حروف", "جمل قصيرة"}},
	{"القراءة المتصلة", []string{"فقرات قصيرة", "قصص مصورة", "قراءة جهرية"}},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Provision the default curriculum and optionally a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd, config.Load())
		if err != nil {
			return err
		}
		defer st.Close()
		ctx := cmd.Context()

		existing, err := st.Curriculum().Levels(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			fmt.Printf("curriculum already seeded (%d levels)\n", len(existing))
		} else {
			for i, lvl := range defaultCurriculum {
				level := &store.Level{Title: lvl.title, OrderIndex: i}
				if err := st.Curriculum().CreateLevel(ctx, level); err != nil {
					return fmt.Errorf("create level %q: %w", lvl.title, err)
				}
				for j, title := range lvl.lessons {
					lesson := &store.Lesson{
						LevelID:    level.ID,
						Title:      title,
						OrderIndex: j,
						TotalSteps: 4,
					}
					if err := st.Curriculum().CreateLesson(ctx, lesson); err != nil {
						return fmt.Errorf("create lesson %q: %w", title, err)
					}
				}
			}
			fmt.Printf("seeded %d levels\n", len(defaultCurriculum))
		}

		if name, _ := cmd.Flags().GetString("user"); name != "" {
			age, _ := cmd.Flags().GetString("age-group")
			u := &store.User{Name: name, AgeGroup: age}
			if err := st.Users().Create(ctx, u); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Printf("created user %s (%s)\n", u.ID, u.Name)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().String("user", "", "Also create a user with this name")
	seedCmd.Flags().String("age-group", "children", "Age group for the created user")
}
