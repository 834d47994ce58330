package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/itqanlabs/itqan/internal/logger"
	"github.com/itqanlabs/itqan/internal/phonics"
	"github.com/itqanlabs/itqan/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store, uuid.UUID) {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	u := &store.User{Name: "ياسمين"}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return NewService(st, logger.Nop()), st, u.ID
}

func TestRecordActivity_Validation(t *testing.T) {
	svc, _, userID := newTestService(t)
	ctx := context.Background()

	cases := []ActivityInput{
		{StoryID: "s", OriginalText: "نص"},          // no user
		{UserID: userID, OriginalText: "نص"},        // no story
		{UserID: userID, StoryID: "s"},              // no text
		{UserID: userID, StoryID: "s", OriginalText: "   "}, // blank text
	}
	for i, in := range cases {
		if _, err := svc.RecordActivity(ctx, in); !errors.Is(err, store.ErrValidation) {
			t.Errorf("case %d: got %v, want ErrValidation", i, err)
		}
	}
}

func TestRecordActivity_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.RecordActivity(context.Background(), ActivityInput{
		UserID:       uuid.New(),
		StoryID:      "s",
		OriginalText: "نص القصة",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRecordActivity_PerfectReading(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()

	res, err := svc.RecordActivity(ctx, ActivityInput{
		UserID:         userID,
		StoryID:        "s1",
		OriginalText:   "ذهب الولد إلى البيت",
		RecognizedText: "ذهب الولد إلى البيت",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Accuracy != 100 {
		t.Errorf("accuracy = %v, want 100", res.Accuracy)
	}
	if len(res.Errors) != 0 {
		t.Errorf("got %d errors for a perfect reading", len(res.Errors))
	}

	recs, err := st.Speech().ErrorsForActivity(ctx, res.ActivityID)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("persisted %d error records, want 0", len(recs))
	}
}

func TestRecordActivity_ClassifiesSubstitution(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()

	// ثعلب read as سعلب: a known merger.
	res, err := svc.RecordActivity(ctx, ActivityInput{
		UserID:         userID,
		StoryID:        "s1",
		OriginalText:   "رأى الصياد ثعلب الغابة",
		RecognizedText: "رأى الصياد سعلب الغابة",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Accuracy >= 100 {
		t.Errorf("accuracy = %v, want below 100", res.Accuracy)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %+v", len(res.Errors), res.Errors)
	}
	we := res.Errors[0]
	if we.Expected != "ثعلب" || we.Spoken != "سعلب" {
		t.Errorf("error pair = %q/%q", we.Expected, we.Spoken)
	}

	recs, err := st.Speech().ErrorsForActivity(ctx, res.ActivityID)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("persisted %d records, want 1", len(recs))
	}
	if recs[0].Severity != string(we.Severity) || recs[0].Category == "" {
		t.Errorf("persisted record = %+v", recs[0])
	}
}

func TestRecordActivity_SkippedWordIsSevere(t *testing.T) {
	svc, _, userID := newTestService(t)

	res, err := svc.RecordActivity(context.Background(), ActivityInput{
		UserID:         userID,
		StoryID:        "s1",
		OriginalText:   "قرأ الولد الكتاب الكبير",
		RecognizedText: "قرأ الولد الكبير",
	})
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, we := range res.Errors {
		if we.Expected == "الكتاب" {
			found = true
			if we.Severity != phonics.SeveritySevere {
				t.Errorf("skipped word severity = %q, want severe", we.Severity)
			}
		}
	}
	if !found {
		t.Errorf("skipped word not reported: %+v", res.Errors)
	}
}

func TestHistory_FiltersByStory(t *testing.T) {
	svc, _, userID := newTestService(t)
	ctx := context.Background()

	for _, storyID := range []string{"a", "a", "b"} {
		if _, err := svc.RecordActivity(ctx, ActivityInput{
			UserID:         userID,
			StoryID:        storyID,
			OriginalText:   "نص القراءة",
			RecognizedText: "نص القراءة",
		}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := svc.History(ctx, userID, "", 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("all: %d, %v", len(all), err)
	}
	onlyA, err := svc.History(ctx, userID, "a", 0)
	if err != nil || len(onlyA) != 2 {
		t.Fatalf("filtered: %d, %v", len(onlyA), err)
	}
}

func TestUserStats(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()

	stats, err := svc.UserStats(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalActivities != 0 || stats.Trend != "stable" {
		t.Errorf("empty stats = %+v", stats)
	}

	// Insert a rising accuracy series directly.
	for _, acc := range []float64{50, 60, 70, 80, 90} {
		act := &store.SpeechActivity{
			UserID:       userID,
			StoryID:      "s",
			OriginalText: "نص",
			Accuracy:     acc,
		}
		if err := st.Speech().CreateActivity(ctx, act); err != nil {
			t.Fatal(err)
		}
	}

	stats, err = svc.UserStats(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalActivities != 5 {
		t.Errorf("total = %d", stats.TotalActivities)
	}
	if stats.AverageAccuracy != 70 {
		t.Errorf("average = %v, want 70", stats.AverageAccuracy)
	}
	if stats.HighestAccuracy != 90 {
		t.Errorf("highest = %v, want 90", stats.HighestAccuracy)
	}
}

func TestAlign_PairsInOrder(t *testing.T) {
	pairs := align(
		[]string{"ذهب", "الولد", "الى", "البيت"},
		[]string{"ذهب", "الى", "البيت"},
	)
	if len(pairs) != 4 {
		t.Fatalf("got %d pairs, want one per expected word", len(pairs))
	}
	if pairs[0].spoken != "ذهب" {
		t.Errorf("first pair = %+v", pairs[0])
	}
	if pairs[1].spoken != "" {
		t.Errorf("dropped word should pair empty, got %+v", pairs[1])
	}
	if pairs[2].spoken != "الى" || pairs[3].spoken != "البيت" {
		t.Errorf("tail misaligned: %+v", pairs[2:])
	}
}
