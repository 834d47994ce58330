package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/itqanlabs/itqan/internal/logger"
	"github.com/itqanlabs/itqan/internal/store"
)

// newTestService builds a service over an in-memory store with a small
// curriculum: two levels, two lessons each.
func newTestService(t *testing.T) (*Service, *store.Store, uuid.UUID) {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	for i, title := range []string{"المستوى الأول", "المستوى الثاني"} {
		level := &store.Level{Title: title, OrderIndex: i}
		if err := st.Curriculum().CreateLevel(ctx, level); err != nil {
			t.Fatal(err)
		}
		for j := range 2 {
			lesson := &store.Lesson{LevelID: level.ID, Title: "درس", OrderIndex: j, TotalSteps: 4}
			if err := st.Curriculum().CreateLesson(ctx, lesson); err != nil {
				t.Fatal(err)
			}
		}
	}

	u := &store.User{Name: "سارة"}
	if err := st.Users().Create(ctx, u); err != nil {
		t.Fatal(err)
	}

	return NewService(st, logger.Nop()), st, u.ID
}

func levelIDs(t *testing.T, st *store.Store) (uint, uint) {
	t.Helper()
	levels, err := st.Curriculum().Levels(context.Background())
	if err != nil || len(levels) != 2 {
		t.Fatalf("levels: %v (%d)", err, len(levels))
	}
	return levels[0].ID, levels[1].ID
}

func TestAdvanceLevel_FractionOutOfRange(t *testing.T) {
	svc, st, userID := newTestService(t)
	first, _ := levelIDs(t, st)

	for _, f := range []float64{-1, 101} {
		if _, err := svc.AdvanceLevel(context.Background(), userID, first, f); !errors.Is(err, store.ErrValidation) {
			t.Errorf("fraction %v: got %v, want ErrValidation", f, err)
		}
	}
}

func TestAdvanceLevel_UnknownUser(t *testing.T) {
	svc, st, _ := newTestService(t)
	first, _ := levelIDs(t, st)

	_, err := svc.AdvanceLevel(context.Background(), uuid.New(), first, 50)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestAdvanceLevel_Partial(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()
	first, second := levelIDs(t, st)

	lp, err := svc.AdvanceLevel(ctx, userID, first, 60)
	if err != nil {
		t.Fatal(err)
	}
	if lp.Fraction != 60 || lp.Completed {
		t.Errorf("got %+v, want fraction 60 not completed", lp)
	}

	// Next level still locked.
	rec, err := st.Progress().GetOrCreate(ctx, userID, second, nil, store.ProgressRecord{Locked: true})
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Locked {
		t.Error("second level unlocked before first completed")
	}
}

func TestAdvanceLevel_CompletionAwardsOnce(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()
	first, second := levelIDs(t, st)

	lp, err := svc.AdvanceLevel(ctx, userID, first, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !lp.Completed || lp.CompletedAt == nil {
		t.Fatalf("got %+v, want completed with timestamp", lp)
	}
	firstStamp := *lp.CompletedAt

	user, err := st.Users().Get(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if user.TotalStars != CompletionReward {
		t.Errorf("stars = %d, want %d", user.TotalStars, CompletionReward)
	}
	if user.StreakDays != 1 {
		t.Errorf("streak = %d, want 1", user.StreakDays)
	}
	if user.CompletedLessons != 1 {
		t.Errorf("completed lessons = %d, want 1", user.CompletedLessons)
	}

	// Next level unlocked.
	rec, err := st.Progress().Get(ctx, userID, second, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Locked {
		t.Error("second level still locked after completion")
	}

	// Re-completing must not re-award or move the stamp.
	time.Sleep(10 * time.Millisecond)
	lp2, err := svc.AdvanceLevel(ctx, userID, first, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !lp2.CompletedAt.Equal(firstStamp) {
		t.Error("completion timestamp moved on second crossing")
	}
	user, _ = st.Users().Get(ctx, userID)
	if user.TotalStars != CompletionReward {
		t.Errorf("stars re-awarded: %d", user.TotalStars)
	}
}

func TestAdvanceLevel_CompletedNeverMovesBackwards(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()
	first, _ := levelIDs(t, st)

	if _, err := svc.AdvanceLevel(ctx, userID, first, 100); err != nil {
		t.Fatal(err)
	}

	lp, err := svc.AdvanceLevel(ctx, userID, first, 60)
	if err != nil {
		t.Fatal(err)
	}
	if !lp.Completed || lp.Fraction != 100 {
		t.Errorf("got %+v, want completed with fraction 100", lp)
	}

	rec, err := st.Progress().Get(ctx, userID, first, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Completed || rec.Fraction != 100 {
		t.Errorf("stored record %+v, want completed with fraction 100", rec)
	}
}

func TestAdvanceLesson_KeepsDirectlyCompletedLevel(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()
	first, _ := levelIDs(t, st)
	lessons, _ := st.Curriculum().Lessons(ctx, first)

	if _, err := svc.AdvanceLevel(ctx, userID, first, 100); err != nil {
		t.Fatal(err)
	}

	// One of two lessons done: the roll-up ratio would be 50, but the
	// level already completed and must keep its terminal state.
	lp, err := svc.AdvanceLesson(ctx, userID, first, lessons[0].ID, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !lp.Completed || lp.Fraction != 100 {
		t.Errorf("got %+v, want completed with fraction 100", lp)
	}

	user, err := st.Users().Get(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if user.TotalStars != CompletionReward {
		t.Errorf("stars = %d, want %d (no re-award via roll-up)", user.TotalStars, CompletionReward)
	}
}

func TestAdvanceLesson_CompletedLessonKeepsFraction(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()
	first, _ := levelIDs(t, st)
	lessons, _ := st.Curriculum().Lessons(ctx, first)
	lessonID := lessons[0].ID

	if _, err := svc.AdvanceLesson(ctx, userID, first, lessonID, 4); err != nil {
		t.Fatal(err)
	}
	// Replaying step 1 must not drag a completed lesson below 100.
	if _, err := svc.AdvanceLesson(ctx, userID, first, lessonID, 1); err != nil {
		t.Fatal(err)
	}

	rec, err := st.Progress().Get(ctx, userID, first, &lessonID)
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Completed || rec.Fraction != 100 {
		t.Errorf("lesson record %+v, want completed with fraction 100", rec)
	}
	if rec.CurrentStep != 1 {
		t.Errorf("current step = %d, want 1 (position still tracked)", rec.CurrentStep)
	}

	user, _ := st.Users().Get(ctx, userID)
	if user.CompletedLessons != 1 {
		t.Errorf("completed lessons = %d, want 1", user.CompletedLessons)
	}
}

func TestUnlockNext_TopLevelNoop(t *testing.T) {
	svc, st, userID := newTestService(t)
	_, second := levelIDs(t, st)

	if err := svc.UnlockNext(context.Background(), userID, second); err != nil {
		t.Fatalf("top-level UnlockNext: %v", err)
	}
}

func TestAdvanceLesson_RollsUpLevel(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()
	first, _ := levelIDs(t, st)
	lessons, err := st.Curriculum().Lessons(ctx, first)
	if err != nil || len(lessons) != 2 {
		t.Fatalf("lessons: %v", err)
	}

	// Finish the first lesson: level is half done.
	lp, err := svc.AdvanceLesson(ctx, userID, first, lessons[0].ID, 4)
	if err != nil {
		t.Fatal(err)
	}
	if lp.Fraction != 50 || lp.Completed {
		t.Errorf("after one lesson: %+v, want fraction 50", lp)
	}
	user, _ := st.Users().Get(ctx, userID)
	if user.CompletedLessons != 1 {
		t.Errorf("completed lessons = %d, want 1", user.CompletedLessons)
	}

	// Finish the second: level completes and awards stars.
	lp, err = svc.AdvanceLesson(ctx, userID, first, lessons[1].ID, 4)
	if err != nil {
		t.Fatal(err)
	}
	if lp.Fraction != 100 || !lp.Completed {
		t.Errorf("after both lessons: %+v, want completed", lp)
	}
	user, _ = st.Users().Get(ctx, userID)
	if user.TotalStars != CompletionReward {
		t.Errorf("stars = %d, want %d", user.TotalStars, CompletionReward)
	}
}

func TestAdvanceLesson_WrongLevel(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()
	first, second := levelIDs(t, st)
	lessons, _ := st.Curriculum().Lessons(ctx, first)

	_, err := svc.AdvanceLesson(ctx, userID, second, lessons[0].ID, 1)
	if !errors.Is(err, store.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestStreak(t *testing.T) {
	now := time.Now()

	u := &store.User{StreakDays: 4}
	recent := now.Add(-2 * time.Hour)
	u.LastActivityAt = &recent
	updateStreak(u, now)
	if u.StreakDays != 5 {
		t.Errorf("within window: streak = %d, want 5", u.StreakDays)
	}

	stale := now.Add(-48 * time.Hour)
	u = &store.User{StreakDays: 9, LastActivityAt: &stale}
	updateStreak(u, now)
	if u.StreakDays != 1 {
		t.Errorf("after gap: streak = %d, want 1", u.StreakDays)
	}

	u = &store.User{}
	updateStreak(u, now)
	if u.StreakDays != 1 || u.LastActivityAt == nil {
		t.Errorf("first activity: %+v", u)
	}
}

func TestOverview_LazyCreation(t *testing.T) {
	svc, _, userID := newTestService(t)

	ov, err := svc.Overview(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ov.Levels) != 2 {
		t.Fatalf("got %d levels, want 2", len(ov.Levels))
	}
	if ov.Levels[0].Locked {
		t.Error("first level locked by default")
	}
	if !ov.Levels[1].Locked {
		t.Error("second level unlocked by default")
	}
	for _, lvl := range ov.Levels {
		if len(lvl.Lessons) != 2 {
			t.Errorf("level %d has %d lessons, want 2", lvl.LevelID, len(lvl.Lessons))
		}
	}
}

func TestSaveLessonPosition_MergesLearned(t *testing.T) {
	svc, st, userID := newTestService(t)
	ctx := context.Background()
	first, _ := levelIDs(t, st)
	lessons, _ := st.Curriculum().Lessons(ctx, first)
	lessonID := lessons[0].ID

	pos := map[string]any{"page": 2}
	if err := svc.SaveLessonPosition(ctx, userID, first, lessonID, pos, []string{"بيت", "شمس"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.SaveLessonPosition(ctx, userID, first, lessonID, nil, []string{"شمس", "قمر"}); err != nil {
		t.Fatal(err)
	}

	rec, err := st.Progress().Get(ctx, userID, first, &lessonID)
	if err != nil {
		t.Fatal(err)
	}
	if string(rec.LastPosition) != `{"page":2}` {
		t.Errorf("last position = %s", rec.LastPosition)
	}
	if string(rec.LearnedItems) != `["بيت","شمس","قمر"]` {
		t.Errorf("learned items = %s", rec.LearnedItems)
	}
}
