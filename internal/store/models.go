package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is a learner account with the aggregate counters the progress
// service maintains: streak, stars and completed-lesson totals.
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"not null"`
	AgeGroup         string
	StreakDays       int
	TotalStars       int
	CompletedLessons int
	LastActivityAt   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Level is curriculum reference data. Rows are provisioned by the seed
// command and read-only to the core services.
type Level struct {
	ID         uint   `gorm:"primaryKey"`
	Title      string `gorm:"not null"`
	OrderIndex int    `gorm:"uniqueIndex;not null"`
	CreatedAt  time.Time
}

// Lesson belongs to a Level; OrderIndex orders lessons within it.
type Lesson struct {
	ID         uint   `gorm:"primaryKey"`
	LevelID    uint   `gorm:"index;not null"`
	Title      string `gorm:"not null"`
	OrderIndex int    `gorm:"not null"`
	TotalSteps int
	CreatedAt  time.Time
}

// ProgressRecord tracks one user's standing on a level or on a single
// lesson. LessonID nil marks the level-aggregate row. The composite
// unique index makes concurrent get-or-create resolvable by retry.
type ProgressRecord struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_level_lesson;not null"`
	LevelID      uint      `gorm:"uniqueIndex:idx_user_level_lesson;not null"`
	LessonID     *uint     `gorm:"uniqueIndex:idx_user_level_lesson"`
	Fraction     float64
	Locked       bool
	Completed    bool
	CompletedAt  *time.Time
	CurrentStep  int
	TotalSteps   int
	LastPosition datatypes.JSON
	LearnedItems datatypes.JSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SpeechActivity is one recorded reading attempt. Rows are immutable
// after creation.
type SpeechActivity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;index;not null"`
	StoryID        string    `gorm:"index"`
	OriginalText   string    `gorm:"not null"`
	RecognizedText string
	Accuracy       float64
	AudioRef       string
	CreatedAt      time.Time
}

// SpeechErrorRecord is one mispronounced word inside an activity.
// UserID is denormalized so the selector's grouped counts avoid a join.
type SpeechErrorRecord struct {
	ID           uint      `gorm:"primaryKey"`
	ActivityID   uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpectedWord string    `gorm:"not null"`
	SpokenWord   string
	Severity     string `gorm:"not null"`
	Category     string
	CreatedAt    time.Time
}

// ContentBundle is a generated story or exercise set together with its
// enrichments. TargetWords, Vocabulary and Questions are stored as JSON
// blobs and decoded by the owning service.
type ContentBundle struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind            string    `gorm:"index;not null"`
	Text            string
	HighlightedText string
	TargetWords     datatypes.JSON
	Vocabulary      datatypes.JSON
	Questions       datatypes.JSON
	Moral           string
	Theme           string
	AgeGroup        string
	Difficulty      string
	Length          string
	Repaired        bool
	ImagesGenerated bool
	GeneratedAt     time.Time
	CreatedAt       time.Time
}

// Bundle kinds.
const (
	BundleKindStory     = "story"
	BundleKindExercises = "exercises"
)

// Illustration is one generated scene image for a bundle. Rows are
// appended by the background worker as images succeed.
type Illustration struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BundleID   uuid.UUID `gorm:"type:uuid;index;not null"`
	SceneIndex int       `gorm:"not null"`
	Prompt     string
	ImageRef   string
	Style      string
	CreatedAt  time.Time
}

// AICallLog is the audit row written for every model call, success or
// failure.
type AICallLog struct {
	ID           uint   `gorm:"primaryKey"`
	Provider     string `gorm:"not null"`
	Model        string `gorm:"not null"`
	Purpose      string `gorm:"index"`
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
	CreatedAt    time.Time
}
