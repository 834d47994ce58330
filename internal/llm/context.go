package llm

import "context"

type contextKey string

const purposeKey contextKey = "purpose"

// WithPurpose labels the context with what the call is for ("story-gen",
// "exercise-gen"). The audit decorator stores the label with each call.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom reads the purpose label, defaulting to "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
