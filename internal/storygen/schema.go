package storygen

import "github.com/itqanlabs/itqan/internal/llm"

// StorySchema defines the JSON schema for story generation responses.
var StorySchema = &llm.Schema{
	Name:        "practice-story",
	Description: "A short Arabic practice story with vocabulary, comprehension questions and a moral",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The full story text in simple Modern Standard Arabic",
			},
			"vocabulary": map[string]any{
				"type":        "array",
				"minItems":    5,
				"maxItems":    5,
				"description": "Exactly 5 vocabulary items drawn from the story",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"word":    map[string]any{"type": "string"},
						"meaning": map[string]any{"type": "string", "description": "Child-friendly Arabic meaning"},
					},
					"required":             []any{"word", "meaning"},
					"additionalProperties": false,
				},
			},
			"questions": map[string]any{
				"type":        "array",
				"minItems":    3,
				"maxItems":    3,
				"description": "Exactly 3 multiple-choice comprehension questions",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"minItems": 4,
							"maxItems": 4,
							"items":    map[string]any{"type": "string"},
						},
						"correct_answer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "Index of the correct option",
						},
					},
					"required":             []any{"question", "options", "correct_answer"},
					"additionalProperties": false,
				},
			},
			"moral": map[string]any{
				"type":        "string",
				"description": "The lesson of the story, one short Arabic sentence",
			},
		},
		"required":             []any{"text", "vocabulary", "questions", "moral"},
		"additionalProperties": false,
	},
}

// ExercisesSchema defines the JSON schema for exercise generation responses.
var ExercisesSchema = &llm.Schema{
	Name:        "pronunciation-exercises",
	Description: "Short Arabic pronunciation drills for specific difficult words",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"exercises": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"sentence": map[string]any{
							"type":        "string",
							"description": "A short sentence (5-10 words) containing the target word",
						},
						"tip": map[string]any{
							"type":        "string",
							"description": "A short tip on pronouncing the word correctly",
						},
						"drill": map[string]any{
							"type":        "string",
							"description": "A simple vocal drill for practicing the sound",
						},
					},
					"required":             []any{"sentence", "tip", "drill"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"exercises"},
		"additionalProperties": false,
	},
}
