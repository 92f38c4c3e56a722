package quizgen

// DefaultCount is the number of questions per quiz.
const DefaultCount = 5

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated set. The first failure stops the pipeline.
	Validators []Validator

	// Count is the number of questions requested.
	Count int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&CountValidator{},
			&StructuralValidator{},
			&DuplicateValidator{},
		},
		Count:       DefaultCount,
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}
