package usecase

// Context keys for error values
const (
	GenerationIDKey = "generation_id"
	SpeakKey        = "speak"
)
