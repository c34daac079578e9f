package models

// GenerationState is the single active phase of the generation controller.
// Exactly one is active at any time; every generation-class flow returns to
// StateIdle on completion, success or failure, before another may start.
type GenerationState string

const (
	StateIdle             GenerationState = "IDLE"
	StateGeneratingDesign GenerationState = "GENERATING_DESIGN"
	StateGeneratingImage  GenerationState = "GENERATING_IMAGE"
	StateGeneratingEnv    GenerationState = "GENERATING_ENV"
	StateGeneratingAudio  GenerationState = "GENERATING_AUDIO"
	StateEvolving         GenerationState = "EVOLVING"
	StateUpdatingField    GenerationState = "UPDATING_FIELD"
	StateSenseiThinking   GenerationState = "SENSEI_THINKING"
)
