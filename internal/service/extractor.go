package service

import (
	"context"
	"fmt"

	"roomnlu/internal/model"
)

// ModelExtractor is the interface for secondary slot extractors. Implementations
// call an external text-generation engine and parse its raw output locally.
type ModelExtractor interface {
	// ExtractSlots asks the model to pull slot values out of the utterance.
	// modelName overrides the configured model when non-empty. A failure to
	// obtain any usable mapping returns an *ExtractionError; callers treat
	// that as an empty contribution, never as a fatal pipeline error.
	ExtractSlots(ctx context.Context, utterance, modelName string) (model.SlotMap, error)

	// IsEnabled returns whether the extractor is configured and ready
	IsEnabled() bool
}

// ExtractionError reports that the model produced no parseable slot mapping.
type ExtractionError struct {
	Model string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("ExtractionFailure: model %s: %v", e.Model, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Ensure both extractors implement ModelExtractor
var (
	_ ModelExtractor = (*OllamaClient)(nil)
	_ ModelExtractor = (*OpenAIExtractor)(nil)
)
