// Package ports defines the interfaces the core depends on and the
// sentinel errors shared across adapters.
package ports

import "context"

// Understanding is the external language-understanding collaborator.
// All three calls are best-effort: adapters return an error on failure
// and the orchestrator degrades to empty results or canned copy;
// understanding output never drives a hard failure.
type Understanding interface {
	// ExtractQueryTerms turns a free-text utterance into keyword/trait terms.
	ExtractQueryTerms(ctx context.Context, utterance string) ([]string, error)
	// ExtractEntityTraits describes a referenced artist as trait words.
	ExtractEntityTraits(ctx context.Context, name string) ([]string, error)
	// GeneratePersonaReply produces prose for off-script and no-match
	// narration. It never influences scoring.
	GeneratePersonaReply(ctx context.Context, prompt, context string) (string, error)
}

// NoUnderstanding is the disabled collaborator: every call returns
// empty results, which the orchestrator treats as the no-keyword path.
type NoUnderstanding struct{}

func (NoUnderstanding) ExtractQueryTerms(context.Context, string) ([]string, error) {
	return nil, nil
}

func (NoUnderstanding) ExtractEntityTraits(context.Context, string) ([]string, error) {
	return nil, nil
}

func (NoUnderstanding) GeneratePersonaReply(context.Context, string, string) (string, error) {
	return "", nil
}
