package assistant

import (
	"context"
	"strings"

	"inkwell/internal/models"
)

// Service runs the full prompt-to-HTML pipeline: generate a completion,
// annotate untagged code fences, render markdown, sanitize the result.
type Service struct {
	generator TextGenerator
}

func NewService(generator TextGenerator) *Service {
	return &Service{generator: generator}
}

// Suggest answers a prompt with sanitized HTML ready for embedding in a
// post. Provider failures surface as external service errors; the raw
// provider error never reaches the caller's response body.
func (s *Service) Suggest(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", models.NewValidationError("Prompt is required")
	}

	completion, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", models.NewExternalServiceError("openai", err)
	}

	rendered, err := RenderHTML(AnnotateFences(completion))
	if err != nil {
		return "", models.NewExternalServiceError("openai", err)
	}
	return rendered, nil
}
