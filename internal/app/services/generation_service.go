package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/teachhq/teach-backend/internal/app/models/dto"
	"github.com/teachhq/teach-backend/internal/pkg/apperrors"
	"github.com/teachhq/teach-backend/internal/pkg/generation"
)

// GenerationService drafts teaching content through the configured model
// provider.
type GenerationService interface {
	GenerateText(ctx context.Context, req *dto.GenerateTextRequest) (*dto.GenerateTextResponse, error)
	GenerateLessonPlan(ctx context.Context, req *dto.LessonPlanRequest) (*dto.LessonPlanResponse, error)
}

// generationServiceImpl implements GenerationService
type generationServiceImpl struct {
	client *generation.Client
	config generation.Config
	logger zerolog.Logger
}

// NewGenerationService creates a new GenerationService
func NewGenerationService(client *generation.Client, config generation.Config, logger zerolog.Logger) GenerationService {
	return &generationServiceImpl{
		client: client,
		config: config,
		logger: logger,
	}
}

// GenerateText forwards a freeform prompt and returns the raw answer
func (s *generationServiceImpl) GenerateText(ctx context.Context, req *dto.GenerateTextRequest) (*dto.GenerateTextResponse, error) {
	text, err := s.client.Complete(ctx, req.Prompt)
	if err != nil {
		s.logger.Error().Err(err).Msg("Freeform generation failed")
		return nil, err
	}

	return &dto.GenerateTextResponse{
		Provider: string(s.config.Provider),
		Model:    s.config.Model,
		Text:     text,
	}, nil
}

// GenerateLessonPlan asks the provider for a lesson plan in a fixed JSON
// shape and decodes it. The model is instructed to emit only that JSON; the
// decoded struct is the contract, no free-text parsing happens here.
func (s *generationServiceImpl) GenerateLessonPlan(ctx context.Context, req *dto.LessonPlanRequest) (*dto.LessonPlanResponse, error) {
	prompt := buildLessonPlanPrompt(req)

	text, err := s.client.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("topic", req.Topic).Msg("Lesson plan generation failed")
		return nil, err
	}

	var plan dto.LessonPlanResponse
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &plan); err != nil {
		s.logger.Error().Err(err).Str("topic", req.Topic).Msg("Provider returned non-JSON lesson plan")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedModelOutput, err)
	}
	if plan.Title == "" || len(plan.Slides) == 0 {
		return nil, fmt.Errorf("%w: lesson plan missing title or slides", apperrors.ErrMalformedModelOutput)
	}

	s.logger.Info().
		Str("topic", req.Topic).
		Int("slides", len(plan.Slides)).
		Int("activities", len(plan.Activities)).
		Msg("Lesson plan generated")

	return &plan, nil
}

func buildLessonPlanPrompt(req *dto.LessonPlanRequest) string {
	var b strings.Builder
	b.WriteString("You are a curriculum designer. Draft a lesson plan as a single JSON object ")
	b.WriteString("with exactly these fields: title (string), grade (string), durationMinutes (number), ")
	b.WriteString("objectives (array of strings), slides (array of {title, bullets}), ")
	b.WriteString("activities (array of {title, description, durationMinutes}), assessment (string). ")
	b.WriteString("Respond with the JSON object only, no prose and no code fences.\n\n")
	fmt.Fprintf(&b, "Topic: %s\nGrade level: %s\nDuration: %d minutes\n", req.Topic, req.Grade, req.DurationMinutes)
	if len(req.Objectives) > 0 {
		fmt.Fprintf(&b, "Required objectives: %s\n", strings.Join(req.Objectives, "; "))
	}
	return b.String()
}

// stripCodeFence unwraps a ```json fenced block if the model ignored the
// no-fences instruction. Anything beyond that is treated as malformed.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
