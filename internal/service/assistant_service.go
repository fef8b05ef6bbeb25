package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	apperrors "labreserve/internal/errors"
	"labreserve/internal/repository"
)

const (
	recentReservationsLimit = 10
	assistantMaxTokens      = 350

	assistantSystemPrompt = "You are an assistant for a lab reservation system. Answer clearly and helpfully, and never invent data."
)

// ErrAssistantUnavailable is returned when the completion backend fails.
var ErrAssistantUnavailable = errors.New("assistant unavailable")

// CompletionClient is the subset of the OpenAI client used by the assistant.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Suggestion is a locally computed booking recommendation.
type Suggestion struct {
	RecommendedLab string `json:"recommended_lab"`
	SuggestedHour  int    `json:"suggested_hour"`
	Reason         string `json:"reason"`
}

// AssistantService answers natural-language questions about recent
// reservations and produces local booking suggestions.
type AssistantService interface {
	Chat(ctx context.Context, question string) (string, error)
	Suggest(ctx context.Context) (*Suggestion, error)
}

type assistantService struct {
	repo   repository.ReservationRepository
	client CompletionClient
	model  string
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(repo repository.ReservationRepository, client CompletionClient, model string) AssistantService {
	return &assistantService{
		repo:   repo,
		client: client,
		model:  model,
	}
}

// Chat summarizes the most recent live reservations into a prompt and forwards
// the question to the completion backend.
func (s *assistantService) Chat(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.NewValidationError("question is required")
	}

	reservations, err := s.repo.ListRecent(ctx, recentReservationsLimit)
	if err != nil {
		return "", fmt.Errorf("list recent reservations: %w", err)
	}

	var summary strings.Builder
	if len(reservations) == 0 {
		summary.WriteString("There are no recent reservations on record.")
	} else {
		for _, r := range reservations {
			fmt.Fprintf(&summary, "- %s reserved by %s at %s\n", r.LabName, r.ReservedBy, r.StartTime.Format("2006-01-02 15:04"))
		}
	}

	prompt := fmt.Sprintf(
		"Recent lab reservations:\n%s\nUser question: %q\n\nAnswer clearly and professionally. If the data is insufficient, say so politely.",
		summary.String(), question,
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: assistantMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: assistantSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssistantUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrAssistantUnavailable
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Suggest recommends the most booked lab at its least loaded working hour,
// computed locally from the utilization aggregates.
func (s *assistantService) Suggest(ctx context.Context) (*Suggestion, error) {
	labs, err := s.repo.CountByLab(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by lab: %w", err)
	}
	hours, err := s.repo.CountByHour(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by hour: %w", err)
	}

	suggestion := &Suggestion{
		RecommendedLab: "any available lab",
		SuggestedHour:  9,
		Reason:         "no reservation history yet, any working hour is free",
	}
	if len(labs) > 0 {
		suggestion.RecommendedLab = labs[0].LabName
	}

	counts := make(map[int]int64, len(hours))
	for _, h := range hours {
		counts[h.Hour] = h.Count
	}
	best, bestCount := 9, int64(-1)
	for hour := 8; hour <= 20; hour++ {
		if bestCount == -1 || counts[hour] < bestCount {
			best, bestCount = hour, counts[hour]
		}
	}
	suggestion.SuggestedHour = best
	if len(labs) > 0 {
		suggestion.Reason = fmt.Sprintf("%s is the most requested lab and %02d:00 is its least busy working hour", suggestion.RecommendedLab, best)
	}

	return suggestion, nil
}
