package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/netmatch/internal/ai"
	"github.com/spigell/netmatch/internal/backend"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func request() *ai.IntroRequest {
	return &ai.IntroRequest{
		Connection: backend.Connection{Name: "Ann Lee", Title: "Engineering Manager", Company: "Acme", ProfileURL: "https://linkedin.com/in/ann"},
		Job:        backend.Job{ID: "j1", Title: "Go Developer", Company: "Acme", Description: "<p>Build <b>APIs</b></p>"},
	}
}

func TestDrafterDraft(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"subject\": \"Go Developer at Acme\", \"message\": \"Hi Ann!\"}\n```"}
	drafter := NewDrafter(stub, 0, zap.NewNop())

	intro, err := drafter.Draft(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if intro.Subject != "Go Developer at Acme" {
		t.Fatalf("unexpected subject: %q", intro.Subject)
	}
	if intro.Message != "Hi Ann!" {
		t.Fatalf("unexpected message: %q", intro.Message)
	}
	if intro.Raw == "" {
		t.Fatalf("expected raw response to be kept")
	}

	for _, want := range []string{"Ann Lee", "Go Developer", "friendly", "a fellow professional", "Build APIs"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
	if strings.Contains(stub.lastPrompt, "<b>") {
		t.Fatalf("expected markup to be stripped from the job description")
	}
}

func TestDrafterCustomToneAndSender(t *testing.T) {
	stub := &stubGenerator{response: `{"message": "Hello"}`}
	drafter := NewDrafter(stub, 10, nil)

	req := request()
	req.Tone = "formal"
	req.Sender = "Bob"

	if _, err := drafter.Draft(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stub.lastPrompt, "formal") || !strings.Contains(stub.lastPrompt, "from Bob") {
		t.Fatalf("expected tone and sender in prompt")
	}
}

func TestDrafterErrors(t *testing.T) {
	t.Parallel()

	genErr := errors.New("quota exceeded")

	tests := []struct {
		name    string
		stub    *stubGenerator
		req     *ai.IntroRequest
		errPart string
	}{
		{name: "nil request", stub: &stubGenerator{}, req: nil, errPart: "request is required"},
		{name: "no connection", stub: &stubGenerator{}, req: &ai.IntroRequest{Job: backend.Job{Title: "x"}}, errPart: "connection name"},
		{name: "no job", stub: &stubGenerator{}, req: &ai.IntroRequest{Connection: backend.Connection{Name: "Ann"}}, errPart: "job title"},
		{name: "generator failure", stub: &stubGenerator{err: genErr}, req: request(), errPart: "quota exceeded"},
		{name: "not json", stub: &stubGenerator{response: "Sure! Here is a message"}, req: request(), errPart: "parse gemini response"},
		{name: "no message", stub: &stubGenerator{response: `{"subject": "x"}`}, req: request(), errPart: "no message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewDrafter(tt.stub, 0, zap.NewNop()).Draft(context.Background(), tt.req)
			if err == nil || !strings.Contains(err.Error(), tt.errPart) {
				t.Fatalf("expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestJoinCandidates(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: &genai.Content{Parts: []*genai.Part{{Text: " first "}, nil, {Text: ""}}}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "second"}}}},
		},
	}

	got, err := joinCandidates(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "first\nsecond" {
		t.Fatalf("unexpected text: %q", got)
	}

	if _, err := joinCandidates(&genai.GenerateContentResponse{}); err == nil {
		t.Fatalf("expected error for empty response")
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "  ", ""); err == nil {
		t.Fatalf("expected error without api key")
	}

	var g *Generator
	if g.Model() != "" {
		t.Fatalf("expected empty model for nil generator")
	}
	if _, err := g.GenerateContent(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error for nil generator")
	}
}
