package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/netmatch/internal/ai"
	"github.com/spigell/netmatch/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Drafter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed intro_prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	defaultTone         = "friendly"
	defaultSender       = "a fellow professional"
)

func NewDrafter(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Drafter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Drafter{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (d *Drafter) Draft(ctx context.Context, req *ai.IntroRequest) (*ai.Intro, error) {
	if req == nil {
		return nil, errors.New("intro request is required")
	}
	if strings.TrimSpace(req.Connection.Name) == "" {
		return nil, errors.New("connection name is required")
	}
	if strings.TrimSpace(req.Job.Title) == "" {
		return nil, errors.New("job title is required")
	}

	connectionJSON, err := json.MarshalIndent(req.Connection, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal connection payload: %w", err)
	}

	job := req.Job
	job.Description = utils.TruncateForLog(job.PlainDescription(), 1500)
	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	prompt := buildPrompt(string(connectionJSON), string(jobJSON), req.Tone, req.Sender)

	d.logger.Debug("gemini generate content request",
		zap.String("job_id", req.Job.ID),
		zap.String("connection", req.Connection.Key()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, d.maxLogLen)),
	)

	raw, err := d.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("gemini generate content response",
		zap.String("job_id", req.Job.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, d.maxLogLen)),
	)

	intro, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	intro.Raw = raw
	return intro, nil
}

func buildPrompt(connectionJSON, jobJSON, tone, sender string) string {
	if tone = strings.TrimSpace(tone); tone == "" {
		tone = defaultTone
	}
	if sender = strings.TrimSpace(sender); sender == "" {
		sender = defaultSender
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Connection:\n{{CONNECTION_JSON}}\n\nPosition:\n{{JOB_JSON}}\n\nTone: {{TONE}}\nSender: {{SENDER}}\n\nJSON Response:"
	}

	replacer := strings.NewReplacer(
		"{{CONNECTION_JSON}}", connectionJSON,
		"{{JOB_JSON}}", jobJSON,
		"{{TONE}}", tone,
		"{{SENDER}}", sender,
	)
	return replacer.Replace(template)
}

func parseResponse(raw string) (*ai.Intro, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	intro := &ai.Intro{
		Subject: coerceString(data["subject"]),
		Message: coerceString(data["message"]),
	}
	if intro.Message == "" {
		return nil, errors.New("gemini response has no message")
	}

	return intro, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
