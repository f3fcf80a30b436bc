package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/netmatch/internal/ai"
	"github.com/spigell/netmatch/internal/ai/gemini"
	"github.com/spigell/netmatch/internal/backend"
	"github.com/spigell/netmatch/internal/logger"
	"github.com/spigell/netmatch/internal/secrets"
)

const (
	providerGemini = "gemini"
	geminiKeyEnv   = "GEMINI_API_KEY"
)

var introCmd = &cobra.Command{
	Use:   "intro",
	Short: "Draft an intro note to a connection about a job at a matched company",
	Run: func(cmd *cobra.Command, _ []string) {
		runView("intro", func(ctx context.Context, e *env) error {
			return intro(ctx, e, cmd)
		})
	},
}

func init() {
	rootCmd.AddCommand(introCmd)

	introCmd.Flags().StringP("company", "c", "", "matched company (asked for when omitted)")
	introCmd.Flags().String("job", "", "job ID at the company (asked for when omitted)")
	introCmd.Flags().String("connection", "", "connection profile key, the last segment of the profile URL (asked for when omitted)")
	introCmd.Flags().String("tone", "", "tone of the note")
	introCmd.Flags().String("sender", "", "how to introduce yourself")
}

func intro(ctx context.Context, e *env, cmd *cobra.Command) error {
	if !e.config.AI.Enabled {
		pterm.Warning.Println("AI assistant is disabled. Set ai.enabled in the config to use it.")
		return nil
	}

	drafter, err := newDrafter(ctx, e.config.AI, e.logger)
	if err != nil {
		return fmt.Errorf("creating the AI assistant: %w", err)
	}

	all, err := loadMatches(ctx, e)
	if err != nil || all == nil {
		return err
	}

	req, err := buildIntroRequest(all, flagString(cmd, "company"), flagString(cmd, "job"), flagString(cmd, "connection"), promptChooser{})
	if err != nil {
		if isPromptExit(err) {
			return nil
		}
		return fmt.Errorf("choosing whom to write: %w", err)
	}

	req.Tone = firstNonEmpty(flagString(cmd, "tone"), e.config.AI.Tone)
	req.Sender = firstNonEmpty(flagString(cmd, "sender"), e.config.AI.Sender)

	spinner, _ := pterm.DefaultSpinner.Start("Drafting...")
	note, err := drafter.Draft(ctx, req)
	if err != nil {
		spinner.Fail("Drafting failed")
		return fmt.Errorf("drafting the intro: %w", err)
	}
	_ = spinner.Stop()

	pterm.DefaultSection.Println(note.Subject)
	pterm.Println(note.Message)

	return nil
}

func newDrafter(ctx context.Context, cfg *AIConfig, l *zap.Logger) (ai.Drafter, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = providerGemini
	}
	if provider != providerGemini {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   geminiKeyEnv,
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model)
	if err != nil {
		return nil, err
	}

	l = logger.WithFields(l, logger.AIFields(provider, generator.Model())...)

	return gemini.NewDrafter(generator, gcfg.MaxLogLength, l), nil
}

// chooser resolves an ambiguous pick. items are labels, the index of the chosen one is returned.
type chooser interface {
	Choose(label string, items []string) (int, error)
}

type promptChooser struct{}

func (promptChooser) Choose(label string, items []string) (int, error) {
	prompt := promptui.Select{Label: label, Items: items, Size: 10}
	i, _, err := prompt.Run()
	return i, err
}

// buildIntroRequest finds the match, job and connection the note is about.
// Empty selectors are resolved automatically when there is one candidate and through ch otherwise.
func buildIntroRequest(matches []backend.Match, company, jobID, connKey string, ch chooser) (*ai.IntroRequest, error) {
	if len(matches) == 0 {
		return nil, errors.New("there are no matches to write about")
	}

	match, err := selectMatch(matches, company, ch)
	if err != nil {
		return nil, err
	}

	job, err := selectJob(match, jobID, ch)
	if err != nil {
		return nil, err
	}

	conn, err := selectConnection(match, connKey, ch)
	if err != nil {
		return nil, err
	}

	return &ai.IntroRequest{Connection: conn, Job: job}, nil
}

func selectMatch(matches []backend.Match, company string, ch chooser) (backend.Match, error) {
	if company = strings.TrimSpace(company); company != "" {
		for _, m := range matches {
			if strings.EqualFold(m.Company, company) {
				return m, nil
			}
		}
		return backend.Match{}, fmt.Errorf("there is no match for company %s", company)
	}

	if len(matches) == 1 {
		return matches[0], nil
	}

	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		labels = append(labels, fmt.Sprintf("%s (%d jobs, %d connections)", m.Company, len(m.Jobs), len(m.Connections)))
	}

	i, err := ch.Choose("Company", labels)
	if err != nil {
		return backend.Match{}, err
	}
	return matches[i], nil
}

func selectJob(m backend.Match, id string, ch chooser) (backend.Job, error) {
	if len(m.Jobs) == 0 {
		return backend.Job{}, fmt.Errorf("%s has no open jobs", m.Company)
	}

	if id = strings.TrimSpace(id); id != "" {
		for _, j := range m.Jobs {
			if j.ID == id {
				return j, nil
			}
		}
		return backend.Job{}, fmt.Errorf("there is no job %s at %s", id, m.Company)
	}

	if len(m.Jobs) == 1 {
		return m.Jobs[0], nil
	}

	labels := make([]string, 0, len(m.Jobs))
	for _, j := range m.Jobs {
		labels = append(labels, fmt.Sprintf("%s / %s", j.Title, cell(j.Location)))
	}

	i, err := ch.Choose("Job", labels)
	if err != nil {
		return backend.Job{}, err
	}
	return m.Jobs[i], nil
}

func selectConnection(m backend.Match, key string, ch chooser) (backend.Connection, error) {
	if len(m.Connections) == 0 {
		return backend.Connection{}, fmt.Errorf("you have no connections at %s", m.Company)
	}

	if key = strings.TrimSpace(key); key != "" {
		for _, c := range m.Connections {
			if strings.EqualFold(c.Key(), key) {
				return c, nil
			}
		}
		return backend.Connection{}, fmt.Errorf("there is no connection %s at %s", key, m.Company)
	}

	if len(m.Connections) == 1 {
		return m.Connections[0], nil
	}

	labels := make([]string, 0, len(m.Connections))
	for _, c := range m.Connections {
		labels = append(labels, fmt.Sprintf("%s / %s", c.Name, cell(c.Role())))
	}

	i, err := ch.Choose("Connection", labels)
	if err != nil {
		return backend.Connection{}, err
	}
	return m.Connections[i], nil
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
