package ai

import (
	"context"

	"github.com/spigell/netmatch/internal/backend"
)

// IntroRequest is everything a drafter needs to write one outreach note.
type IntroRequest struct {
	Sender     string
	Tone       string
	Connection backend.Connection
	Job        backend.Job
}

type Intro struct {
	Subject string
	Message string
	Raw     string
}

// Drafter writes a note asking a connection about an open position at their company.
type Drafter interface {
	Draft(ctx context.Context, req *IntroRequest) (*Intro, error)
}
