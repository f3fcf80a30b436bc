package backend

import (
	"html"
	"path"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var stripHTML = bluemonday.StrictPolicy()

type Connection struct {
	Name             string `json:"name,omitempty"`
	Title            string `json:"title,omitempty"`
	Position         string `json:"position,omitempty"`
	Company          string `json:"company,omitempty"`
	Location         string `json:"location,omitempty"`
	ProfileURL       string `json:"profileUrl,omitempty"`
	ImageURL         string `json:"imageUrl,omitempty"`
	ConnectionDegree string `json:"connectionDegree,omitempty"`
	// SharedConnections is display text; LinkedIn reports large counts as "500+".
	SharedConnections string `json:"sharedConnections,omitempty"`
}

// Key returns the last path segment of the profile URL.
func (c *Connection) Key() string {
	u := strings.TrimRight(strings.TrimSpace(c.ProfileURL), "/")
	if u == "" {
		return ""
	}
	return path.Base(u)
}

// Role returns the title, falling back to the position.
func (c *Connection) Role() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Position
}

type JobMeta struct {
	CompanySize string `json:"companySize,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

type Job struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title,omitempty"`
	Company     string   `json:"company,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	ApplyURL    string   `json:"applyUrl,omitempty"`
	LogoURL     string   `json:"logoUrl,omitempty"`
	PostedDate  string   `json:"postedDate,omitempty"`
	Meta        *JobMeta `json:"meta,omitempty"`
}

// PlainDescription returns the description with markup removed.
func (j *Job) PlainDescription() string {
	if j.Description == "" {
		return ""
	}
	text := html.UnescapeString(stripHTML.Sanitize(j.Description))
	return strings.Join(strings.Fields(text), " ")
}

// Posted parses PostedDate. The zero time is returned when it is missing or unparsable.
func (j *Job) Posted() time.Time {
	raw := strings.TrimSpace(j.PostedDate)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Match pairs the jobs open at a company with the user's connections there.
type Match struct {
	Company     string       `json:"company,omitempty"`
	Jobs        []Job        `json:"jobs,omitempty"`
	Connections []Connection `json:"connections,omitempty"`
	Logo        string       `json:"logo,omitempty"`
}

type SyncResult struct {
	Message string `json:"message,omitempty"`
	Count   int    `json:"count,omitempty"`
}

type UploadResult struct {
	SessionID   string `json:"sessionId,omitempty"`
	Message     string `json:"message,omitempty"`
	Connections int    `json:"totalConnections,omitempty"`
}
