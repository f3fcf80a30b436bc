package backend

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConnectionKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url    string
		expect string
	}{
		{url: "https://www.linkedin.com/in/ann-lee", expect: "ann-lee"},
		{url: "https://www.linkedin.com/in/ann-lee/", expect: "ann-lee"},
		{url: "", expect: ""},
	}

	for _, tt := range tests {
		c := Connection{ProfileURL: tt.url}
		if got := c.Key(); got != tt.expect {
			t.Fatalf("Key(%q): expected %q, got %q", tt.url, tt.expect, got)
		}
	}
}

func TestConnectionRole(t *testing.T) {
	c := Connection{Position: "CTO"}
	if c.Role() != "CTO" {
		t.Fatalf("expected position fallback, got %q", c.Role())
	}

	c.Title = "Founder"
	if c.Role() != "Founder" {
		t.Fatalf("expected title, got %q", c.Role())
	}
}

func TestJobPlainDescription(t *testing.T) {
	job := Job{Description: "<p>Build <b>fast</b> services &amp; tools</p>\n<ul><li>Go</li></ul>"}

	got := job.PlainDescription()
	if strings.ContainsAny(got, "<>") {
		t.Fatalf("expected markup to be stripped, got %q", got)
	}
	if !strings.Contains(got, "Build fast services & tools") {
		t.Fatalf("unexpected description: %q", got)
	}
}

func TestJobPosted(t *testing.T) {
	job := Job{PostedDate: "2024-05-01"}
	if job.Posted().IsZero() {
		t.Fatalf("expected date-only value to parse")
	}

	job.PostedDate = "2024-05-01T10:00:00.000Z"
	if job.Posted().IsZero() {
		t.Fatalf("expected RFC3339 value to parse")
	}

	job.PostedDate = "yesterday"
	if !job.Posted().IsZero() {
		t.Fatalf("expected zero time for garbage")
	}
}

func TestErrorHelpers(t *testing.T) {
	err := fmt.Errorf("loading: %w", &Error{Kind: KindNoConnections, Op: "get connections", Status: 404, Message: "gone"})

	if !IsNoConnections(err) {
		t.Fatalf("expected wrapped error to be recognised")
	}
	if Message(err) != "gone" {
		t.Fatalf("unexpected message: %q", Message(err))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected unknown kind for foreign errors")
	}
	if !strings.Contains(err.Error(), "get connections: gone (status 404)") {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}
