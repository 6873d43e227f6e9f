package pubsub

import (
	"context"
	"testing"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	cases := []struct {
		project, name, want string
	}{
		{"asesfy", "quotes", "projects/asesfy/topics/quotes"},
		{"asesfy", " projects/other/topics/quotes ", "projects/other/topics/quotes"},
		{"", "quotes", ""},
		{"asesfy", "  ", ""},
	}
	for _, tc := range cases {
		if got := TopicResourceName(tc.project, tc.name); got != tc.want {
			t.Fatalf("TopicResourceName(%q, %q) = %q, want %q", tc.project, tc.name, got, tc.want)
		}
	}
}

func TestTopicNamesSkipsBlank(t *testing.T) {
	if names := topicNames(config.PubSubConfig{QuotesTopic: " "}); len(names) != 0 {
		t.Fatalf("expected no topics, got %v", names)
	}
	if names := topicNames(config.PubSubConfig{QuotesTopic: "quotes"}); len(names) != 1 {
		t.Fatalf("expected one topic, got %v", names)
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	if _, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{QuotesTopic: "q"}, nil); err != errProjectIDRequired {
		t.Fatalf("expected errProjectIDRequired, got %v", err)
	}
	if _, err := NewClient(context.Background(), config.GCPConfig{ProjectID: "asesfy"}, config.PubSubConfig{}, nil); err != errNoTopics {
		t.Fatalf("expected errNoTopics, got %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.Publisher("quotes") != nil {
		t.Fatal("expected nil publisher")
	}
	if err := c.Ping(context.Background()); err != errClosed {
		t.Fatalf("expected errClosed, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}
