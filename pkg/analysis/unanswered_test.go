package analysis

import (
	"testing"
	"time"

	"github.com/chanwatch/chanwatch/pkg/models"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func msg(channel, user string, ts time.Time, text string) models.Message {
	return models.Message{
		Channel:   channel,
		User:      user,
		Timestamp: ts,
		Text:      text,
	}
}

// findByText returns the detector output row carrying the given text
func findByText(t *testing.T, messages []models.Message, text string) models.Message {
	t.Helper()
	for _, m := range messages {
		if m.Text == text {
			return m
		}
	}
	t.Fatalf("message %q not found in output", text)
	return models.Message{}
}

func TestDetectUnanswered(t *testing.T) {
	tests := []struct {
		name     string
		messages []models.Message
		text     string // the question under test
		want     bool   // expected IsUnanswered
	}{
		{
			name: "mention within window answers the question",
			messages: []models.Message{
				msg("general", "Alice", t0, "How do I fix this error?"),
				msg("general", "Bob", t0.Add(time.Hour), "@Alice try restarting"),
				msg("general", "Carol", t0.Add(2*time.Hour), "no idea"),
			},
			text: "How do I fix this error?",
			want: false,
		},
		{
			name: "no qualifying reply leaves the question unanswered",
			messages: []models.Message{
				msg("general", "Alice", t0, "How do I fix this error?"),
				msg("general", "Carol", t0.Add(2*time.Hour), "no idea"),
			},
			text: "How do I fix this error?",
			want: true,
		},
		{
			name: "reply without @ marker does not count",
			messages: []models.Message{
				msg("general", "Alice", t0, "How do I fix this error?"),
				msg("general", "Bob", t0.Add(time.Hour), "Alice try restarting"),
			},
			text: "How do I fix this error?",
			want: true,
		},
		{
			name: "reply without the asker's name does not count",
			messages: []models.Message{
				msg("general", "Alice", t0, "How do I fix this error?"),
				msg("general", "Bob", t0.Add(time.Hour), "@Carol any thoughts"),
			},
			text: "How do I fix this error?",
			want: true,
		},
		{
			name: "mention is case-insensitive",
			messages: []models.Message{
				msg("general", "Alice", t0, "How do I fix this error?"),
				msg("general", "Bob", t0.Add(time.Hour), "@ALICE try restarting"),
			},
			text: "How do I fix this error?",
			want: false,
		},
		{
			name: "reply at exactly the window bound counts",
			messages: []models.Message{
				msg("general", "Alice", t0, "Is the window inclusive?"),
				msg("general", "Bob", t0.Add(24*time.Hour), "@Alice yes it is"),
			},
			text: "Is the window inclusive?",
			want: false,
		},
		{
			name: "reply one second past the window does not count",
			messages: []models.Message{
				msg("general", "Alice", t0, "Is the window inclusive?"),
				msg("general", "Bob", t0.Add(24*time.Hour+time.Second), "@Alice yes it is"),
			},
			text: "Is the window inclusive?",
			want: true,
		},
		{
			name: "reply before the question never answers it",
			messages: []models.Message{
				msg("general", "Bob", t0.Add(-time.Hour), "@Alice try restarting"),
				msg("general", "Alice", t0, "How do I fix this error?"),
			},
			text: "How do I fix this error?",
			want: true,
		},
		{
			name: "reply at the exact question timestamp does not count",
			messages: []models.Message{
				msg("general", "Alice", t0, "How do I fix this error?"),
				msg("general", "Bob", t0, "@Alice try restarting"),
			},
			text: "How do I fix this error?",
			want: true,
		},
		{
			// Known quirk, preserved: the reply author is not constrained,
			// so an asker mentioning their own name counts as an answer
			name: "self mention counts as answer",
			messages: []models.Message{
				msg("general", "Alice", t0, "How do I fix this error?"),
				msg("general", "Alice", t0.Add(time.Hour), "@Alice nevermind, found it"),
			},
			text: "How do I fix this error?",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := DetectUnanswered(tt.messages)
			got := findByText(t, out, tt.text)
			if !got.IsQuestion {
				t.Fatalf("expected %q to be flagged as a question", tt.text)
			}
			if got.IsUnanswered != tt.want {
				t.Errorf("IsUnanswered = %v, want %v", got.IsUnanswered, tt.want)
			}
		})
	}
}

func TestDetectUnansweredChannelScoped(t *testing.T) {
	// Identical questions in two channels; each channel only has the
	// reply for the other channel's asker. Both must stay unanswered.
	messages := []models.Message{
		msg("chA", "Alice", t0, "Anyone around to help?"),
		msg("chB", "Bob", t0, "Anyone around to help?"),
		msg("chA", "Carol", t0.Add(time.Hour), "@Bob sure thing"),
		msg("chB", "Dave", t0.Add(time.Hour), "@Alice sure thing"),
	}

	out := DetectUnanswered(messages)
	for _, m := range out {
		if m.IsQuestion && !m.IsUnanswered {
			t.Errorf("question in %s was resolved by a reply from another channel", m.Channel)
		}
	}
}

func TestDetectUnansweredNonQuestions(t *testing.T) {
	messages := []models.Message{
		msg("general", "Alice", t0, "deploy went out this morning"),
		msg("general", "Bob", t0.Add(time.Hour), "@Alice nice"),
	}

	out := DetectUnanswered(messages)
	for _, m := range out {
		if m.IsUnanswered {
			t.Errorf("non-question %q flagged as unanswered", m.Text)
		}
	}
}

func TestDetectUnansweredDegradesGracefully(t *testing.T) {
	// Empty table
	if out := DetectUnanswered(nil); len(out) != 0 {
		t.Errorf("expected empty output for empty input, got %d rows", len(out))
	}

	// Channel with zero candidate responses: every question unanswered
	messages := []models.Message{
		msg("general", "Alice", t0, "first question?"),
		msg("general", "Bob", t0.Add(time.Minute), "second question?"),
	}
	out := DetectUnanswered(messages)
	for _, m := range out {
		if !m.IsUnanswered {
			t.Errorf("question %q should be unanswered with no candidate responses", m.Text)
		}
	}

	// Channel with zero questions: nothing flagged
	messages = []models.Message{
		msg("general", "Alice", t0, "all good here"),
		msg("general", "Bob", t0.Add(time.Minute), "@Alice agreed"),
	}
	out = DetectUnanswered(messages)
	for _, m := range out {
		if m.IsUnanswered {
			t.Errorf("message %q flagged in a channel without questions", m.Text)
		}
	}
}

func TestDetectUnansweredPreservesInput(t *testing.T) {
	messages := []models.Message{
		msg("general", "Alice", t0, "is anyone here?"),
	}

	out := DetectUnanswered(messages)
	if messages[0].IsUnanswered || messages[0].IsQuestion {
		t.Error("input slice was mutated")
	}
	if len(out) != 1 || out[0].Text != messages[0].Text {
		t.Error("output should mirror input rows")
	}
}
