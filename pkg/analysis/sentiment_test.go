package analysis

import "testing"

func TestBucketPolarity(t *testing.T) {
	tests := []struct {
		name     string
		polarity float64
		want     int
	}{
		{"strongly negative", -0.9, 1},
		{"boundary very negative", -0.6, 1},
		{"negative", -0.4, 2},
		{"boundary negative", -0.2, 2},
		{"neutral zero", 0, 3},
		{"boundary neutral", 0.2, 3},
		{"positive", 0.5, 4},
		{"boundary positive", 0.6, 4},
		{"strongly positive", 0.8, 5},
		{"extreme positive", 1.0, 5},
		{"extreme negative", -1.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketPolarity(tt.polarity); got != tt.want {
				t.Errorf("BucketPolarity(%v) = %d, want %d", tt.polarity, got, tt.want)
			}
		})
	}
}

func TestSentimentScorerRange(t *testing.T) {
	scorer := NewSentimentScorer()

	inputs := []string{
		"",
		"ok",
		"👍🎉",
		"The deployment finished at noon.",
		"I love this, it's amazing!",
		"This is terrible and broken",
		"¿cómo estás? ümlaut façade",
	}

	for _, text := range inputs {
		got := scorer.Score(text)
		if got < 1 || got > 5 {
			t.Errorf("Score(%q) = %d, want value in 1..5", text, got)
		}
	}
}

func TestSentimentScorerUnambiguousInputs(t *testing.T) {
	scorer := NewSentimentScorer()

	if got := scorer.Score("I love this, it's amazing!"); got < 4 {
		t.Errorf("Score(positive text) = %d, want >= 4", got)
	}
	if got := scorer.Score("This is terrible and broken"); got > 2 {
		t.Errorf("Score(negative text) = %d, want <= 2", got)
	}
	if got := scorer.Score("The meeting starts at noon"); got != 3 {
		t.Errorf("Score(neutral text) = %d, want 3", got)
	}
}

func TestSentimentScorerMonotonicity(t *testing.T) {
	// Adding positive lexical content must not lower the bucket
	scorer := NewSentimentScorer()

	base := scorer.Score("the build finished on time")
	augmented := scorer.Score("the build finished on time, great work, I love it")

	if augmented < base {
		t.Errorf("adding positive words lowered the bucket: %d -> %d", base, augmented)
	}
}
