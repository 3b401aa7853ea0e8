// Package analysis derives the engagement, sentiment, unanswered-question
// and persona signals from a canonical message table. Every function here
// is a pure batch transform: no I/O, no shared state, total over all
// string inputs including empty and non-ASCII text.
package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/chanwatch/chanwatch/pkg/models"
)

// ClassifyEngagement assigns one of exactly three engagement labels to a
// message body:
//
//   - 3 words or fewer (whitespace-tokenized): Low Engagement
//   - over 100 characters, or containing a "?": High Engagement
//   - everything else: Medium Engagement
//
// An empty string has zero words and classifies as Low Engagement.
func ClassifyEngagement(text string) string {
	words := strings.Fields(text)
	if len(words) <= 3 {
		return models.EngagementLow
	}
	if utf8.RuneCountInString(text) > 100 || strings.Contains(text, "?") {
		return models.EngagementHigh
	}
	return models.EngagementMedium
}

// IsQuestion reports whether a message is question-like: it contains a
// literal "?". Questions are a strict subset of High Engagement messages,
// not the same set.
func IsQuestion(text string) bool {
	return strings.Contains(text, "?")
}

// IsCandidateResponse reports whether a message looks like a reply
// attempt: it contains a literal "@". The mention is not resolved to a
// real user; any "@" qualifies.
func IsCandidateResponse(text string) bool {
	return strings.Contains(text, "@")
}
