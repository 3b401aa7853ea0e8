package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/chanwatch/chanwatch/pkg/models"
)

// ResponseWindow is how long a question may wait for a qualifying reply
// before it counts as unanswered.
const ResponseWindow = 24 * time.Hour

// DetectUnanswered flags every question-like message that received no
// qualifying reply within the response window. Detection is scoped per
// channel: a reply in another channel never resolves a question.
//
// A reply qualifies when it contains "@", lands strictly after the
// question and no later than question time + window (inclusive bound),
// and mentions the asker's display name as a case-insensitive substring.
// The reply's author is not constrained, so an asker mentioning their own
// name counts as an answer.
//
// The input order is preserved; only the IsQuestion and IsUnanswered
// fields of the returned slice differ from the input.
func DetectUnanswered(messages []models.Message) []models.Message {
	out := make([]models.Message, len(messages))
	copy(out, messages)

	// Partition indices by channel, keeping original row order so the
	// per-channel timestamp sort below stays stable.
	channels := make(map[string][]int)
	for i := range out {
		out[i].IsQuestion = IsQuestion(out[i].Text)
		out[i].IsUnanswered = false
		channels[out[i].Channel] = append(channels[out[i].Channel], i)
	}

	for _, indices := range channels {
		detectChannel(out, indices)
	}

	return out
}

// channelResponse is a candidate reply within one channel, pre-lowered
// for the mention check.
type channelResponse struct {
	timestamp   time.Time
	loweredText string
}

// detectChannel runs the interval join for one channel partition.
func detectChannel(messages []models.Message, indices []int) {
	sort.SliceStable(indices, func(a, b int) bool {
		return messages[indices[a]].Timestamp.Before(messages[indices[b]].Timestamp)
	})

	// Candidate responses, in the same timestamp order.
	var responses []channelResponse
	for _, idx := range indices {
		if IsCandidateResponse(messages[idx].Text) {
			responses = append(responses, channelResponse{
				timestamp:   messages[idx].Timestamp,
				loweredText: strings.ToLower(messages[idx].Text),
			})
		}
	}

	for _, idx := range indices {
		if !messages[idx].IsQuestion {
			continue
		}
		if !isAnswered(messages[idx], responses) {
			messages[idx].IsUnanswered = true
		}
	}
}

// isAnswered scans the in-window slice of responses for a mention of the
// asker. The window lookup is a binary search over the sorted responses
// rather than a full scan; the result is identical.
func isAnswered(question models.Message, responses []channelResponse) bool {
	windowEnd := question.Timestamp.Add(ResponseWindow)
	asker := strings.ToLower(question.User)

	// First response strictly after the question.
	lo := sort.Search(len(responses), func(i int) bool {
		return responses[i].timestamp.After(question.Timestamp)
	})

	for i := lo; i < len(responses); i++ {
		if responses[i].timestamp.After(windowEnd) {
			break
		}
		if strings.Contains(responses[i].loweredText, asker) {
			return true
		}
	}

	return false
}
