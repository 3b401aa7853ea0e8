package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/chanwatch/chanwatch/pkg/models"
)

// Keyword sets counted as case-insensitive substring occurrences over the
// user's concatenated message corpus. Substring semantics are deliberate:
// "add" matches inside "address".
var (
	advocateKeywords = []string{"feature", "roadmap", "bug", "release", "update", "suggestion", "plz", "please", "add"}
	learnerKeywords  = []string{"how", "why", "help", "error", "question", "fail", "issue", "problem"}
)

// personaPriority is the fixed tie-break order: when scores are equal the
// earlier label wins. Part of the classifier contract.
var personaPriority = []string{
	models.PersonaFeatureAdvocate,
	models.PersonaActiveLearner,
	models.PersonaExpertContributor,
	models.PersonaSocialConnector,
}

// minActiveMessages is the message count below which a user is a lurker
// regardless of any other feature.
const minActiveMessages = 5

// maxConfidence caps scored classifications; only the lurker
// short-circuit reaches 1.0.
const maxConfidence = 0.95

// ClassifyPersona aggregates one user's messages into a behavioral
// persona with a confidence in [0, 1].
//
// Users with fewer than five messages short-circuit to Passive
// Reader/Lurker at confidence 1.0. Otherwise four heuristic scores are
// computed (N = message count):
//
//	Feature Advocate    = advocacy keyword hits / N * 20
//	Active Learner      = question ratio * 10 + learner keyword hits / N * 10
//	Expert Contributor  = (average length / 50 * 5) * (1 - question ratio)
//	Social Connector    = low-engagement ratio * 15
//
// The strictly highest score wins; ties resolve by the order above.
// Confidence is winner/sum capped at 0.95, or 0.0 when every score is 0.
func ClassifyPersona(messages []models.Message) models.Persona {
	if len(messages) < minActiveMessages {
		return models.Persona{
			Label:       models.PersonaPassiveReader,
			Confidence:  1.0,
			Description: models.PersonaLurkerDescription,
		}
	}

	n := float64(len(messages))

	var totalLen float64
	var questions, lowEngagement int
	texts := make([]string, 0, len(messages))
	for _, msg := range messages {
		totalLen += float64(utf8.RuneCountInString(msg.Text))
		if IsQuestion(msg.Text) {
			questions++
		}
		if ClassifyEngagement(msg.Text) == models.EngagementLow {
			lowEngagement++
		}
		texts = append(texts, strings.ToLower(msg.Text))
	}

	avgLen := totalLen / n
	questionRatio := float64(questions) / n
	lowEngagementRatio := float64(lowEngagement) / n
	corpus := strings.Join(texts, " ")

	scores := map[string]float64{
		models.PersonaFeatureAdvocate:   float64(countKeywordHits(corpus, advocateKeywords)) / n * 20,
		models.PersonaActiveLearner:     questionRatio*10 + float64(countKeywordHits(corpus, learnerKeywords))/n*10,
		models.PersonaExpertContributor: (avgLen / 50 * 5) * (1 - questionRatio),
		models.PersonaSocialConnector:   lowEngagementRatio * 15,
	}

	winner := personaPriority[0]
	var total float64
	for _, label := range personaPriority {
		total += scores[label]
		if scores[label] > scores[winner] {
			winner = label
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = scores[winner] / total
		if confidence > maxConfidence {
			confidence = maxConfidence
		}
	}

	return models.Persona{
		Label:       winner,
		Confidence:  confidence,
		Description: models.PersonaDescriptions[winner],
	}
}

// ClassifyAllPersonas computes the persona label for every distinct user
// in the table. Only the label survives; this form feeds audience
// targeting counts, not detail display.
func ClassifyAllPersonas(messages []models.Message) map[string]string {
	byUser := make(map[string][]models.Message)
	for _, msg := range messages {
		byUser[msg.User] = append(byUser[msg.User], msg)
	}

	personas := make(map[string]string, len(byUser))
	for user, userMessages := range byUser {
		personas[user] = ClassifyPersona(userMessages).Label
	}

	return personas
}

// countKeywordHits sums substring occurrences of each keyword in the
// lowered corpus.
func countKeywordHits(corpus string, keywords []string) int {
	hits := 0
	for _, keyword := range keywords {
		hits += strings.Count(corpus, keyword)
	}
	return hits
}
