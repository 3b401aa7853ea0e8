package analysis

import "github.com/chanwatch/chanwatch/pkg/models"

// Enricher runs the full derivation pipeline over a normalized table.
type Enricher struct {
	sentiment *SentimentScorer
}

// NewEnricher creates a new enrichment pipeline instance
func NewEnricher() *Enricher {
	return &Enricher{
		sentiment: NewSentimentScorer(),
	}
}

// Enrich populates every derived column: engagement label, sentiment
// bucket, question flag, and the unanswered flag. The input slice is not
// mutated; the returned table is the read-only session table. Running
// Enrich twice over the same input yields the same result.
func (e *Enricher) Enrich(messages []models.Message) []models.Message {
	enriched := make([]models.Message, len(messages))
	copy(enriched, messages)

	for i := range enriched {
		enriched[i].EngagementLabel = ClassifyEngagement(enriched[i].Text)
		enriched[i].SentimentBucket = e.sentiment.Score(enriched[i].Text)
	}

	return DetectUnanswered(enriched)
}
