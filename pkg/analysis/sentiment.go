package analysis

import "github.com/jonreiter/govader"

// SentimentScorer buckets a message body into an integer sentiment score
// from 1 (very negative) to 5 (very positive). Polarity comes from a
// static lexicon/rule analyzer (VADER), no trained model involved.
type SentimentScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewSentimentScorer creates a new sentiment scorer instance
func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Score maps text to a bucket in {1..5} via the compound polarity in
// [-1, 1], with inclusive upper bounds:
//
//	polarity <= -0.6: 1
//	polarity <= -0.2: 2
//	polarity <=  0.2: 3
//	polarity <=  0.6: 4
//	otherwise:        5
func (s *SentimentScorer) Score(text string) int {
	polarity := s.analyzer.PolarityScores(text).Compound
	return BucketPolarity(polarity)
}

// BucketPolarity applies the five-bucket partition to a polarity score
func BucketPolarity(polarity float64) int {
	switch {
	case polarity <= -0.6:
		return 1
	case polarity <= -0.2:
		return 2
	case polarity <= 0.2:
		return 3
	case polarity <= 0.6:
		return 4
	default:
		return 5
	}
}
