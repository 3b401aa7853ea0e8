package models

// Persona labels assigned by the behavioral classifier.
const (
	PersonaFeatureAdvocate   = "Feature Advocate"
	PersonaActiveLearner     = "Active Learner"
	PersonaExpertContributor = "Expert Contributor"
	PersonaSocialConnector   = "Social Connector"
	PersonaPassiveReader     = "Passive Reader/Lurker"
)

// Persona is the result of classifying one user's message history.
type Persona struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"` // 0.0..1.0; capped at 0.95 outside the lurker short-circuit
	Description string  `json:"description"`
}

// PersonaLurkerDescription annotates the message-count short-circuit;
// it differs from the label's entry in PersonaDescriptions.
const PersonaLurkerDescription = "Extremely low message count."

// PersonaDescriptions maps each label to its human-readable summary.
var PersonaDescriptions = map[string]string{
	PersonaExpertContributor: "Initiates complex discussions, detailed solutions.",
	PersonaActiveLearner:     "Frequently asks questions, uses community as resource.",
	PersonaFeatureAdvocate:   "Discusses roadmap, suggests features, critical of updates.",
	PersonaSocialConnector:   "Socializes, welcomes members, uses emojis.",
	PersonaPassiveReader:     "Low participation.",
}
