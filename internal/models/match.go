package models

// MatchCandidate is one ranked recognition result. It is derived per probe
// and never persisted. Confidence is 1 - cosine distance: a ranking score,
// not a calibrated probability.
type MatchCandidate struct {
	StudentID  string  `json:"student_id"`
	Name       string  `json:"name"`
	CNE        string  `json:"cne"`
	Distance   float64 `json:"-"`
	Confidence float64 `json:"confidence"`
	Image      string  `json:"image,omitempty"`
}
