package face

import (
	"sort"

	"github.com/charfaouimohammed/Atend-X/internal/models"
)

// DefaultThreshold is the maximum cosine distance counted as a match.
const DefaultThreshold = 0.55

// DistanceFunc scores a probe against one stored embedding.
type DistanceFunc func(a, b []float64) (float64, error)

// Ranker turns a probe embedding and a point-in-time snapshot of students
// into a ranked candidate list. At this scale a linear scan over all
// students is fine; the input contract (snapshot + probe) leaves room to
// swap in an indexed lookup later.
type Ranker struct {
	Threshold float64
	Distance  DistanceFunc
}

// NewRanker builds a ranker with cosine distance. threshold <= 0 selects the
// default.
func NewRanker(threshold float64) *Ranker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Ranker{
		Threshold: threshold,
		Distance:  CosineDistance,
	}
}

// Rank computes distances for every student, keeps those strictly below the
// threshold and orders them by confidence (1 - distance) descending. The
// sort is stable, so equal confidences keep registration order. A distance
// failure for one student excludes that student and ranking continues; an
// empty result is a normal outcome, never an error.
func (r *Ranker) Rank(probe []float64, students []models.Student) []models.MatchCandidate {
	matches := make([]models.MatchCandidate, 0, len(students))
	for _, s := range students {
		d, err := r.Distance(probe, s.Embedding)
		if err != nil {
			continue
		}
		if d >= r.Threshold {
			continue
		}
		matches = append(matches, models.MatchCandidate{
			StudentID:  s.ID.Hex(),
			Name:       s.Name,
			CNE:        s.CNE,
			Distance:   d,
			Confidence: 1 - d,
			Image:      s.Image,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}
