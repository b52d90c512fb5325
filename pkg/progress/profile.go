package progress

import (
	"fmt"
	"math"
)

// RecommendationThreshold is the score below which a competency gets a
// development recommendation.
const RecommendationThreshold = 70

// CompetencyScore is one axis of the Profile.
type CompetencyScore struct {
	Key   Competency `json:"key"`
	Name  string     `json:"name"`
	Score int        `json:"score"`
}

// Profile is the competency portrait derived from the progress log.
type Profile struct {
	TotalTests          int               `json:"total_tests"`
	CorrectAnswers      int               `json:"correct_answers"`
	TotalSituations     int               `json:"total_situations"`
	InterviewsCompleted int               `json:"interviews_completed"`
	Competencies        []CompetencyScore `json:"competencies"`
	Overall             float64           `json:"overall"`
	Recommendations     []string          `json:"recommendations"`
}

// graded is the common shape of test and situation results.
type graded struct {
	correct    bool
	competency Competency
}

// Aggregate derives the Profile from records. It is pure: the same records
// always give the same profile. Undecodable records are skipped.
func Aggregate(records []*Record) Profile {
	var (
		tests      []graded
		situations []graded
		interviews int
	)

	for _, r := range records {
		switch r.Kind {
		case KindTestResult:
			t, err := r.TestResult()
			if err != nil {
				continue
			}
			tests = append(tests, graded{correct: t.Correct, competency: t.Competency})
		case KindSituationResult:
			s, err := r.SituationResult()
			if err != nil {
				continue
			}
			situations = append(situations, graded{correct: s.Correct, competency: s.Competency})
		case KindInterviewResult:
			interviews++
		}
	}

	p := Profile{
		TotalTests:          len(tests),
		TotalSituations:     len(situations),
		InterviewsCompleted: interviews,
		Competencies: []CompetencyScore{
			{Key: Analytical, Name: "Analytical thinking", Score: score(tests, Analytical)},
			{Key: Communication, Name: "Communication", Score: score(situations, Communication)},
			{Key: Decision, Name: "Decision making", Score: score(situations, Decision)},
			{Key: Stress, Name: "Stress resistance", Score: score(tests, Stress)},
		},
		Recommendations: []string{},
	}

	for _, t := range tests {
		if t.correct {
			p.CorrectAnswers++
		}
	}

	sum := 0
	for _, c := range p.Competencies {
		sum += c.Score
		if c.Score < RecommendationThreshold {
			p.Recommendations = append(p.Recommendations,
				fmt.Sprintf("Improve %q: take more simulations and tests", c.Name))
		}
	}
	p.Overall = float64(sum) / float64(len(p.Competencies))

	return p
}

// score is the share of correct results of the given competency, counting
// untyped results toward every competency. An empty source scores 0.
func score(results []graded, c Competency) int {
	if len(results) == 0 {
		return 0
	}

	relevant, correct := 0, 0
	for _, r := range results {
		if r.competency != c && r.competency != "" {
			continue
		}
		relevant++
		if r.correct {
			correct++
		}
	}

	return int(math.Round(float64(correct) / float64(max(relevant, 1)) * 100))
}
