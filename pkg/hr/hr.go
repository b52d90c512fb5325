// Package hr summarizes learner progress for a reviewer.
package hr

import "sort"

// Learner is one row of the dashboard. TimeSpent is in minutes.
type Learner struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TestsCompleted int    `json:"tests_completed"`
	AvgScore       int    `json:"avg_score"`
	TimeSpent      int    `json:"time_spent"`
	TopSkill       string `json:"top_skill"`
}

// Summary is the dashboard: the roster ranked by average score plus totals.
type Summary struct {
	Learners          []Learner `json:"learners"`
	TotalLearners     int       `json:"total_learners"`
	AvgTestsCompleted float64   `json:"avg_tests_completed"`
	AvgScore          float64   `json:"avg_score"`
	TotalTimeSpent    int       `json:"total_time_spent"`
}

// Dashboard ranks roster by average score, best first, and computes the
// totals. roster is not modified.
func Dashboard(roster []Learner) Summary {
	learners := append([]Learner(nil), roster...)
	sort.SliceStable(learners, func(a, b int) bool {
		return learners[a].AvgScore > learners[b].AvgScore
	})

	s := Summary{Learners: learners, TotalLearners: len(learners)}
	if len(learners) == 0 {
		s.Learners = []Learner{}
		return s
	}

	var tests, score int
	for _, l := range learners {
		tests += l.TestsCompleted
		score += l.AvgScore
		s.TotalTimeSpent += l.TimeSpent
	}
	s.AvgTestsCompleted = float64(tests) / float64(len(learners))
	s.AvgScore = float64(score) / float64(len(learners))
	return s
}

// DemoRoster is the sample roster shown until learners report real data.
func DemoRoster() []Learner {
	return []Learner{
		{ID: "1", Name: "Anna Petrova", TestsCompleted: 15, AvgScore: 87, TimeSpent: 240, TopSkill: "Communication"},
		{ID: "2", Name: "Dmitry Ivanov", TestsCompleted: 12, AvgScore: 92, TimeSpent: 180, TopSkill: "Analytics"},
		{ID: "3", Name: "Elena Sidorova", TestsCompleted: 18, AvgScore: 78, TimeSpent: 300, TopSkill: "Problem solving"},
		{ID: "4", Name: "Mikhail Kozlov", TestsCompleted: 10, AvgScore: 85, TimeSpent: 150, TopSkill: "Teamwork"},
	}
}
