// Package jobs matches a learner's demonstrated skills against a job catalog.
package jobs

import (
	"math"
	"sort"
	"strings"
)

const (
	SkillAnalytical    = "Analytical thinking"
	SkillCommunication = "Communication"
	SkillTeamwork      = "Teamwork"
	SkillProblems      = "Problem solving"
	SkillAdaptability  = "Adaptability"
)

// Job is a catalog entry.
type Job struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Salary         string   `json:"salary"`
	RequiredSkills []string `json:"required_skills"`
	Description    string   `json:"description"`
}

// Match is a job scored against the learner's skills.
type Match struct {
	Job
	Score int `json:"match_score"`
}

// Skills derives the learner's skills from how much practice they logged.
func Skills(testCount, situationCount int) []string {
	var skills []string
	if testCount > 5 {
		skills = append(skills, SkillAnalytical)
	}
	if situationCount > 3 {
		skills = append(skills, SkillCommunication, SkillTeamwork)
	}
	return append(skills, SkillProblems, SkillAdaptability)
}

// MatchScore is the share of required skills, 0..100, that overlap some user
// skill. Two skills overlap when either contains the other, ignoring case.
func MatchScore(required, skills []string) int {
	if len(required) == 0 {
		return 0
	}

	matched := 0
	for _, r := range required {
		r = strings.ToLower(r)
		for _, s := range skills {
			s = strings.ToLower(s)
			if strings.Contains(s, r) || strings.Contains(r, s) {
				matched++
				break
			}
		}
	}
	return int(math.Round(float64(matched) / float64(len(required)) * 100))
}

// Rank scores every job in catalog and orders them best first. Ties keep
// catalog order.
func Rank(catalog []Job, skills []string) []Match {
	out := make([]Match, 0, len(catalog))
	for _, j := range catalog {
		out = append(out, Match{Job: j, Score: MatchScore(j.RequiredSkills, skills)})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return out
}
