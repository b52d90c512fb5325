package jobs

// Catalog is the demo job list served until a real job source exists.
func Catalog() []Job {
	return []Job{
		{
			ID:             "1",
			Title:          "Junior Frontend Developer",
			Company:        "TechCorp",
			Location:       "Moscow",
			Salary:         "80,000 - 120,000 ₽",
			RequiredSkills: []string{"React", "TypeScript", SkillCommunication, SkillTeamwork},
			Description:    "Build modern web applications in a team of experienced developers",
		},
		{
			ID:             "2",
			Title:          "Business Analyst",
			Company:        "DataSolutions",
			Location:       "Remote",
			Salary:         "100,000 - 150,000 ₽",
			RequiredSkills: []string{SkillAnalytical, "Excel", "SQL", SkillCommunication},
			Description:    "Analyze business processes and prepare analytical reports",
		},
		{
			ID:             "3",
			Title:          "Project Coordinator",
			Company:        "StartupHub",
			Location:       "Saint Petersburg",
			Salary:         "70,000 - 100,000 ₽",
			RequiredSkills: []string{SkillTeamwork, SkillProblems, SkillCommunication},
			Description:    "Coordinate projects and work with the development team",
		},
		{
			ID:             "4",
			Title:          "Customer Success Manager",
			Company:        "SaaSCompany",
			Location:       "Moscow / Remote",
			Salary:         "90,000 - 130,000 ₽",
			RequiredSkills: []string{SkillCommunication, SkillProblems, SkillAdaptability},
			Description:    "Work with customers and make sure they succeed with the product",
		},
	}
}
