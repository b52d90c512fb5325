package course

import "fmt"

const DefaultLanguage = "English"

const promptTemplate = `Create the structure of an educational course on the topic: "%s".

Return a JSON object with the following structure:
{
  "mindmap": {
    "title": "course title",
    "modules": [
      {
        "id": "module_1",
        "title": "module title",
        "description": "module description",
        "topics": ["topic 1", "topic 2", "topic 3"]
      }
    ]
  },
  "flashcards": [
    {
      "front": "question",
      "back": "answer",
      "module": "module_1"
    }
  ],
  "situations": [
    {
      "title": "situation title",
      "scenario": "scenario description",
      "questions": ["question 1", "question 2"],
      "module": "module_1"
    }
  ],
  "tests": [
    {
      "question": "question",
      "options": ["option 1", "option 2", "option 3", "option 4"],
      "correctAnswer": 0,
      "explanation": "why the correct answer is correct",
      "module": "module_1"
    }
  ]
}

Create at least 3 modules, 10 flashcards, 5 situations and 10 tests. All content must be written in %s.`

// Prompt builds the course generation prompt for topic. An empty language
// falls back to DefaultLanguage.
func Prompt(topic, language string) string {
	if language == "" {
		language = DefaultLanguage
	}
	return fmt.Sprintf(promptTemplate, topic, language)
}
