package testutils

import "github.com/papercomputeco/tutor/pkg/course"

// SampleCourseJSON is a small, complete course document as a model would
// return it, fenced in a json code block.
const SampleCourseJSON = "Here is your course:\n```json\n" + `{
  "mindmap": {
    "title": "Go Concurrency",
    "modules": [
      {"id": "module_1", "title": "Goroutines", "description": "Lightweight threads", "topics": ["go statement", "scheduler"]},
      {"id": "module_2", "title": "Channels", "description": "Communicating", "topics": ["buffered", "select"]}
    ]
  },
  "flashcards": [
    {"front": "What starts a goroutine?", "back": "The go statement", "module": "module_1"},
    {"front": "What blocks on an unbuffered send?", "back": "The sender, until a receiver is ready", "module": "module_2"},
    {"front": "What does close do?", "back": "Signals no more values will be sent", "module": "module_2"}
  ],
  "situations": [
    {"title": "Leaking workers", "scenario": "A service slowly runs out of memory.", "questions": ["What do you check first?", "How do you stop it?"], "module": "module_1"}
  ],
  "tests": [
    {"question": "Which keyword starts a goroutine?", "options": ["go", "async", "spawn", "thread"], "correctAnswer": 0, "explanation": "go starts a goroutine", "module": "module_1"},
    {"question": "What does select do?", "options": ["Sorts", "Waits on channel operations", "Locks", "Nothing"], "correctAnswer": 1, "explanation": "select waits on multiple channel operations", "module": "module_2"}
  ]
}` + "\n```\n"

// SampleCourse returns the parsed form of SampleCourseJSON.
func SampleCourse() *course.Course {
	c, err := course.Parse(SampleCourseJSON)
	if err != nil {
		panic(err)
	}
	return c
}
