package course

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTopic is returned when generation is requested without a topic.
	ErrEmptyTopic = errors.New("topic is required")

	// ErrNoSession is returned when no course has been generated yet.
	ErrNoSession = errors.New("no course in session, run tutor generate first")
)

// GenerationError reports that the model call failed or its reply could not
// be read as a course.
type GenerationError struct {
	Topic string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Topic == "" {
		return fmt.Sprintf("generating course: %v", e.Err)
	}
	return fmt.Sprintf("generating course for %q: %v", e.Topic, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
