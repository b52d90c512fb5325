package main

import (
	"context"
	"errors"
	"fmt"

	"dagger/tutor/internal/dagger"
)

// CheckGoModTidy fails when "go mod tidy" would change go.mod or go.sum.
//
// +check
func (t *Tutor) CheckGoModTidy(ctx context.Context) error {
	_, err := t.goContainer().
		WithExec([]string{"go", "mod", "tidy", "-diff"}).
		Sync(ctx)

	var execErr *dagger.ExecError
	if errors.As(err, &execErr) {
		return fmt.Errorf("go.mod or go.sum are not tidy, run \"go mod tidy\":\n\n%s", execErr.Stdout)
	}
	return err
}
