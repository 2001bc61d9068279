// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated requests from the handlers, enforces ownership and domain
// rules, and calls the repositories. Repositories are consumed through the
// small interfaces declared next to each service.
package service

import (
	"context"

	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/sqlerr"
	"github.com/hibiken/asynq"
)

// Enqueuer is implemented by *job.JobService.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (bool, error)
}

func forbidden(message string) error {
	return errs.NewForbiddenError(message, true)
}

// isNotFound reports whether err is a missing row.
func isNotFound(err error) bool {
	return sqlerr.IsNoRows(err)
}
