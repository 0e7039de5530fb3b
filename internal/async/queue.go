// Package async runs document processing off the submission path. The
// default is a single worker, which keeps documents processed strictly in
// submission order; the worker count is a tunable policy, not a design
// assumption.
package async

import (
	"context"
	"time"
)

// Job is one document waiting to be processed.
type Job struct {
	DocumentID  string
	SubmittedAt time.Time
}

// Handler processes one document by id.
type Handler func(ctx context.Context, docID string) error

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
