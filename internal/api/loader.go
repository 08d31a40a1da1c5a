package api

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pablasso/todo/internal/session"
	"github.com/pablasso/todo/internal/task"
)

// Snapshot is what the home screen needs before it can render.
type Snapshot struct {
	Tasks   []task.Task
	Session *session.Session
}

// Load fetches the task list and the session concurrently.
func (c *Client) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tasks, err := c.ListTasks(gctx)
		if err != nil {
			return err
		}
		snap.Tasks = tasks
		return nil
	})
	g.Go(func() error {
		s, err := c.FetchSession(gctx)
		if err != nil {
			return err
		}
		snap.Session = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
