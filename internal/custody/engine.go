// Package custody implements the protocols that move uniform items between
// cadets, storage units and nobody. Every operation runs in one
// serializable transaction and either fully commits or leaves no trace.
package custody

import (
	"context"
	"errors"
	"time"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

// Engine runs custody operations against a database.
type Engine struct {
	DB      *db.DB
	Metrics *Metrics
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// New creates an engine. metrics may be nil.
func New(database *db.DB, metrics *Metrics) *Engine {
	return &Engine{DB: database, Metrics: metrics, Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) today() model.Date {
	return model.DateOf(e.now())
}

// run executes fn in a transaction. A *Conflict returned by fn rolls the
// transaction back and is handed to the caller as a value.
func (e *Engine) run(ctx context.Context, op string, fn func(tx *db.Tx) error) (*Conflict, error) {
	start := time.Now()
	err := e.DB.InTx(ctx, fn)

	var conflict *Conflict
	switch {
	case err == nil:
		e.Metrics.observe(op, outcomeOK, start)
		return nil, nil
	case errors.As(err, &conflict):
		e.Metrics.observe(op, outcomeConflict, start)
		return conflict, nil
	default:
		e.Metrics.observe(op, outcomeError, start)
		return nil, err
	}
}
