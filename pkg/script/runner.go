package script

import (
	"context"
	"fmt"

	"github.com/Knetic/govaluate"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/pmkol/linkseq/pkg/dlist"
	"github.com/pmkol/linkseq/pkg/workspace"
)

type Runner struct {
	ws     *workspace.Workspace
	logger *zap.Logger

	steps  *prometheus.CounterVec
	failed prometheus.Counter
}

func NewRunner(ws *workspace.Workspace, logger *zap.Logger, reg prometheus.Registerer) (*Runner, error) {
	r := &Runner{
		ws:     ws,
		logger: logger,
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "script_steps_total",
			Help: "The total number of executed steps",
		}, []string{"op"}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "script_steps_failed_total",
			Help: "The total number of failed steps",
		}),
	}
	for _, c := range []prometheus.Collector{r.steps, r.failed} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics, %w", err)
		}
	}
	return r, nil
}

// Run validates and then executes steps in order. It stops at the first
// failing step or when ctx is done.
func (r *Runner) Run(ctx context.Context, steps []Step) error {
	if err := Validate(steps); err != nil {
		return err
	}
	for i := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := &steps[i]
		if err := r.exec(s); err != nil {
			r.failed.Inc()
			return fmt.Errorf("step #%d (%s): %w", i, s.Op, err)
		}
		r.steps.WithLabelValues(s.Op).Inc()
	}
	r.logger.Info("script finished", zap.Int("steps", len(steps)))
	return nil
}

func (r *Runner) exec(s *Step) error {
	// Dropping must not create the list first.
	if s.Op == OpDrop {
		r.ws.Drop(s.List)
		return nil
	}

	entries, unlock, err := r.ws.Lock(s.lists()...)
	if err != nil {
		return err
	}
	defer unlock()
	l := entries[0].List()
	lg := r.logger.With(zap.String("op", s.Op), zap.String("list", s.List))

	switch s.Op {
	case OpPushFront:
		for _, v := range s.Values {
			l.PushFront(v)
		}
	case OpPushBack, OpExtend:
		l.Extend(s.Values...)
	case OpPopFront, OpPopBack:
		pop := l.PopFront
		if s.Op == OpPopBack {
			pop = l.PopBack
		}
		n := max(s.Count, 1)
		popped := make([]int64, 0, n)
		for i := 0; i < n; i++ {
			v, ok := pop()
			if !ok {
				break
			}
			popped = append(popped, v)
		}
		lg.Info("popped", zap.Int64s("values", popped), zap.Int("remaining", l.Len()))
	case OpClear:
		l.Clear()
	case OpClone:
		entries[1].Replace(l.Clone())
	case OpPrint:
		lg.Info("list", zap.Int("len", l.Len()), zap.String("value", l.String()))
	case OpCompare:
		other := entries[1].List()
		c, _ := dlist.PartialCompare(l, other)
		lg.Info("compared",
			zap.String("from", s.From),
			zap.String("order", orderString(c)),
			zap.Bool("equal", dlist.Equal(l, other)),
		)
	case OpAssert:
		return checkAssertion(s.Expect, l)
	case OpCursor:
		return r.runCursor(lg, entries, s.Actions)
	}
	return nil
}

// runCursor applies actions with one cursor on entries[0]. entries[1:]
// match the actions that name a list, in order.
func (r *Runner) runCursor(lg *zap.Logger, entries []*workspace.Entry, actions []CursorAction) error {
	c := entries[0].List().Cursor()
	defer c.Close()

	others := entries[1:]
	for _, a := range actions {
		var other *workspace.Entry
		if len(a.List) > 0 {
			other, others = others[0], others[1:]
		}

		switch a.Do {
		case ActNext:
			c.MoveNext()
		case ActPrev:
			c.MovePrev()
		case ActRemove:
			v, ok := c.RemoveCurrent()
			lg.Debug("removed", zap.Int64("value", v), zap.Bool("ok", ok))
		case ActInsertBefore:
			c.InsertBefore(a.Value)
		case ActInsertAfter:
			c.InsertAfter(a.Value)
		case ActSplitBefore:
			other.Replace(c.SplitBefore())
		case ActSplitAfter:
			other.Replace(c.SplitAfter())
		case ActSpliceBefore:
			c.SpliceBefore(other.List())
		case ActSpliceAfter:
			c.SpliceAfter(other.List())
		}
	}

	i, ok := c.Index()
	lg.Debug("cursor closed", zap.Int("index", i), zap.Bool("ghost", !ok))
	return nil
}

func orderString(c int) string {
	switch {
	case c < 0:
		return "<"
	case c > 0:
		return ">"
	default:
		return "="
	}
}

// checkAssertion evaluates expr with the parameters len, empty, str and, for
// non-empty lists, front and back.
func checkAssertion(expr string, l *dlist.List[int64]) error {
	e, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return fmt.Errorf("invalid expression %q, %w", expr, err)
	}

	params := govaluate.MapParameters{
		"len":   float64(l.Len()),
		"empty": l.IsEmpty(),
		"str":   l.String(),
	}
	if v, ok := l.PeekFront(); ok {
		params["front"] = float64(v)
	}
	if v, ok := l.PeekBack(); ok {
		params["back"] = float64(v)
	}

	res, err := e.Eval(params)
	if err != nil {
		return fmt.Errorf("failed to evaluate %q, %w", expr, err)
	}
	if b, ok := res.(bool); !ok || !b {
		return fmt.Errorf("%w: %s is %v, list is %v", ErrAssertion, expr, res, l)
	}
	return nil
}
