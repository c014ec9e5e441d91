package status

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogersnm/fieldwork/internal/maximo"
	"github.com/rogersnm/fieldwork/internal/model"
	"go.uber.org/zap"
)

// DefaultSettleDelay is how long the changer waits between a reported write
// and the read-back. It was tuned against a single deployment.
const DefaultSettleDelay = 1500 * time.Millisecond

// DefaultHistoryCollection is the status history child collection of a
// work order.
const DefaultHistoryCollection = "wostatus"

// Backend is the part of the transport the changer needs.
type Backend interface {
	UpdateStatus(ctx context.Context, creds maximo.Credentials, href, value, memo string) error
	CollectionRef(ctx context.Context, creds maximo.Credentials, href, collection string) (string, error)
	AddStatusHistory(ctx context.Context, creds maximo.Credentials, ref string, rec maximo.StatusRecord) error
	ReadStatus(ctx context.Context, creds maximo.Credentials, href string) (string, error)
}

// Changer moves an entity to a new status and reports the status the server
// actually stored. A success response from a write is never trusted on its
// own: only a matching read-back confirms the change.
type Changer struct {
	backend    Backend
	classify   *Classifier
	settle     time.Duration
	history    string
	log        *zap.Logger
	sleep      func(time.Duration)
	now        func() time.Time
	strategies []strategy
}

type ChangerOption func(*Changer)

func WithSettleDelay(d time.Duration) ChangerOption {
	return func(c *Changer) { c.settle = d }
}

func WithHistoryCollection(name string) ChangerOption {
	return func(c *Changer) {
		if name != "" {
			c.history = name
		}
	}
}

func WithClassifier(cl *Classifier) ChangerOption {
	return func(c *Changer) { c.classify = cl }
}

func WithLogger(l *zap.Logger) ChangerOption {
	return func(c *Changer) { c.log = l }
}

// WithClock replaces time.Sleep and time.Now.
func WithClock(sleep func(time.Duration), now func() time.Time) ChangerOption {
	return func(c *Changer) {
		c.sleep = sleep
		c.now = now
	}
}

func NewChanger(b Backend, opts ...ChangerOption) *Changer {
	c := &Changer{
		backend:  b,
		classify: NewClassifier(),
		settle:   DefaultSettleDelay,
		history:  DefaultHistoryCollection,
		log:      zap.NewNop(),
		sleep:    time.Sleep,
		now:      time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.strategies = []strategy{
		{name: "update", attempting: model.StateAttemptingPrimary, succeeded: model.StatePrimarySucceeded, attempt: c.updateInPlace},
		{name: "history", attempting: model.StateAttemptingFallback, succeeded: model.StateFallbackSucceeded, attempt: c.insertHistory},
	}
	return c
}

// strategy is one way of writing the new status.
type strategy struct {
	name       string
	attempting model.ChangeState
	succeeded  model.ChangeState
	attempt    func(ctx context.Context, creds maximo.Credentials, req *model.ChangeRequest) error
}

func (c *Changer) updateInPlace(ctx context.Context, creds maximo.Credentials, req *model.ChangeRequest) error {
	return c.backend.UpdateStatus(ctx, creds, req.Href, req.Status, req.Memo)
}

func (c *Changer) insertHistory(ctx context.Context, creds maximo.Credentials, req *model.ChangeRequest) error {
	ref, err := c.backend.CollectionRef(ctx, creds, req.Href, c.history)
	if err != nil {
		return err
	}
	return c.backend.AddStatusHistory(ctx, creds, ref, maximo.StatusRecord{
		Status:     req.Status,
		Memo:       req.Memo,
		ChangeDate: c.now().UTC().Format(time.RFC3339),
	})
}

// Change runs write, fallback write and read-back for req. Once the first
// write is sent the sequence runs to completion even if ctx is cancelled.
func (c *Changer) Change(ctx context.Context, creds maximo.Credentials, req model.ChangeRequest) (*model.ChangeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, configError("%s", err.Error())
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = strings.TrimSpace(req.Status)
	log := c.log.With(zap.String("request", req.ID), zap.String("href", req.Href), zap.String("status", req.Status))
	ctx = context.WithoutCancel(ctx)

	res := &model.ChangeResult{}
	step := func(s model.ChangeState) {
		res.Trace = append(res.Trace, s)
		log.Debug("status change", zap.String("state", string(s)))
	}
	step(model.StateIdle)

	var failure *Error
	for i, s := range c.strategies {
		step(s.attempting)
		err := s.attempt(ctx, creds, &req)
		if err == nil {
			step(s.succeeded)
			res.Strategy = s.name
			failure = nil
			break
		}

		failure = c.classify.wrap(err)
		if failure.Kind == KindBusinessRule {
			step(model.StateFailed)
			log.Info("status change rejected", zap.String("strategy", s.name), zap.String("message", failure.Message))
			return res, failure
		}
		if i < len(c.strategies)-1 {
			log.Warn("status write failed, trying next strategy", zap.String("strategy", s.name), zap.Error(err))
		}
	}
	if failure != nil {
		step(model.StateFailed)
		log.Warn("status change failed", zap.String("kind", string(failure.Kind)), zap.Error(failure.Err))
		return res, failure
	}

	step(model.StateConfirming)
	c.sleep(c.settle)
	got, err := c.backend.ReadStatus(ctx, creds, req.Href)
	if err != nil {
		step(model.StateConfirmationUnavailable)
		log.Warn("could not confirm status change", zap.String("strategy", res.Strategy), zap.Error(err))
		res.Code = req.Status
		res.Confirmed = false
		return res, nil
	}

	got = strings.TrimSpace(got)
	if got == "" {
		step(model.StateConfirmationUnavailable)
		log.Warn("could not confirm status change", zap.String("strategy", res.Strategy), zap.String("reason", "read-back carried no status field"))
		res.Code = req.Status
		res.Confirmed = false
		return res, nil
	}

	if !strings.EqualFold(got, req.Status) {
		step(model.StateConfirmationMismatch)
		log.Warn("status change not applied", zap.String("strategy", res.Strategy), zap.String("actual", got))
		return res, &Error{
			Kind:      KindConfirmationMismatch,
			Message:   fmt.Sprintf("the server accepted the change but the status is still %q, not the requested %q", got, req.Status),
			LastKnown: got,
		}
	}

	step(model.StateConfirmed)
	res.Code = got
	res.Confirmed = true
	log.Info("status change confirmed", zap.String("strategy", res.Strategy), zap.String("code", got))
	return res, nil
}
