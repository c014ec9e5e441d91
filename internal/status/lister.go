package status

import (
	"context"
	"strconv"
	"strings"

	"github.com/rogersnm/fieldwork/internal/maximo"
	"github.com/rogersnm/fieldwork/internal/model"
	"go.uber.org/zap"
)

// Status domains. Activities are work orders upstream and share a domain.
const (
	DomainWorkOrder = "WOSTATUS"
	DomainActivity  = "WOSTATUS"
)

// DomainSource is the part of the transport the lister needs.
type DomainSource interface {
	DomainValues(ctx context.Context, creds maximo.Credentials, domainID string) ([]maximo.SynonymValue, error)
}

type Lister struct {
	src      DomainSource
	classify *Classifier
	log      *zap.Logger
}

func NewLister(src DomainSource, classify *Classifier, log *zap.Logger) *Lister {
	if classify == nil {
		classify = NewClassifier()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Lister{src: src, classify: classify, log: log}
}

// List returns the status options of domainID in server order.
func (l *Lister) List(ctx context.Context, creds maximo.Credentials, domainID string) ([]model.StatusOption, error) {
	domainID = strings.TrimSpace(domainID)
	if domainID == "" {
		return nil, configError("status domain is not configured")
	}

	vals, err := l.src.DomainValues(ctx, creds, domainID)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled by the caller, or by a sibling read that failed first.
			l.log.Debug("listing statuses cancelled", zap.String("domain", domainID), zap.Error(err))
			return nil, &Error{Kind: KindTransport, Message: "listing statuses cancelled: " + ctx.Err().Error(), Err: err}
		}
		e := l.classify.wrap(err)
		if e.Kind == KindBusinessRule {
			e.Kind = KindServer
		}
		l.log.Warn("listing statuses failed", zap.String("domain", domainID), zap.String("kind", string(e.Kind)), zap.Error(err))
		return nil, e
	}

	opts := make([]model.StatusOption, 0, len(vals))
	seen := make(map[string]int)
	for _, v := range vals {
		code := v.MaxValue
		if code == "" {
			code = v.Value
		}
		value := v.Value
		if value == "" {
			value = code
		}
		label := v.Description
		if label == "" {
			label = model.StatusLabel(code)
		}
		key := value
		if n := seen[value]; n > 0 {
			key = value + "#" + strconv.Itoa(n)
		}
		seen[value]++
		opts = append(opts, model.StatusOption{Key: key, Label: label, Code: code, Value: value})
	}
	l.log.Debug("listed statuses", zap.String("domain", domainID), zap.Int("count", len(opts)))
	return opts, nil
}
