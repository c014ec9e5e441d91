package status

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rogersnm/fieldwork/internal/maximo"
	"github.com/rogersnm/fieldwork/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type fakeDomain struct {
	vals   []maximo.SynonymValue
	err    error
	called int
	domain string
}

func (f *fakeDomain) DomainValues(ctx context.Context, c maximo.Credentials, domainID string) ([]maximo.SynonymValue, error) {
	f.called++
	f.domain = domainID
	return f.vals, f.err
}

func TestList_ServerOrderAndMapping(t *testing.T) {
	src := &fakeDomain{vals: []maximo.SynonymValue{
		{Value: "WAPPR", MaxValue: "WAPPR", Description: "Waiting on Approval"},
		{Value: "FIELDDONE", MaxValue: "COMP", Description: "Field Complete"},
		{Value: "APPR", MaxValue: "APPR"},
	}}
	l := NewLister(src, nil, zaptest.NewLogger(t))

	opts, err := l.List(context.Background(), creds, " WOSTATUS ")
	require.NoError(t, err)
	assert.Equal(t, "WOSTATUS", src.domain)

	want := []model.StatusOption{
		{Key: "WAPPR", Label: "Waiting on Approval", Code: "WAPPR", Value: "WAPPR"},
		{Key: "FIELDDONE", Label: "Field Complete", Code: "COMP", Value: "FIELDDONE"},
		{Key: "APPR", Label: "Approved", Code: "APPR", Value: "APPR"},
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestList_CurrentMatchedByValueOnly(t *testing.T) {
	src := &fakeDomain{vals: []maximo.SynonymValue{
		{Value: "COMP", MaxValue: "COMP"},
		{Value: "FIELDDONE", MaxValue: "COMP"},
	}}
	l := NewLister(src, nil, nil)

	opts, err := l.List(context.Background(), creds, DomainWorkOrder)
	require.NoError(t, err)
	assert.Equal(t, 1, model.CurrentIndex(opts, "fielddone"))
}

func TestList_KeysUniqueForDuplicateValues(t *testing.T) {
	src := &fakeDomain{vals: []maximo.SynonymValue{
		{Value: "X", MaxValue: "A"},
		{Value: "X", MaxValue: "B"},
	}}
	opts, err := NewLister(src, nil, nil).List(context.Background(), creds, DomainWorkOrder)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.NotEqual(t, opts[0].Key, opts[1].Key)
}

func TestList_MissingDomain(t *testing.T) {
	src := &fakeDomain{}
	_, err := NewLister(src, nil, nil).List(context.Background(), creds, "  ")
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Equal(t, 0, src.called)
}

func TestList_ServerError(t *testing.T) {
	src := &fakeDomain{err: &maximo.APIError{StatusCode: 401, Message: "BMXAA0021E - User name and password combination are not valid."}}
	_, err := NewLister(src, nil, nil).List(context.Background(), creds, DomainWorkOrder)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServer))
	assert.Contains(t, err.Error(), "BMXAA0021E")
}

func TestList_ServerErrorWithoutMessage(t *testing.T) {
	src := &fakeDomain{err: &maximo.APIError{StatusCode: 500}}
	_, err := NewLister(src, nil, nil).List(context.Background(), creds, DomainWorkOrder)
	assert.True(t, errors.Is(err, ErrServer))
	assert.Equal(t, "API error 500", err.Error())
}

func TestList_TransportError(t *testing.T) {
	src := &fakeDomain{err: errors.New("dial tcp: no such host")}
	_, err := NewLister(src, nil, nil).List(context.Background(), creds, DomainWorkOrder)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestList_CancelledIsQuiet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakeDomain{err: ctx.Err()}
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLister(src, nil, zap.New(core))

	_, err := l.List(ctx, creds, DomainWorkOrder)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrServer)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("listing statuses cancelled").Len())
}

func TestList_FailureWarns(t *testing.T) {
	src := &fakeDomain{err: errors.New("connection reset by peer")}
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLister(src, nil, zap.New(core))

	_, err := l.List(context.Background(), creds, DomainWorkOrder)
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}
