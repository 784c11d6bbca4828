package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCleanup_DrainsSchedulerBeforeClosingStore(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey("test"), "marker")
	var callOrder []string

	scheduler := &fakeScheduler{calls: &callOrder}
	notifier := &fakeCloser{name: "notifierClose", calls: &callOrder}
	closeStore := func() error {
		callOrder = append(callOrder, "storeClose")
		return nil
	}

	cleanup := newCleanup(scheduler, notifier, closeStore)

	cleanup(ctx)

	require.Equal(t, []string{"schedulerShutdown", "notifierClose", "storeClose"}, callOrder)
	require.Equal(t, "marker", scheduler.receivedCtx.Value(ctxKey("test")))
}

func TestNewCleanup_ContinuesAfterErrors(t *testing.T) {
	var callOrder []string

	scheduler := &fakeScheduler{calls: &callOrder, err: errors.New("timeout")}
	closeStore := func() error {
		callOrder = append(callOrder, "storeClose")
		return errors.New("busy")
	}

	newCleanup(scheduler, nil, closeStore)(context.Background())

	require.Equal(t, []string{"schedulerShutdown", "storeClose"}, callOrder)
}

type ctxKey string

type fakeScheduler struct {
	calls       *[]string
	receivedCtx context.Context
	err         error
}

func (f *fakeScheduler) Shutdown(ctx context.Context) error {
	f.receivedCtx = ctx
	*f.calls = append(*f.calls, "schedulerShutdown")
	return f.err
}

type fakeCloser struct {
	name  string
	calls *[]string
}

func (c *fakeCloser) Close() error {
	*c.calls = append(*c.calls, c.name)
	return nil
}
