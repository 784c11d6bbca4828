package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channelSink(ch chan Notification) Sink {
	return SinkFunc(func(ctx context.Context, n Notification) error {
		ch <- n
		return nil
	})
}

func TestLocalNotifier_RequiresPermission(t *testing.T) {
	n := NewLocalNotifier(context.Background(), LogSink{})

	err := n.ScheduleOneShot(context.Background(), Notification{ID: "r1", Delay: time.Hour})
	assert.ErrorIs(t, err, ErrPermissionNotGranted)
}

func TestLocalNotifier_DeliversAfterDelay(t *testing.T) {
	delivered := make(chan Notification, 1)
	n := NewLocalNotifier(context.Background(), channelSink(delivered))
	defer n.Close()

	ctx := context.Background()
	require.NoError(t, n.RequestPermission(ctx))
	require.NoError(t, n.ScheduleOneShot(ctx, Notification{ID: "r1", Title: DefaultTitle, Body: "Stretch", Delay: 10 * time.Millisecond}))

	select {
	case got := <-delivered:
		assert.Equal(t, "r1", got.ID)
		assert.Equal(t, "Stretch", got.Body)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder was not delivered")
	}
	assert.Eventually(t, func() bool { return n.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLocalNotifier_CancelPreventsDelivery(t *testing.T) {
	delivered := make(chan Notification, 1)
	n := NewLocalNotifier(context.Background(), channelSink(delivered))
	defer n.Close()

	ctx := context.Background()
	require.NoError(t, n.RequestPermission(ctx))
	require.NoError(t, n.ScheduleOneShot(ctx, Notification{ID: "r1", Delay: 30 * time.Millisecond}))
	require.NoError(t, n.Cancel(ctx, "r1"))
	require.NoError(t, n.Cancel(ctx, "never-scheduled"))

	select {
	case <-delivered:
		t.Fatal("cancelled reminder was delivered")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 0, n.Pending())
}

func TestLocalNotifier_SinkErrorIsNotFatal(t *testing.T) {
	calls := make(chan struct{}, 2)
	sink := SinkFunc(func(ctx context.Context, n Notification) error {
		calls <- struct{}{}
		return errors.New("speaker unplugged")
	})
	n := NewLocalNotifier(context.Background(), sink, WithDeliveryRate(0, 0))
	defer n.Close()

	ctx := context.Background()
	require.NoError(t, n.RequestPermission(ctx))
	require.NoError(t, n.ScheduleOneShot(ctx, Notification{ID: "a", Delay: time.Millisecond}))
	require.NoError(t, n.ScheduleOneShot(ctx, Notification{ID: "b", Delay: time.Millisecond}))

	for range 2 {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("sink was not called")
		}
	}
}

func TestLocalNotifier_ThrottlesBursts(t *testing.T) {
	delivered := make(chan Notification, 3)
	ctx, cancel := context.WithCancel(context.Background())
	n := NewLocalNotifier(ctx, channelSink(delivered), WithDeliveryRate(1, 1))
	defer n.Close()

	require.NoError(t, n.RequestPermission(ctx))
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, n.ScheduleOneShot(ctx, Notification{ID: id, Delay: time.Millisecond}))
	}

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("first reminder was not delivered")
	}

	select {
	case <-delivered:
		t.Fatal("burst was not throttled")
	case <-time.After(100 * time.Millisecond):
	}

	// Cancelling the context drops the throttled reminders.
	cancel()
}
