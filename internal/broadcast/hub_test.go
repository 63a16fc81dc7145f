package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHub_PublishDeliversToSubscriber(t *testing.T) {
	h := NewHub[int]("test", 4)
	defer h.Shutdown()

	sub := h.Subscribe()
	h.Publish(1)
	h.Publish(2)

	require.Equal(t, 1, <-sub.C)
	require.Equal(t, 2, <-sub.C)
}

func TestHub_LateSubscriberMissesPastEvents(t *testing.T) {
	h := NewHub[int]("test", 4)
	defer h.Shutdown()

	h.Publish(1)
	sub := h.Subscribe()
	h.Publish(2)

	require.Equal(t, 2, <-sub.C)
}

func TestHub_FullBufferDropsWithoutBlockingPublisher(t *testing.T) {
	h := NewHub[int]("test", 2)
	defer h.Shutdown()

	sub := h.Subscribe()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// Drop-oldest ring: after the flood, the buffer holds the newest two
	// values in arrival order, not the first two.
	require.Equal(t, 98, <-sub.C)
	require.Equal(t, 99, <-sub.C)
}

func TestHub_CloseStopsDelivery(t *testing.T) {
	h := NewHub[int]("test", 4)
	defer h.Shutdown()

	sub := h.Subscribe()
	sub.Close()

	_, ok := <-sub.C
	require.False(t, ok)
}

func TestHub_SubscriberCount(t *testing.T) {
	h := NewHub[int]("test", 4)
	defer h.Shutdown()

	require.Equal(t, 0, h.SubscriberCount())
	sub := h.Subscribe()
	require.Equal(t, 1, h.SubscriberCount())
	sub.Close()
	require.Equal(t, 0, h.SubscriberCount())
}
