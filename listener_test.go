package mfsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, l *Listener) []EventID {
	t.Helper()
	var ids []EventID
	for l.Len() > 0 {
		var e Event
		_, err := l.Dequeue(&e)
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	return ids
}

func TestNewListenerDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultMaxEvents, NewListener(0).Cap())
	assert.Equal(t, DefaultMaxEvents, NewListener(-3).Cap())
	assert.Equal(t, 5, NewListener(5).Cap())
}

func TestListenerEnqueueCountsUpToCapacity(t *testing.T) {
	const n = 4
	l := NewListener(n)
	for k := 1; k <= n; k++ {
		count, err := l.Enqueue(NewEvent(EventID(k)))
		require.NoError(t, err)
		assert.Equal(t, k, count)
		assert.Equal(t, k, l.Len())
	}
	assert.True(t, l.Full())

	_, err := l.Enqueue(NewEvent(100))
	assert.ErrorIs(t, err, ErrFull)
	assert.Equal(t, n, l.Len())
	assert.Equal(t, []EventID{4, 3, 2, 1}, drain(t, l), "full enqueue must not overwrite")
}

func TestListenerDequeueEmpty(t *testing.T) {
	l := NewListener(2)
	dest := NewEvent(5)
	_, err := l.Dequeue(&dest)
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, EventID(5), dest.ID, "dest must not be touched on failure")
}

func TestListenerDequeueValidationOrder(t *testing.T) {
	var nilListener *Listener
	_, err := nilListener.Dequeue(nil)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	var e Event
	_, err = nilListener.Dequeue(&e)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = nilListener.Enqueue(e)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	empty := NewListener(1)
	_, err = empty.Dequeue(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument, "nil dest is reported before empty")
}

func TestListenerLIFO(t *testing.T) {
	l := NewListener(3)
	for _, id := range []EventID{1, 2, 3} {
		_, err := l.Enqueue(NewEvent(id))
		require.NoError(t, err)
	}

	var e Event
	count, err := l.Dequeue(&e)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, EventID(3), e.ID)

	assert.Equal(t, []EventID{2, 1}, drain(t, l))
}

func TestListenerFIFO(t *testing.T) {
	l := NewListener(3, WithOrder(FIFO))
	assert.Equal(t, FIFO, l.Order())

	for _, id := range []EventID{1, 2, 3} {
		_, err := l.Enqueue(NewEvent(id))
		require.NoError(t, err)
	}
	assert.Equal(t, []EventID{1, 2, 3}, drain(t, l))
}

func TestListenerFIFOWrapsAround(t *testing.T) {
	l := NewListener(3, WithOrder(FIFO))
	for _, id := range []EventID{1, 2, 3} {
		_, err := l.Enqueue(NewEvent(id))
		require.NoError(t, err)
	}

	var e Event
	_, err := l.Dequeue(&e)
	require.NoError(t, err)
	_, err = l.Dequeue(&e)
	require.NoError(t, err)
	assert.Equal(t, EventID(2), e.ID)

	for _, id := range []EventID{4, 5} {
		_, err := l.Enqueue(NewEvent(id))
		require.NoError(t, err)
	}
	assert.True(t, l.Full())
	assert.Equal(t, []EventID{3, 4, 5}, drain(t, l))
}

func TestListenerInitResets(t *testing.T) {
	for _, order := range []Order{LIFO, FIFO} {
		t.Run(order.String(), func(t *testing.T) {
			l := NewListener(2, WithOrder(order))
			_, err := l.Enqueue(NewEvent(1))
			require.NoError(t, err)
			_, err = l.Enqueue(NewEvent(2))
			require.NoError(t, err)

			l.Init()
			assert.Equal(t, 0, l.Len())
			var e Event
			_, err = l.Dequeue(&e)
			assert.ErrorIs(t, err, ErrEmpty)

			l.Init()
			assert.Equal(t, 0, l.Len())

			_, err = l.Enqueue(NewEvent(7))
			require.NoError(t, err)
			assert.Equal(t, []EventID{7}, drain(t, l))
		})
	}
}

func TestListenerDetach(t *testing.T) {
	a := NewQueue(3)
	b := NewQueue(3)
	l := NewListener(4, WithListenerName("l"))
	other := NewListener(4)

	require.NoError(t, a.AddListener(l))
	require.NoError(t, a.AddListener(l))
	require.NoError(t, a.AddListener(other))
	require.NoError(t, b.AddListener(l))

	assert.Equal(t, 3, l.Detach(a, b, nil))
	assert.False(t, a.Contains(l))
	assert.False(t, b.Contains(l))
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, l.Detach(a, b))
}

func TestListenerPeek(t *testing.T) {
	var nilListener *Listener
	var e Event
	assert.ErrorIs(t, nilListener.Peek(&e), ErrInvalidHandle)

	for order, want := range map[Order]EventID{LIFO: 2, FIFO: 1} {
		l := NewListener(2, WithOrder(order))
		assert.ErrorIs(t, l.Peek(nil), ErrInvalidArgument)
		assert.ErrorIs(t, l.Peek(&e), ErrEmpty)

		for _, id := range []EventID{1, 2} {
			_, err := l.Enqueue(NewEvent(id))
			require.NoError(t, err)
		}
		require.NoError(t, l.Peek(&e))
		assert.Equal(t, want, e.ID, order.String())
		assert.Equal(t, 2, l.Len(), "peek must not consume")

		var next Event
		_, err := l.Dequeue(&next)
		require.NoError(t, err)
		assert.Equal(t, e, next)
	}
}

func TestOrderString(t *testing.T) {
	assert.Equal(t, "lifo", LIFO.String())
	assert.Equal(t, "fifo", FIFO.String())
	assert.Equal(t, "unknown", Order(9).String())
}
