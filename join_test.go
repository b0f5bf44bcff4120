package rt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoinHandle_PollDepositsWakerThenDeliversResult(t *testing.T) {
	rt := New()
	handle := Spawn[int](rt, &countingFuture{remaining: 2})

	w := rt.newWaker(rt.nextTaskID())
	v, done := handle.Poll(w)
	require.False(t, done)
	require.False(t, v.Ok)

	for i := 0; i < 3 && rt.ready.len() > 0; i++ {
		rt.pollOnce()
	}

	v, done = handle.Poll(w)
	require.True(t, done)
	require.True(t, v.Ok)
	require.Equal(t, 0, v.Value)
}

func TestJoinHandle_CloseIsIdempotent(t *testing.T) {
	rt := New()
	handle := Spawn[int](rt, Ready(1))
	require.NotPanics(t, func() {
		handle.Close()
		handle.Close()
	})
}
