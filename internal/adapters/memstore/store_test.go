package memstore

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestAcquireCreatesLazilyAndReturnsSameSession(t *testing.T) {
	s := New(time.Hour, zerolog.Nop())

	sess, release := s.Acquire("abc")
	sess.History = append(sess.History, "Night Drive")
	release()

	again, release := s.Acquire("abc")
	defer release()
	require.Same(t, sess, again)
	require.Equal(t, []string{"Night Drive"}, again.History)
	require.Equal(t, 1, s.Len())
}

func TestAcquireSerializesAccess(t *testing.T) {
	s := New(time.Hour, zerolog.Nop())

	_, release := s.Acquire("abc")
	acquired := make(chan struct{})
	go func() {
		_, r2 := s.Acquire("abc")
		r2()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire completed while the first held the session")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Acquire never completed after release")
	}
}

func TestGetAndDelete(t *testing.T) {
	s := New(time.Hour, zerolog.Nop())

	_, ok := s.Get("abc")
	require.False(t, ok, "Get must not create sessions")

	_, release := s.Acquire("abc")
	release()
	_, ok = s.Get("abc")
	require.True(t, ok)

	s.Delete("abc")
	_, ok = s.Get("abc")
	require.False(t, ok)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	s := New(time.Hour, zerolog.Nop())
	now := time.Now()
	s.now = func() time.Time { return now }

	_, release := s.Acquire("stale")
	release()

	now = now.Add(2 * time.Hour)
	_, release = s.Acquire("fresh")
	release()

	s.sweep()
	_, ok := s.Get("stale")
	require.False(t, ok, "idle session should be evicted")
	_, ok = s.Get("fresh")
	require.True(t, ok)
}

func TestSweepSkipsSessionsInUse(t *testing.T) {
	s := New(time.Hour, zerolog.Nop())
	now := time.Now()
	s.now = func() time.Time { return now }

	_, release := s.Acquire("busy")

	now = now.Add(2 * time.Hour)
	s.sweep()
	_, ok := s.Get("busy")
	require.True(t, ok, "a held session must survive the sweep")

	release()
	s.sweep()
	_, ok = s.Get("busy")
	require.False(t, ok)
}
