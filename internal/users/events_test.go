package users

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_EmitAndSubscribe(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	ch1, _ := b.Subscribe()
	ch2, _ := b.Subscribe()
	want := Event{Kind: EventAdded, User: &User{ID: 1}}

	b.Emit(want)

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBroadcaster_EmitWhenFull_DoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()
	_, _ = b.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			b.Emit(Event{Kind: EventStatus})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked when the subscriber was full")
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()

	cancel()
	cancel()
	b.Emit(Event{Kind: EventStatus})

	_, open := <-ch
	assert.False(t, open)
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()

	b.Emit(Event{Kind: EventReplaced})
	b.Close()
	cancel()

	var received []Event
	for ev := range ch {
		received = append(received, ev)
	}
	require.Len(t, received, 1)

	late, _ := b.Subscribe()
	_, open := <-late
	assert.False(t, open)
}

func TestFormatEvent(t *testing.T) {
	usr := User{ID: 4, FirstName: "Ann", LastName: "Lee"}
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Kind: EventReplaced, Users: make([]User, 3)}, "  ✓ fetched 3 users"},
		{Event{Kind: EventReplaced, Query: "ann", Users: make([]User, 1)}, `  ✓ search "ann": 1 users`},
		{Event{Kind: EventAdded, User: &usr}, "  ● added #4 Ann Lee"},
		{Event{Kind: EventDeleted}, "  ● deleted"},
		{Event{Kind: EventFetchFailed, Err: errors.New("down")}, "  ✗ fetch failed: down"},
		{Event{Kind: EventStatus, Status: StatusInFlight}, "  ○ status: in-flight"},
		{Event{Kind: "bogus"}, "  ? bogus (unknown event)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEvent(tt.ev))
	}
}
