package store

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeMessageStore struct {
	expired chan time.Time
}

func (f *fakeMessageStore) SaveMessage(ctx context.Context, m *Message) error { return nil }

func (f *fakeMessageStore) ListMessagesSince(ctx context.Context, channelID string, since time.Time) ([]*Message, error) {
	return nil, nil
}

func (f *fakeMessageStore) DeleteChannelMessages(ctx context.Context, channelID string) error {
	return nil
}

func (f *fakeMessageStore) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.expired <- cutoff
	return 1, nil
}

func TestSweeperUsesRetentionCutoff(t *testing.T) {
	fake := &fakeMessageStore{expired: make(chan time.Time, 4)}
	logger := zerolog.Nop()

	ttl := 240 * time.Hour
	sweeper := NewSweeper(fake, ttl, time.Hour, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	select {
	case cutoff := <-fake.expired:
		want := time.Now().Add(-ttl)
		if diff := cutoff.Sub(want); diff < -time.Minute || diff > time.Minute {
			t.Fatalf("cutoff = %v, want about %v", cutoff, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never swept")
	}
}

func TestSweeperSweepsPeriodically(t *testing.T) {
	fake := &fakeMessageStore{expired: make(chan time.Time, 8)}
	logger := zerolog.Nop()

	sweeper := NewSweeper(fake, time.Hour, 10*time.Millisecond, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	for i := 0; i < 3; i++ {
		select {
		case <-fake.expired:
		case <-time.After(2 * time.Second):
			t.Fatalf("sweep %d never happened", i)
		}
	}
}
