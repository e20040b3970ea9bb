package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AshishKapoor/meri-chat-application/internal/store/sqlite"
)

func startHub(t *testing.T, opts Options) *Hub {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	hub := NewHub(st, NewPresence(), opts, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// mustNotice waits for a system notice whose content contains substr,
// skipping any other events (including earlier notices).
func mustNotice(t *testing.T, ch <-chan *Event, substr string) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev := mustEvent(t, ch, EventSystemNotice)
		if ev.Message != nil && strings.Contains(ev.Message.Content, substr) {
			return ev
		}
	}
	t.Fatalf("system notice containing %q not received", substr)
	return nil
}

// register attaches a fresh client and completes a register round-trip.
func register(t *testing.T, hub *Hub, connID, visitorID, username string) *Client {
	t.Helper()

	c := NewClient(connID)
	hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandRegister, ReqID: "reg", VisitorID: visitorID, Username: username}

	ev := mustEvent(t, c.Events, EventUserAck)
	if ev.Err != "" {
		t.Fatalf("register failed: %s", ev.Err)
	}
	return c
}

// barrier waits until the hub has processed every command the client
// queued before it, using a getChannels round-trip.
func barrier(t *testing.T, c *Client) {
	t.Helper()

	c.Commands <- &Command{Kind: CommandListChannels, ReqID: "barrier"}
	mustEvent(t, c.Events, EventChannelListAck)
}

// createChannel completes a createChannel round-trip and returns the new id.
func createChannel(t *testing.T, c *Client, name, visitorID string) string {
	t.Helper()

	c.Commands <- &Command{Kind: CommandCreateChannel, ReqID: "create", ChannelName: name, VisitorID: visitorID}
	ev := mustEvent(t, c.Events, EventChannelAck)
	if ev.Err != "" || ev.Channel == nil {
		t.Fatalf("create channel failed: %+v", ev)
	}
	return ev.Channel.ID
}

// joinChannel completes a joinChannel round-trip and returns the history.
func joinChannel(t *testing.T, c *Client, channelID, visitorID string) []Message {
	t.Helper()

	c.Commands <- &Command{Kind: CommandJoinChannel, ReqID: "join", ChannelID: channelID, VisitorID: visitorID}
	ev := mustEvent(t, c.Events, EventHistoryAck)
	if ev.Err != "" {
		t.Fatalf("join channel failed: %s", ev.Err)
	}
	return ev.Messages
}
