package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/AshishKapoor/meri-chat-application/internal/config"
	"github.com/AshishKapoor/meri-chat-application/internal/core"
	"github.com/AshishKapoor/meri-chat-application/internal/proto"
	"github.com/AshishKapoor/meri-chat-application/internal/store/sqlite"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	hub := core.NewHub(st, core.NewPresence(), core.Options{
		AdminEmail:    "admin@admin.com",
		AdminPassword: "secret",
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.Addr = ":0"

	server := NewServer(hub, cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

// outboundEnvelope mirrors proto.Outbound with raw data for decoding.
type outboundEnvelope struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, id, msgType string, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{ID: id, Type: msgType, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(outboundEnvelope) bool) outboundEnvelope {
	t.Helper()

	for {
		var env outboundEnvelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if match(env) {
			return env
		}
	}
}

func awaitAck(t *testing.T, ctx context.Context, conn *websocket.Conn, id string) outboundEnvelope {
	t.Helper()
	return readUntil(t, ctx, conn, func(env outboundEnvelope) bool {
		return env.Type == proto.OutboundTypeAck && env.ID == id
	})
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status = %q, want ok", body["status"])
	}
}

func TestWebSocketRegisterAndSuggest(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)

	send(t, ctx, conn, "1", proto.InboundTypeRegister, proto.RegisterData{Username: "mona", VisitorID: "v1"})
	ack := awaitAck(t, ctx, conn, "1")

	var userAck proto.UserAck
	if err := json.Unmarshal(ack.Data, &userAck); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if userAck.Error != "" || userAck.User == nil {
		t.Fatalf("unexpected register ack: %+v", userAck)
	}
	if userAck.User.Username != "mona" || userAck.User.VisitorID != "v1" {
		t.Fatalf("unexpected user: %+v", userAck.User)
	}

	send(t, ctx, conn, "2", proto.InboundTypeSuggestChannelName, nil)
	ack = awaitAck(t, ctx, conn, "2")

	var suggestion string
	if err := json.Unmarshal(ack.Data, &suggestion); err != nil {
		t.Fatalf("decode suggestion: %v", err)
	}
	if len(strings.Split(suggestion, " ")) != 3 {
		t.Fatalf("suggestion = %q, want three words", suggestion)
	}
}

func TestWebSocketChannelFlow(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)

	send(t, ctx, conn, "1", proto.InboundTypeRegister, proto.RegisterData{Username: "mona", VisitorID: "v1"})
	awaitAck(t, ctx, conn, "1")

	send(t, ctx, conn, "2", proto.InboundTypeCreateChannel, proto.CreateChannelData{Name: "General", VisitorID: "v1"})
	ack := awaitAck(t, ctx, conn, "2")

	var chAck proto.ChannelAck
	if err := json.Unmarshal(ack.Data, &chAck); err != nil {
		t.Fatalf("decode channel ack: %v", err)
	}
	if chAck.Error != "" || chAck.Channel == nil {
		t.Fatalf("unexpected create ack: %+v", chAck)
	}
	if chAck.Channel.MemberCount != 0 {
		t.Fatalf("member count = %d, want 0", chAck.Channel.MemberCount)
	}

	send(t, ctx, conn, "3", proto.InboundTypeJoinChannel, proto.JoinChannelData{ChannelID: chAck.Channel.ID, VisitorID: "v1"})
	ack = awaitAck(t, ctx, conn, "3")

	var histAck proto.HistoryAck
	if err := json.Unmarshal(ack.Data, &histAck); err != nil {
		t.Fatalf("decode history ack: %v", err)
	}
	if histAck.Error != "" || len(histAck.Messages) != 0 {
		t.Fatalf("unexpected join ack: %+v", histAck)
	}

	send(t, ctx, conn, "", proto.InboundTypeSendMessage, proto.SendMessageData{
		ChannelID:       chAck.Channel.ID,
		Content:         "hello there",
		SenderVisitorID: "v1",
	})

	env := readUntil(t, ctx, conn, func(env outboundEnvelope) bool {
		return env.Type == proto.OutboundTypeEvent && env.Event == proto.EventMessage
	})

	var msg proto.Message
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if msg.Content != "hello there" || msg.SenderUsername != "mona" || msg.ChannelID != chAck.Channel.ID {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestWebSocketUnknownTypeReturnsProtocolError(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)

	send(t, ctx, conn, "1", "teleport", nil)
	env := readUntil(t, ctx, conn, func(env outboundEnvelope) bool {
		return env.Type == proto.OutboundTypeError
	})
	if env.Error == nil || env.Error.Code != "invalid_message" {
		t.Fatalf("unexpected error envelope: %+v", env)
	}
}
