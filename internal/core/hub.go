package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AshishKapoor/meri-chat-application/internal/namegen"
	"github.com/AshishKapoor/meri-chat-application/internal/store"
)

// Options configures relay behavior.
type Options struct {
	// AdminEmail and AdminPassword are compared verbatim against
	// adminLogin credentials.
	AdminEmail    string
	AdminPassword string
	// HistoryWindow bounds the history fetched on joinChannel. Defaults
	// to ten days, matching message retention.
	HistoryWindow time.Duration
}

const defaultHistoryWindow = 240 * time.Hour

type requestKind int

const (
	reqAttach requestKind = iota
	reqDetach
	reqCommand
)

type request struct {
	kind   requestKind
	client *Client
	cmd    *Command
}

// Hub is the channel/message relay. It runs as a single goroutine that
// consumes client commands in arrival order; the presence table, the
// clients map, and all session state on clients are only touched from
// that goroutine. Store calls happen inline, so operations on the same
// channel are serialized: a sendMessage queued behind a deleteChannel
// observes the deletion's effects.
type Hub struct {
	store    store.Store
	presence *Presence
	opts     Options
	log      *zerolog.Logger
	suggest  func() string

	requests chan request
	done     chan struct{}
	clients  map[string]*Client
}

// NewHub constructs the relay over the given store and presence table.
func NewHub(st store.Store, presence *Presence, opts Options, logger *zerolog.Logger) *Hub {
	if opts.HistoryWindow == 0 {
		opts.HistoryWindow = defaultHistoryWindow
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		store:    st,
		presence: presence,
		opts:     opts,
		log:      logger,
		suggest:  namegen.Suggest,
		requests: make(chan request, 64),
		done:     make(chan struct{}),
		clients:  make(map[string]*Client),
	}
}

// RegisterClient attaches a connection to the hub and starts pumping its
// commands into the hub's queue.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.requests <- request{kind: reqAttach, client: c}:
	case <-h.done:
		return
	}
	go h.pump(c)
}

// UnregisterClient detaches a connection, triggering disconnect handling.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.requests <- request{kind: reqDetach, client: c}:
	case <-h.done:
	}
}

func (h *Hub) pump(c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.requests <- request{kind: reqCommand, client: c, cmd: cmd}:
			case <-h.done:
				return
			}
		case <-h.done:
			return
		}
	}
}

// Run processes requests until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case req := <-h.requests:
			switch req.kind {
			case reqAttach:
				h.clients[req.client.ID] = req.client
			case reqDetach:
				h.handleDisconnect(ctx, req.client)
			case reqCommand:
				h.handleCommand(ctx, req.client, req.cmd)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleCommand(ctx context.Context, c *Client, cmd *Command) {
	// A buffered command can arrive after its connection's detach was
	// already processed; the session is gone, so the command is dropped.
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	switch cmd.Kind {
	case CommandRegister:
		h.handleRegister(ctx, c, cmd)
	case CommandAdminLogin:
		h.handleAdminLogin(ctx, c, cmd)
	case CommandListChannels:
		h.handleListChannels(ctx, c, cmd)
	case CommandSuggestName:
		h.send(c, &Event{Kind: EventSuggestionAck, ReqID: cmd.ReqID, Suggestion: h.suggest()})
	case CommandCreateChannel:
		h.handleCreateChannel(ctx, c, cmd)
	case CommandJoinChannel:
		h.handleJoinChannel(ctx, c, cmd)
	case CommandLeaveChannel:
		h.handleLeaveChannel(ctx, c, cmd)
	case CommandSendMessage:
		h.handleSendMessage(ctx, c, cmd)
	case CommandDeleteChannel:
		h.handleDeleteChannel(ctx, c, cmd)
	}
}

func (h *Hub) handleRegister(ctx context.Context, c *Client, cmd *Command) {
	u, err := h.store.UpsertUser(ctx, cmd.VisitorID, cmd.Username)
	if err != nil {
		h.log.Error().Err(err).Str("visitor_id", cmd.VisitorID).Msg("register failed")
		h.send(c, &Event{Kind: EventUserAck, ReqID: cmd.ReqID, Err: ErrFailedRegister})
		return
	}

	c.VisitorID = u.VisitorID
	c.Username = u.Username
	c.IsAdmin = u.IsAdmin

	h.send(c, &Event{Kind: EventUserAck, ReqID: cmd.ReqID, User: userFromStore(u)})
	h.broadcastChannelList(ctx)
}

func (h *Hub) handleAdminLogin(ctx context.Context, c *Client, cmd *Command) {
	if cmd.Email != h.opts.AdminEmail || cmd.Password != h.opts.AdminPassword {
		h.send(c, &Event{Kind: EventUserAck, ReqID: cmd.ReqID, Err: ErrInvalidAdminCredentials})
		return
	}

	u, err := h.store.UpsertAdmin(ctx, cmd.VisitorID)
	if err != nil {
		h.log.Error().Err(err).Str("visitor_id", cmd.VisitorID).Msg("admin upsert failed")
		h.send(c, &Event{Kind: EventUserAck, ReqID: cmd.ReqID, Err: ErrFailedSetAdmin})
		return
	}

	c.VisitorID = u.VisitorID
	c.Username = u.Username
	c.IsAdmin = true

	h.send(c, &Event{Kind: EventUserAck, ReqID: cmd.ReqID, User: userFromStore(u)})
}

func (h *Hub) handleListChannels(ctx context.Context, c *Client, cmd *Command) {
	list, err := h.channelList(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("list channels failed")
		h.send(c, &Event{Kind: EventChannelListAck, ReqID: cmd.ReqID, Channels: []Channel{}})
		return
	}

	h.broadcast(&Event{Kind: EventChannels, Channels: list})
	h.send(c, &Event{Kind: EventChannelListAck, ReqID: cmd.ReqID, Channels: list})
}

func (h *Hub) handleCreateChannel(ctx context.Context, c *Client, cmd *Command) {
	ch := &store.Channel{
		ID:        uuid.NewString(),
		Name:      cmd.ChannelName,
		CreatedBy: cmd.VisitorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateChannel(ctx, ch); err != nil {
		h.log.Error().Err(err).Str("name", cmd.ChannelName).Msg("create channel failed")
		h.send(c, &Event{Kind: EventChannelAck, ReqID: cmd.ReqID, Err: ErrFailedCreateChannel})
		return
	}

	h.broadcastChannelList(ctx)
	h.send(c, &Event{
		Kind:    EventChannelAck,
		ReqID:   cmd.ReqID,
		Channel: channelFromStore(ch, h.presence.Count(ch.ID)),
	})
}

func (h *Hub) handleJoinChannel(ctx context.Context, c *Client, cmd *Command) {
	if _, err := h.store.GetChannelByID(ctx, cmd.ChannelID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.send(c, &Event{Kind: EventHistoryAck, ReqID: cmd.ReqID, Err: ErrChannelNotFound})
			return
		}
		h.log.Error().Err(err).Str("channel_id", cmd.ChannelID).Msg("join channel failed")
		h.send(c, &Event{Kind: EventHistoryAck, ReqID: cmd.ReqID, Err: ErrFailedJoinChannel})
		return
	}

	h.presence.Join(cmd.ChannelID, c.ID)
	c.CurrentChannelID = cmd.ChannelID
	h.broadcastChannelList(ctx)

	since := time.Now().UTC().Add(-h.opts.HistoryWindow)
	msgs, err := h.store.ListMessagesSince(ctx, cmd.ChannelID, since)
	if err != nil {
		h.log.Error().Err(err).Str("channel_id", cmd.ChannelID).Msg("history fetch failed")
		h.send(c, &Event{Kind: EventHistoryAck, ReqID: cmd.ReqID, Err: ErrFailedJoinChannel})
		return
	}

	h.send(c, &Event{Kind: EventHistoryAck, ReqID: cmd.ReqID, Messages: messagesFromStore(msgs)})

	if c.Username != "" {
		h.systemNotice(cmd.ChannelID, c.Username+" joined")
	}
}

func (h *Hub) handleLeaveChannel(ctx context.Context, c *Client, cmd *Command) {
	h.presence.Leave(cmd.ChannelID, c.ID)
	h.broadcastChannelList(ctx)
	if c.Username != "" {
		h.systemNotice(cmd.ChannelID, c.Username+" left")
	}
}

func (h *Hub) handleSendMessage(ctx context.Context, c *Client, cmd *Command) {
	// Whitespace-only content is a silent no-op, not an error.
	if strings.TrimSpace(cmd.Content) == "" {
		return
	}

	senderName := "Guest"
	u, err := h.store.GetUserByVisitorID(ctx, cmd.VisitorID)
	switch {
	case err == nil:
		senderName = u.Username
	case errors.Is(err, store.ErrNotFound):
		// Unknown sender keeps the Guest fallback.
	default:
		h.log.Error().Err(err).Str("visitor_id", cmd.VisitorID).Msg("sender lookup failed")
		h.send(c, &Event{Kind: EventSendError, Err: ErrFailedSendMessage})
		return
	}

	// Channel existence is not re-validated here; a message can land in a
	// channel deleted by an earlier request from another connection only
	// if the client raced the channelDeleted notification.
	m := &store.Message{
		ID:              uuid.NewString(),
		ChannelID:       cmd.ChannelID,
		Content:         cmd.Content,
		SenderUsername:  senderName,
		SenderVisitorID: cmd.VisitorID,
		Timestamp:       time.Now().UTC(),
	}
	if err := h.store.SaveMessage(ctx, m); err != nil {
		h.log.Error().Err(err).Str("channel_id", cmd.ChannelID).Msg("save message failed")
		h.send(c, &Event{Kind: EventSendError, Err: ErrFailedSendMessage})
		return
	}

	h.emitToChannel(cmd.ChannelID, &Event{Kind: EventChatMessage, Message: messageFromStore(m)})
}

func (h *Hub) handleDeleteChannel(ctx context.Context, c *Client, cmd *Command) {
	ch, err := h.store.GetChannelByID(ctx, cmd.ChannelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.send(c, &Event{Kind: EventDeleteAck, ReqID: cmd.ReqID, Err: ErrChannelNotFound})
			return
		}
		h.log.Error().Err(err).Str("channel_id", cmd.ChannelID).Msg("delete channel lookup failed")
		h.send(c, &Event{Kind: EventDeleteAck, ReqID: cmd.ReqID, Err: ErrFailedDeleteChannel})
		return
	}

	requester, err := h.store.GetUserByVisitorID(ctx, cmd.VisitorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.send(c, &Event{Kind: EventDeleteAck, ReqID: cmd.ReqID, Err: ErrUserNotFound})
			return
		}
		h.log.Error().Err(err).Str("visitor_id", cmd.VisitorID).Msg("delete channel requester lookup failed")
		h.send(c, &Event{Kind: EventDeleteAck, ReqID: cmd.ReqID, Err: ErrFailedDeleteChannel})
		return
	}

	if !requester.IsAdmin && ch.CreatedBy != cmd.VisitorID {
		h.send(c, &Event{Kind: EventDeleteAck, ReqID: cmd.ReqID, Err: ErrNotAllowed})
		return
	}

	// Two sequential deletes, no transaction. A crash between them leaves
	// orphaned messages for the sweeper to age out.
	if err := h.store.DeleteChannelMessages(ctx, cmd.ChannelID); err != nil {
		h.log.Error().Err(err).Str("channel_id", cmd.ChannelID).Msg("delete channel messages failed")
		h.send(c, &Event{Kind: EventDeleteAck, ReqID: cmd.ReqID, Err: ErrFailedDeleteChannel})
		return
	}
	if err := h.store.DeleteChannel(ctx, cmd.ChannelID); err != nil {
		h.log.Error().Err(err).Str("channel_id", cmd.ChannelID).Msg("delete channel failed")
		h.send(c, &Event{Kind: EventDeleteAck, ReqID: cmd.ReqID, Err: ErrFailedDeleteChannel})
		return
	}

	h.emitToChannel(cmd.ChannelID, &Event{Kind: EventChannelDeleted, ChannelID: cmd.ChannelID})
	h.presence.Drop(cmd.ChannelID)
	h.broadcastChannelList(ctx)
	h.send(c, &Event{Kind: EventDeleteAck, ReqID: cmd.ReqID, Success: true})

	h.log.Info().Str("channel_id", cmd.ChannelID).Str("by", cmd.VisitorID).Msg("channel deleted")
}

func (h *Hub) handleDisconnect(ctx context.Context, c *Client) {
	delete(h.clients, c.ID)

	if c.VisitorID != "" {
		if err := h.store.SetUserOnline(ctx, c.VisitorID, false); err != nil {
			h.log.Warn().Err(err).Str("visitor_id", c.VisitorID).Msg("mark offline failed")
		}
	}

	if c.CurrentChannelID != "" {
		if c.Username != "" {
			h.systemNotice(c.CurrentChannelID, c.Username+" disconnected")
		}
		h.presence.Leave(c.CurrentChannelID, c.ID)
		h.broadcastChannelList(ctx)
	}

	// Events stays open: the transport's write loop exits on its own
	// context, and closing here could race a command buffered behind
	// the detach.
}

// channelList fetches all channels and attaches live member counts.
func (h *Hub) channelList(ctx context.Context) ([]Channel, error) {
	channels, err := h.store.ListChannels(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		list = append(list, *channelFromStore(ch, h.presence.Count(ch.ID)))
	}
	return list, nil
}

// broadcastChannelList pushes the enriched channel list to every client.
// Member count is a pushed, derived field; every presence mutation is
// followed by one of these.
func (h *Hub) broadcastChannelList(ctx context.Context) {
	list, err := h.channelList(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("channel list broadcast failed")
		return
	}
	h.broadcast(&Event{Kind: EventChannels, Channels: list})
}

func (h *Hub) broadcast(ev *Event) {
	for _, c := range h.clients {
		h.send(c, ev)
	}
}

func (h *Hub) emitToChannel(channelID string, ev *Event) {
	for _, connID := range h.presence.Connections(channelID) {
		if c, ok := h.clients[connID]; ok {
			h.send(c, ev)
		}
	}
}

func (h *Hub) systemNotice(channelID, text string) {
	h.emitToChannel(channelID, &Event{
		Kind: EventSystemNotice,
		Message: &Message{
			ID:              uuid.NewString(),
			ChannelID:       channelID,
			Content:         text,
			SenderUsername:  "System",
			SenderVisitorID: "system",
			Timestamp:       time.Now().UTC(),
			System:          true,
		},
	})
}

func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}

func userFromStore(u *store.User) *User {
	return &User{
		VisitorID: u.VisitorID,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		IsOnline:  u.IsOnline,
		CreatedAt: u.CreatedAt,
	}
}

func channelFromStore(ch *store.Channel, memberCount int) *Channel {
	return &Channel{
		ID:          ch.ID,
		Name:        ch.Name,
		CreatedBy:   ch.CreatedBy,
		CreatedAt:   ch.CreatedAt,
		MemberCount: memberCount,
	}
}

func messageFromStore(m *store.Message) *Message {
	return &Message{
		ID:              m.ID,
		ChannelID:       m.ChannelID,
		Content:         m.Content,
		SenderUsername:  m.SenderUsername,
		SenderVisitorID: m.SenderVisitorID,
		Timestamp:       m.Timestamp,
		System:          m.System,
	}
}

func messagesFromStore(msgs []*store.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, *messageFromStore(m))
	}
	return out
}
