package http

import (
	"encoding/json"

	"github.com/AshishKapoor/meri-chat-application/internal/core"
	"github.com/AshishKapoor/meri-chat-application/internal/proto"
)

const (
	errCodeBadRequest     = "bad_request"
	errCodeInvalidMessage = "invalid_message"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeRegister:
		var data proto.RegisterData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.VisitorID == "" {
			return nil, &proto.Error{Code: errCodeBadRequest, Msg: "visitorId is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandRegister,
			ReqID:     inbound.ID,
			Username:  data.Username,
			VisitorID: data.VisitorID,
		}, nil, nil

	case proto.InboundTypeAdminLogin:
		var data proto.AdminLoginData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.VisitorID == "" {
			return nil, &proto.Error{Code: errCodeBadRequest, Msg: "visitorId is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandAdminLogin,
			ReqID:     inbound.ID,
			Email:     data.Email,
			Password:  data.Password,
			VisitorID: data.VisitorID,
		}, nil, nil

	case proto.InboundTypeGetChannels:
		return &core.Command{Kind: core.CommandListChannels, ReqID: inbound.ID}, nil, nil

	case proto.InboundTypeSuggestChannelName:
		return &core.Command{Kind: core.CommandSuggestName, ReqID: inbound.ID}, nil, nil

	case proto.InboundTypeCreateChannel:
		var data proto.CreateChannelData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Name == "" {
			return nil, &proto.Error{Code: errCodeBadRequest, Msg: "name is required"}, nil
		}
		return &core.Command{
			Kind:        core.CommandCreateChannel,
			ReqID:       inbound.ID,
			ChannelName: data.Name,
			VisitorID:   data.VisitorID,
		}, nil, nil

	case proto.InboundTypeJoinChannel:
		var data proto.JoinChannelData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.ChannelID == "" {
			return nil, &proto.Error{Code: errCodeBadRequest, Msg: "channelId is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandJoinChannel,
			ReqID:     inbound.ID,
			ChannelID: data.ChannelID,
			VisitorID: data.VisitorID,
		}, nil, nil

	case proto.InboundTypeLeaveChannel:
		var data proto.LeaveChannelData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.ChannelID == "" {
			return nil, &proto.Error{Code: errCodeBadRequest, Msg: "channelId is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandLeaveChannel,
			ChannelID: data.ChannelID,
		}, nil, nil

	case proto.InboundTypeSendMessage:
		var data proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.ChannelID == "" {
			return nil, &proto.Error{Code: errCodeBadRequest, Msg: "channelId is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandSendMessage,
			ChannelID: data.ChannelID,
			Content:   data.Content,
			VisitorID: data.SenderVisitorID,
		}, nil, nil

	case proto.InboundTypeDeleteChannel:
		var data proto.DeleteChannelData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.ChannelID == "" {
			return nil, &proto.Error{Code: errCodeBadRequest, Msg: "channelId is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandDeleteChannel,
			ReqID:     inbound.ID,
			ChannelID: data.ChannelID,
			VisitorID: data.VisitorID,
		}, nil, nil

	default:
		return nil, &proto.Error{Code: errCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventUserAck:
		return proto.Outbound{
			Type: proto.OutboundTypeAck,
			ID:   event.ReqID,
			Data: proto.UserAck{User: userToProto(event.User), Error: event.Err},
		}
	case core.EventChannelListAck:
		return proto.Outbound{
			Type: proto.OutboundTypeAck,
			ID:   event.ReqID,
			Data: channelsToProto(event.Channels),
		}
	case core.EventSuggestionAck:
		return proto.Outbound{
			Type: proto.OutboundTypeAck,
			ID:   event.ReqID,
			Data: event.Suggestion,
		}
	case core.EventChannelAck:
		return proto.Outbound{
			Type: proto.OutboundTypeAck,
			ID:   event.ReqID,
			Data: proto.ChannelAck{Channel: channelToProto(event.Channel), Error: event.Err},
		}
	case core.EventHistoryAck:
		ack := proto.HistoryAck{Error: event.Err}
		if event.Err == "" {
			ack.Messages = messagesToProto(event.Messages)
		}
		return proto.Outbound{Type: proto.OutboundTypeAck, ID: event.ReqID, Data: ack}
	case core.EventDeleteAck:
		return proto.Outbound{
			Type: proto.OutboundTypeAck,
			ID:   event.ReqID,
			Data: proto.DeleteAck{Success: event.Success, Error: event.Err},
		}
	case core.EventChannels:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChannels,
			Data:  channelsToProto(event.Channels),
		}
	case core.EventChatMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessage,
			Data:  messageToProto(event.Message),
		}
	case core.EventSystemNotice:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventSystem,
			Data:  messageToProto(event.Message),
		}
	case core.EventChannelDeleted:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChannelDeleted,
			Data:  event.ChannelID,
		}
	case core.EventSendError:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventError,
			Data:  event.Err,
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func userToProto(u *core.User) *proto.User {
	if u == nil {
		return nil
	}
	return &proto.User{
		VisitorID: u.VisitorID,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		IsOnline:  u.IsOnline,
		CreatedAt: u.CreatedAt.UnixMilli(),
	}
}

func channelToProto(ch *core.Channel) *proto.Channel {
	if ch == nil {
		return nil
	}
	return &proto.Channel{
		ID:          ch.ID,
		Name:        ch.Name,
		CreatedBy:   ch.CreatedBy,
		CreatedAt:   ch.CreatedAt.UnixMilli(),
		MemberCount: ch.MemberCount,
	}
}

func channelsToProto(channels []core.Channel) []proto.Channel {
	out := make([]proto.Channel, 0, len(channels))
	for i := range channels {
		out = append(out, *channelToProto(&channels[i]))
	}
	return out
}

func messageToProto(m *core.Message) *proto.Message {
	if m == nil {
		return nil
	}
	return &proto.Message{
		ID:              m.ID,
		ChannelID:       m.ChannelID,
		Content:         m.Content,
		SenderUsername:  m.SenderUsername,
		SenderVisitorID: m.SenderVisitorID,
		Timestamp:       m.Timestamp.UnixMilli(),
		System:          m.System,
	}
}

func messagesToProto(msgs []core.Message) []proto.Message {
	out := make([]proto.Message, 0, len(msgs))
	for i := range msgs {
		out = append(out, *messageToProto(&msgs[i]))
	}
	return out
}
