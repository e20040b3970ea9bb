package core

// Presence maps channel ids to the set of connection ids currently
// joined to them. It is process-local, reset on restart, and owned by
// the hub goroutine; it carries no locking of its own.
//
// Member counts track open connections, not distinct users: one user
// with two tabs counts twice, and an abandoned tab keeps counting until
// the transport detects the drop.
type Presence struct {
	channels map[string]map[string]struct{}
}

// NewPresence constructs an empty presence table.
func NewPresence() *Presence {
	return &Presence{channels: make(map[string]map[string]struct{})}
}

// Join adds the connection to the channel's set, creating the set if absent.
func (p *Presence) Join(channelID, connID string) {
	set, ok := p.channels[channelID]
	if !ok {
		set = make(map[string]struct{})
		p.channels[channelID] = set
	}
	set[connID] = struct{}{}
}

// Leave removes the connection from the channel's set. An emptied set is
// pruned so Count reports zero instead of retaining empty-set garbage.
func (p *Presence) Leave(channelID, connID string) {
	set, ok := p.channels[channelID]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(p.channels, channelID)
	}
}

// Count returns the size of the channel's set, or zero if absent.
func (p *Presence) Count(channelID string) int {
	return len(p.channels[channelID])
}

// Connections returns the connection ids joined to the channel.
func (p *Presence) Connections(channelID string) []string {
	set := p.channels[channelID]
	if len(set) == 0 {
		return nil
	}
	conns := make([]string, 0, len(set))
	for id := range set {
		conns = append(conns, id)
	}
	return conns
}

// Drop removes the channel's entry entirely, used when the channel
// itself is deleted.
func (p *Presence) Drop(channelID string) {
	delete(p.channels, channelID)
}
