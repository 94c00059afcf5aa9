package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorapara/relay/internal/core"
	"github.com/sorapara/relay/internal/domain"
)

type sentEvent struct {
	to      domain.ConnID
	event   string
	payload any
}

type broadcastEvent struct {
	room    domain.RoomID
	event   string
	payload any
	exclude domain.ConnID
}

type groupOp struct {
	id   domain.ConnID
	room domain.RoomID
}

// fakeTransport records every outbound call so state transitions can be
// asserted without a live websocket.
type fakeTransport struct {
	sends      []sentEvent
	broadcasts []broadcastEvent
	joins      []groupOp
	leaves     []groupOp
}

func (t *fakeTransport) SendTo(id domain.ConnID, event string, payload any) {
	t.sends = append(t.sends, sentEvent{to: id, event: event, payload: payload})
}

func (t *fakeTransport) Broadcast(room domain.RoomID, event string, payload any, exclude domain.ConnID) {
	t.broadcasts = append(t.broadcasts, broadcastEvent{room: room, event: event, payload: payload, exclude: exclude})
}

func (t *fakeTransport) JoinGroup(id domain.ConnID, room domain.RoomID) {
	t.joins = append(t.joins, groupOp{id: id, room: room})
}

func (t *fakeTransport) LeaveGroup(id domain.ConnID, room domain.RoomID) {
	t.leaves = append(t.leaves, groupOp{id: id, room: room})
}

func (t *fakeTransport) eventsFor(id domain.ConnID) []sentEvent {
	var out []sentEvent
	for _, s := range t.sends {
		if s.to == id {
			out = append(out, s)
		}
	}
	return out
}

func (t *fakeTransport) reset() {
	t.sends, t.broadcasts, t.joins, t.leaves = nil, nil, nil, nil
}

func newTestController() (*Controller, *fakeTransport) {
	tr := &fakeTransport{}
	return NewController(tr), tr
}

func lastEvent(t *testing.T, tr *fakeTransport, id domain.ConnID) sentEvent {
	t.Helper()
	events := tr.eventsFor(id)
	require.NotEmpty(t, events)
	return events[len(events)-1]
}

func TestFirstArrivalWaits(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")

	require.Len(t, tr.sends, 1)
	assert.Equal(t, core.EventWaiting, tr.sends[0].event)
	assert.Equal(t, domain.ConnID("a"), tr.sends[0].to)
	assert.Equal(t, 1, c.text.QueueLen())
}

func TestFIFOMatching(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")

	// A and B matched, both notified with each other's name.
	ea := lastEvent(t, tr, "a")
	assert.Equal(t, core.EventPartnerFound, ea.event)
	assert.Equal(t, core.PartnerDTO{ID: "b", Name: "Bob"}, ea.payload)

	eb := lastEvent(t, tr, "b")
	assert.Equal(t, core.EventPartnerFound, eb.event)
	assert.Equal(t, core.PartnerDTO{ID: "a", Name: "Alice"}, eb.payload)

	// C arrives and waits; the queue holds only C.
	c.SetUsername("c", "Cara", "one-to-one")
	assert.Equal(t, core.EventWaiting, lastEvent(t, tr, "c").event)
	assert.Equal(t, 1, c.text.QueueLen())
	assert.True(t, c.text.queue.Contains("c"))
}

func TestSymmetryInvariant(t *testing.T) {
	c, _ := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")

	a, ok := c.registry.Get("a")
	require.True(t, ok)
	b, ok := c.registry.Get("b")
	require.True(t, ok)

	require.NotNil(t, a.Partner)
	require.NotNil(t, b.Partner)
	assert.Same(t, b, a.Partner)
	assert.Same(t, a, b.Partner)
	assert.Equal(t, a.Room, b.Room)

	sess, ok := c.text.sessions.Get(a.Room)
	require.True(t, ok)
	assert.Equal(t, a.Room, sess.ID)
}

func TestQueueExclusivity(t *testing.T) {
	c, _ := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")

	// Matched participants never linger in the queue.
	assert.Equal(t, 0, c.text.QueueLen())
	assert.False(t, c.text.queue.Contains("a"))
	assert.False(t, c.text.queue.Contains("b"))
}

func TestMessageDeliveredToPartnerOnly(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")
	c.SetUsername("x", "Xena", "one-to-one") // unrelated, waiting
	tr.reset()

	c.SendMessage("a", "hi")

	require.Len(t, tr.sends, 1)
	assert.Equal(t, domain.ConnID("b"), tr.sends[0].to)
	assert.Equal(t, core.EventMessage, tr.sends[0].event)

	msg, ok := tr.sends[0].payload.(core.MessageDTO)
	require.True(t, ok)
	assert.Equal(t, "Alice", msg.SenderName)
	assert.Equal(t, "hi", msg.Content)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestMessageDroppedWhenUnmatched(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	tr.reset()

	c.SendMessage("a", "into the void")
	c.SendMessage("ghost", "never registered")

	assert.Empty(t, tr.sends)
	assert.Empty(t, tr.broadcasts)
}

func TestDisconnectCleanup(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")
	a, _ := c.registry.Get("a")
	room := a.Room
	tr.reset()

	c.Disconnect("a")

	assert.Equal(t, core.EventPartnerLeft, lastEvent(t, tr, "b").event)

	_, ok := c.registry.Get("a")
	assert.False(t, ok)

	b, ok := c.registry.Get("b")
	require.True(t, ok)
	assert.Nil(t, b.Partner)
	assert.Empty(t, b.Room)

	_, ok = c.text.sessions.Get(room)
	assert.False(t, ok)
	assert.False(t, c.text.queue.Contains("a"))
}

func TestDisconnectWhileQueued(t *testing.T) {
	c, _ := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.Disconnect("a")

	assert.Equal(t, 0, c.text.QueueLen())
	assert.Equal(t, 0, c.registry.Len())

	// Second disconnect for the same id is a no-op.
	c.Disconnect("a")
	assert.Equal(t, 0, c.registry.Len())
}

func TestTeardownCompleteness(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")
	a, _ := c.registry.Get("a")
	b, _ := c.registry.Get("b")
	room := a.Room
	tr.reset()

	c.FindNewPartner("a")

	assert.Equal(t, core.EventPartnerLeft, lastEvent(t, tr, "b").event)
	assert.Nil(t, b.Partner)
	assert.Empty(t, b.Room)
	_, ok := c.text.sessions.Get(room)
	assert.False(t, ok)

	// A is alone again, so it re-queues and waits.
	assert.Equal(t, core.EventWaiting, lastEvent(t, tr, "a").event)
	assert.Nil(t, a.Partner)
	assert.True(t, c.text.queue.Contains("a"))
}

func TestRematchIdempotentWhileQueued(t *testing.T) {
	c, _ := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.FindNewPartner("a")
	c.FindNewPartner("a")

	assert.Equal(t, 1, c.text.QueueLen())
}

func TestRematchPicksOldestWaiter(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")
	c.SetUsername("c", "Cara", "one-to-one")
	tr.reset()

	c.FindNewPartner("a")

	// B is dropped, A pairs with C.
	assert.Equal(t, core.EventPartnerLeft, lastEvent(t, tr, "b").event)

	ea := lastEvent(t, tr, "a")
	assert.Equal(t, core.EventPartnerFound, ea.event)
	assert.Equal(t, core.PartnerDTO{ID: "c", Name: "Cara"}, ea.payload)

	a, _ := c.registry.Get("a")
	cc, _ := c.registry.Get("c")
	assert.Same(t, cc, a.Partner)
	assert.Same(t, a, cc.Partner)
}

func TestRematchDisallowedInGroupMode(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("g", "Gail", "group")
	tr.reset()

	c.FindNewPartner("g")

	assert.Empty(t, tr.sends)
	assert.Equal(t, 0, c.text.QueueLen())
	assert.True(t, c.group.Contains("g"))
}

func TestGroupBroadcastExcludesSender(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("g1", "Gail", "group")
	c.SetUsername("g2", "Glen", "group")
	c.SetUsername("g3", "Gus", "group")
	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")
	tr.reset()

	c.SendMessage("g1", "hello group")

	require.Len(t, tr.broadcasts, 1)
	bc := tr.broadcasts[0]
	assert.Equal(t, domain.GroupRoom, bc.room)
	assert.Equal(t, core.EventMessage, bc.event)
	assert.Equal(t, domain.ConnID("g1"), bc.exclude)

	msg, ok := bc.payload.(core.MessageDTO)
	require.True(t, ok)
	assert.Equal(t, "Gail", msg.SenderName)

	// The matched pair gets nothing.
	assert.Empty(t, tr.eventsFor("a"))
	assert.Empty(t, tr.eventsFor("b"))
}

func TestGroupTyping(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("g1", "Gail", "group")
	c.SetUsername("g2", "Glen", "group")
	tr.reset()

	c.Typing("g1")
	require.Len(t, tr.broadcasts, 1)
	assert.Equal(t, core.EventTyping, tr.broadcasts[0].event)
	assert.Equal(t, core.TypingDTO{UserName: "Gail"}, tr.broadcasts[0].payload)
	assert.Contains(t, c.group.TypingNames(), "Gail")

	c.StopTyping("g1")
	assert.Equal(t, core.EventStopTyping, tr.broadcasts[1].event)
	assert.Empty(t, c.group.TypingNames())
}

func TestPairTypingGoesToPartnerOnly(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")
	tr.reset()

	c.Typing("a")

	require.Len(t, tr.sends, 1)
	assert.Equal(t, domain.ConnID("b"), tr.sends[0].to)
	assert.Equal(t, core.EventTyping, tr.sends[0].event)
	assert.Empty(t, tr.broadcasts)
}

func TestGroupDisconnectClearsTyping(t *testing.T) {
	c, _ := newTestController()

	c.SetUsername("g1", "Gail", "group")
	c.Typing("g1")
	c.Disconnect("g1")

	assert.False(t, c.group.Contains("g1"))
	assert.Empty(t, c.group.TypingNames())
	assert.Equal(t, 0, c.registry.Len())
}

func TestVideoFlow(t *testing.T) {
	c, tr := newTestController()

	// setUsername on the video namespace registers only.
	c.SetUsername("v1", "Vera", "video")
	assert.Empty(t, tr.sends)
	assert.Equal(t, 0, c.video.QueueLen())

	c.FindNewPartner("v1")
	assert.Equal(t, core.EventVideoWaiting, lastEvent(t, tr, "v1").event)

	c.SetUsername("v2", "Vic", "video")
	c.FindNewPartner("v2")

	e1 := lastEvent(t, tr, "v1")
	assert.Equal(t, core.EventVideoPartnerFound, e1.event)
	assert.Equal(t, core.PartnerDTO{ID: "v2", Name: "Vic"}, e1.payload)

	v1, _ := c.registry.Get("v1")
	assert.Contains(t, string(v1.Room), "video_room")

	// Signaling payload forwarded verbatim.
	tr.reset()
	payload := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	c.VideoSignal("v1", payload)

	require.Len(t, tr.sends, 1)
	assert.Equal(t, domain.ConnID("v2"), tr.sends[0].to)
	assert.Equal(t, core.EventVideoSignal, tr.sends[0].event)
	assert.Equal(t, payload, tr.sends[0].payload)
}

func TestVideoSignalDroppedWhenUnmatched(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("v1", "Vera", "video")
	c.FindNewPartner("v1")
	tr.reset()

	c.VideoSignal("v1", json.RawMessage(`{"type":"offer"}`))

	assert.Empty(t, tr.sends)
}

func TestDuplicateSetUsernameRunsTeardown(t *testing.T) {
	c, tr := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")
	tr.reset()

	// A re-selects a mode while matched: the old pairing is unwound first.
	c.SetUsername("a", "Alice2", "one-to-one")

	assert.Equal(t, core.EventPartnerLeft, lastEvent(t, tr, "b").event)

	b, _ := c.registry.Get("b")
	assert.Nil(t, b.Partner)

	a, _ := c.registry.Get("a")
	assert.Equal(t, "Alice2", a.Name)
	assert.Nil(t, a.Partner)
	assert.True(t, c.text.queue.Contains("a"))
	assert.Equal(t, 0, c.text.SessionCount())
}

func TestDuplicateSetUsernameSwitchesToGroup(t *testing.T) {
	c, _ := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("a", "Alice", "group")

	assert.Equal(t, 0, c.text.QueueLen())
	assert.True(t, c.group.Contains("a"))
}

func TestInvalidNameGetsGuestName(t *testing.T) {
	c, _ := newTestController()

	c.SetUsername("a", "   ", "one-to-one")

	a, ok := c.registry.Get("a")
	require.True(t, ok)
	assert.Contains(t, a.Name, "guest-")
}

func TestSnapshot(t *testing.T) {
	c, _ := newTestController()

	c.SetUsername("a", "Alice", "one-to-one")
	c.SetUsername("b", "Bob", "one-to-one")
	c.SetUsername("w", "Walt", "one-to-one")
	c.SetUsername("g1", "Gail", "group")
	c.SetUsername("v1", "Vera", "video")
	c.FindNewPartner("v1")

	s := c.Snapshot()
	assert.Equal(t, 5, s.Participants)
	assert.Equal(t, 1, s.TextQueue)
	assert.Equal(t, 1, s.VideoQueue)
	assert.Equal(t, 1, s.Sessions)
	assert.Equal(t, 1, s.GroupMembers)
}
