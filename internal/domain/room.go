package domain

import "fmt"

type RoomID string

// GroupRoom is the single standing public group channel.
const GroupRoom RoomID = "publicGroup"

// PairRoomID derives the session id for a matched pair. The newcomer goes
// first, then the participant popped from the queue, so the id is stable for
// the lifetime of the pairing and unique across concurrent sessions.
func PairRoomID(prefix string, a, b ConnID) RoomID {
	return RoomID(fmt.Sprintf("%s_%s_%s", prefix, a, b))
}
