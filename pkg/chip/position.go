package chip

// Position is a (channel, relative position) pair — the original
// source's ChannelPosition — for callers that want to name a point
// along one channel. The engine itself does not use it: injections
// and droplet boundaries carry the channel id and a plain float64
// relative position.
type Position struct {
	Channel int
	RelPos  float64
}
