package probe

import "strings"

// FieldOrderInterlaced returns true if the container's field_order claims
// interlaced content (tt, bb, tb, bt). The claim is often wrong for
// broadcast captures, so the engine decides with the idet heuristic and only
// shows this as a hint.
func (d *MediaDescriptor) FieldOrderInterlaced() bool {
	switch strings.ToLower(strings.TrimSpace(d.FieldOrder)) {
	case "tt", "bb", "tb", "bt":
		return true
	}
	return false
}
