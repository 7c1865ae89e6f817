package schema

// Window returns a copy of the last min(w, len(msgs)) messages.
// A non-positive w yields an empty window, which disables
// history-aware reformulation upstream.
func Window(msgs []Message, w int) []Message {
	if w <= 0 || len(msgs) == 0 {
		return nil
	}
	start := len(msgs) - w
	if start < 0 {
		start = 0
	}
	out := make([]Message, len(msgs)-start)
	copy(out, msgs[start:])
	return out
}
