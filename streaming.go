// streaming.go
// -------------
// The framing decision for upload bodies: buffered below the streaming
// threshold, streamed above it. The decision is a pure function of the
// payload size and the configured thresholds; it carries no retry or
// transport semantics.
package cognee

// Framing selects how an upload body is put on the wire.
type Framing int

const (
	// FramingBuffered assembles the whole body in memory before sending.
	FramingBuffered Framing = iota
	// FramingStreamed writes the body incrementally from its source.
	FramingStreamed
)

func (f Framing) String() string {
	if f == FramingStreamed {
		return "streamed"
	}
	return "buffered"
}

// FramingDecision is the outcome of DecideFraming.
type FramingDecision struct {
	Framing Framing
	// Warn is set for payloads above the warn threshold. The upload still
	// proceeds; callers just log it.
	Warn bool
}

// DecideFraming picks buffered or streamed framing for a payload of the
// given size. Sizes at or below the streaming threshold are buffered,
// larger ones streamed; sizes above the warn threshold additionally set
// Warn. Raising a threshold can only move decisions from streamed toward
// buffered, never the reverse.
func DecideFraming(sizeBytes, streamingThreshold, warnThreshold int64) FramingDecision {
	d := FramingDecision{Framing: FramingBuffered}
	if sizeBytes > streamingThreshold {
		d.Framing = FramingStreamed
	}
	if sizeBytes > warnThreshold {
		d.Warn = true
	}
	return d
}
