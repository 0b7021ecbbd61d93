// Package nalstream contains a demuxer and a muxer of length-prefixed NAL unit streams.
package nalstream

// PTSUnknown is the timestamp forwarded to sinks when the stream carries no timing,
// which is always the case for streams stored inside still-image containers.
const PTSUnknown int64 = 0

// Sink receives NAL units from a demuxer, one at a time, in stream order.
// Implementations typically hand each unit to a decoder.
//
// The demuxer does not interpret the outcome of a submission; sinks that can
// fail are expected to record the failure internally and report it once
// decoding completes.
type Sink interface {
	// SubmitNAL forwards a single NAL unit.
	// unit is valid until the call returns and can be empty.
	SubmitNAL(unit []byte, pts int64)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(unit []byte, pts int64)

// SubmitNAL implements the Sink interface.
func (f SinkFunc) SubmitNAL(unit []byte, pts int64) {
	f(unit, pts)
}
