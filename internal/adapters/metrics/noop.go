package metrics

// Noop implements ports.Metrics and discards every event.
type Noop struct{}

// NewNoop returns a Metrics that records nothing.
func NewNoop() Noop { return Noop{} }

func (Noop) RecordHit(string) {}

func (Noop) RecordMiss() {}

func (Noop) RecordPut(int64) {}

func (Noop) RecordEviction(string, int64) {}

func (Noop) RecordPurge(string) {}

func (Noop) SetUsage(int, int64, int64) {}
