package driver

import "time"

// Stage identifies a step of the per-unit pipeline.
type Stage string

const (
	StageDecode   Stage = "decode"   // read the AST pack
	StageLower    Stage = "lower"    // C++ lowering
	StageValidate Stage = "validate" // symbol table checks
	StageEncode   Stage = "encode"   // write the IR pack
)

// stageShare is the fraction of a unit's work finished once a stage has
// started.
var stageShare = map[Stage]float64{
	StageDecode:   0.1,
	StageLower:    0.4,
	StageValidate: 0.8,
	StageEncode:   0.9,
}

// Progress returns the share of the pipeline reached at s, 0 for an
// unknown stage.
func (s Stage) Progress() float64 { return stageShare[s] }

// Status is the state of a unit within its current stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Final reports whether no further events follow for the unit.
func (s Status) Final() bool { return s == StatusDone || s == StatusError }

// Event reports progress for one unit.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; LowerFiles calls them from its workers.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel. A nil channel drops them.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch != nil {
		s.Ch <- evt
	}
}

func emit(s ProgressSink, evt Event) {
	if s != nil {
		s.OnEvent(evt)
	}
}
