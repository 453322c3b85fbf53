package analysis

// State is the exercise phase of the counter.
type State string

const (
	// StateNotReady is the initial phase, before the body has been seen in
	// a valid starting position. It is never reported through OnState.
	StateNotReady State = "not_ready"
	// StateUp is the extended (top) phase of the active cycle.
	StateUp State = "ready_up"
	// StateDown is the lowered (bottom) phase of the active cycle.
	StateDown State = "down"
)

// FeedbackEvent pairs a 1-based repetition index with its form category.
type FeedbackEvent struct {
	Rep      int      `json:"rep"`
	Category Category `json:"category"`
}

// SessionResult is the end-of-session summary, emitted exactly once when
// processing stops normally. Cancelled sessions produce no result.
type SessionResult struct {
	TotalCount int             `json:"total_count"`
	Feedback   []FeedbackEvent `json:"feedback"`
}

// Callbacks is the closed set of events the counter can emit. Any field may
// be nil; emission is then skipped. The counter is the sole writer and
// invokes callbacks synchronously from ProcessFrame/Start/Stop.
type Callbacks struct {
	OnCount         func(count int)
	OnState         func(state State)
	OnReady         func()
	OnFeedback      func(rep int, category Category)
	OnTargetReached func()
	OnComplete      func(result SessionResult)
}

func (c Callbacks) emitCount(count int) {
	if c.OnCount != nil {
		c.OnCount(count)
	}
}

func (c Callbacks) emitState(state State) {
	if c.OnState != nil {
		c.OnState(state)
	}
}

func (c Callbacks) emitReady() {
	if c.OnReady != nil {
		c.OnReady()
	}
}

func (c Callbacks) emitFeedback(rep int, category Category) {
	if c.OnFeedback != nil {
		c.OnFeedback(rep, category)
	}
}

func (c Callbacks) emitTargetReached() {
	if c.OnTargetReached != nil {
		c.OnTargetReached()
	}
}

func (c Callbacks) emitComplete(result SessionResult) {
	if c.OnComplete != nil {
		c.OnComplete(result)
	}
}
