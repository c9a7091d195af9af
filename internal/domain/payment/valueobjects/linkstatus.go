package valueobjects

// LinkStatus tracks a single payment link request.
type LinkStatus string

const (
	LinkStatusNotStarted  LinkStatus = "not_started"
	LinkStatusRequestSent LinkStatus = "request_sent"
	LinkStatusSucceeded   LinkStatus = "succeeded"
	LinkStatusFailed      LinkStatus = "failed"
)

// A request can fail before it is sent (bad config, cancelled caller), so
// not_started may go straight to failed.
var linkStatusTransitions = map[LinkStatus][]LinkStatus{
	LinkStatusNotStarted:  {LinkStatusRequestSent, LinkStatusFailed},
	LinkStatusRequestSent: {LinkStatusSucceeded, LinkStatusFailed},
}

func (s LinkStatus) IsValid() bool {
	switch s {
	case LinkStatusNotStarted, LinkStatusRequestSent, LinkStatusSucceeded, LinkStatusFailed:
		return true
	default:
		return false
	}
}

func (s LinkStatus) CanTransitionTo(target LinkStatus) bool {
	for _, next := range linkStatusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s LinkStatus) IsFinal() bool {
	return s == LinkStatusSucceeded || s == LinkStatusFailed
}

func (s LinkStatus) String() string {
	return string(s)
}
