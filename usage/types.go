package usage

import (
	"math"
	"time"
)

const millisPerDay = 86400000

// User is the identity behind a stored credential, as reported by the
// dashboard. All fields are optional upstream.
type User struct {
	Email string `json:"email"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

// Summary is the month-to-date billing view for the current cycle.
type Summary struct {
	BillingCycleStart *string       `json:"billingCycleStart,omitempty"`
	BillingCycleEnd   *string       `json:"billingCycleEnd,omitempty"`
	OnDemand          OnDemandUsage `json:"onDemand"`
}

// OnDemandUsage carries the spent amount in minor currency units (cents).
type OnDemandUsage struct {
	Used int64 `json:"used"`
}

// Event is one itemized usage event. Cost is deliberately untyped: the
// upstream feed sometimes omits it or sends it in a non-numeric shape, and
// either case must degrade to zero rather than fail the decode.
type Event struct {
	Timestamp string `json:"timestamp,omitempty"`
	Model     string `json:"model,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Cost      any    `json:"cost,omitempty"`
}

type eventsRequest struct {
	TeamID    int    `json:"teamId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	UserID    string `json:"userId"`
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
}

type eventsResponse struct {
	UsageEvents []Event `json:"usageEvents"`
}

// Snapshot is the aggregated usage view assembled from the identity, summary
// and events calls. Month and cycle fields are zero/absent when the summary
// call failed; the today figure is zero when the events call failed.
type Snapshot struct {
	Email      string
	TodayCents int64
	MonthCents int64
	CycleStart *string
	CycleEnd   *string
}

// clone deep-copies the snapshot so cached entries stay isolated from
// caller mutation.
func (s *Snapshot) clone() *Snapshot {
	dup := *s
	if s.CycleStart != nil {
		v := *s.CycleStart
		dup.CycleStart = &v
	}
	if s.CycleEnd != nil {
		v := *s.CycleEnd
		dup.CycleEnd = &v
	}
	return &dup
}

// DaysUntilCycleEnd returns floor((cycleEnd-now)/86400000) in days, ok=false
// when no cycle-end date is known. The value goes negative once the cycle
// end has passed; clamping is the caller's concern.
func (s *Snapshot) DaysUntilCycleEnd(now time.Time) (int64, bool) {
	if s.CycleEnd == nil {
		return 0, false
	}
	end, err := parseCycleDate(*s.CycleEnd)
	if err != nil {
		return 0, false
	}
	millis := end.UnixMilli() - now.UnixMilli()
	return int64(math.Floor(float64(millis) / millisPerDay)), true
}

func parseCycleDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
