package usage

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cursortools/usage-agent/credentials"
	agenterrors "github.com/cursortools/usage-agent/internal/errors"
	"github.com/cursortools/usage-agent/internal/utils"
)

// cacheTTL throttles repeat fetches: the dashboard API is rate-limited, so
// identical requests inside this window are served from the slot.
const cacheTTL = 10 * time.Second

// Orchestrator assembles usage snapshots from the three dashboard calls.
// The identity call is a hard prerequisite; the summary and events calls
// settle independently and degrade to zero/absent fields on failure.
type Orchestrator struct {
	client *Client
	cache  snapshotCache
	log    zerolog.Logger
}

func NewOrchestrator(client *Client, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		client: client,
		log:    logger,
	}
}

// ClearCache discards the cached snapshot (called on logout and new login).
func (o *Orchestrator) ClearCache() {
	o.cache.clear()
}

// Fetch returns the usage snapshot for (teamID, credential), serving from
// the single cache slot when a matching entry is still live. A failed
// identity call aborts the fetch and leaves the cache untouched.
func (o *Orchestrator) Fetch(ctx context.Context, teamID string, cred credentials.Credential, now time.Time) (*Snapshot, error) {
	team, err := strconv.Atoi(strings.TrimSpace(teamID))
	if err != nil || team <= 0 {
		return nil, errors.Wrapf(agenterrors.ErrInvalidTeamID, "[Fetch] %q is not a positive integer", teamID)
	}

	key := strconv.Itoa(team) + cred.String()
	if snapshot, ok := o.cache.get(key, now); ok {
		o.log.Debug().Str("team_id", teamID).Msg("serving usage snapshot from cache")
		return snapshot, nil
	}

	user, err := o.client.CurrentUser(ctx, cred)
	if err != nil {
		return nil, errors.Wrap(err, "[Fetch] identity lookup failed")
	}

	var (
		wg         sync.WaitGroup
		summary    *Summary
		summaryErr error
		events     []Event
		eventsErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, summaryErr = o.client.UsageSummary(ctx, cred)
	}()
	go func() {
		defer wg.Done()
		events, eventsErr = o.client.FilteredUsageEvents(ctx, cred, team, user.ID, startOfDay(now), now)
	}()
	wg.Wait()

	snapshot := &Snapshot{Email: user.Email}
	if summaryErr != nil {
		o.log.Warn().Err(summaryErr).Msg("usage summary unavailable, degrading to zero")
	} else {
		snapshot.MonthCents = summary.OnDemand.Used
		snapshot.CycleStart = summary.BillingCycleStart
		snapshot.CycleEnd = summary.BillingCycleEnd
	}
	if eventsErr != nil {
		o.log.Warn().Err(eventsErr).Msg("usage events unavailable, degrading to zero")
	} else {
		snapshot.TodayCents = sumEventCosts(events)
	}

	o.cache.put(key, snapshot, now.Add(cacheTTL))
	return snapshot, nil
}

// sumEventCosts adds up per-event costs, treating missing or non-numeric
// costs as zero, and rounds the total to the nearest cent.
func sumEventCosts(events []Event) int64 {
	total := 0.0
	for _, event := range events {
		if cost, ok := utils.ToFloat64(event.Cost); ok {
			total += cost
		}
	}
	return int64(math.Round(total))
}

func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
