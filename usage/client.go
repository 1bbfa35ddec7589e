package usage

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cursortools/usage-agent/credentials"
	"github.com/cursortools/usage-agent/internal/config"
	agenterrors "github.com/cursortools/usage-agent/internal/errors"
)

const (
	currentUserPath  = "/api/auth/me"
	usageSummaryPath = "/api/usage-summary"
	usageEventsPath  = "/api/dashboard/get-filtered-usage-events"

	requestTimeout = 15 * time.Second
	eventsPageSize = 500
)

// Client talks to the cookie-authenticated dashboard API. It carries no
// state beyond the base URL; the credential is supplied per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(cfg config.DashboardConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    cfg.GetAPIBaseURL(),
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        logger,
	}
}

// CurrentUser resolves the identity behind the credential.
func (c *Client) CurrentUser(ctx context.Context, cred credentials.Credential) (*User, error) {
	user := &User{}
	if err := c.doJSON(ctx, http.MethodGet, currentUserPath, cred, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UsageSummary fetches the month-to-date spend and billing cycle bounds.
func (c *Client) UsageSummary(ctx context.Context, cred credentials.Credential) (*Summary, error) {
	summary := &Summary{}
	if err := c.doJSON(ctx, http.MethodGet, usageSummaryPath, cred, nil, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// FilteredUsageEvents fetches the itemized usage events for one user in the
// given window. A single fixed-size page is requested; there is no
// pagination loop.
func (c *Client) FilteredUsageEvents(ctx context.Context, cred credentials.Credential, teamID int, userID string, start, end time.Time) ([]Event, error) {
	request := eventsRequest{
		TeamID:    teamID,
		StartDate: strconv.FormatInt(start.UnixMilli(), 10),
		EndDate:   strconv.FormatInt(end.UnixMilli(), 10),
		UserID:    userID,
		Page:      1,
		PageSize:  eventsPageSize,
	}
	response := eventsResponse{}
	if err := c.doJSON(ctx, http.MethodPost, usageEventsPath, cred, &request, &response); err != nil {
		return nil, err
	}
	return response.UsageEvents, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, cred credentials.Credential, body, out any) error {
	var payload *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[doJSON] failed to marshal request for %s", path)
		}
		payload = bytes.NewBuffer(data)
	} else {
		payload = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return errors.Wrapf(err, "[doJSON] failed to build request for %s", path)
	}
	req.Header.Set("Cookie", cred.String())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(agenterrors.ErrUpstreamRequest, "[doJSON] request to %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("dashboard request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Wrapf(agenterrors.ErrUpstreamRequest, "[doJSON] %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(agenterrors.ErrUpstreamRequest, "[doJSON] %s returned an unparsable body: %v", path, err)
	}
	return nil
}
