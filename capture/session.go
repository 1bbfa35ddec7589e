package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cursortools/usage-agent/credentials"
	"github.com/cursortools/usage-agent/internal/config"
	agenterrors "github.com/cursortools/usage-agent/internal/errors"
)

// State tracks where a capture session is in its one-shot lifecycle.
type State string

const (
	StateIdle               State = "idle"
	StateLaunching          State = "launching"
	StateWaitingForDebugger State = "waiting_for_debugger"
	StateExtracting         State = "extracting"
	StateClosed             State = "closed"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultPollTimeout  = 15 * time.Second
	processSettleWait   = 500 * time.Millisecond
	cookieDomain        = "cursor.com"
)

// Session owns one in-flight credential capture attempt: a spawned browser
// process and its isolated temporary profile directory. It is one-shot;
// after Finish (success or failure) the session is closed and a new one must
// be created for another attempt.
type Session struct {
	cfg config.CaptureConfig
	log zerolog.Logger

	state       State
	cmd         *exec.Cmd
	profileDir  string
	debuggerURL string

	pollInterval time.Duration
	pollTimeout  time.Duration
	probeClient  *http.Client

	closed bool
}

// SessionOption modifies a Session (primarily for testing).
type SessionOption func(*Session)

// WithDebuggerURL points the session at an alternative debugging endpoint.
func WithDebuggerURL(url string) SessionOption {
	return func(s *Session) {
		s.debuggerURL = url
	}
}

// WithPollSettings overrides the liveness probe cadence.
func WithPollSettings(interval, timeout time.Duration) SessionOption {
	return func(s *Session) {
		s.pollInterval = interval
		s.pollTimeout = timeout
	}
}

func NewSession(cfg config.CaptureConfig, logger zerolog.Logger, options ...SessionOption) *Session {
	session := &Session{
		cfg:          cfg,
		log:          logger,
		state:        StateIdle,
		debuggerURL:  fmt.Sprintf("http://127.0.0.1:%s", cfg.GetDebugPort()),
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
		probeClient:  &http.Client{Timeout: 2 * time.Second},
	}
	for _, opt := range options {
		opt(session)
	}
	return session
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Start resolves a browser executable, creates the isolated profile
// directory and spawns the browser pointed at the dashboard login page with
// remote debugging enabled. It does not wait for the browser to come up.
func (s *Session) Start(overridePath string) error {
	s.state = StateLaunching

	executable, err := resolveExecutable(overridePath, browserCandidates())
	if err != nil {
		s.state = StateIdle
		return err
	}

	profileDir := filepath.Join(os.TempDir(), "cursor-capture-"+uuid.New().String())
	if err := os.MkdirAll(profileDir, 0o700); err != nil {
		s.state = StateIdle
		return errors.Wrap(err, "[Start] failed to create profile directory")
	}
	s.profileDir = profileDir

	cmd := exec.Command(executable,
		"--remote-debugging-port="+s.cfg.GetDebugPort(),
		"--user-data-dir="+profileDir,
		"--no-first-run",
		"--no-default-browser-check",
		"--new-window",
		s.cfg.GetLoginURL(),
	)
	if err := cmd.Start(); err != nil {
		s.Cleanup()
		return errors.Wrap(err, "[Start] failed to spawn browser")
	}
	s.cmd = cmd
	s.state = StateWaitingForDebugger

	s.log.Debug().
		Str("executable", executable).
		Str("profile_dir", profileDir).
		Msg("browser launched for credential capture")
	return nil
}

// Finish waits for the debugging endpoint, extracts the session cookies and
// builds the composite credential. The session is always cleaned up before
// returning, on every path.
func (s *Session) Finish(ctx context.Context) (credentials.Credential, error) {
	defer s.Cleanup()

	wsURL, err := s.waitForDebugger(ctx)
	if err != nil {
		return credentials.Credential{}, err
	}

	s.state = StateExtracting
	cookies, err := getCookies(ctx, wsURL)
	if err != nil {
		return credentials.Credential{}, err
	}

	cred := credentials.Credential{}
	for _, cookie := range cookies {
		if !matchesCookieDomain(cookie.Domain) {
			continue
		}
		switch cookie.Name {
		case credentials.SessionCookieName:
			cred.Token = cookie.Value
		case credentials.TeamCookieName:
			cred.TeamID = cookie.Value
		}
	}
	if cred.Token == "" {
		return credentials.Credential{}, errors.Wrap(agenterrors.ErrCookieNotFound, "[Finish] session cookie absent from browser")
	}

	s.log.Debug().Bool("has_team_id", cred.TeamID != "").Msg("session credential captured")
	return cred, nil
}

// matchesCookieDomain accepts cursor.com itself and its subdomains only; a
// bare substring match would also let look-alike registrable domains
// through.
func matchesCookieDomain(domain string) bool {
	domain = strings.TrimPrefix(domain, ".")
	return domain == cookieDomain || strings.HasSuffix(domain, "."+cookieDomain)
}

// waitForDebugger polls the version-info resource at a fixed interval until
// it reports a WebSocket debugger URL or the deadline passes.
func (s *Session) waitForDebugger(ctx context.Context) (string, error) {
	deadline := time.Now().Add(s.pollTimeout)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if wsURL := s.probeVersion(ctx); wsURL != "" {
			return wsURL, nil
		}
		if time.Now().After(deadline) {
			return "", errors.Wrap(agenterrors.ErrDebuggerTimeout, "[waitForDebugger] gave up waiting for the browser")
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Session) probeVersion(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.debuggerURL+"/json/version", nil)
	if err != nil {
		return ""
	}
	resp, err := s.probeClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	version := struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&version); err != nil {
		return ""
	}
	return version.WebSocketDebuggerURL
}

// Cleanup terminates the browser process and removes the temporary profile
// directory. It is idempotent and never fails: a dead process or a stubborn
// directory is logged and otherwise ignored so cleanup can never mask the
// error that led here.
func (s *Session) Cleanup() {
	if s.closed {
		return
	}
	s.closed = true

	if s.cmd != nil && s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil {
			s.log.Debug().Err(err).Msg("browser process already gone")
		}
		// let the process release its profile file handles before removal
		waitDone := make(chan struct{})
		go func() {
			_ = s.cmd.Wait()
			close(waitDone)
		}()
		select {
		case <-waitDone:
		case <-time.After(processSettleWait):
		}
	}

	if s.profileDir != "" {
		if err := os.RemoveAll(s.profileDir); err != nil {
			s.log.Warn().Err(err).Str("dir", s.profileDir).Msg("failed to remove profile directory")
		}
	}

	s.state = StateClosed
}
