package credentials

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	agenterrors "github.com/cursortools/usage-agent/internal/errors"
)

// Cookie names the capture flow extracts from the dashboard session.
const (
	SessionCookieName = "WorkosCursorSessionToken"
	TeamCookieName    = "team_id"
)

// Credential is the stored dashboard session: the session token itself plus
// an optional team identifier. Its canonical wire shape is the cookie-style
// string "WorkosCursorSessionToken=<token>; team_id=<id>".
type Credential struct {
	Token  string `json:"sessionToken"`
	TeamID string `json:"teamId,omitempty"`
}

// Parse reads the cookie-style credential string. The session token segment
// is required; the team id segment is optional. Unknown segments are ignored.
func Parse(raw string) (Credential, error) {
	cred := Credential{}
	for _, segment := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(segment), "=")
		if !found {
			continue
		}
		switch name {
		case SessionCookieName:
			cred.Token = value
		case TeamCookieName:
			cred.TeamID = value
		}
	}
	if cred.Token == "" {
		return Credential{}, errors.Wrap(agenterrors.ErrMalformedCredential, "[Parse] missing session token segment")
	}
	return cred, nil
}

// String renders the canonical cookie-style shape. It doubles as the Cookie
// header value for dashboard API requests.
func (c Credential) String() string {
	if c.TeamID == "" {
		return fmt.Sprintf("%s=%s", SessionCookieName, c.Token)
	}
	return fmt.Sprintf("%s=%s; %s=%s", SessionCookieName, c.Token, TeamCookieName, c.TeamID)
}
