package capture

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	agenterrors "github.com/cursortools/usage-agent/internal/errors"
)

const replyTimeout = 10 * time.Second

// Cookie is a single entry from the browser's cookie store, as reported by
// the DevTools Storage domain.
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
}

type devtoolsCommand struct {
	ID     int            `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

type devtoolsReply struct {
	ID    int `json:"id"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Result struct {
		Cookies []Cookie `json:"cookies"`
	} `json:"result"`
}

// getCookies performs a single-shot request/reply exchange over the DevTools
// control channel: open, send one Storage.getCookies command, wait for the
// id-correlated reply, close. Uncorrelated protocol events are skipped.
func getCookies(ctx context.Context, wsURL string) ([]Cookie, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, errors.Wrapf(agenterrors.ErrProtocolFailure, "[getCookies] failed to open control channel: %v", err)
	}
	defer conn.Close()

	const commandID = 1
	command := devtoolsCommand{ID: commandID, Method: "Storage.getCookies", Params: map[string]any{}}
	if err := conn.WriteJSON(command); err != nil {
		return nil, errors.Wrapf(agenterrors.ErrProtocolFailure, "[getCookies] failed to send command: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(replyTimeout))
	for {
		reply := devtoolsReply{}
		if err := conn.ReadJSON(&reply); err != nil {
			return nil, errors.Wrapf(agenterrors.ErrProtocolFailure, "[getCookies] failed to read reply: %v", err)
		}
		if reply.ID != commandID {
			continue
		}
		if reply.Error != nil {
			return nil, errors.Wrapf(agenterrors.ErrProtocolFailure, "[getCookies] command rejected: %s", reply.Error.Message)
		}
		return reply.Result.Cookies, nil
	}
}
