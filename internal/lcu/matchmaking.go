package lcu

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
)

const readyCheckPath = "/lol-matchmaking/v1/ready-check"

// ReadyCheckStatus is the ready-check payload subset the companion reads.
type ReadyCheckStatus struct {
	State          string `json:"state"`
	PlayerResponse string `json:"playerResponse"`
}

// InProgress reports whether the ready check is running, accepting both
// spellings the client has used over time.
func (s ReadyCheckStatus) InProgress() bool {
	switch strings.ToLower(s.State) {
	case "inprogress", "in_progress":
		return true
	}
	return false
}

// Unanswered reports whether the local player has not responded yet.
func (s ReadyCheckStatus) Unanswered() bool {
	switch strings.ToLower(s.PlayerResponse) {
	case "", "none":
		return true
	}
	return false
}

// ReadyCheck fetches the current ready-check status.
func (c *Client) ReadyCheck(ctx context.Context) (ReadyCheckStatus, error) {
	var out ReadyCheckStatus
	if err := c.get(ctx, readyCheckPath, &out); err != nil {
		return ReadyCheckStatus{}, err
	}
	return out, nil
}

// AcceptReadyCheck accepts the ready check. The accept endpoint has had
// inconsistent method/body requirements across client builds, so a fixed
// set of request variants is attempted in order until one succeeds; this is
// a compatibility shim, not a backoff policy. Returns the last status code
// and truncated response body for logging.
func (c *Client) AcceptReadyCheck(ctx context.Context) (bool, int, string) {
	client, err := c.session()
	if err != nil {
		return false, -1, "no session"
	}

	path := readyCheckPath + "/accept"
	variants := []func() (*resty.Response, error){
		func() (*resty.Response, error) {
			return client.R().SetContext(ctx).SetBody(map[string]any{}).Post(path)
		},
		func() (*resty.Response, error) {
			return client.R().SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetBody([]byte("{}")).
				Post(path)
		},
		func() (*resty.Response, error) {
			return client.R().SetContext(ctx).Post(path)
		},
		// some builds only take PUT
		func() (*resty.Response, error) {
			return client.R().SetContext(ctx).SetBody(map[string]any{}).Put(path)
		},
	}

	lastStatus := 0
	lastBody := ""
	for _, call := range variants {
		resp, err := call()
		if err != nil {
			lastStatus, lastBody = -1, err.Error()
			continue
		}
		lastStatus = resp.StatusCode()
		lastBody = strings.TrimSpace(resp.String())
		if len(lastBody) > 120 {
			lastBody = lastBody[:120]
		}
		if lastStatus == 200 || lastStatus == 204 {
			return true, lastStatus, lastBody
		}
	}
	return false, lastStatus, lastBody
}

// DeclineReadyCheck declines the ready check.
func (c *Client) DeclineReadyCheck(ctx context.Context) error {
	return c.post(ctx, readyCheckPath+"/decline", nil, nil)
}
