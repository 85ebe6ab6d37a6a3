package lcu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrUnavailable is returned when the local client's lockfile is missing or
// malformed. Callers treat it as "local service unavailable", never fatal.
var ErrUnavailable = errors.New("local client unavailable")

// SessionProvider hands out an authenticated client for the local API.
type SessionProvider interface {
	Acquire() (*resty.Client, string, bool)
}

// Client is the typed request layer over the local client REST API.
type Client struct {
	provider SessionProvider
	log      zerolog.Logger

	catalogMu sync.Mutex
	catalog   *Catalog
}

// NewClient creates a client on top of a session provider.
func NewClient(provider SessionProvider, log zerolog.Logger) *Client {
	return &Client{
		provider: provider,
		log:      log.With().Str("component", "lcu-client").Logger(),
	}
}

func (c *Client) session() (*resty.Client, error) {
	client, _, ok := c.provider.Acquire()
	if !ok {
		return nil, ErrUnavailable
	}
	return client, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	client, err := c.session()
	if err != nil {
		return err
	}
	req := client.R().SetContext(ctx)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return statusError("GET", path, resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	client, err := c.session()
	if err != nil {
		return err
	}
	req := client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return statusError("POST", path, resp)
	}
	return nil
}

func (c *Client) patch(ctx context.Context, path string, body any) error {
	client, err := c.session()
	if err != nil {
		return err
	}
	resp, err := client.R().SetContext(ctx).SetBody(body).Patch(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return statusError("PATCH", path, resp)
	}
	return nil
}

func (c *Client) delete(ctx context.Context, path string) error {
	client, err := c.session()
	if err != nil {
		return err
	}
	resp, err := client.R().SetContext(ctx).Delete(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return statusError("DELETE", path, resp)
	}
	return nil
}

func statusError(method, path string, resp *resty.Response) error {
	body := strings.TrimSpace(resp.String())
	if len(body) > 120 {
		body = body[:120]
	}
	return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode(), body)
}

// encodeConversationID percent-encodes a conversation id for use as a path
// segment, keeping @ . _ - literal as the chat plugin expects.
func encodeConversationID(id string) string {
	var b strings.Builder
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '@' || ch == '.' || ch == '_' || ch == '-':
			b.WriteByte(ch)
		default:
			fmt.Fprintf(&b, "%%%02X", ch)
		}
	}
	return b.String()
}
