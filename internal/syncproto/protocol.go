package syncproto

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/D0ntPanic/tpscube/internal/actionlog"
)

// APIVersion is the only protocol version this client speaks.
// A response signalling a different version is a hard error.
const APIVersion = 1

// ErrAPIVersionMismatch is returned when the server does not speak
// APIVersion.
var ErrAPIVersionMismatch = errors.New("syncproto: server api version mismatch")

// Request is the client->server sync envelope. Upload is populated
// with the base64 encoding of the local action log when staging a
// sync; it is empty on a bare poll.
type Request struct {
	APIVersion int    `json:"api_version"`
	SyncKey    string `json:"sync_key"`
	SyncID     uint32 `json:"sync_id"`
	Upload     string `json:"upload,omitempty"`
}

// Response is the server->client sync envelope. Data, when present,
// base64-decodes to a bare actionlog.EncodeActions payload of new
// actions the client hasn't seen yet.
type Response struct {
	SyncID   uint32 `json:"sync_id"`
	Data     string `json:"data,omitempty"`
	More     bool   `json:"more"`
	Uploaded int    `json:"uploaded"`
}

// NewRequest builds a Request from a local action list snapshot.
// Pass a nil slice (or none) to poll without uploading.
func NewRequest(key SyncKey, syncID uint32, upload []actionlog.StoredAction) Request {
	r := Request{APIVersion: APIVersion, SyncKey: key.String(), SyncID: syncID}
	if len(upload) > 0 {
		r.Upload = base64.StdEncoding.EncodeToString(actionlog.EncodeActions(upload))
	}
	return r
}

// NewActions decodes Data into the actions it represents, or returns
// (nil, nil) if the response carried none.
func (r Response) NewActions() ([]actionlog.StoredAction, error) {
	if r.Data == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(r.Data)
	if err != nil {
		return nil, fmt.Errorf("syncproto: decode response data: %w", err)
	}
	actions, err := actionlog.DecodeActions(raw)
	if err != nil {
		return nil, fmt.Errorf("syncproto: decode response data: %w", err)
	}
	return actions, nil
}

// Client dispatches sync requests over HTTP.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client (e.g. for timeouts
// or test transports).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// NewClient builds a Client posting to the given endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{httpClient: http.DefaultClient, endpoint: endpoint}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the shape of a non-2xx sync response: {"message": <string>}.
type errorBody struct {
	Message string `json:"message"`
}

// Sync posts req and decodes the server's Response. Every rejection,
// including an api_version mismatch, comes back as HTTP 400 with a
// {"message": <string>} body; a message mentioning "version" is
// surfaced as ErrAPIVersionMismatch, any other 400 (or non-2xx status)
// as a generic wrapped error.
func (c *Client) Sync(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("syncproto: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("syncproto: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("syncproto: dispatch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(eb.Message), "version") {
			return Response{}, fmt.Errorf("%w: %s", ErrAPIVersionMismatch, eb.Message)
		}
		if eb.Message != "" {
			return Response{}, fmt.Errorf("syncproto: server returned status %d: %s", resp.StatusCode, eb.Message)
		}
		return Response{}, fmt.Errorf("syncproto: server returned status %d", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("syncproto: decode response: %w", err)
	}
	return out, nil
}
