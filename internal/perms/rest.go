package perms

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
)

const defaultBaseURL = "https://discord.com/api/v10"

// RestBackend implements Backend with direct Discord REST calls over a small
// round-robin pool of fasthttp clients. Going straight to REST keeps the
// channel sweep independent of the gateway session's internal rate limiter:
// one stalled write cannot back up the rest of the sweep.
type RestBackend struct {
	clients []*fasthttp.Client
	index   atomic.Uint32
	token   string
	baseURL string
	timeout time.Duration
}

// NewRestBackend builds a backend with poolSize connections authenticated as
// the given bot token.
func NewRestBackend(token string, poolSize int) *RestBackend {
	if poolSize < 1 {
		poolSize = 1
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ClientSessionCache: tls.NewLRUClientSessionCache(64),
	}

	clients := make([]*fasthttp.Client, poolSize)
	for i := range clients {
		clients[i] = &fasthttp.Client{
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 90 * time.Second,
			ReadTimeout:         5 * time.Second,
			WriteTimeout:        5 * time.Second,
			TLSConfig:           tlsConfig,
		}
	}

	return &RestBackend{
		clients: clients,
		token:   token,
		baseURL: defaultBaseURL,
		timeout: 10 * time.Second,
	}
}

// SetBaseURL points the backend at a different API root. Used by tests.
func (b *RestBackend) SetBaseURL(url string) {
	b.baseURL = url
}

type restChannel struct {
	ID         string          `json:"id"`
	Overwrites []restOverwrite `json:"permission_overwrites"`
}

// The API carries permission bit sets as decimal strings.
type restOverwrite struct {
	ID    string `json:"id"`
	Type  int    `json:"type"`
	Allow string `json:"allow"`
	Deny  string `json:"deny"`
}

func (b *RestBackend) Channels(ctx context.Context, guildID string) ([]string, error) {
	body, err := b.do(ctx, fasthttp.MethodGet, "/guilds/"+guildID+"/channels", nil)
	if err != nil {
		return nil, err
	}

	var channels []restChannel
	if err := json.Unmarshal(body, &channels); err != nil {
		return nil, fmt.Errorf("decode guild channels: %w", err)
	}

	ids := make([]string, 0, len(channels))
	for _, ch := range channels {
		ids = append(ids, ch.ID)
	}
	return ids, nil
}

func (b *RestBackend) GetOverwrite(ctx context.Context, guildID, channelID, principalID string) (Overwrite, error) {
	body, err := b.do(ctx, fasthttp.MethodGet, "/channels/"+channelID, nil)
	if err != nil {
		return Overwrite{}, err
	}

	var ch restChannel
	if err := json.Unmarshal(body, &ch); err != nil {
		return Overwrite{}, fmt.Errorf("decode channel %s: %w", channelID, err)
	}

	for _, ow := range ch.Overwrites {
		if ow.ID != principalID {
			continue
		}
		allow, _ := strconv.ParseInt(ow.Allow, 10, 64)
		deny, _ := strconv.ParseInt(ow.Deny, 10, 64)
		return Overwrite{Allow: allow, Deny: deny}, nil
	}

	// No explicit overwrite for the principal on this channel.
	return Overwrite{}, nil
}

func (b *RestBackend) SetOverwrite(ctx context.Context, guildID, channelID, principalID string, ow Overwrite) error {
	payload, err := json.Marshal(map[string]interface{}{
		"type":  0, // role principal
		"allow": strconv.FormatInt(ow.Allow, 10),
		"deny":  strconv.FormatInt(ow.Deny, 10),
	})
	if err != nil {
		return err
	}

	_, err = b.do(ctx, fasthttp.MethodPut, "/channels/"+channelID+"/permissions/"+principalID, payload)
	return err
}

func (b *RestBackend) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(b.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bot "+b.token)
	if payload != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := b.client().DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%s %s: status %d", method, path, status)
	}

	// The response buffer is reused after release; copy out.
	body := append([]byte(nil), resp.Body()...)
	return body, nil
}

func (b *RestBackend) client() *fasthttp.Client {
	n := b.index.Add(1)
	return b.clients[int(n)%len(b.clients)]
}
