// Package httpsource implements ports.FrameSource over HTTP: one GET per
// fetch against a still-capture URL, JPEG decode before return.
package httpsource

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"net"
	"os"
	"time"

	"github.com/imroc/req/v3"

	"github.com/user/stillcam/pkg/ports"
)

// userAgent identifies the poller to the camera firmware.
const userAgent = "stillcam/1.0"

// Options configures the HTTP client.
type Options struct {
	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration

	// ReadTimeout bounds the whole request including body read.
	ReadTimeout time.Duration

	// Headers are extra request headers passed through to every fetch.
	Headers map[string]string
}

// Source fetches still JPEG frames from a fixed URL. The underlying client
// keeps connections alive across fetches, which matters a lot for the
// per-frame latency on embedded cameras.
type Source struct {
	client *req.Client
	url    string
}

// New creates a Source for the given capture URL.
func New(url string, opts Options) *Source {
	client := req.C().
		SetUserAgent(userAgent).
		SetCommonHeader("Cache-Control", "no-cache").
		SetCommonHeader("Pragma", "no-cache")

	if opts.ReadTimeout > 0 {
		client.SetTimeout(opts.ReadTimeout)
	}
	if opts.ConnectTimeout > 0 {
		connectTimeout := opts.ConnectTimeout
		client.GetTransport().SetDial(func(ctx context.Context, network, addr string) (net.Conn, error) {
			d := &net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}
			return d.DialContext(ctx, network, addr)
		})
	}
	for k, v := range opts.Headers {
		client.SetCommonHeader(k, v)
	}

	return &Source{client: client, url: url}
}

// Fetch issues one GET and decodes the body as JPEG. Every failure comes
// back as a *ports.FetchError; nothing panics out of here.
func (s *Source) Fetch(ctx context.Context) (image.Image, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, &ports.FetchError{Kind: classifyTransport(err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ports.FetchError{Kind: ports.FetchStatus, StatusCode: resp.StatusCode}
	}

	body, err := resp.ToBytes()
	if err != nil {
		return nil, &ports.FetchError{Kind: classifyTransport(err), Err: err}
	}
	if len(body) == 0 {
		return nil, &ports.FetchError{Kind: ports.FetchDecode, Err: errors.New("empty response body")}
	}

	img, err := jpeg.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, &ports.FetchError{Kind: ports.FetchDecode, Err: err}
	}
	return img, nil
}

// classifyTransport separates deadline expiry from other transport faults.
func classifyTransport(err error) ports.FetchKind {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return ports.FetchTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ports.FetchTimeout
	}
	return ports.FetchNetwork
}

// Ensure Source implements ports.FrameSource
var _ ports.FrameSource = (*Source)(nil)
