package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/rs/zerolog/log"
)

const userAgent = "Mozilla/5.0 (Linux; Android 13) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Mobile Safari/537.36"

// Session is an HTTP client with its own cookie jar. One Session serves
// exactly one Scrape call.
type Session struct {
	Institution Institution
	Header      http.Header

	client *http.Client
}

// NewSession returns a Session with an empty cookie jar. A nil transport uses
// http.DefaultTransport.
func NewSession(institution Institution, transport http.RoundTripper, timeout time.Duration) *Session {
	// cookiejar.New only fails for a non-nil PublicSuffixList
	jar, _ := cookiejar.New(nil)

	return &Session{
		Institution: institution,
		Header:      http.Header{},
		client: &http.Client{
			Jar:       jar,
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Get issues a GET request and discards the body.
func (s *Session) Get(ctx context.Context, url string) error {
	_, err := s.do(ctx, http.MethodGet, url, nil)
	return err
}

// GetJSON issues a GET request and decodes the JSON body into out.
func (s *Session) GetJSON(ctx context.Context, url string, out any) error {
	body, err := s.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return s.decode(url, body, out)
}

// PostJSON posts in as JSON and decodes the JSON response into out.
func (s *Session) PostJSON(ctx context.Context, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request for %s: %w", url, err)
	}

	body, err := s.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return err
	}
	return s.decode(url, body, out)
}

func (s *Session) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrNetwork, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range s.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrNetwork, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Str("institution", string(s.Institution)).Int("status", resp.StatusCode).Bytes("body", truncate(body)).Msg("upstream error response")
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	return body, nil
}

func (s *Session) decode(url string, body []byte, out any) error {
	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Debug().Str("institution", string(s.Institution)).Bytes("body", truncate(body)).Msg("response is not JSON")
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, url, err)
	}
	return nil
}

func truncate(body []byte) []byte {
	const limit = 2048
	if len(body) > limit {
		return body[:limit]
	}
	return body
}
