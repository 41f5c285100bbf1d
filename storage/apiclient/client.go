// Package apiclient implements the domain repositories over the remote
// findtutor REST API. This app owns no database; every repository call is
// an HTTP round-trip carrying the caller's context.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/friendsofgo/errors"

	"github.com/trezcool/findtutor/core"
)

// Error is a non-2xx API response. The message is extracted from the JSON
// body if present, else the generic status text.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (%d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	apiErr, ok := errors.Cause(err).(*Error)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.API.Timeout},
	}
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path, query), nil)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	return c.do(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, in, out interface{}, headers ...http.Header) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding body")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, nil), body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for k, vals := range h {
			for _, v := range vals {
				req.Header.Add(k, v)
			}
		}
	}
	return c.do(req, out)
}

// upload POSTs a single file as multipart form data.
func (c *Client) upload(ctx context.Context, path, field, filename string, content io.Reader, out interface{}) error {
	var buff bytes.Buffer
	w := multipart.NewWriter(&buff)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		return errors.Wrap(err, "creating form file")
	}
	if _, err = io.Copy(fw, content); err != nil {
		return errors.Wrap(err, "copying file content")
	}
	if err = w.Close(); err != nil {
		return errors.Wrap(err, "closing multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path, nil), &buff)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			if body.Message != "" {
				apiErr.Message = body.Message
			} else if body.Error != "" {
				apiErr.Message = body.Error
			}
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}
