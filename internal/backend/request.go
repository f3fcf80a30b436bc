package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	contentType = "application/json"
	// Max error body we bother to read.
	maxErrorBody = 64 << 10
)

// call describes a single gateway request.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	// payload is JSON-encoded into the request body when set.
	payload any
	// sessionScoped endpoints treat 404 as "no connections".
	sessionScoped bool
}

func (c *Client) do(ctx context.Context, cl call, target any) error {
	var body io.Reader
	if cl.payload != nil {
		data, err := json.Marshal(cl.payload)
		if err != nil {
			return &Error{Kind: KindDecode, Op: cl.op, Message: "encoding request body", Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, cl, body)
	if err != nil {
		return err
	}

	if cl.payload != nil {
		req.Header.Set("Content-Type", contentType)
	}

	return c.roundTrip(req, cl, target)
}

// postFile streams src as a multipart file field.
func (c *Client) postFile(ctx context.Context, cl call, field, filename string, src io.Reader, target any) error {
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)

	go func() {
		part, err := w.CreateFormFile(field, filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(w.Close())
	}()

	req, err := c.newRequest(ctx, cl, pr)
	if err != nil {
		pr.Close()
		return err
	}

	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.roundTrip(req, cl, target)
}

func (c *Client) newRequest(ctx context.Context, cl call, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, cl.method, c.APIURL+cl.path, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: cl.op, Message: "building request", Err: err}
	}

	if len(cl.query) > 0 {
		req.URL.RawQuery = cl.query.Encode()
	}

	return c.setHeaders(req), nil
}

func (c *Client) roundTrip(req *http.Request, cl call, target any) error {
	resp, err := c.request(req)
	if err != nil {
		return &Error{Kind: KindTransport, Op: cl.op, Message: "backend unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := parseError(cl.op, resp.StatusCode, data, cl.sessionScoped)

		c.logger.Debug("backend returned an error",
			zap.String("op", cl.op),
			zap.Int("status", resp.StatusCode),
			zap.String("kind", apiErr.Kind.String()),
			zap.String("message", apiErr.Message),
		)

		return apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: cl.op, Message: "reading response", Err: err}
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return &Error{Kind: KindDecode, Op: cl.op, Status: resp.StatusCode, Message: "unexpected response body", Err: err}
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", c.UserAgent)

	return req
}

// decodeItems converts loosely typed JSON values into typed results.
// Numbers and strings are coerced in both directions since the backend is not strict about them.
func decodeItems(op string, items any, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return &Error{Kind: KindDecode, Op: op, Message: "building decoder", Err: err}
	}

	if err := decoder.Decode(items); err != nil {
		return &Error{Kind: KindDecode, Op: op, Message: "unexpected response body", Err: err}
	}

	return nil
}

// listField extracts a list from either a bare JSON array or an object holding it under key.
func listField(raw any, key string) ([]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	case map[string]any:
		switch list := v[key].(type) {
		case nil:
			return nil, nil
		case []any:
			return list, nil
		default:
			return nil, errors.New(key + " is not a list")
		}
	default:
		return nil, errors.New("response is neither an object nor a list")
	}
}
