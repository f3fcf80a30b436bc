package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	linkedinSyncPath        = "/api/linkedin/sync"
	linkedinConnectionsPath = "/api/linkedin/connections/"
	uploadField             = "file"
)

// UploadConnections sends a LinkedIn connections export and returns the new session.
func (c *Client) UploadConnections(ctx context.Context, filename string, src io.Reader) (*UploadResult, error) {
	const op = "upload connections"

	if src == nil {
		return nil, errors.New("file is required")
	}

	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		filename = "connections.csv"
	}

	var raw any
	cl := call{op: op, method: http.MethodPost, path: linkedinSyncPath}
	if err := c.postFile(ctx, cl, uploadField, filename, src, &raw); err != nil {
		return nil, err
	}

	result := &UploadResult{}
	if err := decodeItems(op, raw, result); err != nil {
		return nil, err
	}

	result.SessionID = strings.TrimSpace(result.SessionID)
	if result.SessionID == "" {
		return nil, &Error{Kind: KindDecode, Op: op, Message: "response has no sessionId"}
	}

	return result, nil
}

// Connections returns the connections uploaded under sessionID.
func (c *Client) Connections(ctx context.Context, sessionID string) ([]Connection, error) {
	const op = "get connections"

	path, err := sessionPath(op, linkedinConnectionsPath, sessionID)
	if err != nil {
		return nil, err
	}

	var raw any
	cl := call{op: op, method: http.MethodGet, path: path, sessionScoped: true}
	if err := c.do(ctx, cl, &raw); err != nil {
		return nil, err
	}

	items, err := listField(raw, "connections")
	if err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Message: "unexpected response body", Err: err}
	}

	connections := make([]Connection, 0, len(items))
	if err := decodeItems(op, items, &connections); err != nil {
		return nil, err
	}

	return connections, nil
}

func sessionPath(op, prefix, sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", &Error{Kind: KindNoConnections, Op: op, Message: "no active session"}
	}
	return prefix + url.PathEscape(sessionID), nil
}
