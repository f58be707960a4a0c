// Package e2e drives a running sevsizer server over HTTP, end to end:
// ingest captures, merge them, request recommendations, and administer
// charts the way a salon operator would.
package e2e

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TestContext carries one scenario's HTTP state: the last response and
// the values earlier steps asked to remember.
type TestContext struct {
	baseURL    string
	adminToken string
	client     *http.Client

	status int
	body   []byte
	saved  map[string]string
	suffix string
}

// NewTestContext builds a context against the given server. The admin
// token may be empty when no scenario touches the admin surface.
func NewTestContext(baseURL, adminToken string) *TestContext {
	return &TestContext{
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminToken: adminToken,
		client:     &http.Client{Timeout: 15 * time.Second},
		saved:      map[string]string{},
		suffix:     randomSuffix(),
	}
}

// Reset clears per-scenario state. The suite calls it before every
// scenario so saved IDs never leak between them.
func (tc *TestContext) Reset() {
	tc.status = 0
	tc.body = nil
	tc.saved = map[string]string{}
	tc.suffix = randomSuffix()
}

// ScopedChart maps a feature-file chart name onto a per-scenario chart ID,
// so admin scenarios stay rerunnable against a long-lived server. The
// seeded "default" chart is shared and passes through unchanged.
func (tc *TestContext) ScopedChart(name string) string {
	if name == "default" {
		return name
	}
	return name + "-" + tc.suffix
}

func randomSuffix() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xffffffff)
	}
	return hex.EncodeToString(b[:])
}

// Do sends one request and captures the response. A nil body sends no
// payload; anything else is marshalled as JSON.
func (tc *TestContext) Do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	tc.status = resp.StatusCode
	tc.body = raw
	return nil
}

// GET requests the path with no body.
func (tc *TestContext) GET(path string) error {
	return tc.Do(http.MethodGet, path, nil, nil)
}

// POST sends a JSON body to the path.
func (tc *TestContext) POST(path string, body any) error {
	return tc.Do(http.MethodPost, path, body, nil)
}

// AdminHeaders returns the headers the admin surface requires.
func (tc *TestContext) AdminHeaders() map[string]string {
	return map[string]string{"X-Admin-Token": tc.adminToken}
}

// StatusCode returns the last response's status.
func (tc *TestContext) StatusCode() int {
	return tc.status
}

// Save remembers a value under a key for later steps.
func (tc *TestContext) Save(key, value string) {
	tc.saved[key] = value
}

// Saved returns a remembered value, or an error naming the missing key.
func (tc *TestContext) Saved(key string) (string, error) {
	v, ok := tc.saved[key]
	if !ok {
		return "", fmt.Errorf("no %q was saved by an earlier step", key)
	}
	return v, nil
}

// Field resolves a dot path like "per_finger.ring.size" in the last JSON
// response. Numeric path elements index into arrays; the empty path is
// the response root.
func (tc *TestContext) Field(path string) (any, error) {
	var decoded any
	if err := json.Unmarshal(tc.body, &decoded); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w (body: %s)", err, tc.body)
	}
	if path == "" {
		return decoded, nil
	}

	current := decoded
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response (missing %q)", path, part)
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("field %q: %q does not index an array of %d", path, part, len(node))
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("field %q: %q has no children", path, part)
		}
	}
	return current, nil
}

// FieldString resolves a dot path and renders the value as a string.
// JSON numbers render without a trailing ".0" so features can say 6, not 6.0.
func (tc *TestContext) FieldString(path string) (string, error) {
	v, err := tc.Field(path)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	case nil:
		return "", nil
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("field %q: %w", path, err)
		}
		return string(raw), nil
	}
}

// FieldLen resolves a dot path to an array or object and returns how many
// entries it holds.
func (tc *TestContext) FieldLen(path string) (int, error) {
	v, err := tc.Field(path)
	if err != nil {
		return 0, err
	}
	switch node := v.(type) {
	case []any:
		return len(node), nil
	case map[string]any:
		return len(node), nil
	default:
		return 0, fmt.Errorf("field %q is not an array or object", path)
	}
}
