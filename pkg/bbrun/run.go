package bbrun

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// KeyEnv names the environment variable holding the board's live key.
const KeyEnv = "BB_LIVE_KEY"

var (
	ErrKeyNotSet     = errors.New(KeyEnv + " is not set")
	ErrMalformedBody = errors.New("request body is not a JSON object")
)

// KeySource returns the live key and whether it is set.
type KeySource func() (string, bool)

// EnvKey looks the key up in the environment on every call. An empty value
// counts as unset.
func EnvKey(name string) KeySource {
	return func() (string, bool) {
		key := os.Getenv(name)
		return key, key != ""
	}
}

// StaticKey always returns key.
func StaticKey(key string) KeySource {
	return func() (string, bool) {
		return key, key != ""
	}
}

// BoardToEndpoint derives the run endpoint from a board URL by replacing a
// trailing ".json" with ".api/run". Other URLs are returned unchanged.
func BoardToEndpoint(board string) string {
	if !strings.HasSuffix(board, ".json") {
		return board
	}
	return strings.TrimSuffix(board, ".json") + ".api/run"
}

// Runner forwards run requests to a board endpoint.
type Runner struct {
	Client *http.Client
	Key    KeySource
}

// NewRunner creates a Runner reading the key from key. A zero timeout leaves
// downstream calls unbounded, which is what streaming runs need.
func NewRunner(key KeySource, timeout time.Duration) *Runner {
	if key == nil {
		key = EnvKey(KeyEnv)
	}
	return &Runner{
		Client: &http.Client{Timeout: timeout},
		Key:    key,
	}
}

// Run injects the live key into body and POSTs it to endpoint. The caller owns
// the returned response and must close its body. Downstream error statuses are
// not errors.
func (r *Runner) Run(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	key, ok := r.Key()
	if !ok {
		return nil, ErrKeyNotSet
	}

	payload, err := InjectKey(body, key)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error running board: %w", err)
	}
	return resp, nil
}

// InjectKey sets "$key" on the JSON object in body and returns it compacted.
// Member order is kept; an existing "$key" is overwritten in place, otherwise
// it is appended.
func InjectKey(body []byte, key string) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedBody)
	}
	if !gjson.ParseBytes(body).IsObject() {
		return nil, ErrMalformedBody
	}

	compact := []byte(gjson.GetBytes(body, "@ugly").Raw)
	out, err := sjson.SetBytes(compact, "$key", key)
	if err != nil {
		return nil, fmt.Errorf("error setting $key: %w", err)
	}
	return out, nil
}

// ErrorLine formats msg as the single event line the frontend reads errors
// from: `data: ["error","<msg>"]` followed by a blank line.
func ErrorLine(msg string) []byte {
	var buf bytes.Buffer
	buf.WriteString("data: ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode([]string{"error", msg}) // cannot fail
	buf.WriteString("\n")
	return buf.Bytes()
}
