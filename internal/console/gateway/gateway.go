// Package gateway is the console's typed REST client. One Gateway serves
// one collection endpoint and hides transport details from the state
// stores above it: envelope normalization, bearer auth, error typing and
// the 401 session latch.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/smoralesdev/labtrack-backend/internal/console/session"
	"github.com/smoralesdev/labtrack-backend/pkg/config"
	pkgErrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
)

const maxBodyBytes = 4 << 20

type Gateway[T any] struct {
	baseURL    string
	collection string
	client     *http.Client
	session    *session.Store
	logg       *logger.Logger
}

// New builds a gateway for one collection. collection is the path under
// the API base, e.g. "instruments" or "rooms/42/patients".
func New[T any](cfg config.ClientConfig, collection string, sess *session.Store, logg *logger.Logger) (*Gateway[T], error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if sess == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	return &Gateway[T]{
		baseURL:    base,
		collection: strings.Trim(collection, "/"),
		client:     &http.Client{Timeout: cfg.RequestTimeout},
		session:    sess,
		logg:       logg,
	}, nil
}

// Collection returns the path segment this gateway serves.
func (g *Gateway[T]) Collection() string {
	return g.collection
}

// List fetches every record of the collection. query may be nil.
func (g *Gateway[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	body, err := g.do(ctx, http.MethodGet, g.collectionURL(query), nil)
	if err != nil {
		return nil, err
	}

	rawItems, err := unwrapList(body)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDependency, err, "malformed list response")
	}

	var items []T
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDependency, err, "decoding list records")
	}
	return items, nil
}

// Get fetches a single record by id.
func (g *Gateway[T]) Get(ctx context.Context, id string) (*T, error) {
	body, err := g.do(ctx, http.MethodGet, g.recordURL(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeRecord[T](body)
}

// Create posts a new record and returns the server's copy when the
// response carries one.
func (g *Gateway[T]) Create(ctx context.Context, payload any) (*T, error) {
	body, err := g.do(ctx, http.MethodPost, g.collectionURL(nil), payload)
	if err != nil {
		return nil, err
	}
	return decodeRecord[T](body)
}

// Update replaces the record identified by id.
func (g *Gateway[T]) Update(ctx context.Context, id string, payload any) (*T, error) {
	body, err := g.do(ctx, http.MethodPut, g.recordURL(id), payload)
	if err != nil {
		return nil, err
	}
	return decodeRecord[T](body)
}

// Delete removes the record identified by id.
func (g *Gateway[T]) Delete(ctx context.Context, id string) error {
	_, err := g.do(ctx, http.MethodDelete, g.recordURL(id), nil)
	return err
}

func (g *Gateway[T]) collectionURL(query url.Values) string {
	u := g.baseURL + "/" + g.collection
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (g *Gateway[T]) recordURL(id string) string {
	return g.baseURL + "/" + g.collection + "/" + url.PathEscape(id)
}

func (g *Gateway[T]) do(ctx context.Context, method, rawURL string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, pkgErrors.Wrap(pkgErrors.CodeInternal, err, "encoding request payload")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := g.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logg.Error(ctx, "collection request failed", err)
		return nil, pkgErrors.Wrap(pkgErrors.CodeDependency, err, "collection API unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDependency, err, "reading response body")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, g.normalizeError(ctx, resp.StatusCode, body)
}

// normalizeError converts a non-2xx response into a typed error. 401
// additionally tears down the session; the latch in session.Store keeps
// concurrent failures from firing logout more than once.
func (g *Gateway[T]) normalizeError(ctx context.Context, status int, body []byte) error {
	if status == http.StatusUnauthorized {
		g.session.Invalidate()
	}

	message := errorMessage(body)
	if message == "" {
		message = http.StatusText(status)
	}

	code := pkgErrors.CodeForStatus(status)
	g.logg.Warn(g.logg.WithCollection(ctx, g.collection), fmt.Sprintf("collection API error %d: %s", status, message))
	return pkgErrors.New(code, message)
}

func errorMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return ""
	}
	if wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}
	return wrapped.Message
}

func decodeRecord[T any](body []byte) (*T, error) {
	raw, err := unwrapOne(body)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDependency, err, "malformed record response")
	}
	if raw == nil {
		return nil, nil
	}
	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDependency, err, "decoding record")
	}
	return &record, nil
}
