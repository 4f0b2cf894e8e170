package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoralesdev/labtrack-backend/internal/console/session"
	"github.com/smoralesdev/labtrack-backend/pkg/config"
	pkgErrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
)

type instrument struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newTestGateway(t *testing.T, server *httptest.Server, sess *session.Store) *Gateway[instrument] {
	t.Helper()
	cfg := config.ClientConfig{BaseURL: server.URL + "/v1", RequestTimeout: 5 * time.Second}
	gw, err := New[instrument](cfg, "instruments", sess, testLogger())
	require.NoError(t, err)
	return gw
}

func TestListAcceptsEveryEnvelopeShape(t *testing.T) {
	bodies := map[string]string{
		"bare array":      `[{"id":"1","name":"Sequencer"}]`,
		"data wrapper":    `{"data":[{"id":"1","name":"Sequencer"}]}`,
		"legacy wrapper":  `{"success":true,"data":[{"id":"1","name":"Sequencer"}]}`,
		"records wrapper": `{"records":[{"id":"1","name":"Sequencer"}],"pagination":{"page":1,"page_size":25,"total_items":1,"total_pages":1}}`,
		"nested records":  `{"data":{"records":[{"id":"1","name":"Sequencer"}]}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/instruments", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			gw := newTestGateway(t, server, session.NewStore(nil))
			items, err := gw.List(context.Background(), nil)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "Sequencer", items[0].Name)
		})
	}
}

func TestListEmptyDataYieldsEmptySlice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer server.Close()

	gw := newTestGateway(t, server, session.NewStore(nil))
	items, err := gw.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateSendsBearerAndUnwrapsRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"9","name":"Centrifuge"}}`))
	}))
	defer server.Close()

	sess := session.NewStore(nil)
	sess.SetToken("tok-123")
	gw := newTestGateway(t, server, sess)

	created, err := gw.Create(context.Background(), map[string]string{"name": "Centrifuge"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "9", created.ID)
}

func TestUnauthorizedInvalidatesSessionOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"token expired"}}`))
	}))
	defer server.Close()

	logouts := 0
	sess := session.NewStore(func() { logouts++ })
	sess.SetToken("stale")
	gw := newTestGateway(t, server, sess)

	for i := 0; i < 3; i++ {
		_, err := gw.List(context.Background(), nil)
		require.Error(t, err)
		typed := pkgErrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgErrors.CodeUnauthorized, typed.Code())
		assert.Equal(t, "token expired", typed.Message())
	}

	assert.Equal(t, 1, logouts, "logout redirect must fire once per credential lifetime")
	assert.Empty(t, sess.Token())
}

func TestServerErrorIsTypedDependency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream down"}`))
	}))
	defer server.Close()

	gw := newTestGateway(t, server, session.NewStore(nil))
	_, err := gw.List(context.Background(), nil)
	require.Error(t, err)
	typed := pkgErrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgErrors.CodeDependency, typed.Code())
	assert.Equal(t, "upstream down", typed.Message())
}

func TestDeleteAcceptsWrapperWithoutPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/instruments/9", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	gw := newTestGateway(t, server, session.NewStore(nil))
	require.NoError(t, gw.Delete(context.Background(), "9"))
}

func TestValidationErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"VALIDATION_ERROR","message":"name is required"}}`))
	}))
	defer server.Close()

	gw := newTestGateway(t, server, session.NewStore(nil))
	_, err := gw.Create(context.Background(), map[string]string{})
	typed := pkgErrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgErrors.CodeValidation, typed.Code())
}
