package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDoer struct {
	mock.Mock
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func TestPostJSON_SendsBodyAndHeaders(t *testing.T) {
	var gotBody map[string]string
	var gotAuth, gotType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	resp, err := client.PostJSON(context.Background(), server.URL, map[string]string{
		"Authorization": "tok",
	}, map[string]string{"finalQuery": "SELECT 1;"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, "tok", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "SELECT 1;", gotBody["finalQuery"])
}

func TestPostJSON_NonSuccessIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("unauthorized"))
	}))
	defer server.Close()

	resp, err := NewClient(0).PostJSON(context.Background(), server.URL, nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", string(resp.Body))
}

func TestPostJSON_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	client := NewClient(time.Second, WithMaxBodyBytes(16))
	_, err := client.PostJSON(context.Background(), server.URL, nil, struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 16 bytes")
}

func TestPostJSON_TransportError(t *testing.T) {
	doer := new(mockDoer)
	doer.On("Do", mock.AnythingOfType("*http.Request")).Return(nil, errors.New("connection refused"))

	client := NewClient(time.Second, WithDoer(doer))
	_, err := client.PostJSON(context.Background(), "http://unreachable.test/x", nil, struct{}{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	doer.AssertNumberOfCalls(t, "Do", 1)
}

func TestPostJSON_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(time.Second).PostJSON(ctx, server.URL, nil, struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
