package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(baseURL string, maxRetries int) *Client {
	return NewClient(ClientConfig{
		BaseURL:      baseURL,
		Timeout:      5 * time.Second,
		MaxRetries:   maxRetries,
		RetryBackoff: time.Millisecond,
		Logger:       testLogger(),
	})
}

func TestCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req["jsonrpc"])
		assert.Equal(t, "getHealth", req["method"])
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"ok"}`)
	}))
	defer srv.Close()

	var resp struct {
		Result string `json:"result"`
	}
	err := newTestClient(srv.URL, 0).Call(context.Background(), "getHealth", []any{}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Result)
}

func TestCallRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"ok"}`)
	}))
	defer srv.Close()

	var resp struct {
		Result string `json:"result"`
	}
	err := newTestClient(srv.URL, 2).Call(context.Background(), "getHealth", []any{}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Result)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCallExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var resp map[string]any
	err := newTestClient(srv.URL, 1).Call(context.Background(), "getHealth", []any{}, &resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Contains(t, err.Error(), "429")
}

func TestGetBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "getBalance", req["method"])
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":1000000}}`)
	}))
	defer srv.Close()

	balance, err := newTestClient(srv.URL, 0).GetBalance(context.Background(), "somePubkey", "confirmed")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), balance)
}

func TestGetBalanceRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid pubkey"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 0).GetBalance(context.Background(), "bad", "confirmed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pubkey")
}

func TestGetAccountData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// base64 of {1,2,3,4}
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"value":{"data":["AQIDBA==","base64"],"owner":"11111111111111111111111111111111"}}}`)
	}))
	defer srv.Close()

	data, err := newTestClient(srv.URL, 0).GetAccountData(context.Background(), "somePubkey")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestGetAccountDataMissingAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"value":null}}`)
	}))
	defer srv.Close()

	data, err := newTestClient(srv.URL, 0).GetAccountData(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, data)
}
