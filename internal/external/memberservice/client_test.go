package memberservice

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/internal/guideline"
	"github.com/wonny/underwriter/pkg/httputil"
	"github.com/wonny/underwriter/pkg/logger"
	"github.com/wonny/underwriter/pkg/redis"
)

var _ contracts.DebtCheck = (*Client)(nil)

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	hc := httputil.New(logger.NewNop(), time.Second).WithRetry(1, time.Millisecond)
	return NewClient(server.URL+"/", hc, redis.NewCache(redis.Disabled(), "test"), logger.NewNop())
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected guideline.DebtFlag
		wantErr  bool
	}{
		{"green", `{"flag":"GREEN"}`, guideline.DebtGreen, false},
		{"amber", `{"flag":"AMBER"}`, guideline.DebtAmber, false},
		{"red lower case", `{"flag":"red"}`, guideline.DebtRed, false},
		{"whitelisted overrides red", `{"flag":"RED","whitelisted":true}`, guideline.DebtGreen, false},
		{"unknown flag", `{"flag":"PURPLE"}`, guideline.DebtUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/_/person/status", r.URL.Path)
				body, _ := io.ReadAll(r.Body)
				assert.JSONEq(t, `{"ssn":"199110112399"}`, string(body))
				_, _ = w.Write([]byte(tt.body))
			})

			flag, err := client.Check(context.Background(), "199110112399")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, flag)
		})
	}
}

func TestCheckServiceError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	flag, err := client.Check(context.Background(), "199110112399")
	require.Error(t, err)
	assert.Equal(t, guideline.DebtUnknown, flag)
	assert.NotContains(t, err.Error(), "199110112399", "ssn must be masked")
}

func TestCheckLogsMaskedSSN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"flag":"GREEN"}`))
	}))
	t.Cleanup(server.Close)

	var buf bytes.Buffer
	hc := httputil.New(logger.NewNop(), time.Second).WithRetry(1, time.Millisecond)
	client := NewClient(server.URL, hc, redis.NewCache(redis.Disabled(), "test"), logger.NewWithWriter(&buf, "debug"))

	_, err := client.Check(context.Background(), "199110112399")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"ssn":"19**********"`)
	assert.NotContains(t, buf.String(), "199110112399")
}
