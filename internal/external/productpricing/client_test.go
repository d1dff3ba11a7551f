package productpricing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/internal/quote"
	"github.com/wonny/underwriter/pkg/httputil"
	"github.com/wonny/underwriter/pkg/logger"
	"github.com/wonny/underwriter/pkg/redis"
)

var _ contracts.AgreementLookup = (*Client)(nil)

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	hc := httputil.New(logger.NewNop(), time.Second).WithRetry(1, time.Millisecond)
	return NewClient(server.URL, hc, redis.NewCache(redis.Disabled(), "test"), logger.NewNop())
}

func TestAgreementStatus(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		status   string
		expected quote.AgreementStatus
	}{
		{"ACTIVE", quote.AgreementActive},
		{"ACTIVE_IN_FUTURE", quote.AgreementActiveInFuture},
		{"PENDING", quote.AgreementPending},
		{"terminated", quote.AgreementTerminated},
		{"CANCELLED", quote.AgreementOther},
		{"SUSPENDED", quote.AgreementOther},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/_/agreements/"+id.String(), r.URL.Path)
				_, _ = fmt.Fprintf(w, `{"id":%q,"status":%q}`, id, tt.status)
			})

			status, err := client.AgreementStatus(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestAgreementStatusErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := client.AgreementStatus(context.Background(), uuid.New())
		require.Error(t, err)
		assert.True(t, httputil.IsNotFound(err))
	})
}
