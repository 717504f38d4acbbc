package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestInstrumentTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	t.Run("records status code and operation", func(t *testing.T) {
		counter := BackendRequestsTotal.WithLabelValues("test_ok", http.MethodGet, "418")
		before := testutil.ToFloat64(counter)

		client := &http.Client{Transport: InstrumentTransport(nil)}
		req, err := http.NewRequestWithContext(WithOperation(context.Background(), "test_ok"), http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		assert.Equal(t, before+1, testutil.ToFloat64(counter))
	})

	t.Run("records transport failures as error", func(t *testing.T) {
		counter := BackendRequestsTotal.WithLabelValues("test_fail", http.MethodPost, "error")
		before := testutil.ToFloat64(counter)

		client := &http.Client{Transport: InstrumentTransport(failingTransport{})}
		req, err := http.NewRequestWithContext(WithOperation(context.Background(), "test_fail"), http.MethodPost, server.URL, nil)
		require.NoError(t, err)

		_, err = client.Do(req)

		assert.Error(t, err)
		assert.Equal(t, before+1, testutil.ToFloat64(counter))
	})
}

func TestObserveWorkflow(t *testing.T) {
	ok := WorkflowOperationsTotal.WithLabelValues("test_op", OutcomeSuccess)
	failed := WorkflowOperationsTotal.WithLabelValues("test_op", OutcomeFailure)
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveWorkflow("test_op", nil)
	ObserveWorkflow("test_op", errors.New("boom"))
	ObserveWorkflow("test_op", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+2, testutil.ToFloat64(failed))
}
