package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/smallbiznis/gatekeeper/internal/collaborator/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method        string
	Path          string
	Authorization string
	Body          string
}

type fakeGitHub struct {
	mu     sync.Mutex
	calls  []recordedCall
	status map[string]int
}

func newFakeGitHub(t *testing.T, status map[string]int) (*fakeGitHub, *Client) {
	t.Helper()
	fake := &fakeGitHub{status: status}
	server := httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(server.Close)

	client, err := New(Options{Token: "ghp_test", BaseURL: server.URL})
	require.NoError(t, err)
	return fake, client
}

func (f *fakeGitHub) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          string(body),
	})
	status, ok := f.status[r.Method]
	f.mu.Unlock()
	if !ok {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	switch {
	case status == http.StatusCreated:
		_, _ = w.Write([]byte(`{"id":1,"permissions":"read"}`))
	case status >= http.StatusBadRequest:
		_, _ = w.Write([]byte(`{"message":"nope"}`))
	}
}

func (f *fakeGitHub) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

var repo = domain.Repository{Owner: "acme", Name: "kit"}

func TestIsMember(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    bool
		wantErr bool
	}{
		{name: "member", status: http.StatusNoContent, want: true},
		{name: "not member", status: http.StatusNotFound, want: false},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, client := newFakeGitHub(t, map[string]int{http.MethodGet: tt.status})

			got, err := client.IsMember(context.Background(), repo, "octo-cat")
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrOperationFailed)
				assert.Contains(t, err.Error(), "status=")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			calls := fake.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "/repos/acme/kit/collaborators/octo-cat", calls[0].Path)
			assert.Equal(t, "Bearer ghp_test", calls[0].Authorization)
		})
	}
}

func TestGrant(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusNoContent} {
		fake, client := newFakeGitHub(t, map[string]int{http.MethodPut: status})

		require.NoError(t, client.Grant(context.Background(), repo, "octo-cat", "pull"))

		calls := fake.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, http.MethodPut, calls[0].Method)
		assert.Equal(t, "/repos/acme/kit/collaborators/octo-cat", calls[0].Path)

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &body))
		assert.Equal(t, "pull", body["permission"])
	}
}

func TestGrantFailure(t *testing.T) {
	_, client := newFakeGitHub(t, map[string]int{http.MethodPut: http.StatusUnprocessableEntity})

	err := client.Grant(context.Background(), repo, "octo-cat", "push")
	require.ErrorIs(t, err, domain.ErrOperationFailed)
	assert.Contains(t, err.Error(), "status=422")
}

func TestRevoke(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "removed", status: http.StatusNoContent},
		{name: "already absent", status: http.StatusNotFound},
		{name: "forbidden", status: http.StatusForbidden, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, client := newFakeGitHub(t, map[string]int{http.MethodDelete: tt.status})

			err := client.Revoke(context.Background(), repo, "octo-cat")
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrOperationFailed)
			} else {
				require.NoError(t, err)
			}

			calls := fake.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, http.MethodDelete, calls[0].Method)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := New(Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.IsMember(context.Background(), repo, "octo-cat")
	require.ErrorIs(t, err, domain.ErrOperationFailed)
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "://bad"})
	assert.Error(t, err)
}
