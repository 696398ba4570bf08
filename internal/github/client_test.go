package github

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prEvent() Event {
	return Event{
		PullRequest: &PullRequest{Number: 7, Base: Ref{Ref: "main"}},
		Repository:  Repository{FullName: "acme/widgets"},
	}
}

func TestPostComment_RequestShape(t *testing.T) {
	var gotPath, gotAccept, gotAuth, gotAgent string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewCommentClient("s3cr3t", WithAPIBase(srv.URL))
	require.NoError(t, client.PostComment(prEvent(), "## KubePolicy PR Bot"))

	assert.Equal(t, "/repos/acme/widgets/issues/7/comments", gotPath)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
	assert.Equal(t, "token s3cr3t", gotAuth)
	assert.Equal(t, "kubepolicy-pr-bot", gotAgent)
	assert.Equal(t, "## KubePolicy PR Bot", gotBody["body"])
}

func TestPostComment_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"message":"Resource not accessible"}`)
	}))
	defer srv.Close()

	client := NewCommentClient("tok", WithAPIBase(srv.URL))
	err := client.PostComment(prEvent(), "body")

	var derr *DeliveryError
	require.True(t, errors.As(err, &derr), "expected *DeliveryError, got %v", err)
	assert.Equal(t, http.StatusForbidden, derr.StatusCode)
	assert.Contains(t, derr.Body, "Resource not accessible")
}

func TestPostComment_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewCommentClient("tok", WithAPIBase(srv.URL))
	require.NoError(t, client.PostComment(prEvent(), "body"))
	assert.Equal(t, 2, calls)
}

func TestPostComment_RejectsNonPREvent(t *testing.T) {
	client := NewCommentClient("tok")
	err := client.PostComment(Event{}, "body")
	assert.Error(t, err)
}
