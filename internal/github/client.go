package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultAPIBase = "https://api.github.com"

// userAgent identifies the bot in API requests.
const userAgent = "kubepolicy-pr-bot"

// DeliveryError reports a comment post rejected by the API. Transport-level
// retries are exhausted before this is returned.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("post comment: status %d: %s", e.StatusCode, e.Body)
}

// CommentClient posts issue comments. The underlying client retries
// transient transport and 5xx failures with backoff.
type CommentClient struct {
	http    *retryablehttp.Client
	apiBase string
	token   string
}

// ClientOption customises a CommentClient.
type ClientOption func(*CommentClient)

// WithAPIBase points the client at a different API root. Intended for tests
// and GitHub Enterprise installs.
func WithAPIBase(base string) ClientOption {
	return func(c *CommentClient) { c.apiBase = strings.TrimRight(base, "/") }
}

// NewCommentClient returns a client authenticating with token.
func NewCommentClient(token string, opts ...ClientOption) *CommentClient {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	c := &CommentClient{
		http:    rc,
		apiBase: defaultAPIBase,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostComment creates an issue comment with body on the event's pull
// request. Calling it on a non-PR event is an error.
func (c *CommentClient) PostComment(ev Event, body string) error {
	if !ev.IsPullRequest() {
		return fmt.Errorf("post comment: event has no pull request")
	}
	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments",
		c.apiBase, ev.Repository.FullName, ev.PullRequest.Number)

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequest("POST", url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &DeliveryError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	return nil
}
