// Package github reads the CI event payload and posts the summary comment
// back to the pull request.
package github

import (
	"encoding/json"
	"os"
)

// Ref is one side of a pull request.
type Ref struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// PullRequest is the subset of the PR payload the bot uses.
type PullRequest struct {
	Number int `json:"number"`
	Base   Ref `json:"base"`
	Head   Ref `json:"head"`
}

// Repository identifies the repo the event fired in.
type Repository struct {
	FullName string `json:"full_name"`
}

// Event is the triggering webhook payload. PullRequest is nil on non-PR
// events.
type Event struct {
	PullRequest *PullRequest `json:"pull_request"`
	Repository  Repository   `json:"repository"`
}

// IsPullRequest reports whether the event carries a pull request.
func (e Event) IsPullRequest() bool { return e.PullRequest != nil }

// LoadEvent reads the event payload from path. A missing or empty path
// yields an empty event, which the caller treats as a non-PR run; a present
// but unreadable or malformed payload is an error.
func LoadEvent(path string) (Event, error) {
	if path == "" {
		return Event{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Event{}, nil
	}
	if err != nil {
		return Event{}, err
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}
