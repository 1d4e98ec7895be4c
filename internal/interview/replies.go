package interview

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonathan/unemployment-navigator/internal/types"
)

//go:embed replies.json
var replyFile embed.FS

// Reply keys that are not tied to an answer.
const (
	ReplyClosing    = "closing"
	ReplyPlanReady  = "plan_ready"
	ReplyPlanFailed = "plan_failed"
	replyDefault    = "default"
)

var (
	replies     map[string]string
	repliesOnce sync.Once
	repliesErr  error
)

func loadReplies() (map[string]string, error) {
	repliesOnce.Do(func() {
		data, err := replyFile.ReadFile("replies.json")
		if err != nil {
			repliesErr = fmt.Errorf("failed to read replies: %w", err)
			return
		}
		if err := json.Unmarshal(data, &replies); err != nil {
			repliesErr = fmt.Errorf("failed to parse replies: %w", err)
		}
	})
	return replies, repliesErr
}

// Get returns the reply text stored under key.
func Get(key string) (string, error) {
	r, err := loadReplies()
	if err != nil {
		return "", err
	}
	text, ok := r[key]
	if !ok {
		return "", fmt.Errorf("reply key %q not found", key)
	}
	return text, nil
}

// MustGet returns the reply text stored under key, panicking if it is absent.
// The reply file is embedded, so a miss is a programming error.
func MustGet(key string) string {
	text, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load reply: %v", err))
	}
	return text
}

// Reply returns the bot's acknowledgement of an answer given at step.
// profile is the profile after the answer has been applied.
func Reply(step types.Step, profile types.UserProfile) string {
	var detail string
	switch step {
	case types.StepInitial, types.StepFollowUp:
		return MustGet(string(step))
	case types.StepEmploymentStatus:
		detail = string(profile.EmploymentStatus)
	case types.StepTimeline:
		detail = string(profile.Timeline)
	case types.StepSeparationReason:
		detail = string(profile.SeparationReason)
	default:
		return MustGet(replyDefault)
	}
	if text, err := Get(string(step) + "." + detail); err == nil {
		return text
	}
	return MustGet(string(step))
}
