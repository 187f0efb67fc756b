package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeSocialEnrich = "social:enrich"

// EnrichPayload names the social post whose link metadata should be fetched.
type EnrichPayload struct {
	PostID string `json:"postId"`
	URL    string `json:"url"`
}

func NewEnrichTask(payload EnrichPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSocialEnrich, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
		asynq.Unique(5 * time.Minute),
	}

	return task, opts, nil
}

func ParseEnrichPayload(task *asynq.Task) (EnrichPayload, error) {
	var p EnrichPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
