package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memberportal/database/repository"
	contentRepo "memberportal/database/repository/content"
	"memberportal/models"
	"memberportal/services/content"
	"memberportal/services/tasks"
	"memberportal/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service curates the social feed: create with background enrichment, pinning.
type Service struct {
	posts   contentRepo.SocialStore
	manager *content.Manager[models.SocialPost, *models.SocialPost]
	queue   Enqueuer
	fetcher Fetcher
	now     func() time.Time
}

// NewService wires the feed. A nil queue enriches inline on Create.
func NewService(posts contentRepo.SocialStore, manager *content.Manager[models.SocialPost, *models.SocialPost], queue Enqueuer, fetcher Fetcher) *Service {
	return &Service{posts: posts, manager: manager, queue: queue, fetcher: fetcher, now: time.Now}
}

// Create stores the post and schedules metadata enrichment when title or
// thumbnail are missing. Without a queue, or when scheduling fails, the post is
// enriched inline. Enrichment failures never fail the create.
func (s *Service) Create(ctx context.Context, post *models.SocialPost) (*models.SocialPost, error) {
	created, err := s.manager.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	if created.Title != "" && created.ThumbnailURL != "" {
		return created, nil
	}

	payload := tasks.EnrichPayload{PostID: created.ID, URL: created.URL}
	if s.queue != nil {
		task, opts, err := tasks.NewEnrichTask(payload)
		if err == nil {
			_, err = s.queue.Enqueue(task, opts...)
		}
		if err == nil || errors.Is(err, asynq.ErrDuplicateTask) {
			return created, nil
		}
		utils.GetLogger().Warn("Failed to enqueue enrichment; enriching inline", zap.String("postId", created.ID), zap.Error(err))
	}
	if err := s.Enrich(ctx, payload); err != nil {
		utils.GetLogger().Warn("Inline enrichment failed", zap.String("postId", created.ID), zap.Error(err))
	}
	return created, nil
}

// TogglePin flips the pinned flag; toggling twice restores the original value.
func (s *Service) TogglePin(ctx context.Context, id string) (*models.SocialPost, error) {
	post, err := s.posts.TogglePin(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		utils.GetLogger().Error("Failed to toggle pin", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to toggle pin: %w", err)
	}
	return post, nil
}

// Enrich fetches link metadata and fills only the fields the post lacks.
func (s *Service) Enrich(ctx context.Context, p tasks.EnrichPayload) error {
	post, err := s.posts.Get(ctx, p.PostID)
	if errors.Is(err, repository.ErrNotFound) {
		return content.ErrNotFound
	}
	if err != nil {
		return err
	}
	if post.Title != "" && post.ThumbnailURL != "" {
		return nil
	}
	link := post.URL
	if link == "" {
		link = p.URL
	}

	md, err := s.fetcher.Fetch(ctx, link)
	if err != nil {
		return err
	}

	var title, thumb string
	if post.Title == "" {
		title = md.Title
	}
	if post.ThumbnailURL == "" {
		thumb = md.Image
	}
	if err := s.posts.SetMetadata(ctx, post.ID, title, thumb, s.now()); err != nil {
		return fmt.Errorf("failed to store metadata: %w", err)
	}
	utils.GetLogger().Debug("Social post enriched", zap.String("postId", post.ID), zap.Bool("title", title != ""), zap.Bool("thumbnail", thumb != ""))
	return nil
}

// HandleEnrichTask is the asynq handler for tasks.TypeSocialEnrich. Posts that
// vanished and malformed payloads are not retried.
func (s *Service) HandleEnrichTask(ctx context.Context, task *asynq.Task) error {
	p, err := tasks.ParseEnrichPayload(task)
	if err != nil || p.PostID == "" {
		return fmt.Errorf("invalid enrich payload: %v: %w", err, asynq.SkipRetry)
	}
	err = s.Enrich(ctx, p)
	if errors.Is(err, content.ErrNotFound) {
		return fmt.Errorf("post %s: %w", p.PostID, asynq.SkipRetry)
	}
	return err
}
