package content

import (
	"context"
	"errors"

	"memberportal/database/repository"
	applicationRepo "memberportal/database/repository/application"
	contentRepo "memberportal/database/repository/content"
	"memberportal/models"
	"memberportal/utils"

	"go.uber.org/zap"
)

// Service groups the read paths and admin managers of every content entity.
type Service struct {
	Programs      *Manager[models.Program, *models.Program]
	Events        *Manager[models.Event, *models.Event]
	Opportunities *Manager[models.Opportunity, *models.Opportunity]
	Gallery       *Manager[models.GalleryImage, *models.GalleryImage]
	Social        *Manager[models.SocialPost, *models.SocialPost]

	applications map[models.ApplicationKind]applicationRepo.ApplicationRepository
}

// Stores is the set of collections backing the Service.
type Stores struct {
	Programs      contentRepo.Store[models.Program]
	Events        contentRepo.Store[models.Event]
	Opportunities contentRepo.Store[models.Opportunity]
	Gallery       contentRepo.Store[models.GalleryImage]
	Social        contentRepo.Store[models.SocialPost]
	Applications  map[models.ApplicationKind]applicationRepo.ApplicationRepository
}

func NewService(st Stores) *Service {
	return &Service{
		Programs:      NewManager[models.Program](contentRepo.ProgramsCollection, st.Programs, NewestFirst),
		Events:        NewManager[models.Event](contentRepo.EventsCollection, st.Events, SoonestFirst),
		Opportunities: NewManager[models.Opportunity](contentRepo.OpportunitiesCollection, st.Opportunities, NewestFirst),
		Gallery:       NewManager[models.GalleryImage](contentRepo.GalleryCollection, st.Gallery, NewestFirst),
		Social:        NewManager[models.SocialPost](contentRepo.SocialCollection, st.Social, PinnedFirst),
		applications:  st.Applications,
	}
}

func (s *Service) FetchPrograms(ctx context.Context) ([]*models.Program, error) {
	return s.Programs.List(ctx)
}

// FetchEvents orders by event date, soonest first.
func (s *Service) FetchEvents(ctx context.Context) ([]*models.Event, error) {
	return s.Events.List(ctx)
}

func (s *Service) FetchOpportunities(ctx context.Context) ([]*models.Opportunity, error) {
	return s.Opportunities.List(ctx)
}

func (s *Service) FetchGallery(ctx context.Context) ([]*models.GalleryImage, error) {
	return s.Gallery.List(ctx)
}

// FetchSocialPosts puts pinned posts first, newest first within each group.
func (s *Service) FetchSocialPosts(ctx context.Context) ([]*models.SocialPost, error) {
	return s.Social.List(ctx)
}

// FetchApplications lists the submissions of one kind, newest first.
func (s *Service) FetchApplications(ctx context.Context, kind models.ApplicationKind) ([]models.Application, error) {
	repo, ok := s.applications[kind]
	if !ok {
		return []models.Application{}, nil
	}
	apps, err := repo.List(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrCollectionMissing) {
			return []models.Application{}, nil
		}
		utils.GetLogger().Error("Failed to fetch applications", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}
	return apps, nil
}
