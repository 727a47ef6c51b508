package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/storage"
	"github.com/google/uuid"
)

const sliderImageFolder = "sliders"

// SliderService manages homepage banners.
type SliderService struct {
	sliders repository.SliderRepository
	store   storage.Store
}

func NewSliderService(sliders repository.SliderRepository, store storage.Store) *SliderService {
	return &SliderService{sliders: sliders, store: store}
}

func (s *SliderService) List(ctx context.Context) ([]models.Slider, error) {
	sliders, err := s.sliders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sliders: %w", err)
	}
	return sliders, nil
}

func (s *SliderService) Get(ctx context.Context, id uuid.UUID) (*models.Slider, error) {
	sl, err := s.sliders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSliderNotFound
		}
		return nil, fmt.Errorf("failed to load slider: %w", err)
	}
	return sl, nil
}

// Create needs an image, either uploaded or given as a URL.
func (s *SliderService) Create(ctx context.Context, in *dto.SliderInput, upload *storage.Upload) (*models.Slider, error) {
	image, stored, err := s.resolveImage(ctx, in, upload)
	if err != nil {
		return nil, err
	}
	if image == "" {
		return nil, invalid("Image is required")
	}

	sl := &models.Slider{ID: uuid.New(), Image: image, IsActive: true}
	applySlider(sl, in)
	if err := s.sliders.Create(ctx, sl); err != nil {
		if stored {
			removeStored(ctx, s.store, []string{image})
		}
		return nil, fmt.Errorf("failed to create slider: %w", err)
	}
	return sl, nil
}

func (s *SliderService) Update(ctx context.Context, id uuid.UUID, in *dto.SliderInput, upload *storage.Upload) (*models.Slider, error) {
	sl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	image, stored, err := s.resolveImage(ctx, in, upload)
	if err != nil {
		return nil, err
	}

	previous := sl.Image
	if image != "" {
		sl.Image = image
	}
	applySlider(sl, in)
	if err := s.sliders.Update(ctx, sl); err != nil {
		if stored {
			removeStored(ctx, s.store, []string{image})
		}
		return nil, fmt.Errorf("failed to update slider: %w", err)
	}
	if stored && previous != "" && previous != sl.Image {
		removeStored(ctx, s.store, []string{previous})
	}
	return sl, nil
}

func (s *SliderService) Delete(ctx context.Context, id uuid.UUID) error {
	sl, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sliders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSliderNotFound
		}
		return fmt.Errorf("failed to delete slider: %w", err)
	}
	removeStored(ctx, s.store, []string{sl.Image})
	return nil
}

// resolveImage stores the upload if there is one, otherwise falls back to
// the image URL in the input. stored reports whether a new file was written.
func (s *SliderService) resolveImage(ctx context.Context, in *dto.SliderInput, upload *storage.Upload) (image string, stored bool, err error) {
	if upload != nil {
		urls, err := saveUploads(ctx, s.store, sliderImageFolder, []storage.Upload{*upload})
		if err != nil {
			return "", false, err
		}
		return urls[0], true, nil
	}
	if in.Image != nil {
		return strings.TrimSpace(*in.Image), false, nil
	}
	return "", false, nil
}

func applySlider(sl *models.Slider, in *dto.SliderInput) {
	if in.Title != nil {
		sl.Title = strings.TrimSpace(*in.Title)
	}
	if in.Link != nil {
		sl.Link = strings.TrimSpace(*in.Link)
	}
	if in.Order != nil {
		sl.Order = *in.Order
	}
	if in.IsActive != nil {
		sl.IsActive = *in.IsActive
	}
}
