package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/validate"
	"github.com/google/uuid"
)

var contactSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"status":    "status",
}

type ContactService struct {
	contacts repository.ContactRepository
	filter   *ContentFilter
	notifier notify.Enqueuer
	now      func() time.Time
}

func NewContactService(contacts repository.ContactRepository, filter *ContentFilter, notifier notify.Enqueuer) *ContactService {
	return &ContactService{contacts: contacts, filter: filter, notifier: notifier, now: time.Now}
}

func (s *ContactService) Submit(ctx context.Context, req *dto.ContactRequest) (*models.Contact, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if err := validate.StructFields(req); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if s.filter != nil {
		for _, text := range []string{req.Subject, req.Message} {
			if reason := s.filter.Check(text); reason != "" {
				return nil, invalid("%s", reason)
			}
		}
	}

	c := &models.Contact{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
		Status:  models.ContactNew,
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	return c, nil
}

type ContactListInput struct {
	Status  string
	Replied *bool
	Search  string
	ListParams
}

func (s *ContactService) List(ctx context.Context, in ContactListInput) ([]models.Contact, int64, repository.Page, error) {
	page := in.page()
	contacts, total, err := s.contacts.List(ctx, repository.ContactFilter{
		Status:  in.Status,
		Replied: in.Replied,
		Search:  strings.TrimSpace(in.Search),
		Page:    page,
		Sort:    in.sort(contactSortColumns),
	})
	if err != nil {
		return nil, 0, page, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, total, page, nil
}

func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}
	return c, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Contact, error) {
	if !models.IsContactStatus(status) {
		return nil, invalid("Status must be one of: new, in-progress, resolved, closed")
	}
	return s.update(ctx, id, func(c *models.Contact) {
		c.Status = status
	})
}

// Reply records the admin's answer, resolves the message and emails the sender.
func (s *ContactService) Reply(ctx context.Context, id uuid.UUID, message string, adminID uuid.UUID) (*models.Contact, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, invalid("Reply message is required")
	}
	now := s.now()
	c, err := s.update(ctx, id, func(c *models.Contact) {
		c.Replied = true
		c.ReplyMessage = message
		c.RepliedAt = &now
		c.RepliedBy = &adminID
		c.Status = models.ContactResolved
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Enqueue(notify.Notification{
		Kind:   notify.KindContactReply,
		To:     c.Email,
		ToName: c.Name,
		Data: map[string]string{
			"Reply":   message,
			"Message": c.Message,
			"Subject": c.Subject,
		},
	})
	return c, nil
}

func (s *ContactService) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*models.Contact, error) {
	return s.update(ctx, id, func(c *models.Contact) {
		c.Notes = notes
	})
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

func (s *ContactService) Stats(ctx context.Context) (*repository.ContactStats, error) {
	stats, err := s.contacts.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute contact stats: %w", err)
	}
	return stats, nil
}

func (s *ContactService) update(ctx context.Context, id uuid.UUID, fn func(c *models.Contact)) (*models.Contact, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(c)
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return c, nil
}
