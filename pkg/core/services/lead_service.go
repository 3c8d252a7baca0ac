package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/ports"
)

type LeadService struct {
	repo   ports.LeadRepository
	logger *slog.Logger
}

func NewLeadService(repo ports.LeadRepository, logger *slog.Logger) *LeadService {
	return &LeadService{repo: repo, logger: logger}
}

func (s *LeadService) SubmitContact(ctx context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	email, err := normalizeEmail(msg.Email)
	if err != nil {
		return nil, err
	}
	if msg.Name == "" || msg.Message == "" {
		return nil, fmt.Errorf("%w: name and message are required", domain.ErrInvalidInput)
	}

	msg.ID = uuid.NewString()
	msg.Email = email
	msg.CreatedAt = time.Now()
	if err := s.repo.CreateContact(ctx, &msg); err != nil {
		return nil, err
	}
	s.logger.Info("contact message received", "id", msg.ID, "subject", msg.Subject)
	return &msg, nil
}

// JoinWaitlist returns ErrConflict when the email already signed up.
func (s *LeadService) JoinWaitlist(ctx context.Context, email, source string) (*domain.WaitlistSignup, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	signup := &domain.WaitlistSignup{
		Email:     email,
		Source:    strings.TrimSpace(source),
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateWaitlistSignup(ctx, signup); err != nil {
		return nil, err
	}
	return signup, nil
}

func (s *LeadService) ListContacts(ctx context.Context, page, limit int) ([]domain.ContactMessage, error) {
	limit, offset := paginate(page, limit)
	return s.repo.ListContacts(ctx, limit, offset)
}

func (s *LeadService) ListWaitlist(ctx context.Context, page, limit int) ([]domain.WaitlistSignup, error) {
	limit, offset := paginate(page, limit)
	return s.repo.ListWaitlist(ctx, limit, offset)
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", fmt.Errorf("%w: invalid email %q", domain.ErrInvalidInput, raw)
	}
	return strings.ToLower(addr.Address), nil
}
