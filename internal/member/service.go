package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/okravchenko/go-shop/internal/db"
)

type Service interface {
	CreateMember(ctx context.Context, name string, address Address) (*Member, error)
	GetMemberByID(ctx context.Context, id uuid.UUID) (*Member, error)
	ListMembers(ctx context.Context) ([]Member, error)
}

type service struct {
	db   db.Database
	repo Repository
}

func NewService(database db.Database, repo Repository) Service {
	return &service{db: database, repo: repo}
}

func (s *service) CreateMember(ctx context.Context, name string, address Address) (*Member, error) {
	m, err := New(name, address)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, s.db, m); err != nil {
		log.Error().Err(err).Msg("service: failed to create member in repository")
		return nil, fmt.Errorf("service: failed to create member: %w", err)
	}

	log.Info().Stringer("member_id", m.ID).Msg("service: member created")

	return m, nil
}

func (s *service) GetMemberByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	m, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("member_id", id).Msg("service: failed to fetch member by id")
		return nil, fmt.Errorf("service: failed to fetch member by id: %w", err)
	}

	return m, nil
}

func (s *service) ListMembers(ctx context.Context) ([]Member, error) {
	members, err := s.repo.List(ctx, s.db)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list members")
		return nil, fmt.Errorf("service: failed to list members: %w", err)
	}

	return members, nil
}
