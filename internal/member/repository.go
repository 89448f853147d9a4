package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/okravchenko/go-shop/internal/db"
)

var ErrNotFound = errors.New("member not found")

type Repository interface {
	Create(ctx context.Context, q db.Querier, m *Member) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*Member, error)
	List(ctx context.Context, q db.Querier) ([]Member, error)
}

type postgresRepository struct{}

func NewRepository() Repository {
	return &postgresRepository{}
}

func (r *postgresRepository) Create(ctx context.Context, q db.Querier, m *Member) error {
	query := `
		INSERT INTO members (id, name, city, state, street, zipcode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := q.Exec(ctx, query,
		m.ID,
		m.Name,
		m.Address.City,
		m.Address.State,
		m.Address.Street,
		m.Address.Zipcode,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert member: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*Member, error) {
	query := `
		SELECT id, name, city, state, street, zipcode, created_at, updated_at
		FROM members
		WHERE id = $1
	`

	var m Member
	err := q.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Name,
		&m.Address.City,
		&m.Address.State,
		&m.Address.Street,
		&m.Address.Zipcode,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select member by id %s: %w", id, err)
	}

	return &m, nil
}

func (r *postgresRepository) List(ctx context.Context, q db.Querier) ([]Member, error) {
	query := `
		SELECT id, name, city, state, street, zipcode, created_at, updated_at
		FROM members
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query members: %w", err)
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		var m Member
		err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Address.City,
			&m.Address.State,
			&m.Address.Street,
			&m.Address.Zipcode,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating members: %w", err)
	}

	return members, nil
}
