package member_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/okravchenko/go-shop/internal/db"
	"github.com/okravchenko/go-shop/internal/member"
)

type fakeDB struct{}

func (fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (f fakeDB) WithTx(ctx context.Context, fn func(q db.Querier) error) error {
	return fn(f)
}

type mockRepository struct {
	createFunc  func(ctx context.Context, m *member.Member) error
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*member.Member, error)
	listFunc    func(ctx context.Context) ([]member.Member, error)
}

func (m *mockRepository) Create(ctx context.Context, q db.Querier, mem *member.Member) error {
	return m.createFunc(ctx, mem)
}

func (m *mockRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*member.Member, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRepository) List(ctx context.Context, q db.Querier) ([]member.Member, error) {
	return m.listFunc(ctx)
}

func TestMemberService_CreateMember(t *testing.T) {
	address := member.Address{City: "Seoul", State: "Seoul", Street: "Teheran-ro 1", Zipcode: "06234"}

	t.Run("success", func(t *testing.T) {
		var saved *member.Member

		svc := member.NewService(fakeDB{}, &mockRepository{
			createFunc: func(ctx context.Context, m *member.Member) error {
				saved = m
				return nil
			},
		})

		created, err := svc.CreateMember(context.Background(), "kim", address)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "kim", created.Name)
		assert.Equal(t, address, created.Address)
		assert.Equal(t, created, saved)
	})

	t.Run("empty_name_rejected", func(t *testing.T) {
		svc := member.NewService(fakeDB{}, &mockRepository{})

		_, err := svc.CreateMember(context.Background(), "", address)
		assert.True(t, errors.Is(err, member.ErrNameRequired))
	})
}

func TestMemberService_GetMemberByID(t *testing.T) {
	memberID := uuid.Must(uuid.NewV4())

	t.Run("not_found", func(t *testing.T) {
		svc := member.NewService(fakeDB{}, &mockRepository{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*member.Member, error) {
				return nil, member.ErrNotFound
			},
		})

		_, err := svc.GetMemberByID(context.Background(), memberID)
		assert.True(t, errors.Is(err, member.ErrNotFound))
	})

	t.Run("success", func(t *testing.T) {
		svc := member.NewService(fakeDB{}, &mockRepository{
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*member.Member, error) {
				return &member.Member{ID: id, Name: "kim"}, nil
			},
		})

		found, err := svc.GetMemberByID(context.Background(), memberID)
		assert.NoError(t, err)
		assert.Equal(t, memberID, found.ID)
	})
}
