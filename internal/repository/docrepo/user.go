package docrepo

import (
	"context"
	"fmt"

	"github.com/orlogbook/orlog-api/internal/docstore"
	"github.com/orlogbook/orlog-api/internal/model"
)

type UserRepository struct {
	col docstore.Collection
}

func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{col: store.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	doc := docstore.Document{
		"email":        user.Email,
		"role":         user.Role.String(),
		"passwordHash": user.PasswordHash,
	}
	putTime(doc, "createdAt", user.CreatedAt)

	id, err := r.col.Add(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	snap, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return userFromSnapshot(snap), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	snaps, err := r.col.Find(ctx, docstore.NewQuery().
		Where("email", docstore.OpEqual, email).
		WithLimit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(snaps) == 0 {
		return nil, docstore.ErrNotFound
	}
	return userFromSnapshot(snaps[0]), nil
}

func (r *UserRepository) List(ctx context.Context, filters *model.UserFilters, p model.Pagination) ([]*model.User, int, error) {
	q := docstore.NewQuery()
	if filters != nil && filters.Role != "" {
		q.Where("role", docstore.OpEqual, filters.Role.String())
	}
	q.OrderBy("createdAt", true).
		WithOffset(p.Offset()).
		WithLimit(p.Limit)

	snaps, err := r.col.Find(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	total, err := r.col.Count(ctx, q.Predicates)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users := make([]*model.User, 0, len(snaps))
	for _, snap := range snaps {
		users = append(users, userFromSnapshot(snap))
	}
	return users, total, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role model.Role) error {
	return r.col.Update(ctx, id, docstore.Document{"role": role.String()})
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

func userFromSnapshot(snap *docstore.Snapshot) *model.User {
	return &model.User{
		ID:           snap.ID,
		Email:        stringAt(snap.Data, "email"),
		Role:         model.Role(stringAt(snap.Data, "role")),
		PasswordHash: stringAt(snap.Data, "passwordHash"),
		CreatedAt:    timeAt(snap.Data, "createdAt"),
	}
}
