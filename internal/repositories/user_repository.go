package repositories

import (
	"context"
	"time"

	"floor-backend/internal/models"
	"floor-backend/internal/store"
)

type UserRepository struct {
	Store store.Store
}

func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{Store: s}
}

// userDoc is the stored shape of a user; models.User hides the hashes
// from JSON responses.
type userDoc struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"passwordHash"`
	PasscodeHash string    `json:"passcodeHash"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (d userDoc) user() *models.User {
	return &models.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Role:         d.Role,
		PasswordHash: d.PasswordHash,
		PasscodeHash: d.PasscodeHash,
		HasPasscode:  d.PasscodeHash != "",
		Active:       d.Active,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleSupervisor // Default role
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	id, err := r.Store.Create(ctx, store.Users, map[string]any{
		"name":         u.Name,
		"email":        u.Email,
		"role":         u.Role,
		"passwordHash": u.PasswordHash,
		"passcodeHash": u.PasscodeHash,
		"active":       u.Active,
		"createdAt":    u.CreatedAt,
		"updatedAt":    u.UpdatedAt,
	})
	if err != nil {
		return err
	}
	u.ID = id
	u.HasPasscode = u.PasscodeHash != ""
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	doc, err := getAs[userDoc](ctx, r.Store, store.Users, id)
	if err != nil {
		return nil, err
	}
	return doc.user(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := findAs[userDoc](ctx, r.Store, store.Query{Collection: store.Users, Limit: 1}.With("email", email))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, store.ErrNotFound
	}
	return docs[0].user(), nil
}

// List returns all users, newest first
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	docs, err := findAs[userDoc](ctx, r.Store, store.Query{Collection: store.Users, OrderBy: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.user())
	}
	return users, nil
}

// CountByRole counts users holding role
func (r *UserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	docs, err := r.Store.Find(ctx, store.Query{Collection: store.Users}.With("role", role))
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Update writes the given fields and bumps updatedAt
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	fields["updatedAt"] = time.Now().UTC()
	return r.Store.Update(ctx, store.Users, id, fields)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, store.Users, id)
}
