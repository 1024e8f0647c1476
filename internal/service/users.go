package service

import (
	"context"
	"fmt"
	"strings"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/store"
	"barbercash/backend/internal/xid"
)

func (s *Service) ListUsers() []domain.UserProfile {
	users := s.ledger.Users.All()
	profiles := make([]domain.UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles
}

func (s *Service) findUser(username string) (domain.User, bool) {
	username = strings.ToLower(strings.TrimSpace(username))
	return s.ledger.Users.Find(func(u domain.User) bool {
		return strings.EqualFold(u.Username, username)
	})
}

// ActorByID resolves a session's user id against the current user list. Role
// and username come from the stored record, so a deleted or demoted account
// loses its token's privileges at once.
func (s *Service) ActorByID(id string) (domain.Actor, bool) {
	user, ok := s.ledger.Users.Get(id)
	if !ok {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: user.ID, Username: user.Username, Role: user.Role}, true
}

// Authenticate checks a username and password against the user collection.
func (s *Service) Authenticate(username string, password string) (domain.User, error) {
	user, ok := s.findUser(username)
	if !ok || !verifyPassword(user.PasswordHash, password) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) CreateUser(ctx context.Context, req domain.UserCreateRequest) (domain.UserResponse, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.UserResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = domain.RoleStaff
	}
	user := domain.User{
		ID:        xid.New("usr"),
		Name:      domain.NormalizeName(req.Name),
		Username:  strings.ToLower(strings.TrimSpace(req.Username)),
		Role:      role,
		CreatedAt: s.now().UTC(),
	}
	if err := user.Validate(); err != nil {
		return domain.UserResponse{}, err
	}
	if len(req.Password) < minPasswordLength {
		return domain.UserResponse{}, &domain.ValidationError{Field: "password", Reason: fmt.Sprintf("must have at least %d characters", minPasswordLength)}
	}
	if _, taken := s.findUser(user.Username); taken {
		return domain.UserResponse{}, fmt.Errorf("username %q: %w", user.Username, store.ErrConflict)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return domain.UserResponse{}, err
	}
	user.PasswordHash = hash

	s.ledger.Users.Upsert(ctx, user)
	s.logAudit(ctx, "user_create", "user", user.ID, "role="+user.Role)
	return domain.UserResponse{User: user.Profile(), Status: s.done("user created")}, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) (domain.StatusResponse, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.StatusResponse{}, err
	}
	actor, _ := ActorFromContext(ctx)
	if actor.UserID == id {
		return domain.StatusResponse{}, ErrSelfDelete
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.Users.Delete(ctx, id) {
		return domain.StatusResponse{}, store.ErrNotFound
	}
	s.logAudit(ctx, "user_delete", "user", id, "")
	return domain.StatusResponse{Status: s.done("user deleted")}, nil
}

// ChangePassword replaces the signed-in user's password.
func (s *Service) ChangePassword(ctx context.Context, req domain.PasswordChangeRequest) (domain.StatusResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.StatusResponse{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.ledger.Users.Get(actor.UserID)
	if !ok {
		return domain.StatusResponse{}, store.ErrNotFound
	}
	if !verifyPassword(user.PasswordHash, req.CurrentPassword) {
		return domain.StatusResponse{}, ErrInvalidCredentials
	}
	if len(req.NewPassword) < minPasswordLength {
		return domain.StatusResponse{}, &domain.ValidationError{Field: "new_password", Reason: fmt.Sprintf("must have at least %d characters", minPasswordLength)}
	}
	if req.NewPassword != req.Confirmation {
		return domain.StatusResponse{}, &domain.ValidationError{Field: "confirmation", Reason: "does not match"}
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return domain.StatusResponse{}, err
	}
	user.PasswordHash = hash
	s.ledger.Users.Upsert(ctx, user)
	s.logAudit(ctx, "password_change", "user", user.ID, "")
	return domain.StatusResponse{Status: s.done("password changed")}, nil
}
