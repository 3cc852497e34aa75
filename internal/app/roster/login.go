package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"github.com/dalemusser/wallcharts/internal/app/system/normalize"
	"github.com/dalemusser/wallcharts/internal/app/system/scope"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Login checks the credentials and returns the actor for the user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (scope.Actor, error) {
	u, err := s.Users.GetByEmail(ctx, normalize.Email(email))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return scope.Actor{}, apperr.ErrAuth
	}
	if err != nil {
		return scope.Actor{}, err
	}
	if !s.Hasher.CheckPassword(u.PasswordHash, password) {
		return scope.Actor{}, apperr.ErrAuth
	}
	return scope.Actor{UserID: u.ID, Email: u.Email, Role: scope.RoleFor(u.DepartmentID)}, nil
}

// EnsureAdmin creates an administrator with the given credentials when no
// user exists yet. It reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	n, err := s.Users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	email = normalize.Email(email)
	if email == "" || password == "" {
		return false, fmt.Errorf("%w: admin email and password are required to seed the first user", apperr.ErrValidation)
	}
	hash, err := s.Hasher.HashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err := s.Users.Create(ctx, models.User{Email: email, PasswordHash: hash}); err != nil {
		return false, err
	}
	s.Log.Info("seeded administrator", zap.String("email", email))
	return true, nil
}
