package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

const resetTokenTTL = 10 * time.Minute

// AuthService implements registration, login and the self-service account flows.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenManager
	mailer ports.Mailer
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenManager, mailer ports.Mailer, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user or publisher account and signs the user in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if in.Role != domain.RoleUser && in.Role != domain.RolePublisher {
		return "", nil, domain.Errorf(domain.ErrValidation, "Role must be one of: %s, %s", domain.RoleUser, domain.RolePublisher)
	}

	u, err := newUser(in, s.now())
	if err != nil {
		return "", nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	s.log.Info().Str("user", u.ID.Hex()).Str("role", u.Role).Msg("user registered")
	return token, u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.Errorf(domain.ErrValidation, "Please provide an email and password")
	}

	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, invalidCredentials()
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, invalidCredentials()
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, errNoActor
	}
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, errNoActor
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errNoActor
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, actor *domain.User, patch ports.ProfilePatch) (*domain.User, error) {
	if actor == nil {
		return nil, errNoActor
	}
	set := map[string]any{}
	if patch.Name != nil {
		set["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		set["email"] = normalizeEmail(*patch.Email)
	}
	if len(set) == 0 {
		return actor, nil
	}
	return s.users.Update(ctx, actor.ID, set)
}

func (s *AuthService) UpdatePassword(ctx context.Context, actor *domain.User, current, next string) (string, error) {
	if actor == nil {
		return "", errNoActor
	}
	u, err := s.users.FindCredentials(ctx, actor.ID)
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return "", domain.Errorf(domain.ErrUnauthorized, "Password is incorrect")
	}

	hash, err := hashPassword(next)
	if err != nil {
		return "", err
	}
	if _, err := s.users.Update(ctx, u.ID, map[string]any{"password": hash}); err != nil {
		return "", err
	}
	return s.tokens.Issue(u.ID)
}

// ForgotPassword stores a hashed one-time token and mails the raw token. If
// the mail cannot be sent the token is cleared again.
func (s *AuthService) ForgotPassword(ctx context.Context, email, resetURL string) error {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, "There is no user with that email")
		}
		return err
	}

	raw, hashed, err := newResetToken()
	if err != nil {
		return err
	}
	expire := s.now().Add(resetTokenTTL)
	if _, err := s.users.Update(ctx, u.ID, map[string]any{
		"resetPasswordToken":  hashed,
		"resetPasswordExpire": expire,
	}); err != nil {
		return err
	}

	msg := ports.MailMessage{
		To:      u.Email,
		Subject: "Password reset token",
		Text: fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset of a password. "+
			"Please make a PUT request to:\n\n%s/%s", strings.TrimRight(resetURL, "/"), raw),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("user", u.ID.Hex()).Msg("reset email failed")
		if _, clearErr := s.users.Update(ctx, u.ID, nil, "resetPasswordToken", "resetPasswordExpire"); clearErr != nil {
			s.log.Error().Err(clearErr).Str("user", u.ID.Hex()).Msg("failed to clear reset token")
		}
		return domain.Errorf(domain.ErrUpstream, "Email could not be sent")
	}

	s.log.Info().Str("user", u.ID.Hex()).Msg("reset email sent")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password string) (string, error) {
	u, err := s.users.FindByResetToken(ctx, hashToken(rawToken), s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.Errorf(domain.ErrValidation, "Invalid token")
		}
		return "", err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", err
	}
	if _, err := s.users.Update(ctx, u.ID, map[string]any{"password": hash}, "resetPasswordToken", "resetPasswordExpire"); err != nil {
		return "", err
	}
	return s.tokens.Issue(u.ID)
}

func newUser(in ports.RegisterInput, now time.Time) (*domain.User, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		Role:         in.Role,
		PasswordHash: hash,
		CreatedAt:    now,
	}, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", domain.Errorf(domain.ErrValidation, "Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// newResetToken returns a random token and the sha256 digest stored for it.
func newResetToken() (raw, hashed string, err error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("reset token: %w", err)
	}
	raw = hex.EncodeToString(b)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidCredentials() error {
	return &domain.Error{Kind: domain.ErrInvalidCredentials, Message: "Invalid credentials"}
}
