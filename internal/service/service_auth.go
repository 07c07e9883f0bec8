package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/oakstead/careledger/internal/config"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/mail"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
	"golang.org/x/crypto/bcrypt"
)

// authService implements [AuthService] over the user repository, the mail
// sender and HMAC-signed JWT tokens.
type authService struct {
	users   store.UserRepository
	mail    mail.Sender
	cfg     config.App
	uuidGen *utils.UUIDGenerator
	clock   Clock
	logger  *logger.Logger
}

// NewAuthService constructs an [AuthService].
func NewAuthService(users store.UserRepository, sender mail.Sender, cfg config.App, uuidGen *utils.UUIDGenerator, clock Clock, log *logger.Logger) AuthService {
	log.Debug().Msg("creating auth service")
	return &authService{
		users:   users,
		mail:    sender,
		cfg:     cfg,
		uuidGen: uuidGen,
		clock:   clock,
		logger:  log,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		return models.Token{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.Token{}, ErrInvalidCredentials
		}
		return models.Token{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		log.Warn().
			Str("func", "authService.Login").
			Int64("user_id", user.ID).
			Msg("password mismatch")
		return models.Token{}, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWTToken(s.cfg.TokenIssuer, user.ID, user.Role, s.cfg.TokenDuration, s.cfg.TokenSignKey)
	if err != nil {
		log.Err(err).
			Str("func", "authService.Login").
			Int64("user_id", user.ID).
			Msg("failed to generate token")
		return models.Token{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, nil
}

func (s *authService) ParseToken(tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, s.cfg.TokenSignKey, s.cfg.TokenIssuer)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Role.Valid() {
		return models.Token{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, token.Role)
	}

	return token, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// do not leak which addresses have accounts
			log.Info().
				Str("func", "authService.RequestPasswordReset").
				Msg("reset requested for unknown email")
			return nil
		}
		return err
	}

	token := s.uuidGen.Generate()
	expires := s.clock().Add(s.cfg.ResetTokenDuration)
	if err := s.users.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nA password reset was requested for your account.\nUse this token to set a new password: %s\n\nThe token expires at %s.\nIf you did not request this, ignore this message.\n",
		user.Name, token, expires.Format("15:04 02 Jan 2006 MST"),
	)
	if err := s.mail.Send(ctx, user.Email, "Password reset", body); err != nil {
		log.Err(err).
			Str("func", "authService.RequestPasswordReset").
			Int64("user_id", user.ID).
			Msg("failed to send reset email")
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	if token == "" {
		return fmt.Errorf("%w: reset token is required", ErrValidation)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	user, err := s.users.GetUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash), s.clock()); err != nil {
		return err
	}

	log.Info().
		Str("func", "authService.ConfirmPasswordReset").
		Int64("user_id", user.ID).
		Msg("password reset completed")
	return nil
}
