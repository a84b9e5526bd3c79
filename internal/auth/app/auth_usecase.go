// Package app содержит варианты использования аутентификации и управления пользователями.
package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"blogcore/internal/auth/domain/entities"
	"blogcore/internal/auth/domain/services"
	"blogcore/internal/auth/ports/api"
	"blogcore/internal/auth/ports/repositories"
	svc "blogcore/internal/auth/ports/services"
	"blogcore/pkg/clock"
	"blogcore/pkg/logger"
	"blogcore/pkg/metrics"
)

const (
	methodRegister      = "Register"
	methodLogin         = "Login"
	methodIssue         = "Issue"
	methodRefreshTokens = "RefreshTokens"
	methodLogout        = "Logout"

	msgStartRegistration   = "starting user registration"
	msgInvalidEmailFormat  = "invalid email format"
	msgEmptyUsername       = "empty username provided"
	msgInvalidPassword     = "invalid password"
	msgEmailExists         = "user with this email already exists"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgInvalidPasswordAuth = "invalid password provided"
	msgLoginInactive       = "login attempt on disabled account"
	msgUserLoggedIn        = "user logged in successfully"
	msgPasswordRehashed    = "password hash upgraded to current cost"
	msgTokenPairIssued     = "token pair issued"
	msgRefreshingTokens    = "refreshing tokens"
	msgRefreshRejected     = "refresh token rejected"
	msgTokensRefreshed     = "tokens refreshed successfully"
	msgProcessingLogout    = "processing logout request"
	msgUserLoggedOut       = "user logged out successfully"

	msgErrCheckExistingUser   = "failed to check existing user"
	msgErrHashPassword        = "failed to hash password"
	msgErrCreateUser          = "failed to create user"
	msgErrFindingUser         = "error finding user"
	msgErrVerifyingPassword   = "error verifying password"
	msgErrGenerateAccessToken = "failed to generate access token"
	msgErrGenerateRefresh     = "failed to generate refresh token"
	msgErrStoreRefreshToken   = "failed to store refresh token"
	msgErrCheckingRevocation  = "failed to check revocation registry"
	msgErrFindingRefreshToken = "failed to find refresh token"
	msgErrDeletingToken       = "failed to delete refresh token"
	msgErrRevokingToken       = "failed to revoke refresh token"
	msgErrRehashPassword      = "failed to upgrade password hash"

	errCtxValidatingEmail        = "validating email"
	errCtxValidatingUsername     = "validating username"
	errCtxValidatingPassword     = "validating password"
	errCtxCheckingUser           = "checking existing user"
	errCtxEmailRegistered        = "email already registered"
	errCtxHashingPassword        = "hashing password"
	errCtxCreatingUser           = "creating user"
	errCtxInvalidCredentials     = "invalid credentials"
	errCtxUserInactive           = "user inactive"
	errCtxFindingUser            = "finding user"
	errCtxVerifyingPassword      = "verifying password"
	errCtxGeneratingAccessToken  = "generating access token"
	errCtxGeneratingRefreshToken = "generating refresh token"
	errCtxStoringRefreshToken    = "storing refresh token"
	errCtxCheckingRevocation     = "checking revocation"
	errCtxFindingRefreshToken    = "finding refresh token"
	errCtxDeletingRefreshToken   = "deleting refresh token"
	errCtxRevokingToken          = "revoking token"
	errCtxIssuingTokens          = "issuing tokens"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	tokenRepo   repositories.TokenRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	revocations svc.RevocationRegistry
	clock       clock.Clock
}

var _ api.AuthUseCase = (*AuthUseCaseImpl)(nil)

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	revocations svc.RevocationRegistry,
	clk clock.Clock,
) *AuthUseCaseImpl {
	if clk == nil {
		clk = clock.NewReal()
	}
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		revocations: revocations,
		clock:       clk,
	}
}

// Register создает нового пользователя с ролью USER и выдает ему пару токенов.
func (a *AuthUseCaseImpl) Register(ctx context.Context, email, username, password string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	if err := validateEmail(email); err != nil {
		log.Debug(ctx, msgInvalidEmailFormat, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	if strings.TrimSpace(username) == "" {
		log.Debug(ctx, msgEmptyUsername)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUsername, entities.ErrEmptyUsername)
	}
	if err := services.CheckPasswordPolicy(password); err != nil {
		log.Debug(ctx, msgInvalidPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}

	existingUser, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existingUser != nil {
		log.Debug(ctx, msgEmailExists)
		return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, services.ErrEmailAlreadyExists)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	createdUser, err := a.userRepo.Create(ctx, &entities.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         entities.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", createdUser.ID))

	return a.Issue(ctx, createdUser.ID, createdUser.Email, string(createdUser.Role))
}

// Login аутентифицирует пользователя по email и паролю.
func (a *AuthUseCaseImpl) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPassword) {
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgInvalidPasswordAuth, zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	if !user.IsActive {
		log.Debug(ctx, msgLoginInactive, zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxUserInactive, services.ErrUserInactive)
	}

	if a.passwordSvc.NeedsRehash(user.PasswordHash) {
		a.rehashPassword(ctx, user, password)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))

	return a.Issue(ctx, user.ID, user.Email, string(user.Role))
}

// rehashPassword пересчитывает хэш с текущей стоимостью. Ошибка не мешает входу.
func (a *AuthUseCaseImpl) rehashPassword(ctx context.Context, user *entities.User, password string) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("userID", user.ID))

	hash, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Warn(ctx, msgErrRehashPassword, zap.Error(err))
		return
	}

	updated := *user
	updated.PasswordHash = hash
	if _, err := a.userRepo.Update(ctx, &updated); err != nil {
		log.Warn(ctx, msgErrRehashPassword, zap.Error(err))
		return
	}
	log.Debug(ctx, msgPasswordRehashed)
}

// Issue подписывает access и refresh токены и сохраняет ровно одну запись refresh-токена.
func (a *AuthUseCaseImpl) Issue(ctx context.Context, userID, email, role string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodIssue), zap.String("userID", userID))

	accessToken, _, err := a.tokenSvc.GenerateAccessToken(ctx, userID, email, role)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccessToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxGeneratingAccessToken, services.ErrTokenGenerationFailed, err)
	}

	refreshToken, refreshExpires, err := a.tokenSvc.GenerateRefreshToken(ctx, userID, email, role)
	if err != nil {
		log.Error(ctx, msgErrGenerateRefresh, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxGeneratingRefreshToken, services.ErrTokenGenerationFailed, err)
	}

	if err := a.tokenRepo.Store(ctx, &services.RefreshToken{
		UserID:    userID,
		Token:     refreshToken,
		ExpiresAt: refreshExpires,
	}); err != nil {
		log.Error(ctx, msgErrStoreRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringRefreshToken, err)
	}

	metrics.TokenPairsIssued.Inc()
	log.Debug(ctx, msgTokenPairIssued)

	return &services.TokenPair{
		UserID:           userID,
		Email:            email,
		Role:             role,
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresIn:  seconds(a.tokenSvc.AccessTokenTTL()),
		RefreshExpiresIn: seconds(a.tokenSvc.RefreshTokenTTL()),
	}, nil
}

// RefreshTokens обменивает refresh-токен на новую пару. Токен расходуется не более
// одного раза: из нескольких конкурентных вызовов с одним токеном успешен только тот,
// чье удаление записи затронуло строку.
//
// Все отказы оборачиваются в services.ErrRefreshFailed вместе с конкретной причиной.
// Ошибки хранилищ возвращаются без ErrRefreshFailed.
func (a *AuthUseCaseImpl) RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefreshTokens))
	log.Debug(ctx, msgRefreshingTokens)

	claims, err := a.tokenSvc.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, a.rejectRefresh(ctx, services.ErrTokenInvalid, metrics.ResultInvalid, err)
	}

	log = log.With(zap.String("userID", claims.UserID))

	revoked, err := a.revocations.IsRevoked(ctx, refreshToken)
	if err != nil {
		log.Error(ctx, msgErrCheckingRevocation, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingRevocation, err)
	}
	if revoked {
		return nil, a.rejectRefresh(ctx, services.ErrTokenRevoked, metrics.ResultRevoked, nil)
	}

	now := a.clock.Now()

	record, err := a.tokenRepo.FindActive(ctx, claims.UserID, refreshToken, now)
	if err != nil {
		if errors.Is(err, services.ErrTokenUnknown) {
			return nil, a.rejectRefresh(ctx, services.ErrTokenUnknown, metrics.ResultUnknown, nil)
		}
		log.Error(ctx, msgErrFindingRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingRefreshToken, err)
	}

	user, err := a.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, a.rejectRefresh(ctx, services.ErrUserInactiveOrMissing, metrics.ResultUser, nil)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}
	if !user.IsActive {
		return nil, a.rejectRefresh(ctx, services.ErrUserInactiveOrMissing, metrics.ResultUser, nil)
	}

	deleted, err := a.tokenRepo.DeleteByID(ctx, record.ID)
	if err != nil {
		log.Error(ctx, msgErrDeletingToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxDeletingRefreshToken, err)
	}
	if !deleted {
		return nil, a.rejectRefresh(ctx, services.ErrTokenUnknown, metrics.ResultUnknown, nil)
	}

	expiresAt := record.ExpiresAt
	if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(expiresAt) {
		expiresAt = claims.ExpiresAt
	}

	if err := a.revocations.Revoke(ctx, refreshToken, expiresAt.Sub(now)); err != nil {
		log.Error(ctx, msgErrRevokingToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	pair, err := a.Issue(ctx, user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxIssuingTokens, err)
	}

	metrics.RefreshRotations.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info(ctx, msgTokensRefreshed)
	return pair, nil
}

// Logout удаляет записи refresh-токенов пользователя и отзывает их на срок жизни
// refresh-токена. С пустым refreshToken завершаются все сессии. Повторный вызов безопасен.
func (a *AuthUseCaseImpl) Logout(ctx context.Context, userID, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout), zap.String("userID", userID))
	log.Debug(ctx, msgProcessingLogout, zap.Bool("all_sessions", refreshToken == ""))

	var (
		tokens []string
		err    error
	)
	if refreshToken != "" {
		_, err = a.tokenRepo.DeleteByUserAndToken(ctx, userID, refreshToken)
		tokens = []string{refreshToken}
	} else {
		tokens, err = a.tokenRepo.DeleteAllByUser(ctx, userID)
	}
	if err != nil {
		log.Error(ctx, msgErrDeletingToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingRefreshToken, err)
	}

	ttl := a.tokenSvc.RefreshTokenTTL()
	for _, token := range tokens {
		if err := a.revocations.Revoke(ctx, token, ttl); err != nil {
			log.Error(ctx, msgErrRevokingToken, zap.Error(err))
			return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
		}
	}

	log.Info(ctx, msgUserLoggedOut, zap.Int("revoked", len(tokens)))
	return nil
}

func (a *AuthUseCaseImpl) rejectRefresh(ctx context.Context, reason error, result string, cause error) error {
	metrics.RefreshRotations.WithLabelValues(result).Inc()

	fields := []zap.Field{zap.String("reason", reason.Error())}
	if cause != nil {
		fields = append(fields, zap.NamedError("cause", cause))
	}
	logger.Log(ctx).Info(ctx, msgRefreshRejected, fields...)

	return fmt.Errorf("%w: %w", services.ErrRefreshFailed, reason)
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

// Валидация email.
func validateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return entities.ErrInvalidEmail
	}
	return nil
}
