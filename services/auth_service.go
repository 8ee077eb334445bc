package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixelnote/apperr"
	"pixelnote/config"
	"pixelnote/models"
	"pixelnote/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, email string, password string) (uint, error)
	Login(ctx context.Context, email string, password string) (*LoginResult, error)
	Verify(ctx context.Context, tokenString string) (*models.UserSummary, error)
	Logout(ctx context.Context, tokenString string) error
	CleanExpiredTokens(ctx context.Context) (int64, error)
}

type LoginResult struct {
	Token string
	User  models.UserSummary
}

// Claims is the token payload. The identity claims are trusted as-is for
// the life of the token; they are never re-read from the user table.
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	repository      repositories.IAuthRepository
	tokenRepository repositories.ITokenRepository
	secret          []byte
	tokenTTL        time.Duration
	bcryptCost      int
	dummyHash       []byte
}

func NewAuthService(repository repositories.IAuthRepository, tokenRepository repositories.ITokenRepository, cfg config.AuthConfig) (IAuthService, error) {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	// Compared against on unknown emails so both login failures take
	// about the same time.
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		repository:      repository,
		tokenRepository: tokenRepository,
		secret:          []byte(cfg.Secret),
		tokenTTL:        cfg.TokenTTL,
		bcryptCost:      cost,
		dummyHash:       dummyHash,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, email string, password string) (uint, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return 0, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	return s.repository.CreateUser(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (*LoginResult, error) {
	foundUser, err := s.repository.FindUser(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrUnknownIdentity) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredential
	}

	summary := foundUser.Summary()
	token, err := s.createToken(summary)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: summary}, nil
}

func (s *AuthService) createToken(user models.UserSummary) (string, error) {
	now := time.Now()
	registered := jwt.RegisteredClaims{
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.tokenTTL > 0 {
		registered.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           user.ID,
		Email:            user.Email,
		RegisteredClaims: registered,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

func (s *AuthService) parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperr.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, apperr.ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) Verify(ctx context.Context, tokenString string) (*models.UserSummary, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.ID != "" {
		revoked, err := s.tokenRepository.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, fmt.Errorf("%w: token is revoked", apperr.ErrInvalidToken)
		}
	}

	return &models.UserSummary{ID: claims.UserID, Email: claims.Email}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if claims.ID == "" {
		return fmt.Errorf("%w: token has no id", apperr.ErrInvalidToken)
	}

	var expiresAt int64
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Unix()
	}
	return s.tokenRepository.AddRevokedToken(ctx, claims.ID, expiresAt)
}

func (s *AuthService) CleanExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenRepository.CleanExpiredTokens(ctx)
}
