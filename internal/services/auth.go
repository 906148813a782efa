package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/OwaisIslam/living-real/internal/data/repos"
	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/platform/apierr"
	"github.com/OwaisIslam/living-real/internal/platform/ctxutil"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type JWTClaims struct {
	Role types.Role `json:"role"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *types.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(user *types.User) (string, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	gate         AuthorizationGate
	jwtSecretKey string
	accessTTL    time.Duration
}

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("living-real-dummy-password"), bcrypt.DefaultCost)

func NewAuthService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	gate AuthorizationGate,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		log:          serviceLog,
		userRepo:     userRepo,
		gate:         gate,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if _, err := as.gate.Authorize(ctx, OpLogin, uuid.Nil); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apierr.Authentication(apierr.MsgIncorrectCredential)
	}

	users, err := as.userRepo.GetByEmails(dbctx.Of(ctx), []string{email})
	if err != nil {
		as.log.Error("login lookup failed", "error", err)
		return nil, apierr.Internal(fmt.Errorf("error retrieving user by email: %w", err))
	}
	if len(users) == 0 || users[0] == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apierr.Authentication(apierr.MsgIncorrectCredential)
	}

	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Authentication(apierr.MsgIncorrectCredential)
	}

	token, err := as.IssueToken(user)
	if err != nil {
		as.log.Error("token signing failed", "error", err)
		return nil, apierr.Internal(fmt.Errorf("generate access token: %w", err))
	}
	stripSecrets(user)
	return &LoginResult{Token: token, User: user}, nil
}

func (as *authService) IssueToken(user *types.User) (string, error) {
	if user == nil || user.ID == uuid.Nil {
		return "", fmt.Errorf("user required")
	}
	now := time.Now()
	claims := JWTClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	if !claims.Role.Valid() {
		return ctx, fmt.Errorf("invalid role in token")
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Role:        claims.Role,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// stripSecrets clears the password hash on records about to leave the service.
func stripSecrets(users ...*types.User) {
	for _, u := range users {
		if u == nil {
			continue
		}
		u.Password = ""
		if u.Property != nil {
			for _, o := range u.Property.Occupants {
				if o != nil {
					o.Password = ""
				}
			}
		}
	}
}

func stripPropertySecrets(props ...*types.Property) {
	for _, p := range props {
		if p == nil {
			continue
		}
		stripSecrets(p.Occupants...)
	}
}
