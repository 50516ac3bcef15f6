package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ajedamilola/pharmalink/internal/middleware"
	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
	otpTTL          = 10 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
)

// DTOs for Request validation
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"required,oneof=pharmacy vendor"`
	BusinessName string `json:"business_name" binding:"required"`
	Location     string `json:"location" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// LoginResponse carries an unverified access token. The refresh token is only
// issued once the one-time code is confirmed.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	User         UserResponse `json:"user"`
	OTPExpiresAt time.Time    `json:"otp_expires_at"`
}

type TokenPairResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	VerifyOTP(ctx context.Context, userID string, req VerifyOTPRequest) (*TokenPairResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPairResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID string) (*UserResponse, error)
}

type authService struct {
	userRepo     repository.UserRepository
	pharmacyRepo repository.PharmacyRepository
	vendorRepo   repository.VendorRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewAuthService(
	userRepo repository.UserRepository,
	pharmacyRepo repository.PharmacyRepository,
	vendorRepo repository.VendorRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		pharmacyRepo: pharmacyRepo,
		vendorRepo:   vendorRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

func mapUser(user *model.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// signAccessToken issues an HS256 token. The verified claim is the session
// gate: tokens issued at login carry false and only unlock the OTP endpoints.
func signAccessToken(user *model.User, verified bool) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"role":     user.Role,
		"verified": verified,
		"exp":      time.Now().Add(accessTokenTTL).Unix(),
	})
	return token.SignedString(middleware.GetJWTSecret())
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		switch req.Role {
		case model.RolePharmacy:
			pharmacy := &model.Pharmacy{
				UserID:   user.ID,
				Name:     req.BusinessName,
				Location: req.Location,
			}
			if err := s.pharmacyRepo.Create(txCtx, pharmacy); err != nil {
				return fmt.Errorf("failed to create pharmacy profile: %w", err)
			}
		case model.RoleVendor:
			vendor := &model.Vendor{
				UserID:   user.ID,
				Name:     req.BusinessName,
				Location: req.Location,
			}
			if err := s.vendorRepo.Create(txCtx, vendor); err != nil {
				return fmt.Errorf("failed to create vendor profile: %w", err)
			}
		}

		audit := &model.AuditLog{
			ActorID:     &user.ID,
			ActorRole:   user.Role,
			EventType:   model.EventUserRegistered,
			Description: fmt.Sprintf("%s account registered for %s", user.Role, req.BusinessName),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := mapUser(user)
	return &res, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Role == model.RolePharmacy {
		pharmacy, err := s.pharmacyRepo.FindByUserID(ctx, user.ID)
		if err == nil && pharmacy.AccountStatus == model.AccountSuspended {
			return nil, ErrAccountSuspended
		}
	}

	code, err := generateOTPCode()
	if err != nil {
		return nil, errors.New("failed to generate verification code")
	}
	session := &model.OTPSession{
		UserID:    user.ID,
		OTPCode:   code,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.userRepo.CreateOTPSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create otp session: %w", err)
	}

	accessToken, err := signAccessToken(user, false)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		User:         mapUser(user),
		OTPExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, userID string, req VerifyOTPRequest) (*TokenPairResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, errors.New("user not found")
	}

	session, err := s.userRepo.FindActiveOTPSession(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if session.OTPCode != req.Code {
		return nil, ErrInvalidOTP
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, errors.New("failed to generate refresh token")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.MarkOTPVerified(txCtx, session.ID); err != nil {
			return fmt.Errorf("failed to mark otp verified: %w", err)
		}
		token := &model.RefreshToken{
			UserID:    user.ID,
			Token:     refreshToken,
			ExpiresAt: time.Now().Add(refreshTokenTTL),
		}
		if err := s.userRepo.CreateRefreshToken(txCtx, token); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := signAccessToken(user, true)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapUser(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPairResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.userRepo.DeleteRefreshToken(ctx, refreshToken)
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	// Refresh tokens are only handed out after OTP confirmation, so a valid
	// one always renews a verified session.
	accessToken, err := signAccessToken(user, true)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapUser(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.userRepo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *authService) Me(ctx context.Context, userID string) (*UserResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}
	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, errors.New("user not found")
	}
	res := mapUser(user)
	return &res, nil
}
