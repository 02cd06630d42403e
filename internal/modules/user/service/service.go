package service

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"anoa.com/desainhub/internal/entity"
	"anoa.com/desainhub/internal/modules/user/dto"
	"anoa.com/desainhub/internal/modules/user/repository"
	"anoa.com/desainhub/pkg/apperror"
	"anoa.com/desainhub/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*entity.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, file dto.AvatarFile) (string, error)
}

type authService struct {
	repo        repository.UserRepository
	fileStorage storage.FileStorage
	secret      string
	tokenTTL    time.Duration
	defaultRole string
}

func NewAuthService(repo repository.UserRepository, fileStorage storage.FileStorage) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	defaultRole := os.Getenv("DEFAULT_ROLE")
	if defaultRole == "" {
		defaultRole = entity.RoleKlien
	}

	return &authService{
		repo:        repo,
		fileStorage: fileStorage,
		secret:      secret,
		tokenTTL:    ttl,
		defaultRole: defaultRole,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, errors.New("email already registered")
	}
	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, errors.New("username already taken")
	}

	roleName := input.Role
	if roleName == "" {
		roleName = s.defaultRole
	}
	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       &role.ID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	profile := &entity.Profile{
		UserID:   user.ID,
		FullName: input.FullName,
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	user.Role = *role
	user.Profile = profile

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	return s.buildAuthResponse(user)
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*entity.Profile, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrNotFound
	}

	profile := user.Profile
	if profile == nil {
		profile = &entity.Profile{UserID: user.ID}
	}

	if input.FullName != nil {
		profile.FullName = *input.FullName
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.PortfolioURL != nil {
		profile.PortfolioURL = input.PortfolioURL
	}
	if input.HourlyRate != nil {
		// Only desainer accounts carry a rate
		if user.Role.Name != entity.RoleDesainer {
			return nil, apperror.ErrForbidden
		}
		profile.HourlyRate = input.HourlyRate
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *authService) UploadAvatar(ctx context.Context, userID uuid.UUID, file dto.AvatarFile) (string, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		return "", apperror.ErrNotFound
	}

	url, err := s.fileStorage.UploadFile(ctx, file.Reader, "avatars", file.FileName)
	if err != nil {
		return "", err
	}

	// Best effort cleanup of the previous avatar
	if user.AvatarURL != nil && *user.AvatarURL != "" {
		_ = s.fileStorage.DeleteFile(ctx, *user.AvatarURL)
	}

	user.AvatarURL = &url
	if err := s.repo.Update(ctx, user); err != nil {
		return "", err
	}

	return url, nil
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	expiresAt := time.Now().Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        user,
		Role:        &user.Role,
		Profile:     user.Profile,
	}, nil
}
