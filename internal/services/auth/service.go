package auth

import (
	"errors"
	"log"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/repositories"
	"github.com/M4r3n0/FinTun/internal/utils"
	"github.com/M4r3n0/FinTun/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service interface {
	Login(email, phone, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uuid.UUID) error
	ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error
	GetUserTokenVersion(userID uuid.UUID) (int, error)
	GetUserByID(userID uuid.UUID) (*models.User, error)
}

type service struct {
	userRepo repositories.UserRepository
}

func NewService(userRepo repositories.UserRepository) Service {
	if userRepo == nil {
		panic("user repository is required")
	}
	return &service{userRepo: userRepo}
}

func (s *service) Login(email, phone, password string) (*models.User, string, string, error) {
	user, err := s.getUserByIdentifier(email, phone)
	if err != nil {
		log.Printf("login failed: user not found for identifier %s", email+phone)
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("login failed: incorrect password for user %s", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
	if err != nil {
		log.Println("error generating tokens:", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
}

func (s *service) Logout(userID uuid.UUID) error {
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return errors.New("failed to get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("invalid old password")
	}

	if len(newPassword) < 8 || !validation.HasSpecialChar(newPassword) {
		return errors.New("password must be at least 8 characters and contain special characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.Password = string(hashedPassword)
	user.TokenVersion++ // invalidate existing tokens

	if err := s.userRepo.Update(user); err != nil {
		return errors.New("failed to update password")
	}

	return nil
}

func (s *service) GetUserTokenVersion(userID uuid.UUID) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}

func (s *service) GetUserByID(userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *service) getUserByIdentifier(email, phone string) (*models.User, error) {
	if email != "" {
		return s.userRepo.GetByEmail(email)
	}
	return s.userRepo.GetByPhone(phone)
}
