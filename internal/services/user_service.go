package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/utils"
)

const accessTokenTTL = 24 * time.Hour

type UserService struct {
	UserRepo     *repositories.UserRepository
	TokenManager *utils.Manager
}

func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.AuthResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		return models.AuthResponse{}, models.NewAPIError(models.CodeValidation, "name and email are required")
	}
	if len(req.Password) < 8 {
		return models.AuthResponse{}, models.NewAPIError(models.CodeValidation, "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthResponse{}, err
	}
	user, err := s.UserRepo.CreateUser(ctx, models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	})
	if err != nil {
		return models.AuthResponse{}, err
	}
	token, err := s.TokenManager.NewJWT(user.ID, accessTokenTTL)
	if err != nil {
		return models.AuthResponse{}, err
	}
	user.Password = ""
	return models.AuthResponse{User: user, AccessToken: token}, nil
}

func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.AuthResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	user, err := s.UserRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return models.AuthResponse{}, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.AuthResponse{}, models.ErrInvalidCredentials
	}
	token, err := s.TokenManager.NewJWT(user.ID, accessTokenTTL)
	if err != nil {
		return models.AuthResponse{}, err
	}
	user.Password = ""
	return models.AuthResponse{User: user, AccessToken: token}, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}
