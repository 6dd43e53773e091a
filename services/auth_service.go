package services

import (
	"errors"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/repository"
	"github.com/awashimakentaro/diet/utils"
)

type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Register(email, password, displayName string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	user := models.User{
		Email:       email,
		Password:    hashed,
		DisplayName: displayName,
	}
	return s.users.Create(&user)
}

func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, errors.New("メールアドレスまたはパスワードが正しくありません")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, errors.New("メールアドレスまたはパスワードが正しくありません")
	}
	return user, nil
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	return utils.GenerateJWT(user.ID, user.Email)
}

func (s *AuthService) FindByEmail(email string) (*models.User, error) {
	return s.users.FindByEmail(email)
}

func (s *AuthService) Save(user *models.User) error {
	return s.users.Save(user)
}
