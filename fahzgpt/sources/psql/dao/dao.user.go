package dao

import (
	"context"
	"errors"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

func (dao *UserDAO) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, username, name, email string) (*models.User, error) {
	user := models.User{
		ID:       uuid.New().String(),
		Username: username,
		Name:     name,
		Email:    email,
	}
	if err := dao.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) UpdateUser(ctx context.Context, user *models.User) error {
	return dao.DB.WithContext(ctx).Save(user).Error
}
