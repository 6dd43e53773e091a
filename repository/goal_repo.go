package repository

import (
	"errors"

	"github.com/awashimakentaro/diet/models"

	"gorm.io/gorm"
)

type GoalRepository interface {
	FindByUser(userID uint) (*models.GoalRow, error)
	Save(row *models.GoalRow) error
}

type NotificationRepository interface {
	FindByUser(userID uint) (*models.NotificationPreferenceRow, error)
	Save(row *models.NotificationPreferenceRow) error
}

type goalRepo struct {
	db *gorm.DB
}

func NewGoalRepo(db *gorm.DB) GoalRepository {
	return &goalRepo{db: db}
}

// FindByUser returns (nil, nil) when no goal exists yet.
func (r *goalRepo) FindByUser(userID uint) (*models.GoalRow, error) {
	var row models.GoalRow
	err := r.db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *goalRepo) Save(row *models.GoalRow) error {
	return r.db.Save(row).Error
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) FindByUser(userID uint) (*models.NotificationPreferenceRow, error) {
	var row models.NotificationPreferenceRow
	err := r.db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *notificationRepo) Save(row *models.NotificationPreferenceRow) error {
	return r.db.Save(row).Error
}
