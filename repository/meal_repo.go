package repository

import (
	"time"

	"github.com/awashimakentaro/diet/models"

	"gorm.io/gorm"
)

// MealRepository is the persistence boundary for meal rows. Deletes are
// physical; there is no soft-delete flag and no undo.
type MealRepository interface {
	Insert(row *models.MealRow) error
	ListByRange(userID uint, from, to time.Time) ([]models.MealRow, error)
	FindByID(userID uint, mealID string) (*models.MealRow, error)
	Update(row *models.MealRow) error
	Delete(userID uint, mealID string) error
	DeleteByRange(userID uint, from, to time.Time) error
}

type mealRepo struct {
	db *gorm.DB
}

func NewMealRepo(db *gorm.DB) MealRepository {
	return &mealRepo{db: db}
}

func (r *mealRepo) Insert(row *models.MealRow) error {
	return r.db.Create(row).Error
}

func (r *mealRepo) ListByRange(userID uint, from, to time.Time) ([]models.MealRow, error) {
	var rows []models.MealRow
	err := r.db.
		Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, from, to).
		Order("recorded_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *mealRepo) FindByID(userID uint, mealID string) (*models.MealRow, error) {
	var row models.MealRow
	err := r.db.
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *mealRepo) Update(row *models.MealRow) error {
	return r.db.Save(row).Error
}

func (r *mealRepo) Delete(userID uint, mealID string) error {
	return r.db.
		Where("id = ? AND user_id = ?", mealID, userID).
		Delete(&models.MealRow{}).Error
}

func (r *mealRepo) DeleteByRange(userID uint, from, to time.Time) error {
	return r.db.
		Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, from, to).
		Delete(&models.MealRow{}).Error
}
