package repository

import (
	"github.com/awashimakentaro/diet/models"

	"gorm.io/gorm"
)

type LibraryRepository interface {
	Insert(row *models.FoodRow) error
	ListByUser(userID uint) ([]models.FoodRow, error)
	FindByID(userID uint, entryID string) (*models.FoodRow, error)
	Update(row *models.FoodRow) error
	Delete(userID uint, entryID string) error
}

type libraryRepo struct {
	db *gorm.DB
}

func NewLibraryRepo(db *gorm.DB) LibraryRepository {
	return &libraryRepo{db: db}
}

func (r *libraryRepo) Insert(row *models.FoodRow) error {
	return r.db.Create(row).Error
}

func (r *libraryRepo) ListByUser(userID uint) ([]models.FoodRow, error) {
	var rows []models.FoodRow
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *libraryRepo) FindByID(userID uint, entryID string) (*models.FoodRow, error) {
	var row models.FoodRow
	err := r.db.
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *libraryRepo) Update(row *models.FoodRow) error {
	return r.db.Save(row).Error
}

func (r *libraryRepo) Delete(userID uint, entryID string) error {
	return r.db.
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.FoodRow{}).Error
}
