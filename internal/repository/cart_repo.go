package repository

import (
	"context"

	"github.com/ElenaG-E/temucosoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository stores cart items keyed by user or anonymous session.
// Merge and checkout run inside transactions, so most mutators take a tx.
type CartRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	FindBySession(ctx context.Context, sessionKey string) ([]model.CartItem, error)
	FindByUserTx(tx *gorm.DB, userID uuid.UUID) ([]model.CartItem, error)
	FindBySessionTx(tx *gorm.DB, sessionKey string) ([]model.CartItem, error)
	FindUserItemTx(tx *gorm.DB, userID, productID uuid.UUID) (*model.CartItem, error)
	CreateTx(tx *gorm.DB, item *model.CartItem) error
	UpdateQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error
	ReassignToUserTx(tx *gorm.DB, id, userID uuid.UUID) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DeleteByUserTx(tx *gorm.DB, userID uuid.UUID) error

	DB() *gorm.DB
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) CartRepository { return &cartRepo{db: db} }

func (r *cartRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Preload("Product").Find(&items).Error
	return items, err
}

func (r *cartRepo) FindBySession(ctx context.Context, sessionKey string) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).Where("session_key = ?", sessionKey).Preload("Product").Find(&items).Error
	return items, err
}

func (r *cartRepo) FindByUserTx(tx *gorm.DB, userID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem
	err := tx.Where("user_id = ?", userID).Find(&items).Error
	return items, err
}

func (r *cartRepo) FindBySessionTx(tx *gorm.DB, sessionKey string) ([]model.CartItem, error) {
	var items []model.CartItem
	err := tx.Where("session_key = ?", sessionKey).Find(&items).Error
	return items, err
}

func (r *cartRepo) FindUserItemTx(tx *gorm.DB, userID, productID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	return &item, err
}

func (r *cartRepo) CreateTx(tx *gorm.DB, item *model.CartItem) error {
	return tx.Create(item).Error
}

func (r *cartRepo) UpdateQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.CartItem{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *cartRepo) ReassignToUserTx(tx *gorm.DB, id, userID uuid.UUID) error {
	return tx.Model(&model.CartItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"user_id":     userID,
		"session_key": nil,
	}).Error
}

func (r *cartRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.CartItem{}, "id = ?", id).Error
}

func (r *cartRepo) DeleteByUserTx(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Delete(&model.CartItem{}, "user_id = ?", userID).Error
}

func (r *cartRepo) DB() *gorm.DB { return r.db }
