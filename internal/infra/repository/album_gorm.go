package repository

import (
	"context"
	"errors"

	"albummai/internal/domain/model"
	repo "albummai/internal/repository"

	"gorm.io/gorm"
)

type AlbumGormRepository struct {
	db *gorm.DB
}

// DI
func NewAlbumGormRepository(db *gorm.DB) *AlbumGormRepository {
	return &AlbumGormRepository{db: db}
}

func (r *AlbumGormRepository) Create(ctx context.Context, album model.Album) (model.Album, error) {
	if err := r.db.WithContext(ctx).Create(&album).Error; err != nil {
		return model.Album{}, err
	}
	return album, nil
}

// IDでアルバムを取得（論理削除済みは対象外）
func (r *AlbumGormRepository) FindByID(ctx context.Context, albumID int64) (model.Album, error) {
	var a model.Album
	err := r.db.WithContext(ctx).First(&a, albumID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Album{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Album{}, err
	}
	return a, nil
}

func (r *AlbumGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Album, error) {
	var albums []model.Album
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&albums).Error
	if err != nil {
		return []model.Album{}, err
	}
	return albums, nil
}

func (r *AlbumGormRepository) FindByIDs(ctx context.Context, albumIDs []int64) ([]model.Album, error) {
	if len(albumIDs) == 0 {
		return []model.Album{}, nil
	}
	var albums []model.Album
	if err := r.db.WithContext(ctx).Where("id IN ?", albumIDs).Find(&albums).Error; err != nil {
		return []model.Album{}, err
	}
	return albums, nil
}
