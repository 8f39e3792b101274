package repository

import (
	"context"

	"albummai/internal/domain/model"
)

type AlbumRepository interface {
	Create(ctx context.Context, album model.Album) (model.Album, error)
	FindByID(ctx context.Context, albumID int64) (model.Album, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Album, error)
	// 見つからないIDは結果に含めない
	FindByIDs(ctx context.Context, albumIDs []int64) ([]model.Album, error)
}
