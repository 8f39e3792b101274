package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"albummai/internal/domain/model"
	repo "albummai/internal/repository"
)

type AlbumUsecase struct {
	albums repo.AlbumRepository
}

func NewAlbumUsecase(albums repo.AlbumRepository) *AlbumUsecase {
	return &AlbumUsecase{albums: albums}
}

type CreateAlbumInput struct {
	Title       string
	Description string
}

func (u *AlbumUsecase) Create(ctx context.Context, userID int64, in CreateAlbumInput) (model.Album, error) {
	if userID <= 0 {
		return model.Album{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Album{}, NewHTTPError(http.StatusBadRequest, "missing required fields")
	}
	if len(title) > 255 {
		return model.Album{}, NewHTTPError(http.StatusBadRequest, "title too long")
	}

	a, err := u.albums.Create(ctx, model.Album{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		return model.Album{}, dbError(err)
	}
	return a, nil
}

func (u *AlbumUsecase) List(ctx context.Context, userID int64) ([]model.Album, error) {
	if userID <= 0 {
		return []model.Album{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	albums, err := u.albums.ListByUserID(ctx, userID)
	if err != nil {
		return []model.Album{}, dbError(err)
	}
	return albums, nil
}

// 他人のアルバムは404
func (u *AlbumUsecase) Get(ctx context.Context, userID int64, albumID int64) (model.Album, error) {
	if userID <= 0 {
		return model.Album{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	a, err := u.albums.FindByID(ctx, albumID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && a.UserID != userID) {
		return model.Album{}, NewHTTPError(http.StatusNotFound, "album not found")
	}
	if err != nil {
		return model.Album{}, dbError(err)
	}
	return a, nil
}
