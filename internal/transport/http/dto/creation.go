package dto

import (
	"mime/multipart"

	"slideshow/internal/domain/models"
)

// CreateCreationRequest поля формы загрузки, кроме файлов
type CreateCreationRequest struct {
	Theme      string `form:"theme" validate:"max=64"`
	SongSelect string `form:"song_select" validate:"max=255"`
}

// CreationInput входные данные для создания слайд-шоу
type CreationInput struct {
	Images     []*multipart.FileHeader
	Theme      string
	SongSelect string
	SongUpload *multipart.FileHeader
	// BaseURL корень сайта, к которому добавляется /view/<id>
	BaseURL string
}

type CreationResponse struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	QR     string   `json:"qr"`
	Thumb  string   `json:"thumb"`
	Theme  string   `json:"theme"`
	Song   string   `json:"song"`
	Date   string   `json:"date"`
	Images []string `json:"images"`
}

type CreateCreationResponse struct {
	Creation CreationResponse `json:"creation"`
	Warnings []string         `json:"warnings,omitempty"`
}

func NewCreationResponse(c models.Creation) CreationResponse {
	images := c.Images
	if images == nil {
		images = []string{}
	}

	return CreationResponse{
		ID:     c.ID,
		URL:    c.URL,
		QR:     c.QR,
		Thumb:  c.Thumb,
		Theme:  c.Theme,
		Song:   c.Song,
		Date:   c.Date,
		Images: images,
	}
}

func NewCreationListResponse(items []models.Creation) []CreationResponse {
	out := make([]CreationResponse, 0, len(items))
	for _, c := range items {
		out = append(out, NewCreationResponse(c))
	}
	return out
}
