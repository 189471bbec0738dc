package http

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"slideshow/internal/domain/models"
	"slideshow/internal/lib/logger/sl"
	services "slideshow/internal/services/creation_service"
	"slideshow/internal/storage"
	"slideshow/internal/transport/http/dto"
	"slideshow/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"

	_ "slideshow/docs"
)

const (
	msgNoImages     = "Please upload at least one image."
	msgDeleted      = "Deleted creation."
	msgItemNotFound = "Item not found."
	msgNotFound     = "Slideshow not found."
	msgInvalidForm  = "Invalid form data."
)

type CreationService interface {
	Create(ctx context.Context, input dto.CreationInput) (*services.CreateResult, error)
	Get(ctx context.Context, id string) (*models.Creation, error)
	List(ctx context.Context) ([]models.Creation, error)
	Delete(ctx context.Context, id string) error
}

type SongLister interface {
	List(ctx context.Context) ([]string, error)
}

type Routers struct {
	log             *slog.Logger
	CreationService CreationService
	Songs           SongLister
	baseURL         string
}

// NewRouter baseURL - внешний адрес сайта; пустой - берётся из запроса
func NewRouter(log *slog.Logger, creationService CreationService, songs SongLister, baseURL string) *Routers {
	return &Routers{
		log:             log,
		CreationService: creationService,
		Songs:           songs,
		baseURL:         strings.TrimRight(baseURL, "/"),
	}
}

type pageData struct {
	Flashes   []flash
	Warnings  []string
	Songs     []string
	Creation  *models.Creation
	Creations []models.Creation
	Error     string
}

func (r *Routers) Index(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/upload")
}

func (r *Routers) UploadPage(c echo.Context) error {
	const op = "http.routers.UploadPage"

	songs, err := r.Songs.List(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list songs", slog.String("op", op), sl.Err(err))
		songs = nil
	}

	return c.Render(http.StatusOK, "upload.html", pageData{
		Flashes: popFlashes(c),
		Songs:   songs,
	})
}

func (r *Routers) Upload(c echo.Context) error {
	const op = "http.routers.Upload"

	log := r.log.With(
		slog.String("op", op),
	)

	input, err := r.parseCreationInput(c)
	if err != nil {
		log.Warn("invalid upload form", sl.Err(err))
		r.flash(c, flashDanger, msgInvalidForm)
		return c.Redirect(http.StatusSeeOther, "/upload")
	}

	res, err := r.CreationService.Create(c.Request().Context(), *input)
	if err != nil {
		if models.IsValidationError(err) {
			r.flash(c, flashDanger, msgNoImages)
			return c.Redirect(http.StatusSeeOther, "/upload")
		}

		log.Error("failed to create slideshow", sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create slideshow")
	}

	return c.Render(http.StatusOK, "result.html", pageData{
		Warnings: res.Warnings,
		Creation: &res.Creation,
	})
}

func (r *Routers) View(c echo.Context) error {
	const op = "http.routers.View"

	creation, err := r.CreationService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrCreationNotFound) {
			return c.Render(http.StatusNotFound, "view.html", pageData{Error: msgNotFound})
		}

		r.log.Error("failed to get slideshow", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.Render(http.StatusOK, "view.html", pageData{Creation: creation})
}

func (r *Routers) Creations(c echo.Context) error {
	const op = "http.routers.Creations"

	items, err := r.CreationService.List(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list slideshows", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.Render(http.StatusOK, "creations.html", pageData{
		Flashes:   popFlashes(c),
		Creations: items,
	})
}

func (r *Routers) Delete(c echo.Context) error {
	const op = "http.routers.Delete"

	err := r.CreationService.Delete(c.Request().Context(), c.Param("id"))
	switch {
	case err == nil:
		r.flash(c, flashSuccess, msgDeleted)
	case errors.Is(err, storage.ErrCreationNotFound):
		r.flash(c, flashDanger, msgItemNotFound)
	default:
		r.log.Error("failed to delete slideshow", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.Redirect(http.StatusSeeOther, "/creations")
}

// ListCreations godoc
// @Summary Список слайд-шоу
// @Description Возвращает все слайд-шоу, новые первыми
// @Tags creations
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.CreationResponse}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/creations [get]
func (r *Routers) ListCreations(c echo.Context) error {
	const op = "http.routers.ListCreations"

	items, err := r.CreationService.List(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list slideshows", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewCreationListResponse(items)))
}

// CreateCreation godoc
// @Summary Создание слайд-шоу
// @Description Загружает изображения и песню, возвращает ссылку и QR-код
// @Tags creations
// @Accept multipart/form-data
// @Produce json
// @Param images formData file true "Изображения (.png .jpg .jpeg .gif .webp), можно несколько"
// @Param theme formData string false "Тема оформления" default(cinematic)
// @Param song_select formData string false "Имя встроенной песни"
// @Param song_upload formData file false "Своя песня (.mp3 .ogg .wav .m4a)"
// @Success 201 {object} response.Response{data=dto.CreateCreationResponse}
// @Failure 400 {object} response.ErrorResponse "Нет допустимых изображений"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /api/v1/creations [post]
func (r *Routers) CreateCreation(c echo.Context) error {
	const op = "http.routers.CreateCreation"

	log := r.log.With(
		slog.String("op", op),
	)

	input, err := r.parseCreationInput(c)
	if err != nil {
		log.Warn("invalid upload form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.InvalidRequest(err.Error()))
	}

	res, err := r.CreationService.Create(c.Request().Context(), *input)
	if err != nil {
		if models.IsValidationError(err) {
			return c.JSON(http.StatusBadRequest, response.ErrNoImages)
		}

		log.Error("failed to create slideshow", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(dto.CreateCreationResponse{
		Creation: dto.NewCreationResponse(res.Creation),
		Warnings: res.Warnings,
	}))
}

// GetCreation godoc
// @Summary Получение слайд-шоу
// @Tags creations
// @Produce json
// @Param id path string true "Идентификатор слайд-шоу"
// @Success 200 {object} response.Response{data=dto.CreationResponse}
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/creations/{id} [get]
func (r *Routers) GetCreation(c echo.Context) error {
	const op = "http.routers.GetCreation"

	creation, err := r.CreationService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrCreationNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrCreationNotFound)
		}

		r.log.Error("failed to get slideshow", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewCreationResponse(*creation)))
}

// DeleteCreation godoc
// @Summary Удаление слайд-шоу
// @Description Удаляет запись и принадлежащие ей файлы
// @Tags creations
// @Param id path string true "Идентификатор слайд-шоу"
// @Success 204 "Удалено"
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/creations/{id} [delete]
func (r *Routers) DeleteCreation(c echo.Context) error {
	const op = "http.routers.DeleteCreation"

	err := r.CreationService.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrCreationNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrCreationNotFound)
		}

		r.log.Error("failed to delete slideshow", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListSongs godoc
// @Summary Встроенные песни
// @Tags songs
// @Produce json
// @Success 200 {object} response.Response{data=[]string}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/songs [get]
func (r *Routers) ListSongs(c echo.Context) error {
	const op = "http.routers.ListSongs"

	songs, err := r.Songs.List(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list songs", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(songs))
}

func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Routers) parseCreationInput(c echo.Context) (*dto.CreationInput, error) {
	var req dto.CreateCreationRequest

	if err := c.Bind(&req); err != nil {
		return nil, err
	}
	if err := c.Validate(req); err != nil {
		return nil, err
	}

	input := &dto.CreationInput{
		Theme:      req.Theme,
		SongSelect: req.SongSelect,
		BaseURL:    r.requestBaseURL(c),
	}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return input, nil
		}
		return nil, err
	}

	input.Images = form.File["images"]
	input.SongUpload = firstFile(form.File["song_upload"])

	return input, nil
}

func (r *Routers) requestBaseURL(c echo.Context) string {
	if r.baseURL != "" {
		return r.baseURL
	}
	return c.Scheme() + "://" + c.Request().Host
}

func (r *Routers) flash(c echo.Context, category, message string) {
	if err := addFlash(c, category, message); err != nil {
		r.log.Warn("failed to save flash message", sl.Err(err))
	}
}

func firstFile(files []*multipart.FileHeader) *multipart.FileHeader {
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
