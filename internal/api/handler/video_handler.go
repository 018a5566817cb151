package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
)

type VideoHandler struct {
	videoService ports.VideoService
}

func NewVideoHandler(videoService ports.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

type listVideosQuery struct {
	Tag    string `query:"tag"`
	Search string `query:"search"`
	Page   int    `query:"page"  validate:"gte=0"`
	Limit  int    `query:"limit" validate:"gte=0"`
}

type saveVideoRequest struct {
	Title    string   `json:"title"     validate:"required"`
	URL      string   `json:"url"       validate:"required,url"`
	PublicID string   `json:"public_id" validate:"required"`
	Tags     []string `json:"tags"`
	Duration float64  `json:"duration"  validate:"gte=0"`
	Format   string   `json:"format"`
	Size     int64    `json:"size"      validate:"gte=0"`
}

type listVideosResponse struct {
	Items      []*domain.Video `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// List returns the shared feed, newest first.
//
// @Summary      List videos
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        tag     query     string  false  "Exact tag"
// @Param        search  query     string  false  "Title substring"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size, max 100"
// @Success      200     {object}  listVideosResponse
// @Failure      401     {object}  map[string]string
// @Router       /api/videos [get]
func (h *VideoHandler) List(c echo.Context) error {
	return h.list(c, "")
}

// ListByUser returns the videos uploaded by one user.
//
// @Summary      List a user's videos
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "Owner id"
// @Param        tag     query     string  false  "Exact tag"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size, max 100"
// @Success      200     {object}  listVideosResponse
// @Failure      401     {object}  map[string]string
// @Router       /api/videos/user/{userId} [get]
func (h *VideoHandler) ListByUser(c echo.Context) error {
	return h.list(c, c.Param("userId"))
}

func (h *VideoHandler) list(c echo.Context, userID string) error {
	var q listVideosQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.videoService.List(c.Request().Context(), ports.ListVideosInput{
		UserID: userID,
		Tag:    q.Tag,
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listVideosResponse{
		Items:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Tags returns every tag in use.
//
// @Summary      List tags
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   string
// @Failure      401  {object}  map[string]string
// @Router       /api/videos/tags [get]
func (h *VideoHandler) Tags(c echo.Context) error {
	tags, err := h.videoService.Tags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

// Create records a video already uploaded to the media host.
//
// @Summary      Save video
// @Tags         videos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveVideoRequest  true  "Upload metadata"
// @Success      201   {object}  domain.Video
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/videos [post]
func (h *VideoHandler) Create(c echo.Context) error {
	owner, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req saveVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	video, err := h.videoService.Save(c.Request().Context(), owner, ports.SaveVideoInput{
		Title:    req.Title,
		URL:      req.URL,
		PublicID: req.PublicID,
		Tags:     req.Tags,
		Duration: req.Duration,
		Format:   req.Format,
		Size:     req.Size,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, video)
}

// Delete removes a video owned by the caller, or any video for an admin.
//
// @Summary      Delete video
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Video id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/videos/{id} [delete]
func (h *VideoHandler) Delete(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.videoService.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Video deleted successfully"})
}
