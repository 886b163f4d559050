package jobs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "careers-api/internal/common/errors"
)

type Finder interface {
	List(ctx context.Context) ([]Listing, error)
	FindBySlug(ctx context.Context, slug string) (*Detail, error)
}

type Handler struct {
	service Finder
	errors  *apperrors.ErrorHandler
}

func NewHandler(service Finder, errorHandler *apperrors.ErrorHandler) *Handler {
	return &Handler{service: service, errors: errorHandler}
}

// Register mounts the listing routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/jobs", h.List)
	r.GET("/jobs/:slug", h.Get)
}

func (h *Handler) List(c *gin.Context) {
	listings, err := h.service.List(c.Request.Context())
	if err != nil {
		h.errors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_listings": listings})
}

func (h *Handler) Get(c *gin.Context) {
	detail, err := h.service.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.errors.Handle(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
