package application

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "careers-api/internal/common/errors"
	"careers-api/internal/common/logger"
)

type Submitter interface {
	Submit(ctx context.Context, req *Request) (*Result, error)
}

type Handler struct {
	service Submitter
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(service Submitter, errorHandler *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		errors:  errorHandler,
		logger:  log,
	}
}

// Register mounts POST /email on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/email", h.Submit)
}

func (h *Handler) Submit(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.errors.Handle(c, apperrors.NewInvalidApplicationPayloadError(err))
		return
	}

	req, err := ParseRequest(body)
	if err != nil {
		h.errors.Handle(c, err)
		return
	}

	h.logger.Debug("processing application", map[string]interface{}{
		"jobTitle":   req.Job.Title,
		"recipients": len(req.RecipientList),
		"answers":    len(req.Answers),
	})

	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		h.errors.Handle(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   SuccessMessage,
		"messageId": result.MessageID,
	})
}
