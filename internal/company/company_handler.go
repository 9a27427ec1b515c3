package company

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("company.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Onboard(c *gin.Context) {
	var req OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	res, err := h.service.Onboard(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("company onboarding failed", zap.Error(err))
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, nil)
		return
	}

	response.Success(c, http.StatusCreated, "company registered", res, nil)
}

func (h *Handler) GetMe(c *gin.Context) {
	companyID, ok := c.Get("company_id")
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Company ID not found in context", nil)
		return
	}

	comp, err := h.service.GetByID(c.Request.Context(), companyID.(string))
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, "", comp, nil)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	companyID, ok := c.Get("company_id")
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Company ID not found in context", nil)
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	comp, err := h.service.Update(c.Request.Context(), companyID.(string), req)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, "company updated", comp, nil)
}
