package department

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	if companyID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	res, err := h.service.Create(c.Request.Context(), companyID, req)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, nil)
		return
	}

	response.Success(c, http.StatusCreated, "department created", res, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")
	if companyID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	res, err := h.service.GetAll(c.Request.Context(), companyID)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, "", res, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	companyID := c.GetString("company_id")
	if companyID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, "", res, nil)
}

func (h *Handler) Update(c *gin.Context) {
	companyID := c.GetString("company_id")
	if companyID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	res, err := h.service.Update(c.Request.Context(), companyID, c.Param("id"), req)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, "department updated", res, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	companyID := c.GetString("company_id")
	if companyID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	if err := h.service.Delete(c.Request.Context(), companyID, c.Param("id")); err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, nil)
		return
	}

	c.Status(http.StatusNoContent)
}
