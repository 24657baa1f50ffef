package handler

import (
	"net/http"

	"messenger-fixtures/internal/onboarding"
	"messenger-fixtures/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service *onboarding.Service
}

func NewAccountHandler(service *onboarding.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) Create(c *gin.Context) {
	var req httpdto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	acc, err := h.service.CreateAccount(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(acc))
}

func (h *AccountHandler) DisplayName(c *gin.Context) {
	name, err := h.service.DisplayName(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.DisplayNameResponse{DisplayName: name}))
}
