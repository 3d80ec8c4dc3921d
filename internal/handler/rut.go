package handler

import (
	"errors"
	"net/http"

	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/rut"

	"github.com/gin-gonic/gin"
)

type RUTHandler struct{}

func NewRUTHandler() *RUTHandler { return &RUTHandler{} }

// Validate checks a Chilean RUT. Always answers 200: validity is data, not an
// error condition.
// @Summary Validate a RUT
// @Tags rut
// @Accept json
// @Produce json
// @Param body body dto.ValidateRUTRequest true "RUT in any common writing"
// @Success 200 {object} dto.ValidateRUTResponse
// @Router /v1/validate-rut [post]
func (h *RUTHandler) Validate(c *gin.Context) {
	var req dto.ValidateRUTRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp := dto.ValidateRUTResponse{RUT: req.RUT}
	if _, err := rut.Validate(req.RUT); err != nil {
		resp.Valid = false
		resp.Detail = err.Error()
		var checksumErr *rut.ChecksumError
		if errors.As(err, &checksumErr) {
			resp.Computed = string(checksumErr.Computed)
		}
	} else {
		resp.Valid = true
	}
	c.JSON(http.StatusOK, resp)
}
