package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/strategy-ledger/internal/analytics"
	"github.com/strategy-ledger/internal/repository"
	"github.com/strategy-ledger/internal/service"
	"github.com/strategy-ledger/pkg/response"
)

var errInvalidID = errors.New("id must be a positive integer")

// handleLedgerError maps service errors onto the response envelope
func handleLedgerError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, repository.ErrStrategyNotFound):
		response.NotFound(c, "strategy not found")
	case errors.Is(err, repository.ErrTradeNotFound):
		response.NotFound(c, "trade not found")
	case errors.Is(err, repository.ErrLegNotFound):
		response.NotFound(c, "trade leg not found")
	case errors.Is(err, repository.ErrFillNotFound):
		response.NotFound(c, "fill not found")
	case errors.Is(err, analytics.ErrInsufficientData):
		response.Unprocessable(c, response.CodeInsufficientData, err.Error())
	case errors.Is(err, analytics.ErrDivisionUndefined):
		response.Unprocessable(c, response.CodeDivisionUndefined, err.Error())
	case errors.Is(err, repository.ErrStoreUnavailable):
		response.ServiceUnavailable(c, "ledger store unavailable")
	case errors.Is(err, service.ErrInvalidLookback),
		errors.Is(err, service.ErrMissingStrategy),
		errors.Is(err, errInvalidID):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

// uintParam reads a positive integer path parameter
func uintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || v == 0 {
		return 0, errInvalidID
	}
	return uint(v), nil
}
