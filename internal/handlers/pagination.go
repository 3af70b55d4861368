package handlers

import (
	"github.com/SscSPs/finn_ledger/internal/apperrors"
	"github.com/SscSPs/finn_ledger/internal/dto"
	"github.com/SscSPs/finn_ledger/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// bindListParams reads limit, offset and nextToken. A nextToken takes precedence over offset.
func bindListParams(c *gin.Context) (dto.ListParams, error) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return dto.ListParams{}, apperrors.NewValidationError("invalid query parameters", "query: "+err.Error())
	}
	if params.NextToken != "" {
		offset, err := pagination.DecodeOffsetToken(params.NextToken)
		if err != nil {
			return dto.ListParams{}, apperrors.NewValidationError("invalid query parameters", "nextToken: is not a valid pagination token")
		}
		params.Offset = offset
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return params, nil
}

func nextToken(params dto.ListParams, n int) *string {
	token := pagination.NextToken(params.Offset, params.Limit, n)
	if token == "" {
		return nil
	}
	return &token
}
