package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-social-escrow/internal/api/shared/constants"
	"github.com/feral-file/ff-social-escrow/internal/api/shared/dto"
	"github.com/feral-file/ff-social-escrow/internal/domain"
)

// HandleQueryParams holds query parameters for routes keyed by a single handle
type HandleQueryParams struct {
	Handle string `form:"handle"`
}

// ParseHandleQuery parses and normalizes the handle query parameter
func ParseHandleQuery(c *gin.Context) (*HandleQueryParams, error) {
	var params HandleQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	handle, err := dto.NormalizeHandleParam(params.Handle)
	if err != nil {
		return nil, err
	}
	params.Handle = handle

	return &params, nil
}

// FindWalletQueryParams holds query parameters for GET /social/find-wallet
type FindWalletQueryParams struct {
	Handle   string          `form:"handle"`
	Platform domain.Platform `form:"platform"` // empty matches any platform
}

// ParseFindWalletQuery parses query parameters for GET /social/find-wallet
func ParseFindWalletQuery(c *gin.Context) (*FindWalletQueryParams, error) {
	var params FindWalletQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	handle, err := dto.NormalizeHandleParam(params.Handle)
	if err != nil {
		return nil, err
	}
	params.Handle = handle

	if params.Platform != "" {
		platform, err := domain.ParsePlatform(string(params.Platform))
		if err != nil {
			return nil, err
		}
		params.Platform = platform
	}

	return &params, nil
}

// ListTransactionsQueryParams holds query parameters for GET /transactions
type ListTransactionsQueryParams struct {
	// Filters
	Wallet      string `form:"wallet"` // must be the session wallet when set
	Handle      string `form:"handle"`
	Instruction string `form:"instruction"`

	// Pagination
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ParseListTransactionsQuery parses query parameters for GET /transactions
func ParseListTransactionsQuery(c *gin.Context) (*ListTransactionsQueryParams, error) {
	var params ListTransactionsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Handle != "" {
		handle, err := dto.NormalizeHandleParam(params.Handle)
		if err != nil {
			return nil, err
		}
		params.Handle = handle
	}

	// Cap limit
	if params.Limit > constants.MAX_PAGE_SIZE {
		params.Limit = constants.MAX_PAGE_SIZE
	}

	return &params, nil
}

// Validate validates the query parameters
func (p *ListTransactionsQueryParams) Validate() error {
	if p.Limit < 1 {
		return fmt.Errorf("limit must be positive")
	}
	if p.Offset < 0 {
		return fmt.Errorf("offset must not be negative")
	}
	if p.Instruction != "" && !domain.IsInstruction(p.Instruction) {
		return fmt.Errorf("unknown instruction: %s", p.Instruction)
	}
	return nil
}
