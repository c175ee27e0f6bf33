package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orlogbook/orlog-api/internal/model"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
)

// ParsePagination reads page and limit query parameters, applying defaults
// and rejecting out-of-range values.
func ParsePagination(c *gin.Context, maxLimit int) (model.Pagination, error) {
	page, err := intQuery(c, "page", model.DefaultPage)
	if err != nil {
		return model.Pagination{}, apperrors.BadRequest("invalid page number", err)
	}

	limit, err := intQuery(c, "limit", model.DefaultLimit)
	if err != nil {
		return model.Pagination{}, apperrors.BadRequest("invalid limit", err)
	}

	p, err := model.NewPagination(page, limit, maxLimit)
	if err != nil {
		return model.Pagination{}, apperrors.BadRequest(err.Error(), nil)
	}
	return p, nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// ParseDateQuery reads an optional date parameter, accepting a bare date or a
// full RFC3339 timestamp. Nil means the parameter was absent.
func ParseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.BadRequest("invalid "+name+", expected YYYY-MM-DD", err)
	}
	return &t, nil
}
