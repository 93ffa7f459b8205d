package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Listing windows accepted by list endpoints.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Page is an offset/limit window over an ordered listing.
type Page struct {
	Offset int
	Limit  int
}

// ParsePage reads the offset and limit query parameters. Offset defaults to 0 and
// limit to DefaultPageLimit; a limit above MaxPageLimit is rejected, not clamped.
func ParsePage(c *gin.Context) (Page, error) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return Page{}, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err := queryInt(c, "limit", DefaultPageLimit)
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return Page{}, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxPageLimit)
	}

	return Page{Offset: offset, Limit: limit}, nil
}

// ParseUUIDParam parses the named path parameter as a UUID.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: must be a valid UUID", name)
	}
	return id, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
