package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wnzid/posterscoop-backend/internal/aws"
	"github.com/wnzid/posterscoop-backend/internal/blob"
)

// HandlerConfig groups the shared dependencies for all route groups. The
// blob store and publisher are constructed once at process start and
// injected here.
type HandlerConfig struct {
	DB        *gorm.DB
	Blob      *blob.Store
	Publisher *aws.Publisher
	Bucket    string
}

// RegisterRoutes mounts every API route group on the engine.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	RegisterOrdersRoutes(r, cfg)
	RegisterCustomOrdersRoutes(r, cfg)
	RegisterDiscountsRoutes(r, cfg)
	RegisterPerformanceRoutes(r, cfg)
	RegisterCatalogRoutes(r, cfg)
	RegisterUsersRoutes(r, cfg)
	RegisterImageRoutes(r, cfg)
}

// uintParam parses a numeric path parameter. On failure it writes a 404,
// since a non-numeric id can never name a resource.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uint(v), true
}
