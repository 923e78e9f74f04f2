package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindAndValidate binds the JSON body into `out` and runs validation. If
// either step fails, it writes a 400 response and returns an error for the
// handler to short-circuit on.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return err
	}

	if err := v.Struct(out); err != nil {
		if missing := Missing(err); missing != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error()})
			return missing
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return err
	}
	return nil
}
