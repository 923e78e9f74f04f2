package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wnzid/posterscoop-backend/internal/users"
	"github.com/wnzid/posterscoop-backend/internal/validation"
)

// RegisterUsersRoutes registers registration, login and account routes.
func RegisterUsersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	store := users.NewStore(cfg.DB)

	r.POST("/api/register", func(c *gin.Context) {
		var req validation.CredentialsRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		_, err := store.Register(c.Request.Context(), req.Email, req.Password)
		if errors.Is(err, users.ErrEmailExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		if err != nil {
			log.Printf("register: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not register"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Registered"})
	})

	r.POST("/api/login", func(c *gin.Context) {
		var req validation.CredentialsRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		role, err := store.Login(c.Request.Context(), req.Email, req.Password)
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if err != nil {
			log.Printf("login: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not log in"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": role})
	})

	r.GET("/api/user", func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email required"})
			return
		}

		user, err := store.Get(c.Request.Context(), email)
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			log.Printf("get user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"email":      user.Email,
			"name":       user.Name,
			"phone":      user.Phone,
			"address":    user.Address,
			"created_at": user.CreatedAt,
		})
	})

	r.PATCH("/api/user", func(c *gin.Context) {
		var req validation.AccountUpdateRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		user, err := store.UpdateProfile(c.Request.Context(), req.Email, users.ProfileUpdate{
			Name:        req.Name,
			Phone:       req.Phone,
			Address:     req.Address,
			Password:    req.Password,
			NewPassword: req.NewPassword,
		})
		switch {
		case errors.Is(err, users.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, users.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password"})
		case err != nil:
			log.Printf("update account: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update account"})
		default:
			c.JSON(http.StatusOK, gin.H{
				"message": "Account updated",
				"email":   user.Email,
				"name":    user.Name,
				"phone":   user.Phone,
				"address": user.Address,
			})
		}
	})
}
