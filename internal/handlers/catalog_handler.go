package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wnzid/posterscoop-backend/internal/catalog"
	"github.com/wnzid/posterscoop-backend/internal/validation"
)

func serializeDesign(d catalog.Design) gin.H {
	return gin.H{
		"id":         d.ID,
		"title":      d.Title,
		"imageKey":   d.ImageKey,
		"categoryId": d.CategoryID,
		"posterType": d.PosterType,
		"size":       d.Size,
		"thickness":  d.Thickness,
		"featured":   d.Featured,
		"hidden":     d.Hidden,
	}
}

// RegisterCatalogRoutes registers the category and design API.
func RegisterCatalogRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	store := catalog.NewStore(cfg.DB, cfg.Blob)

	r.POST("/api/categories", func(c *gin.Context) {
		var req validation.CategoryRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		cat, err := store.CreateCategory(c.Request.Context(), req.MainCategory, req.Name)
		if errors.Is(err, catalog.ErrInvalidMainCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid fields: main_category"})
			return
		}
		if err != nil {
			log.Printf("create category: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create category"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"id":            cat.ID,
			"name":          cat.Name,
			"main_category": cat.MainCategory,
		})
	})

	r.GET("/api/categories", func(c *gin.Context) {
		cats, err := store.ListCategories(c.Request.Context())
		if err != nil {
			log.Printf("list categories: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list categories"})
			return
		}
		response := make([]gin.H, 0, len(cats))
		for _, cat := range cats {
			response = append(response, gin.H{
				"id":            cat.ID,
				"name":          cat.Name,
				"main_category": cat.MainCategory,
			})
		}
		c.JSON(http.StatusOK, response)
	})

	r.PUT("/api/categories/:id", func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var body struct {
			Name         *string `json:"name"`
			MainCategory *string `json:"main_category"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		cat, err := store.UpdateCategory(c.Request.Context(), id, body.MainCategory, body.Name)
		switch {
		case errors.Is(err, catalog.ErrInvalidMainCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid main_category"})
		case errors.Is(err, catalog.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		case err != nil:
			log.Printf("update category %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update category"})
		default:
			c.JSON(http.StatusOK, gin.H{
				"id":            cat.ID,
				"name":          cat.Name,
				"main_category": cat.MainCategory,
			})
		}
	})

	r.DELETE("/api/categories/:id", func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		err := store.DeleteCategory(c.Request.Context(), id)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		case err != nil:
			log.Printf("delete category %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete category"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
		}
	})

	r.POST("/api/designs", func(c *gin.Context) {
		categoryID := c.PostForm("category_id")
		image, imageErr := c.FormFile("image")

		var missing []string
		if categoryID == "" {
			missing = append(missing, "category_id")
		}
		if imageErr != nil {
			missing = append(missing, "image")
		}
		if len(missing) > 0 {
			verr := &validation.MissingFieldsError{Fields: missing}
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}

		catID, err := strconv.ParseUint(categoryID, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}

		file, err := image.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded image"})
			return
		}
		defer file.Close()

		design, err := store.CreateDesign(c.Request.Context(), catalog.Design{
			CategoryID: uint(catID),
			Title:      c.PostForm("title"),
			PosterType: c.PostForm("poster_type"),
			Size:       c.PostForm("size"),
			Thickness:  c.PostForm("thickness"),
			Featured:   c.PostForm("featured") == "true",
			Hidden:     c.PostForm("hidden") == "true",
		}, file, image.Filename, image.Header.Get("Content-Type"))
		if errors.Is(err, catalog.ErrTitleExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title already exists"})
			return
		}
		if err != nil {
			log.Printf("create design: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create design"})
			return
		}
		c.JSON(http.StatusCreated, serializeDesign(*design))
	})

	r.GET("/api/designs", func(c *gin.Context) {
		f := catalog.DesignFilter{
			MainCategory: c.Query("main_category"),
			Search:       c.Query("search"),
		}
		if raw := c.Query("category_id"); raw != "" {
			if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
				f.CategoryID = uint(v)
			}
		}
		if raw, ok := c.GetQuery("featured"); ok {
			val := raw == "true"
			f.Featured = &val
		}
		if raw, ok := c.GetQuery("hidden"); ok {
			val := raw == "true"
			f.Hidden = &val
		}

		list, err := store.ListDesigns(c.Request.Context(), f)
		if err != nil {
			log.Printf("list designs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list designs"})
			return
		}
		if f.Search != "" && len(list) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No item found with that name"})
			return
		}

		response := make([]gin.H, 0, len(list))
		for _, d := range list {
			response = append(response, serializeDesign(d))
		}
		c.JSON(http.StatusOK, response)
	})

	r.GET("/api/designs/:id", func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		d, err := store.GetDesign(c.Request.Context(), id)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Design not found"})
		case err != nil:
			log.Printf("get design %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not get design"})
		default:
			c.JSON(http.StatusOK, serializeDesign(*d))
		}
	})

	r.PUT("/api/designs/:id", func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var body struct {
			CategoryID *uint   `json:"category_id"`
			Title      *string `json:"title"`
			ImageKey   *string `json:"image_filename"`
			PosterType *string `json:"poster_type"`
			Size       *string `json:"size"`
			Thickness  *string `json:"thickness"`
			Featured   *bool   `json:"featured"`
			Hidden     *bool   `json:"hidden"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		d, err := store.UpdateDesign(c.Request.Context(), id, catalog.DesignUpdate{
			CategoryID: body.CategoryID,
			Title:      body.Title,
			ImageKey:   body.ImageKey,
			PosterType: body.PosterType,
			Size:       body.Size,
			Thickness:  body.Thickness,
			Featured:   body.Featured,
			Hidden:     body.Hidden,
		}, cfg.Bucket)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Design not found"})
		case err != nil:
			log.Printf("update design %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update design"})
		default:
			c.JSON(http.StatusOK, gin.H{"id": d.ID})
		}
	})

	r.DELETE("/api/designs/:id", func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		err := store.DeleteDesign(c.Request.Context(), id)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Design not found"})
		case err != nil:
			log.Printf("delete design %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete design"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
		}
	})

	r.GET("/api/bestsellers", func(c *gin.Context) {
		list, err := store.Bestsellers(c.Request.Context())
		if err != nil {
			log.Printf("list bestsellers: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list bestsellers"})
			return
		}
		response := make([]gin.H, 0, len(list))
		for _, d := range list {
			response = append(response, serializeDesign(d))
		}
		c.JSON(http.StatusOK, response)
	})
}
