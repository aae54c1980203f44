package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/RamaAlqdri/sehatin/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FoodController struct {
	Foods *services.FoodService
}

func NewFoodController(foods *services.FoodService) *FoodController {
	return &FoodController{Foods: foods}
}

func (fc *FoodController) Create(c *gin.Context) {
	var input services.FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	food, err := fc.Foods.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Food Created Successfully", food)
}

func (fc *FoodController) Update(c *gin.Context) {
	id, err := parseUUID(c.Param("foodId"), "foodId")
	if err != nil {
		respondError(c, err)
		return
	}
	var patch services.FoodPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	food, err := fc.Foods.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Food Updated Successfully", food)
}

// GET /food/detail?id=
func (fc *FoodController) Detail(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		raw = c.Query("foodId")
	}
	id, err := parseUUID(raw, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	food, err := fc.Foods.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food Found", food)
}

// GET /food/filter?name=&limit=
func (fc *FoodController) Filter(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond(c, http.StatusBadRequest, "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}
	foods, err := fc.Foods.Filter(c.Request.Context(), c.Query("name"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Filtered Foods Found", foods)
}

func (fc *FoodController) List(c *gin.Context) {
	foods, err := fc.Foods.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food Found", foods)
}

// GET /food/many?ids=a,b
func (fc *FoodController) Many(c *gin.Context) {
	var ids []uuid.UUID
	for _, part := range strings.Split(c.Query("ids"), ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, err := parseUUID(part, "ids")
		if err != nil {
			respondError(c, err)
			return
		}
		ids = append(ids, id)
	}
	foods, err := fc.Foods.Many(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food Found", foods)
}

func (fc *FoodController) Recommendation(c *gin.Context) {
	foods, err := fc.Foods.Recommendations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food Found", foods)
}

// POST /food/recognize  { "image_base64": "data:..." }
func (fc *FoodController) Recognize(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := fc.Foods.Recognize(c.Request.Context(), req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food Recognized", out)
}

// POST /food/image  {"image_base64": "data:image/png;base64,..."}
func (fc *FoodController) UploadImage(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	url, err := fc.Foods.UploadImage(c.Request.Context(), req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Image Uploaded", gin.H{"url": url})
}
