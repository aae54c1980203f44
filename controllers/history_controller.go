package controllers

import (
	"net/http"
	"strconv"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/services"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/gin-gonic/gin"
)

// Admins pick the user with ?userId= on history, schedule and message routes.
const targetQueryKey = "userId"

type HistoryController struct {
	History   *services.HistoryService
	Nutrition *services.NutritionAggregator
	Clock     utils.Clock
}

func NewHistoryController(history *services.HistoryService, nutrition *services.NutritionAggregator, clock utils.Clock) *HistoryController {
	return &HistoryController{History: history, Nutrition: nutrition, Clock: clock}
}

type AddHistoryInput struct {
	FoodID        string  `json:"food_id" binding:"required"`
	MealType      string  `json:"meal_type" binding:"required"`
	ServingAmount float64 `json:"serving_amount" binding:"required"`
	Date          string  `json:"date"`
}

// query returns the first non-empty value among keys; routes accept both
// camelCase and snake_case names.
func query(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			return v
		}
	}
	return ""
}

func (hc *HistoryController) Add(c *gin.Context) {
	var input AddHistoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	foodID, err := parseUUID(input.FoodID, "food_id")
	if err != nil {
		respondError(c, err)
		return
	}
	date, err := hc.Clock.ParseDate(input.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	rec, err := hc.History.AddConsumption(c.Request.Context(), userID, foodID, input.ServingAmount, models.MealType(input.MealType), date)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Food History Created Successfully", rec)
}

// keyParams reads the (food, meal type, day) triple that identifies a record.
func (hc *HistoryController) keyParams(c *gin.Context) (food, meal, date string) {
	return query(c, "foodId", "food_id"), query(c, "mealType", "meal_type"), c.Query("date")
}

func (hc *HistoryController) Delete(c *gin.Context) {
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	rawFood, meal, rawDate := hc.keyParams(c)
	foodID, err := parseUUID(rawFood, "foodId")
	if err != nil {
		respondError(c, err)
		return
	}
	date, err := hc.Clock.ParseDate(rawDate)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := hc.History.DeleteConsumption(c.Request.Context(), userID, foodID, models.MealType(meal), date); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food History Deleted Successfully", nil)
}

func (hc *HistoryController) Get(c *gin.Context) {
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	rawFood, meal, rawDate := hc.keyParams(c)
	foodID, err := parseUUID(rawFood, "foodId")
	if err != nil {
		respondError(c, err)
		return
	}
	date, err := hc.Clock.ParseDate(rawDate)
	if err != nil {
		respondError(c, err)
		return
	}
	rec, err := hc.History.GetConsumption(c.Request.Context(), userID, foodID, models.MealType(meal), date)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food History Found", rec)
}

// GET /food/historys?mealType&date
func (hc *HistoryController) ListByMealType(c *gin.Context) {
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	date, err := hc.Clock.ParseDate(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := hc.History.ListByMealType(c.Request.Context(), userID, models.MealType(query(c, "mealType", "meal_type")), date)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food History Found", rows)
}

// GET /food/historys/range?start&end
func (hc *HistoryController) ListRange(c *gin.Context) {
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	start, err := hc.Clock.ParseDate(query(c, "start", "start_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := hc.Clock.ParseDate(query(c, "end", "end_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := hc.History.ListRange(c.Request.Context(), userID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food History Found", rows)
}

// GET /food/history/summary?mode&date&start&end&advanced
func (hc *HistoryController) Summary(c *gin.Context) {
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	date, err := hc.Clock.ParseDate(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	start, err := parseOptionalDate(hc.Clock, query(c, "start", "start_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := parseOptionalDate(hc.Clock, query(c, "end", "end_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	advanced := true
	if v := c.Query("advanced"); v != "" {
		if advanced, err = strconv.ParseBool(v); err != nil {
			respond(c, http.StatusBadRequest, "advanced must be a boolean", nil)
			return
		}
	}

	from, to, err := hc.Nutrition.Window(c.Query("mode"), date, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	var summary *services.NutritionSummary
	if advanced {
		summary, err = hc.Nutrition.SummarizeAdvanced(c.Request.Context(), userID, from, to)
	} else {
		summary, err = hc.Nutrition.Summarize(c.Request.Context(), userID, from, to)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food History Summary Found", summary)
}
