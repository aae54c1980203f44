package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/RamaAlqdri/sehatin/services"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ScheduleController struct {
	Schedules  *services.ScheduleService
	Water      *services.WaterService
	History    *services.HistoryService
	Nutrition  *services.NutritionAggregator
	Hydration  *services.HydrationAggregator
	Completion *services.CompletionScorer
	Weight     *services.WeightProgressScorer
	Clock      utils.Clock
}

func (sc *ScheduleController) Create(c *gin.Context) {
	var input services.CreateScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	sch, err := sc.Schedules.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Schedule Created Successfully", sch)
}

func (sc *ScheduleController) Detail(c *gin.Context) {
	id, err := parseUUID(c.Param("scheduleId"), "scheduleId")
	if err != nil {
		respondError(c, err)
		return
	}
	self, _ := currentUser(c)
	sch, err := sc.Schedules.Get(c.Request.Context(), id, self, isAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Schedule Found", sch)
}

func (sc *ScheduleController) ListByUser(c *gin.Context) {
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := sc.Schedules.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Schedule Found", rows)
}

// PUT /schedule?scheduleId=
func (sc *ScheduleController) Update(c *gin.Context) {
	var input services.UpdateScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if raw := c.Query("scheduleId"); raw != "" {
		id, err := parseUUID(raw, "scheduleId")
		if err != nil {
			respondError(c, err)
			return
		}
		input.ScheduleID = id
	}
	if input.ScheduleID == uuid.Nil {
		respond(c, http.StatusBadRequest, "scheduleId is required", nil)
		return
	}
	self, _ := currentUser(c)
	sch, err := sc.Schedules.Update(c.Request.Context(), self, isAdmin(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Schedule Updated Successfully", sch)
}

// PUT /schedule/complete?scheduleId=&userId=
func (sc *ScheduleController) Complete(c *gin.Context) {
	id, err := parseUUID(c.Query("scheduleId"), "scheduleId")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	sch, err := sc.Schedules.Complete(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Schedule Completed Successfully", sch)
}

// PUT /schedule/food?scheduleId=  {"food_id": "..."}
func (sc *ScheduleController) UpdateFood(c *gin.Context) {
	id, err := parseUUID(c.Query("scheduleId"), "scheduleId")
	if err != nil {
		respondError(c, err)
		return
	}
	var body struct {
		FoodID string `json:"food_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	foodID, err := parseUUID(body.FoodID, "food_id")
	if err != nil {
		respondError(c, err)
		return
	}
	self, _ := currentUser(c)
	sch, err := sc.Schedules.UpdateFood(c.Request.Context(), self, isAdmin(c), id, foodID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Food Schedule Updated Successfully", sch)
}

// dayQuery resolves the target user and ?date= shared by the day-scoped routes.
func (sc *ScheduleController) dayQuery(c *gin.Context, message string, fn func(ctx context.Context, userID uuid.UUID, date time.Time) (any, error)) {
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	date, err := sc.Clock.ParseDate(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := fn(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, message, out)
}

// GET /schedule/closest?date=
func (sc *ScheduleController) Closest(c *gin.Context) {
	sc.dayQuery(c, "Schedule Found", func(ctx context.Context, userID uuid.UUID, date time.Time) (any, error) {
		return sc.Schedules.Closest(ctx, userID, date)
	})
}

func (sc *ScheduleController) Day(c *gin.Context) {
	sc.dayQuery(c, "Schedule Found", func(ctx context.Context, userID uuid.UUID, date time.Time) (any, error) {
		return sc.Schedules.ByDay(ctx, userID, date)
	})
}

func (sc *ScheduleController) Month(c *gin.Context) {
	sc.dayQuery(c, "Schedule Found", func(ctx context.Context, userID uuid.UUID, date time.Time) (any, error) {
		return sc.Schedules.ByMonth(ctx, userID, date)
	})
}

// POST /schedule/dummy  {"month": 5, "year": 2025}
func (sc *ScheduleController) Dummy(c *gin.Context) {
	var body struct {
		Month int `json:"month" binding:"required"`
		Year  int `json:"year" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	n, err := sc.Schedules.CreateDummyMonth(c.Request.Context(), userID, body.Month, body.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Dummy Monthly Schedule Created Successfully", gin.H{"created": n})
}

// POST /schedule/water  {"water": 250}
func (sc *ScheduleController) CreateWater(c *gin.Context) {
	var body struct {
		Water float64 `json:"water" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	row, err := sc.Water.Create(c.Request.Context(), userID, body.Water)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Water Schedule Created Successfully", row)
}

// DELETE /schedule/water removes the latest entry.
func (sc *ScheduleController) DeleteLatestWater(c *gin.Context) {
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := sc.Water.DeleteLatest(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Water Deleted Successfully", nil)
}

// DELETE /schedule/water/id?id=
func (sc *ScheduleController) DeleteWater(c *gin.Context) {
	id, err := parseUUID(query(c, "id", "waterId"), "id")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := sc.Water.DeleteByID(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Water Deleted Successfully", nil)
}

func (sc *ScheduleController) WaterHistory(c *gin.Context) {
	sc.dayQuery(c, "Water Fetched", func(ctx context.Context, userID uuid.UUID, date time.Time) (any, error) {
		return sc.Water.HistoryForDay(ctx, userID, date)
	})
}

func (sc *ScheduleController) CaloriesHistory(c *gin.Context) {
	sc.dayQuery(c, "Calories Fetched", func(ctx context.Context, userID uuid.UUID, date time.Time) (any, error) {
		return sc.History.CaloriesHistoryForDay(ctx, userID, date)
	})
}

func (sc *ScheduleController) Calories(c *gin.Context) {
	sc.dayQuery(c, "Calories Fetched", func(ctx context.Context, userID uuid.UUID, date time.Time) (any, error) {
		return sc.Nutrition.DailyCalories(ctx, userID, date)
	})
}

func (sc *ScheduleController) DailyWater(c *gin.Context) {
	sc.dayQuery(c, "Water Fetched", func(ctx context.Context, userID uuid.UUID, date time.Time) (any, error) {
		return sc.Hydration.DailyWater(ctx, userID, date)
	})
}

func (sc *ScheduleController) Progress(c *gin.Context) {
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := sc.Weight.Progress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Diet Progress Fetched", out)
}

func (sc *ScheduleController) CompletionScore(c *gin.Context) {
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := sc.Completion.Score(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Schedule Completion Fetched", out)
}
