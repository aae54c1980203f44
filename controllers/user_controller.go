package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/services"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Admins pick the user to edit with ?user_id=.
const userQueryKey = "user_id"

type UserController struct {
	Users *services.UserService
	Clock utils.Clock
}

func NewUserController(users *services.UserService, clock utils.Clock) *UserController {
	return &UserController{Users: users, Clock: clock}
}

type numberUpdate func(ctx context.Context, id uuid.UUID, v float64) (*models.User, error)

// updateNumber binds {"<field>": n} and applies fn to the target user.
func (uc *UserController) updateNumber(field, message string, fn numberUpdate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]*float64
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		v := body[field]
		if v == nil {
			respond(c, http.StatusBadRequest, field+" is required", nil)
			return
		}
		id, err := targetUserID(c, userQueryKey)
		if err != nil {
			respondError(c, err)
			return
		}
		if _, err := fn(c.Request.Context(), id, *v); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, message, nil)
	}
}

type textUpdate func(ctx context.Context, id uuid.UUID, v string) (*models.User, error)

func (uc *UserController) updateText(field, message string, fn textUpdate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		v, ok := body[field]
		if !ok {
			respond(c, http.StatusBadRequest, field+" is required", nil)
			return
		}
		id, err := targetUserID(c, userQueryKey)
		if err != nil {
			respondError(c, err)
			return
		}
		if _, err := fn(c.Request.Context(), id, v); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, message, nil)
	}
}

func (uc *UserController) UpdateName() gin.HandlerFunc {
	return uc.updateText("name", "Name Updated Successful", uc.Users.UpdateName)
}

func (uc *UserController) UpdateHeight() gin.HandlerFunc {
	return uc.updateNumber("height", "Height Updated Successful", uc.Users.UpdateHeight)
}

func (uc *UserController) UpdateWeight() gin.HandlerFunc {
	return uc.updateNumber("weight", "Weight Updated Successful", uc.Users.UpdateWeight)
}

func (uc *UserController) UpdateWeightTarget() gin.HandlerFunc {
	return uc.updateNumber("weight_target", "Weight Target Updated Successful", uc.Users.UpdateWeightTarget)
}

func (uc *UserController) UpdateBMI() gin.HandlerFunc {
	return uc.updateNumber("bmi", "BMI Updated Successful", uc.Users.UpdateBMI)
}

func (uc *UserController) UpdateBMR() gin.HandlerFunc {
	return uc.updateNumber("bmr", "BMR Updated Successful", uc.Users.UpdateBMR)
}

func (uc *UserController) UpdateGender() gin.HandlerFunc {
	return uc.updateText("gender", "Gender Updated Successful", func(ctx context.Context, id uuid.UUID, v string) (*models.User, error) {
		return uc.Users.UpdateGender(ctx, id, models.Gender(v))
	})
}

func (uc *UserController) UpdateActivity() gin.HandlerFunc {
	return uc.updateText("activity", "Activity Updated Successful", func(ctx context.Context, id uuid.UUID, v string) (*models.User, error) {
		return uc.Users.UpdateActivity(ctx, id, models.Activity(v))
	})
}

func (uc *UserController) UpdateGoal() gin.HandlerFunc {
	return uc.updateText("goal", "Goal Updated Successful", func(ctx context.Context, id uuid.UUID, v string) (*models.User, error) {
		return uc.Users.UpdateGoal(ctx, id, models.Goal(v))
	})
}

func (uc *UserController) UpdateBirthday() gin.HandlerFunc {
	return uc.updateText("birthday", "Birthday Updated Successful", func(ctx context.Context, id uuid.UUID, v string) (*models.User, error) {
		if v == "" {
			return nil, fmt.Errorf("%w: birthday is required", utils.ErrInvalidInput)
		}
		day, err := uc.Clock.ParseDate(v)
		if err != nil {
			return nil, err
		}
		return uc.Users.UpdateBirthday(ctx, id, day)
	})
}

// ResetPassword runs behind the forgot-password token.
func (uc *UserController) ResetPassword(c *gin.Context) {
	var body struct {
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	id, ok := currentUser(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "missing identity", nil)
		return
	}
	if err := uc.Users.ResetPassword(c.Request.Context(), id, body.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Password Reset Successful", nil)
}

// Detail lets users read only their own profile.
func (uc *UserController) Detail(c *gin.Context) {
	id, err := parseUUID(c.Param("user_id"), "user_id")
	if err != nil {
		respondError(c, err)
		return
	}
	if self, _ := currentUser(c); !isAdmin(c) && self != id {
		respond(c, http.StatusForbidden, "cannot read another user's profile", nil)
		return
	}
	user, err := uc.Users.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User Found", user)
}

func (uc *UserController) List(c *gin.Context) {
	users, err := uc.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User Found", users)
}

func (uc *UserController) WeightHistory(c *gin.Context) {
	id, err := targetUserID(c, userQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := uc.Users.WeightHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Weight History Found", rows)
}
