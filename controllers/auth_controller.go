package controllers

import (
	"net/http"
	"time"

	"github.com/RamaAlqdri/sehatin/services"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/gin-gonic/gin"
)

const oauthStateCookie = "oauth_state"

type AuthController struct {
	Auth   *services.AuthService
	Google *services.GoogleOAuth // nil when Google sign-in is not configured
}

func NewAuthController(auth *services.AuthService, google *services.GoogleOAuth) *AuthController {
	return &AuthController{Auth: auth, Google: google}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OtpInput struct {
	Email   string `json:"email" binding:"required,email"`
	OtpCode string `json:"otp_code" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := ac.Auth.Register(c.Request.Context(), input.Name, input.Email, input.Password); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Register Successful", nil)
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.Auth.LoginUser(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Login Successful", gin.H{"access_token": res.AccessToken})
}

func (ac *AuthController) AdminLogin(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.Auth.LoginAdmin(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Login Successful", gin.H{"access_token": res.AccessToken})
}

// GenerateOtp mails a code. purpose "reset" sends the forgot-password mail.
func (ac *AuthController) GenerateOtp(c *gin.Context) {
	var input struct {
		Email   string `json:"email" binding:"required,email"`
		Purpose string `json:"purpose"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if err := ac.Auth.GenerateOtp(c.Request.Context(), input.Email, input.Purpose); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "OTP has been generated successfully.", nil)
}

func (ac *AuthController) VerifyOtp(c *gin.Context) {
	var input OtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.Auth.VerifyOtp(c.Request.Context(), input.Email, input.OtpCode)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "OTP verified successfully. User is now verified.", gin.H{"access_token": res.AccessToken})
}

func (ac *AuthController) VerifyForgotOtp(c *gin.Context) {
	var input OtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.Auth.VerifyForgotOtp(c.Request.Context(), input.Email, input.OtpCode)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "OTP verification successful", gin.H{"access_token": res.AccessToken})
}

func (ac *AuthController) GoogleRedirect(c *gin.Context) {
	if ac.Google == nil {
		respond(c, http.StatusServiceUnavailable, "google sign-in is not configured", nil)
		return
	}
	state := utils.GenerateRandomToken(32)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int((10 * time.Minute).Seconds()), "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusTemporaryRedirect, ac.Google.AuthCodeURL(state))
}

func (ac *AuthController) GoogleCallback(c *gin.Context) {
	if ac.Google == nil {
		respond(c, http.StatusServiceUnavailable, "google sign-in is not configured", nil)
		return
	}
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		respond(c, http.StatusUnauthorized, "invalid oauth state", nil)
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	profile, err := ac.Google.Profile(c.Request.Context(), c.Query("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := ac.Auth.GoogleLogin(c.Request.Context(), profile.Email, profile.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Login Successful", res)
}
