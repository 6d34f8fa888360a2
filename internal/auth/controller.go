package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"gradehub/internal/shared/config"
	"gradehub/internal/shared/errs"
	"gradehub/internal/shared/utils/response"
)

const refreshTokenCookie = "refreshToken"

type Controller struct {
	service   Service
	config    *config.Config
	validator *validator.Validate
}

func NewController(service Service, cfg *config.Config) *Controller {
	return &Controller{
		service:   service,
		config:    cfg,
		validator: validator.New(),
	}
}

func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Message(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.Message(ctx, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	c.setRefreshCookie(ctx, pair.RefreshToken)
	response.JSON(ctx, http.StatusCreated, AccessTokenResponse{AccessToken: pair.AccessToken})
}

func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Message(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.Message(ctx, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	c.setRefreshCookie(ctx, pair.RefreshToken)
	response.JSON(ctx, http.StatusOK, AccessTokenResponse{AccessToken: pair.AccessToken})
}

func (c *Controller) Refresh(ctx *gin.Context) {
	presented, err := ctx.Cookie(refreshTokenCookie)
	if err != nil || presented == "" {
		response.Error(ctx, errs.ErrMissingRefreshToken)
		return
	}

	accessToken, err := c.service.Refresh(ctx.Request.Context(), presented)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	response.JSON(ctx, http.StatusOK, AccessTokenResponse{AccessToken: accessToken})
}

// Logout clears the cookie and nothing else. The stored refresh token is
// not revoked server-side: a copy taken out-of-band before logout stays
// valid until the next login rotates it.
func (c *Controller) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(refreshTokenCookie, "", -1, "/", "", true, true)
	response.Message(ctx, http.StatusOK, "User logged out successfully")
}

// setRefreshCookie delivers the refresh token via a secure, http-only,
// same-site-strict cookie. It never appears in a response body.
func (c *Controller) setRefreshCookie(ctx *gin.Context, refreshToken string) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	maxAge := int(c.config.Auth.RefreshExpiresIn.Seconds())
	ctx.SetCookie(refreshTokenCookie, refreshToken, maxAge, "/", "", true, true)
}
