package handlers

import (
	"errors"
	"math"
	"net/http"

	"cityfood/src/errs"
	"cityfood/src/models"
	"cityfood/src/security"
	"cityfood/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func (h *Handler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, value, maxAge, "/", "", false, true)
}

func (h *Handler) Login(c *gin.Context) {
	var credentials models.LoginDTO
	if err := utils.ValidateJSON(c, &credentials); err != nil {
		c.Error(err)
		return
	}

	user, err := h.admins.Authenticate(c.Request.Context(), credentials.Email, credentials.Password)
	if err != nil {
		c.Error(err)
		return
	}

	refresh, err := h.keys.NewRefreshToken(user.Id)
	if err != nil {
		c.Error(errs.InternalError(err))
		return
	}

	access, err := h.keys.NewAccessToken(user.Id, user.IsAdmin)
	if err != nil {
		c.Error(errs.InternalError(err))
		return
	}

	maxAge := int(math.Round(h.keys.RefreshExpiration.Seconds()))
	h.setRefreshCookie(c, refresh, maxAge)
	c.JSON(http.StatusOK, gin.H{"accessToken": access, "user": user.ToDTO()})
}

func (h *Handler) RefreshToken(c *gin.Context) {
	tokenStr, err := c.Cookie(refreshCookie)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			c.Error(errs.Validation("Refresh token is required to generate a new access token!"))
			return
		}

		c.Error(errs.InternalError(err))
		return
	}

	refresh, err := h.keys.DecodeRefreshToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			c.Error(errs.Unauthorized("Refresh token is expired! Please authenticate again."))
			return
		}

		c.Error(errs.Unauthorized(err.Error()))
		return
	}

	userId, err := security.UserId(refresh.RegisteredClaims)
	if err != nil {
		c.Error(errs.Unauthorized("Refresh token has an invalid subject"))
		return
	}

	// the admin flag is re-read so a demoted admin loses access on refresh
	user, err := h.admins.Refresh(c.Request.Context(), userId)
	if err != nil {
		c.Error(err)
		return
	}

	access, err := h.keys.NewAccessToken(user.Id, user.IsAdmin)
	if err != nil {
		c.Error(errs.InternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

func (h *Handler) LogOut(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
	c.Status(http.StatusOK)
}
