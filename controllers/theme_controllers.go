package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/burger-storefront/middlewares"
	"github.com/yeremiapane/burger-storefront/services"
	"github.com/yeremiapane/burger-storefront/utils"
)

type ThemeController struct {
	*Storefront
}

func NewThemeController(sf *Storefront) *ThemeController {
	return &ThemeController{Storefront: sf}
}

// Toggle flips light/dark and goes back to the page it came from.
func (tc *ThemeController) Toggle(c *gin.Context) {
	theme, err := services.NewThemeStore(tc.Storage, middlewares.SessionID(c)).Toggle(c.Request.Context())
	if err != nil {
		utils.Error().Errorf("Error saving theme: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if c.GetHeader("Accept") == "application/json" {
		utils.RespondJSON(c, http.StatusOK, "Theme updated", gin.H{"theme": theme})
		return
	}

	target := "/"
	if ref := c.Request.Referer(); ref != "" {
		if u, err := parseLocal(ref); err == nil {
			target = u
		}
	}
	redirect(c, target)
}
