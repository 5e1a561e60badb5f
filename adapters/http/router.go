package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/personal-card/pkg/auth"
	"github.com/khoahotran/personal-card/pkg/logger"
)

type Handlers struct {
	Auth      *AuthHandler
	Wizard    *WizardHandler
	Dashboard *DashboardHandler
}

// NewRouter wires every route. Everything except login, health and public pages requires a
// bearer token.
func NewRouter(h Handlers, jwtSvc *auth.JWTService, denylist auth.Denylist, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), TracingMiddleware(), ErrorMiddleware(log))

	authMiddleware := AuthMiddleware(jwtSvc, denylist, log)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.POST("/auth/login", h.Auth.Login)
		api.GET("/public/pages/:id", h.Dashboard.GetPublicPage)

		private := api.Group("")
		private.Use(authMiddleware)
		{
			private.POST("/auth/logout", h.Auth.Logout)

			wizard := private.Group("/wizard")
			{
				wizard.POST("", h.Wizard.Start)
				wizard.GET("/:id", h.Wizard.Get)
				wizard.DELETE("/:id", h.Wizard.Discard)
				wizard.POST("/:id/navigate", h.Wizard.Navigate)
				wizard.PATCH("/:id/draft", h.Wizard.UpdateDraft)
				wizard.PUT("/:id/picture", h.Wizard.SetPicture)
				wizard.DELETE("/:id/picture", h.Wizard.ClearPicture)
				wizard.POST("/:id/lists/:list/items", h.Wizard.AddListItem)
				wizard.PATCH("/:id/lists/:list/items/:index", h.Wizard.UpdateListItem)
				wizard.DELETE("/:id/lists/:list/items/:index", h.Wizard.RemoveListItem)
				wizard.POST("/:id/submit", h.Wizard.Submit)
			}

			pages := private.Group("/pages")
			{
				pages.GET("", h.Dashboard.ListPages)
				pages.DELETE("/:id", h.Dashboard.DeletePage)
				pages.GET("/:id/share", h.Dashboard.SharePage)
			}
		}
	}

	return router
}
