package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/graph"
	"github.com/Jaypurnwasi/RestaurantApp/handlers"
	"github.com/Jaypurnwasi/RestaurantApp/middleware"
	"github.com/Jaypurnwasi/RestaurantApp/services"
)

type Deps struct {
	Services *services.Services
	GraphQL  *graph.Server
	Health   handlers.Pinger
	Cookie   middleware.CookieOptions
}

// SetupRoutes expects RequestID, logging and recovery to be installed already
func SetupRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.Identity(d.Services.Auth, d.Cookie))

	r.GET("/", handlers.Welcome)
	r.GET("/health", handlers.Health(d.Health))

	// queries and mutations over HTTP, subscriptions over a websocket upgrade of GET
	r.POST("/graphql", d.GraphQL.Handle)
	r.GET("/graphql", d.GraphQL.Handle)

	public := r.Group("/api")
	{
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.Authorized(auth.ActionExportMenu))
	{
		admin.GET("/menu/export", handlers.ExportMenu(d.Services.Menu))
	}
}
