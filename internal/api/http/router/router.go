package router

import (
	"github.com/gin-gonic/gin"

	"github.com/homeward-labs/homegate-server/internal/api/http/handler"
	"github.com/homeward-labs/homegate-server/internal/api/http/middleware"
	"github.com/homeward-labs/homegate-server/internal/logger"
	"github.com/homeward-labs/homegate-server/internal/model"
)

// Router assembles the HTTP routes and middleware.
type Router struct {
	auth           *handler.Auth
	devices        *handler.Devices
	authenticate   *middleware.Authenticate
	requestLogging *middleware.Logging
}

// AuthService is everything the HTTP surface needs from the auth service.
type AuthService interface {
	handler.AuthService
	middleware.SessionResolver
}

// New creates a new Router instance wiring services to handlers.
func New(
	authService AuthService,
	deviceService handler.DeviceService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		auth:           handler.NewAuth(authService, contextManager, logger),
		devices:        handler.NewDevices(deviceService, contextManager, logger),
		authenticate:   middleware.NewAuthenticate(authService, contextManager, logger),
		requestLogging: middleware.NewLogging(logger),
	}
}

// Register builds the gin engine with all routes and middleware attached.
// Signup and login are public; everything else requires a live session.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), r.requestLogging.Handle())

	api := engine.Group("/api")
	api.POST("/signup", r.auth.SignUp)
	api.POST("/login", r.auth.LogIn)

	authenticated := api.Group("", r.authenticate.Handle())
	authenticated.POST("/logout", r.auth.LogOut)
	authenticated.GET("/me", r.auth.Me)
	authenticated.GET("/devices", r.devices.List)
	authenticated.POST("/devices", r.devices.Register)

	return engine
}
