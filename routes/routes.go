package routes

import (
	"net/http"
	"path/filepath"

	"questlog/handlers"
	"questlog/middleware"
	"questlog/services"
	"questlog/sessions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies is everything the HTTP layer needs from the outside.
type Dependencies struct {
	DB           *gorm.DB
	Sessions     *sessions.Manager
	Metrics      *middleware.Metrics
	CORSOrigins  []string
	CookieSecure bool
	StaticDir    string
}

// NewRouter builds the services and handlers over deps and returns the
// fully routed engine.
func NewRouter(deps Dependencies) *gin.Engine {
	authService := services.NewAuthService(deps.DB)
	gameService := services.NewGameService(deps.DB)
	playerService := services.NewPlayerService(deps.DB)
	sessionService := services.NewSessionService(deps.DB)
	characterService := services.NewCharacterService(deps.DB)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	if len(deps.CORSOrigins) > 0 {
		router.Use(middleware.CORS(deps.CORSOrigins))
	}
	router.Use(middleware.SessionGate(deps.Sessions))

	SetupRoutes(
		router,
		handlers.NewAuthHandler(authService, deps.Sessions, deps.CookieSecure),
		handlers.NewGameHandler(gameService),
		handlers.NewPlayerHandler(playerService),
		handlers.NewSessionHandler(sessionService),
		handlers.NewCharacterHandler(characterService),
	)

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if deps.StaticDir != "" {
		router.Static("/static", filepath.Join(deps.StaticDir, "static"))
	}
	router.NoRoute(handlers.NoRoute(deps.StaticDir))

	return router
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	playerHandler *handlers.PlayerHandler,
	sessionHandler *handlers.SessionHandler,
	characterHandler *handlers.CharacterHandler,
) {
	// Public auth routes
	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)
	router.GET("/check_session", authHandler.CheckSession)
	router.DELETE("/logout", authHandler.Logout)

	// Session-protected routes
	router.DELETE("/account", authHandler.DeleteAccount)

	games := router.Group("/games")
	{
		games.GET("", gameHandler.GetUserGames)
		games.POST("", gameHandler.CreateGame)
		games.GET("/:id", gameHandler.GetGame)
		games.PATCH("/:id", gameHandler.UpdateGame)
		games.DELETE("/:id", gameHandler.DeleteGame)
		games.POST("/:id/players", playerHandler.CreatePlayerInGame)
		games.POST("/:id/sessions", sessionHandler.CreateSession)
	}

	players := router.Group("/players")
	{
		players.GET("", playerHandler.GetUserPlayers)
		players.POST("", playerHandler.CreatePlayer)
		players.GET("/:id", playerHandler.GetPlayer)
		players.PATCH("/:id", playerHandler.UpdatePlayer)
		players.DELETE("/:id", playerHandler.DeletePlayer)
		players.POST("/:id/characters", characterHandler.CreateCharacter)
	}

	gameSessions := router.Group("/sessions")
	{
		gameSessions.PATCH("/:id", sessionHandler.UpdateSession)
		gameSessions.DELETE("/:id", sessionHandler.DeleteSession)
	}

	characters := router.Group("/characters")
	{
		characters.PATCH("/:id", characterHandler.UpdateCharacter)
		characters.DELETE("/:id", characterHandler.DeleteCharacter)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
