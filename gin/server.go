package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studystack/paperdex"
	"github.com/studystack/paperdex/errors"
	"github.com/studystack/paperdex/log"
	"github.com/studystack/paperdex/search"
)

func New(
	store paperdex.PaperStore,
	index paperdex.PaperIndex,
	userData paperdex.UserDataStore,
	executor *search.Executor,
	parser *search.Parser,
	cache *search.ResultCache,
	logger log.Logger,
) (http.Handler, error) {
	router := gin.Default()

	// CORS
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept-Language, Authorization, Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
		}
		c.Next()
	})

	// Unknown route
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Page not found"})
	})

	// Ping
	router.GET("/paperdex/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, map[string]string{"data": "ok"})
	})

	// Papers
	paperHandler := PaperHandler{
		Store:    store,
		Index:    index,
		UserData: userData,
		Executor: executor,
		Parser:   parser,
		Cache:    cache,
		Logger:   logger,
	}
	paperHandler.RegisterRoutes(router)

	// User data
	userDataHandler := UserDataHandler{Store: userData, Logger: logger}
	userDataHandler.RegisterRoutes(router)

	return router, nil
}

// renderError writes err with the status code it carries, DefaultCode for
// plain errors.
func renderError(c *gin.Context, err error) {
	c.JSON(errors.CodeOf(err), gin.H{"error": err.Error()})
}

// userID identifies the caller for user-scoped data. Sessions are handled
// outside this service; the gateway forwards the identity in a header.
func userID(c *gin.Context) string {
	if user := c.GetHeader("X-Paperdex-User"); user != "" {
		return user
	}
	return "local"
}
