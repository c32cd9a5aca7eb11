package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studystack/paperdex"
	"github.com/studystack/paperdex/errors"
	"github.com/studystack/paperdex/log"
)

type UserDataHandler struct {
	Store  paperdex.UserDataStore
	Logger log.Logger
}

func (h *UserDataHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/paperdex/me/favorites", h.Favorites)
	router.POST("/paperdex/me/favorites/:id", h.ToggleFavorite)
	router.GET("/paperdex/me/recent-views", h.RecentViews)
	router.GET("/paperdex/me/search-history", h.SearchHistory)
}

func (h *UserDataHandler) Favorites(c *gin.Context) {
	favorites, err := h.Store.Favorites(userID(c))
	if err != nil {
		renderError(c, errors.New("could not list favorites", errors.WithCause(err)))
		return
	}
	if favorites == nil {
		favorites = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"data": favorites})
}

func (h *UserDataHandler) ToggleFavorite(c *gin.Context) {
	favorited, err := h.Store.ToggleFavorite(userID(c), c.Param("id"))
	if err != nil {
		renderError(c, errors.New("could not toggle favorite", errors.WithCause(err)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"favorited": favorited}})
}

func (h *UserDataHandler) RecentViews(c *gin.Context) {
	views, err := h.Store.RecentViews(userID(c))
	if err != nil {
		renderError(c, errors.New("could not list recent views", errors.WithCause(err)))
		return
	}
	if views == nil {
		views = []paperdex.RecentView{}
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *UserDataHandler) SearchHistory(c *gin.Context) {
	history, err := h.Store.SearchHistory(userID(c))
	if err != nil {
		renderError(c, errors.New("could not list search history", errors.WithCause(err)))
		return
	}
	if history == nil {
		history = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"data": history})
}
