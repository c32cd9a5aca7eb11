package gin

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studystack/paperdex"
	"github.com/studystack/paperdex/errors"
	"github.com/studystack/paperdex/log"
	"github.com/studystack/paperdex/search"
)

type PaperHandler struct {
	Store    paperdex.PaperStore
	Index    paperdex.PaperIndex
	UserData paperdex.UserDataStore
	Executor *search.Executor
	Parser   *search.Parser
	Cache    *search.ResultCache
	Logger   log.Logger
}

func (h *PaperHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/paperdex/papers", h.Search)
	router.GET("/paperdex/papers/:id", h.Get)
	router.POST("/paperdex/papers", h.Insert)
	router.DELETE("/paperdex/papers/:id", h.Delete)
}

func (h *PaperHandler) Search(c *gin.Context) {
	params, err := parseSearchParams(c)
	if err != nil {
		renderError(c, errors.New(err.Error(), errors.WithCode(http.StatusBadRequest)))
		return
	}

	searchCtx := h.Parser.Parse(params.Query)
	payload := search.BuildPayload(params.Filters, searchCtx, params.Page, params.PageSize)

	if h.Cache != nil {
		if result, ok := h.Cache.Get(payload); ok {
			h.respondSearch(c, payload, result)
			return
		}
	}

	result, execErr := h.Executor.Execute(c.Request.Context(), payload)
	if execErr != nil {
		renderError(c, execErr)
		return
	}

	if h.Cache != nil {
		h.Cache.Put(payload, result)
	}

	// history is decoration, never worth failing a search over
	if q := strings.TrimSpace(params.Query); q != "" && h.UserData != nil {
		user := userID(c)
		go func() {
			if err := h.UserData.AddSearchHistory(user, q); err != nil {
				h.Logger.Errorf("could not record search history for %s: %v", user, err)
			}
		}()
	}

	h.respondSearch(c, payload, result)
}

func (h *PaperHandler) respondSearch(c *gin.Context, payload paperdex.SearchPayload, result paperdex.SearchResult) {
	c.JSON(http.StatusOK, gin.H{
		"data":    result.Papers,
		"total":   result.Total,
		"hasMore": result.HasMore,
		"tookMs":  result.TookMs,
		"page":    payload.Page,
	})
}

func (h *PaperHandler) Get(c *gin.Context) {
	id := c.Param("id")

	papers, err := h.Store.Get(id)
	if err != nil {
		renderError(c, errors.New("could not fetch paper", errors.WithCause(err)))
		return
	}
	if len(papers) == 0 {
		renderError(c, errors.New(fmt.Sprintf("Paper %s not found", id), errors.WithCode(http.StatusNotFound)))
		return
	}

	paper := papers[0]
	go h.recordView(userID(c), paper)

	c.JSON(http.StatusOK, gin.H{"data": paper})
}

// recordView bumps popularity and pushes a recent view. Both are
// fire-and-forget: failures are logged, never surfaced.
func (h *PaperHandler) recordView(user string, paper *paperdex.Paper) {
	if err := h.Store.IncrementPopularity(paper.ID, 1); err != nil {
		h.Logger.Errorf("could not bump popularity of %s: %v", paper.ID, err)
	}

	if h.UserData == nil {
		return
	}
	view := paperdex.RecentView{
		PaperID:  paper.ID,
		FileName: paper.FileName,
		Subject:  paper.Subject,
		ViewedAt: time.Now(),
	}
	if err := h.UserData.AddRecentView(user, view); err != nil {
		h.Logger.Errorf("could not record view of %s for %s: %v", paper.ID, user, err)
	}
}

func (h *PaperHandler) Insert(c *gin.Context) {
	var paper paperdex.Paper
	if err := c.BindJSON(&paper); err != nil {
		renderError(c, errors.New(err.Error(), errors.WithCode(http.StatusBadRequest)))
		return
	}

	if paper.ID != "" {
		renderError(c, errors.New("field id should be empty", errors.WithCode(http.StatusBadRequest)))
		return
	}
	paper.Active = true

	if err := h.Store.Upsert(&paper); err != nil {
		renderError(c, errors.New("could not save paper", errors.WithCause(err)))
		return
	}

	// searchability lags rather than failing the write when the index is down
	if err := h.Index.Index(&paper); err != nil {
		h.Logger.Errorf("could not index paper %s: %v", paper.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{"data": paper})
}

func (h *PaperHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.Store.Delete(id); err != nil {
		renderError(c, errors.New("could not delete paper", errors.WithCause(err)))
		return
	}
	if err := h.Index.Delete(id); err != nil {
		h.Logger.Errorf("could not deindex paper %s: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{"data": "ok"})
}
