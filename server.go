package main

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seo-agent/backend/agent"
	"github.com/seo-agent/backend/analyzer"
	"github.com/seo-agent/backend/ollama"
	"github.com/seo-agent/backend/report"
	"github.com/seo-agent/backend/scraper"
	"github.com/seo-agent/backend/stats"
)

// session is the single-user analysis state: the last fetched page,
// its analysis and its recommendations. Chat and report export read
// from it; a new analysis or an explicit clear replaces it.
type session struct {
	page            *scraper.PageData
	analysis        *analyzer.Result
	recommendations *agent.Recommendations
}

// Server wires the scraper, the analyzer core and the advisory agent
// behind the HTTP API.
type Server struct {
	scraper *scraper.Scraper
	agent   *agent.Agent
	ollama  *ollama.Client
	stats   *stats.Storage

	mu      sync.Mutex
	session *session
}

// NewServer creates the API server.
func NewServer(s *scraper.Scraper, a *agent.Agent, o *ollama.Client, st *stats.Storage) *Server {
	return &Server{
		scraper: s,
		agent:   a,
		ollama:  o,
		stats:   st,
	}
}

// Register mounts the API routes on the given group.
func (s *Server) Register(api *gin.RouterGroup) {
	api.GET("/health", s.handleHealth)
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/chat", s.handleChat)
	api.GET("/models", s.handleModels)
	api.GET("/report", s.handleReport)
	api.POST("/clear", s.handleClear)
	api.GET("/statistics", s.handleStatistics)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	log.Printf("Analyze request received from: %s\n", c.ClientIP())
	var request struct {
		URL string `json:"url" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL provided",
		})
		return
	}

	start := time.Now()
	page, err := s.scraper.Fetch(c.Request.Context(), request.URL)
	if err != nil {
		s.stats.RecordFetchError()
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
		})
		return
	}

	analysis := analyzer.Analyze(page)
	s.stats.RecordAnalysis(float64(time.Since(start).Milliseconds()))

	recommendations, fallback := s.agent.AnalyzeAndAdvise(c.Request.Context(), page, analysis)
	s.stats.RecordAdvisory(fallback)

	s.mu.Lock()
	s.session = &session{
		page:            page,
		analysis:        analysis,
		recommendations: recommendations,
	}
	s.mu.Unlock()
	// A fresh analysis starts a fresh conversation.
	s.agent.ClearHistory()

	c.JSON(http.StatusOK, gin.H{
		"page":            page,
		"analysis":        analysis,
		"recommendations": recommendations,
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var request struct {
		Message string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Message is required",
		})
		return
	}

	s.mu.Lock()
	current := s.session
	s.mu.Unlock()

	var chatCtx *agent.ChatContext
	if current != nil {
		chatCtx = &agent.ChatContext{
			URL:        current.page.URL,
			Score:      current.analysis.Score,
			HasScore:   true,
			MainIssues: mainIssues(current.analysis),
		}
	}

	response := s.agent.Chat(c.Request.Context(), request.Message, chatCtx)
	s.stats.RecordChatMessage()

	c.JSON(http.StatusOK, gin.H{
		"response": response,
		"history":  s.agent.History(),
	})
}

// mainIssues picks the first two issues of each category for chat
// context.
func mainIssues(analysis *analyzer.Result) []string {
	var issues []string
	for _, category := range analysis.Categories() {
		limit := min(len(category.Issues), 2)
		issues = append(issues, category.Issues[:limit]...)
	}
	return issues
}

func (s *Server) handleModels(c *gin.Context) {
	models, err := s.ollama.ListModels(c.Request.Context())
	if err != nil {
		log.Printf("Could not list models: %v", err)
		models = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"models":  models,
		"default": s.agent.Model(),
	})
}

func (s *Server) handleReport(c *gin.Context) {
	format := report.Format(c.DefaultQuery("format", string(report.FormatJSON)))

	s.mu.Lock()
	current := s.session
	s.mu.Unlock()

	if current == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "No analysis available. Analyze a website first.",
		})
		return
	}

	rep := report.Build(current.page, current.analysis, current.recommendations)
	data, err := rep.Export(format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+rep.Filename(format))
	c.Data(http.StatusOK, report.ContentType(format), data)
}

func (s *Server) handleClear(c *gin.Context) {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	s.agent.ClearHistory()

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (s *Server) handleStatistics(c *gin.Context) {
	current := s.stats.GetCurrentStats()

	c.JSON(http.StatusOK, gin.H{
		"analyses":            current.Analyses,
		"fetchErrors":         current.FetchErrors,
		"llmAdvisories":       current.LLMAdvisories,
		"fallbackAdvisories":  current.FallbackAdvisories,
		"chatMessages":        current.ChatMessages,
		"averageAnalysisTime": current.AverageAnalysisMs(),
		"months":              s.stats.GetAllMonths(),
	})
}
