package ui

import (
	"toplist/app"
	"toplist/ports"

	"github.com/gin-gonic/gin"
)

// Server represents the JSON API server
type Server struct {
	router     *gin.Engine
	research   *app.ResearchService
	validation *app.ValidationService
	items      ports.ItemRepository
}

// NewServer creates the API server and wires all routes
func NewServer(research *app.ResearchService, validation *app.ValidationService, items ports.ItemRepository) *Server {
	s := &Server{
		router:     gin.Default(),
		research:   research,
		validation: validation,
		items:      items,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleRoot())
	s.router.GET("/health", s.handleHealth())

	researchHandler := NewResearchHandler(s.research, s.validation)
	itemHandler := NewItemHandler(s.items)

	api := s.router.Group("/api")
	{
		api.POST("/research", researchHandler.HandleResearch())
		api.POST("/research/validate", researchHandler.HandleValidate())
		api.GET("/research/quick-validate", researchHandler.HandleQuickValidate())

		api.GET("/items", itemHandler.HandleSearch())
		api.GET("/items/:id", itemHandler.HandleGetByID())
		api.GET("/groups/:category", itemHandler.HandleGroups())
	}
}

func (s *Server) handleRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Welcome to the toplist research API"})
	}
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "toplist-api"})
	}
}

// Start runs the HTTP server on the given address
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
