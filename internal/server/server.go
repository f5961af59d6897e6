package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"candidate-rag/internal/service"
	"candidate-rag/internal/stream"
)

type Server struct {
	svc  *service.Service
	addr string
}

func New(svc *service.Service, addr string) *Server {
	return &Server{svc: svc, addr: addr}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	router.GET("/", s.root)
	router.GET("/candidates", s.listCandidates)
	router.GET("/candidates/:candidate_id", s.candidateSummary)
	router.POST("/search", s.search)
	return router
}

func (s *Server) Run() error {
	log.Info().Str("addr", s.addr).Msg("Starting HTTP server")
	return s.Router().Run(s.addr)
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Candidate search API is running"})
}

func (s *Server) listCandidates(c *gin.Context) {
	total, candidates, err := s.svc.ListCandidates(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list candidates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list candidates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "candidates": candidates})
}

func (s *Server) candidateSummary(c *gin.Context) {
	em := s.svc.StreamCandidateSummary(c.Request.Context(), c.Param("candidate_id"))
	s.serveStream(c, em)
}

type searchRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

func (s *Server) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	em := s.svc.StreamSearch(c.Request.Context(), req.Query, req.TopK)
	s.serveStream(c, em)
}

// serveStream relays emitter events to the client as server-sent events,
// flushing after each one so partial answers render as they arrive. The
// request context cancels the producer when the client disconnects.
func (s *Server) serveStream(c *gin.Context, em *stream.Emitter) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	for ev := range em.Events() {
		if err := stream.WriteSSE(c.Writer, ev); err != nil {
			log.Debug().Err(err).Msg("Client dropped mid-stream")
			// Keep consuming so the producer never blocks on a send to a
			// client that is gone.
			for range em.Events() {
			}
			return
		}
		flusher.Flush()
	}
}
