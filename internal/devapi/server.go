package devapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunil-gumatimath/react-router/internal/model"
)

// Server serves a fixed job list over the same JSON API the site reads.
type Server struct {
	jobs []model.Job
	byID map[model.JobID]model.Job
}

func NewServer(jobs []model.Job) *Server {
	if jobs == nil {
		jobs = []model.Job{}
	}
	byID := make(map[model.JobID]model.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}
	return &Server{jobs: jobs, byID: byID}
}

// Routes registers GET /jobs and GET /jobs/:id.
func (s *Server) Routes(rg gin.IRoutes) {
	rg.GET("/jobs", s.List)
	rg.GET("/jobs/:id", s.Get)
}

func (s *Server) List(c *gin.Context) {
	c.JSON(http.StatusOK, s.jobs)
}

func (s *Server) Get(c *gin.Context) {
	id := model.JobID(c.Param("id"))
	job, ok := s.byID[id]
	if !ok {
		slog.DebugContext(c.Request.Context(), "job not found", "job_id", id)
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}
