package server

import "github.com/gin-gonic/gin"

func (s *Server) registerPlanRoutes() {
	s.engine.GET("/plans", s.ListPlans)
}

func (s *Server) ListPlans(c *gin.Context) {
	plans, err := s.planRepo.List(c.Request.Context(), s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "plans", "available plans", plans)
}
