package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/and161185/portfolio-api/internal/model"
	"github.com/and161185/portfolio-api/internal/service"
)

func (s *Server) handleListSkills(c *gin.Context) {
	skip, limit, err := pageParams(c)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	featured, err := queryBool(c, "featured")
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	skills, err := s.deps.Skills.List(c.Request.Context(), model.SkillFilter{
		Category: c.Query("category"),
		Featured: featured,
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(skills, toSkillResponse))
}

func (s *Server) handleSkillCategories(c *gin.Context) {
	cats, err := s.deps.Skills.Categories(c.Request.Context())
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	c.JSON(http.StatusOK, cats)
}

func (s *Server) handleFeaturedSkills(c *gin.Context) {
	limit, err := queryInt(c, "limit", service.DefaultFeaturedLimit, 1, service.MaxFeaturedLimit)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	skills, err := s.deps.Skills.Featured(c.Request.Context(), limit)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(skills, toSkillResponse))
}

func (s *Server) handleCategoryDistribution(c *gin.Context) {
	dist, err := s.deps.Skills.CategoryDistribution(c.Request.Context())
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(dist, func(cc *model.CategoryCount) categoryCountResponse {
		return categoryCountResponse{Category: cc.Category, Count: cc.Count}
	}))
}

func (s *Server) handleProficiencyLevels(c *gin.Context) {
	st, err := s.deps.Skills.ProficiencyStats(c.Request.Context())
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, proficiencyResponse{Average: st.Average, Max: st.Max, Min: st.Min, Total: st.Total})
}

func (s *Server) handleGetSkill(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sk, err := s.deps.Skills.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toSkillResponse(sk))
}

func (s *Server) handleCreateSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	var sk model.Skill
	req.patch().Apply(&sk)
	created, err := s.deps.Skills.Create(c.Request.Context(), sk)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toSkillResponse(created))
}

func (s *Server) handleUpdateSkill(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	sk, err := s.deps.Skills.Update(c.Request.Context(), id, req.patch())
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toSkillResponse(sk))
}

func (s *Server) handleDeleteSkill(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.deps.Skills.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Skill deleted successfully"})
}
