package v1

import (
	"fmt"
	"net/http"
	"strings"

	"cv-platform-backend/internal/delivery/http/response"
	"cv-platform-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

// NewCandidateHandler registers the profile read routes. recruiterOnly gates
// the listing and export.
func NewCandidateHandler(protected *gin.RouterGroup, candidateUC domain.CandidateUsecase, recruiterOnly gin.HandlerFunc) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	protected.GET("/check-candidate-profile/:userId", handler.CheckProfile)

	candidates := protected.Group("/candidates")
	{
		candidates.GET("", recruiterOnly, handler.List)
		candidates.GET("/export", recruiterOnly, handler.Export)
		candidates.GET("/user/:userId", handler.GetIDByUser)
		candidates.GET("/:id", handler.GetByID)
	}
}

// CheckProfile godoc
// @Summary      Does a user own a candidate profile
// @Tags         candidates
// @Produce      json
// @Param        userId  path      string  true  "Account ID"
// @Success      200     {object}  domain.ProfileCheck
// @Failure      401     {object}  response.ErrorBody
// @Router       /check-candidate-profile/{userId} [get]
// @Security     BearerAuth
func (h *CandidateHandler) CheckProfile(c *gin.Context) {
	check, err := h.candidateUC.CheckProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, check)
}

// GetIDByUser godoc
// @Summary      Candidate profile id of a user
// @Tags         candidates
// @Produce      json
// @Param        userId  path      string  true  "Account ID"
// @Success      200     {object}  map[string]string
// @Failure      404     {object}  response.ErrorBody
// @Router       /candidates/user/{userId} [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetIDByUser(c *gin.Context) {
	id, err := h.candidateUC.GetIDByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"candidateId": id})
}

// List godoc
// @Summary      List candidate profiles
// @Description  Recruiters only. Without query parameters every profile is returned.
// @Tags         candidates
// @Produce      json
// @Param        domaine  query     string    false  "Professional domain"
// @Param        search   query     string    false  "Substring of name or email"
// @Param        skills   query     []string  false  "Skills (any match)"  collectionFormat(multi)
// @Success      200      {array}   domain.CandidateProfile
// @Failure      403      {object}  response.ErrorBody
// @Router       /candidates [get]
// @Security     BearerAuth
func (h *CandidateHandler) List(c *gin.Context) {
	profiles, err := h.candidateUC.List(c.Request.Context(), listFilter(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, profiles)
}

// Export godoc
// @Summary      Export candidate profiles
// @Tags         candidates
// @Produce      octet-stream
// @Param        format  query  string  false  "xlsx (default) or csv"
// @Success      200
// @Failure      400  {object}  response.ErrorBody
// @Router       /candidates/export [get]
// @Security     BearerAuth
func (h *CandidateHandler) Export(c *gin.Context) {
	data, filename, err := h.candidateUC.Export(c.Request.Context(), domain.ExportRequest{
		Format: c.Query("format"),
		Filter: listFilter(c),
	})
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if strings.HasSuffix(filename, ".csv") {
		contentType = "text/csv; charset=utf-8"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// GetByID godoc
// @Summary      Get a candidate profile
// @Description  Candidates may only read their own profile.
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  domain.CandidateProfile
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /candidates/{id} [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetByID(c *gin.Context) {
	profile, err := h.candidateUC.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// listFilter reads domaine, search and skills (repeated or comma separated).
func listFilter(c *gin.Context) domain.ListFilter {
	var skills []string
	for _, raw := range c.QueryArray("skills") {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	}
	return domain.ListFilter{
		Domain: strings.TrimSpace(c.Query("domaine")),
		Search: strings.TrimSpace(c.Query("search")),
		Skills: skills,
	}
}
