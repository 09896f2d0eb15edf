package v1

import (
	"net/http"

	"cv-platform-backend/internal/delivery/http/response"
	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CVHandler struct {
	candidateUC domain.CandidateUsecase
}

// NewCVHandler registers CV generation and the two public view-counting routes.
func NewCVHandler(public, protected *gin.RouterGroup, candidateUC domain.CandidateUsecase, generateLimit gin.HandlerFunc) {
	handler := &CVHandler{candidateUC: candidateUC}

	protected.POST("/generate-pdf", generateLimit, handler.Generate)

	public.GET("/download-cv/:id", handler.Download)
	public.GET("/track-download/:id", handler.TrackDownload)
}

// Generate godoc
// @Summary      Submit a profile and generate its CV
// @Description  Creates or updates the caller's candidate profile, renders the PDF and stores it.
// @Tags         cv
// @Accept       json
// @Produce      json
// @Param        submission  body      domain.CVSubmission  true  "Profile data"
// @Success      200         {object}  domain.CVResult
// @Failure      400         {object}  response.ErrorBody
// @Failure      401         {object}  response.ErrorBody
// @Failure      403         {object}  response.ErrorBody
// @Failure      500         {object}  response.ErrorBody
// @Router       /generate-pdf [post]
// @Security     BearerAuth
func (h *CVHandler) Generate(c *gin.Context) {
	var sub domain.CVSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.Error(apperror.BadRequest("Veuillez remplir tous les champs"))
		return
	}

	result, err := h.candidateUC.GenerateCV(c.Request.Context(), sub)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// Download godoc
// @Summary      Redirect to a candidate's CV
// @Description  Counts one view per call.
// @Tags         cv
// @Param        id   path  string  true  "Candidate ID"
// @Success      302
// @Failure      404  {object}  response.ErrorBody
// @Router       /download-cv/{id} [get]
func (h *CVHandler) Download(c *gin.Context) {
	link, err := h.candidateUC.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, link)
}

// TrackDownload godoc
// @Summary      Count a CV view
// @Tags         cv
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  map[string]bool
// @Router       /track-download/{id} [get]
func (h *CVHandler) TrackDownload(c *gin.Context) {
	found, err := h.candidateUC.TrackView(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": found})
}
