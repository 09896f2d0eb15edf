package v1

import (
	"net/http"

	"cv-platform-backend/internal/delivery/http/response"
	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, limit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	publicAuth := public.Group("/auth", limit)
	{
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/login", handler.Login)
	}

	protected.GET("/auth/user", handler.Me)
}

// Register godoc
// @Summary      Register an account
// @Description  Creates a candidate or recruiter account and returns a signed token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterRequest  true  "Account details"
// @Success      200       {object}  domain.AuthResult
// @Failure      400       {object}  response.ErrorBody
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Veuillez remplir tous les champs"))
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      domain.LoginRequest  true  "Credentials"
// @Success      200    {object}  domain.AuthResult
// @Failure      400    {object}  response.ErrorBody
// @Failure      429    {object}  response.ErrorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Veuillez remplir tous les champs"))
		return
	}

	meta := domain.LoginMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(string(domain.KeyRequestID)),
	}
	result, err := h.authUC.Login(c.Request.Context(), req, meta)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// Me godoc
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /auth/user [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	identity, _ := domain.IdentityFromContext(c.Request.Context())

	account, err := h.authUC.GetCurrentUser(c.Request.Context(), identity.ID)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, account)
}
