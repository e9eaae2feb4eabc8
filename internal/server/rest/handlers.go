package rest

import (
	"net/http"

	"github.com/gamix-app/auth-service/internal/logging"
	"github.com/gamix-app/auth-service/internal/server/auth"
	"github.com/gamix-app/auth-service/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Handler wires the auth services into gin routes.
type Handler struct {
	auth     *services.AuthService
	recovery *services.RecoveryService
	social   *services.SocialService
	tokens   *auth.TokenManager
	log      logging.Logger
}

func NewHandler(authSvc *services.AuthService, recovery *services.RecoveryService,
	social *services.SocialService, tokens *auth.TokenManager, log logging.Logger) *Handler {
	return &Handler{auth: authSvc, recovery: recovery, social: social, tokens: tokens, log: log}
}

// NewRouter builds the gin engine with all auth routes registered.
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.log))

	ag := r.Group("/auth")
	{
		ag.POST("/signup", h.SignUp)
		ag.POST("/signin", h.SignIn)
		ag.POST("/refresh-token", h.RefreshToken)
		ag.POST("/social-login/:provider", h.SocialLogin)
		ag.POST("/send-recover-email", h.SendRecoverEmail)
		ag.POST("/verify-email-code", h.VerifyEmailCode)

		protected := ag.Group("", RequireAuth(h.tokens))
		protected.POST("/change-password", h.ChangePassword)
		protected.POST("/link-provider/:provider", h.LinkProvider)
	}

	return r
}

func fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	c.JSON(status, errorBody{Error: code})
}

type tokenPairBody struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "INVALID_REQUEST"})
		return
	}

	_, pair, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokenPairBody{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "INVALID_REQUEST"})
		return
	}

	_, pair, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenPairBody{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "INVALID_REQUEST"})
		return
	}

	pair, err := h.auth.RefreshSession(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenPairBody{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

type socialLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *Handler) SocialLogin(c *gin.Context) {
	var req socialLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "INVALID_REQUEST"})
		return
	}

	_, pair, err := h.social.SignIn(c.Request.Context(), c.Param("provider"), req.Token)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenPairBody{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handler) LinkProvider(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "UNAUTHORIZED"})
		return
	}

	var req socialLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "INVALID_REQUEST"})
		return
	}

	if _, err := h.social.LinkProvider(c.Request.Context(), claims.Subject, c.Param("provider"), req.Token); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type recoverEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *Handler) SendRecoverEmail(c *gin.Context) {
	var req recoverEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "INVALID_REQUEST"})
		return
	}

	if err := h.recovery.RequestCode(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type verifyCodeRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *Handler) VerifyEmailCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "INVALID_REQUEST"})
		return
	}

	token, err := h.recovery.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}

type changePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "UNAUTHORIZED"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "INVALID_REQUEST"})
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), claims.Subject, req.Password); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
