package handler

import (
	"net/http"
	"net/url"
	"strings"

	"hrsuite/internal/auth"
	"hrsuite/internal/logger"
	"hrsuite/internal/middleware"
	"hrsuite/internal/permission"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
)

// --- DTOs ---

type PhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ConfirmResetRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// MeResponse describes who is using this device and what they may open
type MeResponse struct {
	Identity   *auth.Identity  `json:"identity"`
	Provenance auth.Provenance `json:"provenance,omitempty"`
	Screens    []auth.Screen   `json:"screens"`
	Dashboard  string          `json:"dashboard,omitempty"`
	Loading    bool            `json:"loading"`
	DemoMode   bool            `json:"demo_mode"`
}

type OAuthURLResponse struct {
	URL string `json:"url"`
}

// RoleMatrix is one row of the permission matrix
type RoleMatrix struct {
	Role        permission.Role `json:"role"`
	Permissions permission.Set  `json:"permissions"`
}

// --- Handler ---

type AuthHandler struct {
	appURL string
	log    *logger.Logger
}

// NewAuthHandler creates the auth endpoints. appURL is where OAuth callbacks land the browser.
func NewAuthHandler(appURL string, log *logger.Logger) *AuthHandler {
	return &AuthHandler{appURL: strings.TrimRight(appURL, "/"), log: log}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	a := router.Group("/api/auth")
	{
		a.POST("/sign-in", h.SignIn)
		a.POST("/master", h.MasterLogin)
		a.POST("/sign-up", h.SignUp)
		a.GET("/oauth/:provider", h.OAuthURL)
		a.GET("/callback/:provider", h.OAuthCallback)
		a.POST("/otp", h.SendOTP)
		a.POST("/otp/verify", h.VerifyOTP)
		a.POST("/reset", h.ResetPassword)
		a.POST("/reset/confirm", h.ConfirmReset)
		a.POST("/sign-out", h.SignOut)
		a.GET("/me", h.Me)
		a.PUT("/profile", middleware.RequireIdentity(), h.UpdateProfile)
		a.GET("/preferences", h.GetPreferences)
		a.PUT("/preferences", h.SavePreferences)
	}
	router.GET("/api/permissions", h.Permissions)
}

func (h *AuthHandler) service(c *gin.Context) *auth.Service {
	return middleware.InstanceFrom(c).Auth
}

func (h *AuthHandler) me(c *gin.Context) MeResponse {
	svc := h.service(c)
	res := MeResponse{
		Screens:  []auth.Screen{},
		Loading:  svc.Loading(),
		DemoMode: svc.DemoMode(),
	}
	if session := svc.Session(); session != nil {
		identity := session.Identity
		res.Identity = &identity
		res.Provenance = session.Provenance
		res.Screens = auth.VisibleScreens(&identity)
		res.Dashboard = auth.DashboardFor(identity.Role)
	}
	return res
}

// SignIn godoc
// @Summary      Sign in
// @Description  Authenticates by email or employee id and password. Demo accounts are accepted when demo mode is on.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      auth.Credentials  true  "Credentials"
// @Success      200      {object}  response.Response{data=MeResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req auth.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Email == "" && req.EmployeeID == "" {
		respondError(c, auth.ErrMissingLogin)
		return
	}

	if err := h.service(c).SignIn(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.me(c)))
}

// MasterLogin godoc
// @Summary      Master access
// @Description  Opens a master demo session. Only available in demo mode.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=MeResponse}
// @Failure      403  {object}  response.Response
// @Router       /api/auth/master [post]
func (h *AuthHandler) MasterLogin(c *gin.Context) {
	if err := h.service(c).MasterLogin(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.me(c)))
}

// SignUp godoc
// @Summary      Sign up
// @Description  Registers an account and its employee profile. A confirmation email is sent.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      auth.SignUpRequest  true  "Sign up payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req auth.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.service(c).SignUp(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"message": "Check your email to confirm your account"}))
}

// OAuthURL godoc
// @Summary      Start OAuth sign in
// @Description  Returns the provider authorization URL. Pass redirect=true to get a 302 instead.
// @Tags         auth
// @Produce      json
// @Param        provider  path      string  true   "google, microsoft or linkedin_oidc"
// @Param        redirect  query     bool    false  "Redirect instead of returning JSON"
// @Success      200       {object}  response.Response{data=OAuthURLResponse}
// @Failure      404       {object}  response.Response
// @Router       /api/auth/oauth/{provider} [get]
func (h *AuthHandler) OAuthURL(c *gin.Context) {
	authURL, err := h.service(c).SignInWithOAuth(c.Request.Context(), c.Param("provider"))
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("redirect") == "true" {
		c.Redirect(http.StatusFound, authURL)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, OAuthURLResponse{URL: authURL}))
}

// OAuthCallback godoc
// @Summary      OAuth callback
// @Description  Completes the OAuth flow and sends the browser back to the app
// @Tags         auth
// @Param        provider  path   string  true  "Provider name"
// @Param        code      query  string  true  "Authorization code"
// @Param        state     query  string  true  "State issued by /oauth/{provider}"
// @Success      302
// @Router       /api/auth/callback/{provider} [get]
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		c.Redirect(http.StatusFound, h.appURL+"/login?error="+url.QueryEscape(reason))
		return
	}

	err := h.service(c).CompleteOAuth(c.Request.Context(), c.Param("provider"), c.Query("code"), c.Query("state"))
	if err != nil {
		h.log.WithError(err).Warnf("oauth callback failed", map[string]interface{}{"provider": c.Param("provider")})
		c.Redirect(http.StatusFound, h.appURL+"/login?error="+url.QueryEscape(err.Error()))
		return
	}
	c.Redirect(http.StatusFound, h.appURL+"/")
}

// SendOTP godoc
// @Summary      Send a one-time code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      PhoneRequest  true  "Phone number"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/auth/otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.service(c).SignInWithOTP(c.Request.Context(), req.Phone); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Code sent"}))
}

// VerifyOTP godoc
// @Summary      Verify a one-time code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      VerifyOTPRequest  true  "Phone and code"
// @Success      200      {object}  response.Response{data=MeResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.service(c).VerifyOTP(c.Request.Context(), req.Phone, req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.me(c)))
}

// ResetPassword godoc
// @Summary      Request a password reset email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      EmailRequest  true  "Email"
// @Success      200      {object}  response.Response
// @Router       /api/auth/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.service(c).ResetPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "If the address is registered, a reset link was sent"}))
}

// ConfirmReset godoc
// @Summary      Set a new password with a reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      ConfirmResetRequest  true  "Token and new password"
// @Success      200      {object}  response.Response{data=MeResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/auth/reset/confirm [post]
func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	var req ConfirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.service(c).ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.me(c)))
}

// SignOut godoc
// @Summary      Sign out
// @Description  Clears demo markers and the live session of this device
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=MeResponse}
// @Router       /api/auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.service(c).SignOut(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.me(c)))
}

// Me godoc
// @Summary      Current identity
// @Description  Returns the resolved identity of this device (null when signed out), its screens and landing dashboard
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=MeResponse}
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.me(c)))
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      auth.ProfileUpdate  true  "Fields to change"
// @Success      200      {object}  response.Response{data=auth.Identity}
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req auth.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	identity, err := h.service(c).UpdateProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, identity))
}

// GetPreferences godoc
// @Summary      Device preferences
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=auth.Preferences}
// @Router       /api/auth/preferences [get]
func (h *AuthHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.service(c).GetPreferences(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, prefs))
}

// SavePreferences godoc
// @Summary      Save device preferences
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      auth.Preferences  true  "Theme, language and remember me"
// @Success      200      {object}  response.Response{data=auth.Preferences}
// @Failure      400      {object}  response.Response
// @Router       /api/auth/preferences [put]
func (h *AuthHandler) SavePreferences(c *gin.Context) {
	var req auth.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	svc := h.service(c)
	if err := svc.SavePreferences(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	prefs, err := svc.GetPreferences(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, prefs))
}

// Permissions godoc
// @Summary      Permission matrix
// @Description  Lists every role with its module permissions
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]RoleMatrix}
// @Router       /api/permissions [get]
func (h *AuthHandler) Permissions(c *gin.Context) {
	roles := permission.Roles()
	out := make([]RoleMatrix, 0, len(roles))
	for _, role := range roles {
		out = append(out, RoleMatrix{Role: role, Permissions: permission.For(role)})
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}
