package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/OwaisIslam/living-real/internal/http/response"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
	"github.com/OwaisIslam/living-real/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		authService: authService,
		userService: userService,
	}
}

// POST /api/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindStrict(c, &req) {
		return
	}
	user, err := ah.userService.Register(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"token":      res.Token,
		"user":       res.User,
		"expires_in": int(ah.authService.GetAccessTTL().Seconds()),
	})
}
