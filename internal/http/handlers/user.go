package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/OwaisIslam/living-real/internal/http/response"
	"github.com/OwaisIslam/living-real/internal/platform/ctxutil"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
	"github.com/OwaisIslam/living-real/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{
		log:         log.With("handler", "UserHandler"),
		userService: userService,
	}
}

// GET /api/users
func (uh *UserHandler) ListUsers(c *gin.Context) {
	users, err := uh.userService.ListAll(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

// GET /api/users/owners
func (uh *UserHandler) ListOwners(c *gin.Context) {
	users, err := uh.userService.ListOwners(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

// GET /api/users/tenants
func (uh *UserHandler) ListTenants(c *gin.Context) {
	users, err := uh.userService.ListTenants(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

// GET /api/users/:id
// A missing user is a 200 with "user": null.
func (uh *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := uh.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PATCH /api/me
// body: any of first_name, last_name, email, phone, password
func (uh *UserHandler) UpdateMe(c *gin.Context) {
	var patch services.ProfilePatch
	if !bindStrict(c, &patch) {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondAPIError(c, uh.log, errNotLoggedIn)
		return
	}
	me, err := uh.userService.UpdateProfile(c.Request.Context(), rd.UserID, patch)
	if err != nil {
		response.RespondAPIError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// DELETE /api/users/:id
func (uh *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := uh.userService.DeleteUser(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"user": deleted})
}
