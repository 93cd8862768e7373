package handlers

import (
	"net/http"

	"skybook/middleware"
	"skybook/models"
	userService "skybook/services/user"
	"skybook/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler wires the user service to Gin.
type UserHandler struct {
	Service userService.UserService
}

func NewUserHandler(svc userService.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

// SignupHandler handles POST /users/signup.
func (h *UserHandler) SignupHandler(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid signup payload", err.Error())
		return
	}
	resp, err := h.Service.Signup(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /users/login.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login payload", err.Error())
		return
	}
	resp, err := h.Service.Login(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMeHandler handles GET /users/me.
func (h *UserHandler) GetMeHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	usr, err := h.Service.GetMe(p)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateMeHandler handles PATCH /users/updateMe.
func (h *UserHandler) UpdateMeHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	var req models.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid update payload", err.Error())
		return
	}
	usr, err := h.Service.UpdateMe(p, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// DeleteMeHandler handles DELETE /users/deleteMe. The account is deactivated,
// not removed.
func (h *UserHandler) DeleteMeHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	if err := h.Service.DeleteMe(p); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsersHandler handles GET /users (admin).
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.Service.ListUsers(c.Request.URL.Query())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(users), "users": users})
}

// GetUserHandler handles GET /users/:id (admin).
func (h *UserHandler) GetUserHandler(c *gin.Context) {
	usr, err := h.Service.GetUser(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateUserHandler handles PATCH /users/:id (admin).
func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid update payload", err.Error())
		return
	}
	usr, err := h.Service.UpdateUser(c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// DeleteUserHandler handles DELETE /users/:id (admin).
func (h *UserHandler) DeleteUserHandler(c *gin.Context) {
	if err := h.Service.DeleteUser(c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
