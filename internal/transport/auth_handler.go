package transport

import (
	"errors"
	"net/http"

	"sneakerwears-be/internal/auth"
	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/middleware"
	"sneakerwears-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users     user.Service
	jwtSecret string
	secure    bool
}

func NewAuthHandler(users user.Service, jwtSecret string, secureCookies bool) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, secure: secureCookies}
}

type signupRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Phone    *string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Avatar  *string `json:"avatar,omitempty"`
	IsAdmin bool    `json:"isAdmin"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Avatar:  u.Avatar,
		IsAdmin: u.IsAdmin,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name, email and password are required")
		return
	}

	u, err := h.users.Signup(c.Request.Context(), user.SignupParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			respondError(c, http.StatusConflict, "email already registered")
			return
		}
		if errors.Is(err, user.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.FromCtx(c.Request.Context()).Error("signup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.issueSession(c, u)
	respondOK(c, http.StatusCreated, toUserResponse(u))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		logger.FromCtx(c.Request.Context()).Error("login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.issueSession(c, u)
	respondOK(c, http.StatusOK, toUserResponse(u))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", h.secure, true)
	respondOK(c, http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) issueSession(c *gin.Context, u *user.User) {
	token, err := auth.GenerateToken(h.jwtSecret, u.ID, u.Email, u.IsAdmin)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("failed to sign token", zap.Error(err))
		return
	}

	// Seven days, matching the token TTL.
	c.SetCookie("access_token", token, 7*24*3600, "/", "", h.secure, true)
	c.Header("Authorization", "Bearer "+token)
}

type UserHandler struct {
	users user.Service
}

func NewUserHandler(users user.Service) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	u, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondOK(c, http.StatusOK, toUserResponse(u))
}

type updateProfileRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.UpdateProfile(c.Request.Context(), userID, user.UpdateProfileParams{
		Name:   req.Name,
		Phone:  req.Phone,
		Avatar: req.Avatar,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondOK(c, http.StatusOK, toUserResponse(u))
}
