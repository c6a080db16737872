package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BrianDuong3003/Room-Booking-System/internal/auth"
	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
	"github.com/BrianDuong3003/Room-Booking-System/internal/mw"
	"github.com/BrianDuong3003/Room-Booking-System/internal/store"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

// Register creates a new account for an institutional email address and
// returns the user together with a signed token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parts := strings.Split(req.Email, "@")
	if len(parts) != 2 || !strings.EqualFold(parts[1], h.authCfg.EmailDomain) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email must end with @" + h.authCfg.EmailDomain})
		return
	}

	hashed, err := auth.HashPassword(req.Password, h.authCfg.BcryptCost)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}

	user := model.User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.RoleUser,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		h.abortStoreError(c, err)
		return
	}

	token, err := h.issuer.Issue(&user)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}

	log.Printf("user registered: %s", user.Email)
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.abortStoreError(c, err)
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}

	log.Printf("user logged in: %s", user.Email)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout exists for API symmetry. Tokens are stateless, so the client simply
// discards its copy.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword verifies the current password before storing a new hash.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(mw.CtxUserID)
	user, err := h.store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}

	if !auth.CheckPassword(user.Password, req.OldPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword, h.authCfg.BcryptCost)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	if err := h.store.UpdateUserPassword(c.Request.Context(), userID, hashed); err != nil {
		h.abortStoreError(c, err)
		return
	}

	log.Printf("password changed for user: %s", user.Email)
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.store.GetUserByID(c.Request.Context(), c.GetString(mw.CtxUserID))
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
