package handlers

import (
	"net/http"
	"os"

	"go-repair-ledger/internal/auth"
	"go-repair-ledger/internal/models"
	"go-repair-ledger/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	rows, err := h.Store.ReadAll(c.Request.Context(), store.Users)
	if err != nil {
		fail(c, err)
		return
	}

	var user models.User
	found := false
	for _, r := range rows {
		u := models.UserFromRow(r)
		if u.Username == input.Username {
			user = u
			found = true
			break
		}
	}
	// Same response for unknown user and wrong password.
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"role":     user.Role,
		"username": user.Username,
	})
}

// Register is enabled only when ALLOW_REGISTRATION=true, for first-run setup.
func (h *Handler) Register(c *gin.Context) {
	if os.Getenv("ALLOW_REGISTRATION") != "true" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Registration is disabled"})
		return
	}

	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx := c.Request.Context()
	rows, err := h.Store.ReadAll(ctx, store.Users)
	if err != nil {
		fail(c, err)
		return
	}
	for _, r := range rows {
		if models.UserFromRow(r).Username == input.Username {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	id, err := h.Store.NextID(ctx, store.Users)
	if err != nil {
		fail(c, err)
		return
	}
	user := models.User{
		ID:           id,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		Role:         "admin",
	}
	if err := h.Store.WriteAll(ctx, store.Users, append(rows, user.Row())); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}
