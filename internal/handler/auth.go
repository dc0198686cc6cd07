package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charfaouimohammed/Atend-X/internal/errs"
	"github.com/charfaouimohammed/Atend-X/internal/models"
	"github.com/charfaouimohammed/Atend-X/internal/store"
	"github.com/charfaouimohammed/Atend-X/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves admin registration and token issuance.
type AuthHandler struct {
	Admins     store.AdminStore
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(admins store.AdminStore, jwtSecret, issuer string, ttl time.Duration, bcryptCost int) *AuthHandler {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthHandler{
		Admins:     admins,
		JWTSecret:  jwtSecret,
		Issuer:     issuer,
		TokenTTL:   ttl,
		BcryptCost: bcryptCost,
	}
}

// ---------- register ----------

type registerReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// Register creates an admin account. Duplicate email is a 400.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := util.ValidateEmail(req.Email); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "password hashing failed")
		return
	}

	admin := models.Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         "admin",
		Disabled:     false,
		CreatedAt:    time.Now(),
	}
	if err := h.Admins.Insert(c.Request.Context(), &admin); err != nil {
		util.WriteError(c, err)
		return
	}

	util.Success(c, util.Response{
		"admin": gin.H{
			"id":    admin.ID.Hex(),
			"name":  admin.Name,
			"email": admin.Email,
			"role":  admin.Role,
		},
	})
}

// ---------- token ----------

// Token exchanges admin credentials for a bearer token. The form field
// names follow the OAuth2 password flow the frontend already speaks.
func (h *AuthHandler) Token(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.PostForm("username")))
	password := c.PostForm("password")
	if email == "" || password == "" {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "incorrect email or password")
		return
	}

	admin, err := h.Admins.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "incorrect email or password")
		} else {
			util.WriteError(c, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "incorrect email or password")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, admin.ID.Hex(), admin.Email, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "token generation failed")
		return
	}

	util.Success(c, util.Response{
		"access_token": token,
		"token_type":   "bearer",
	})
}
