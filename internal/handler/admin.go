package handler

import (
	"net/http"
	"strconv"
	"time"

	"trade-gate/internal/config"
	"trade-gate/internal/ledger"
	"trade-gate/internal/logger"
	"trade-gate/internal/model"
	"trade-gate/internal/quota"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ActiveLister is the core's read-only active-user query.
type ActiveLister interface {
	ActiveUsers() []int64
}

// AdminHandler serves the operator API: health, login, journal summary,
// live sessions, quota lookups.
type AdminHandler struct {
	admin  config.AdminConfig
	ledger ledger.Ledger
	lister ActiveLister
	quota  *quota.Tracker
}

func NewAdminHandler(admin config.AdminConfig, l ledger.Ledger, lister ActiveLister, q *quota.Tracker) *AdminHandler {
	return &AdminHandler{admin: admin, ledger: l, lister: lister, quota: q}
}

func (h *AdminHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Username != h.admin.Username ||
		bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(req.Password)) != nil {
		logger.Warn("admin login failed", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong credentials"})
		return
	}

	logger.Info("admin login ok", "username", req.Username)
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name": req.Username,
		"exp":  time.Now().Add(7 * 24 * time.Hour).Unix(),
	}).SignedString([]byte(h.admin.JWTSecret))

	c.JSON(http.StatusOK, model.LoginResponse{Token: token})
}

func (h *AdminHandler) MistakeStats(c *gin.Context) {
	stats, err := h.ledger.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]model.MistakeStatItem, 0, len(stats))
	for _, s := range stats {
		items = append(items, model.MistakeStatItem{Code: s.Code, Count: s.Count})
	}
	c.JSON(http.StatusOK, items)
}

func (h *AdminHandler) ActiveSessions(c *gin.Context) {
	users := h.lister.ActiveUsers()
	c.JSON(http.StatusOK, model.ActiveSessionsResponse{Count: len(users), Users: users})
}

func (h *AdminHandler) Quota(c *gin.Context) {
	user, err := strconv.ParseInt(c.Param("user"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	c.JSON(http.StatusOK, model.QuotaResponse{
		User:      user,
		UsedToday: h.quota.Used(user),
		MaxPerDay: h.quota.MaxPerDay(),
	})
}
