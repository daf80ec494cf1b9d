package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/constants"
	"github.com/bytservice/repair-service-api/internal/database"
	"github.com/bytservice/repair-service-api/internal/dto"
	"github.com/bytservice/repair-service-api/internal/middleware"
	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/repository"
	"github.com/bytservice/repair-service-api/internal/services"
)

type authTestEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	handler *AuthHandler
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Request{},
		&models.Comment{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	handler := NewAuthHandler(authService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/auth/login", handler.Login)
	r.GET("/auth/logout", handler.Logout)
	r.GET("/auth/me", middleware.RequireAuth(), handler.Me)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:      db,
		router:  r,
		handler: handler,
	}
}

func createAccount(t *testing.T, db *gorm.DB, login, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := services.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		FullName:     "Test " + login,
		Phone:        "+7-900-000-00-00",
		Login:        login,
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	createAccount(t, env.db, "kasoo", "root", models.RoleManager)

	w := postJSON(t, env.router, "/auth/login", map[string]string{
		"login":    "kasoo",
		"password": "root",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "kasoo", response.Login)
	require.Equal(t, models.RoleManager, response.Role)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	createAccount(t, env.db, "kasoo", "root", models.RoleManager)

	w := postJSON(t, env.router, "/auth/login", map[string]string{
		"login":    "kasoo",
		"password": "wrong",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_UnknownLogin(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/auth/login", map[string]string{
		"login":    "nobody",
		"password": "anything",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	env := setupAuthTestEnv(t)
	createAccount(t, env.db, "murashov123", "qwerty", models.RoleTechnician)

	login := postJSON(t, env.router, "/auth/login", map[string]string{
		"login":    "murashov123",
		"password": "qwerty",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "murashov123", response.Login)
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	env := setupAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout_Idempotent(t *testing.T) {
	env := setupAuthTestEnv(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}
