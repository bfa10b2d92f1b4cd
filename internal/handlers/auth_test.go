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
	"github.com/sejins/studyhub/internal/constants"
	"github.com/sejins/studyhub/internal/database"
	"github.com/sejins/studyhub/internal/dto"
	"github.com/sejins/studyhub/internal/mail"
	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/queue"
	"github.com/sejins/studyhub/internal/repository"
	"github.com/sejins/studyhub/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db             *gorm.DB
	handler        *AuthHandler
	accountService *services.AccountService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Account{},
		&models.Tag{},
		&models.Zone{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	taskQueue := queue.NewSyncQueue(queue.Mux{
		queue.TaskMailDeliver: mail.DeliveryHandler(&mail.LogSender{}),
	})

	accountRepo := repository.NewAccountRepository(db)
	tagRepo := repository.NewTagRepository(db)
	zoneRepo := repository.NewZoneRepository(db)
	accountService := services.NewAccountService(accountRepo, tagRepo, zoneRepo, taskQueue, "http://localhost:8080")
	handler := NewAuthHandler(accountService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:             db,
		handler:        handler,
		accountService: accountService,
	}
}

func authRouter(env authTestEnv) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/signup", env.handler.Signup)
	r.POST("/api/auth/login", env.handler.Login)
	r.GET("/api/auth/check-email-token", env.handler.CheckEmailToken)
	return r
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	payload := map[string]string{
		"email":    "alice@example.com",
		"nickname": "alice",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.AccountDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, payload["nickname"], response.Nickname)
	require.False(t, response.EmailVerified)
}

func TestAuthHandler_SignupDuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	_, err := env.accountService.Signup(services.SignupInput{
		Email:    "alice@example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{
		"email":    "alice@example.com",
		"nickname": "other",
		"password": "supersecret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	_, err := env.accountService.Signup(services.SignupInput{
		Email:    "alice@example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{
		"email_or_nickname": "alice",
		"password":          "supersecret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AccountDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice", response.Nickname)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	_, err := env.accountService.Signup(services.SignupInput{
		Email:    "alice@example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{
		"email_or_nickname": "alice",
		"password":          "wrong-password",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_CheckEmailToken(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	account, err := env.accountService.Signup(services.SignupInput{
		Email:    "alice@example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet,
		"/api/auth/check-email-token?email=alice%40example.com&token="+account.EmailCheckToken, nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AccountDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.EmailVerified)
}

func TestAuthHandler_CheckEmailTokenInvalid(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	_, err := env.accountService.Signup(services.SignupInput{
		Email:    "alice@example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet,
		"/api/auth/check-email-token?email=alice%40example.com&token=bogus", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_GetCurrentAccount(t *testing.T) {
	env := setupAuthTestEnv(t)

	account, err := env.accountService.Signup(services.SignupInput{
		Email:    "alice@example.com",
		Nickname: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyAccountID, account.ID)

	env.handler.GetCurrentAccount(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AccountDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, account.Nickname, response.Nickname)
}
