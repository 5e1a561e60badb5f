package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/personal-card/adapters/persistence"
	authUC "github.com/khoahotran/personal-card/internal/application/usecase/auth"
	dashboardUC "github.com/khoahotran/personal-card/internal/application/usecase/dashboard"
	wizardUC "github.com/khoahotran/personal-card/internal/application/usecase/wizard"
	"github.com/khoahotran/personal-card/internal/config"
	"github.com/khoahotran/personal-card/internal/domain/user"
	"github.com/khoahotran/personal-card/pkg/auth"
	"github.com/khoahotran/personal-card/pkg/logger"
)

// AuthE2ETestSuite runs against the Postgres and Redis named in config.yaml / .env.
type AuthE2ETestSuite struct {
	suite.Suite
	Router   *gin.Engine
	dbPool   *pgxpool.Pool
	rdb      *redis.Client
	testUser user.User
	testPass string
}

func (s *AuthE2ETestSuite) SetupSuite() {
	cfg, err := config.LoadConfig("../..")
	if err != nil {
		s.T().Fatalf("Failed to load config for E2E test: %v", err)
	}
	appLogger := logger.NewZapLogger("development")

	s.dbPool, err = persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		s.T().Fatalf("E2E test failed to connect postgres: %v", err)
	}
	s.rdb, err = persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		s.T().Fatalf("E2E test failed to connect redis: %v", err)
	}

	userRepo := persistence.NewPostgresUserRepo(s.dbPool, appLogger)
	profileRepo := persistence.NewPostgresProfileRepo(s.dbPool, appLogger)
	pageRepo := persistence.NewPostgresPageRepo(s.dbPool, appLogger)

	s.testPass = "e2e_test_password_123"
	hash, _ := auth.HashPassword(s.testPass)
	s.testUser = user.User{Email: "e2e_test@example.com", PasswordHash: hash}
	if err := userRepo.Upsert(context.Background(), &s.testUser); err != nil {
		s.T().Fatalf("E2E test failed to seed user: %v", err)
	}

	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	denylist := persistence.NewRedisTokenDenylist(s.rdb)
	sessions := persistence.NewRedisWizardSessionRepo(s.rdb, time.Hour, appLogger)
	objects := &memObjects{objects: map[string][]byte{}}

	gin.SetMode(gin.TestMode)
	s.Router = NewRouter(Handlers{
		Auth: NewAuthHandler(authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger), authUC.NewLogoutUseCase(denylist, appLogger)),
		Wizard: NewWizardHandler(
			wizardUC.NewWizardUseCase(sessions, objects, profileRepo, nopEvents{}, wizardUC.Options{PictureFolder: "e2e"}, appLogger),
			0, appLogger),
		Dashboard: NewDashboardHandler(
			dashboardUC.NewDashboardUseCase(pageRepo, profileRepo, nopEvents{}, cfg.App.PublicOrigin, appLogger),
			dashboardUC.NewGetPublicPageUseCase(pageRepo, profileRepo, appLogger),
		),
	}, jwtSvc, denylist, appLogger)
}

func (s *AuthE2ETestSuite) TearDownSuite() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}

func TestAuthE2E(t *testing.T) {
	if os.Getenv("E2E_TESTS") == "" {
		t.Skip("Skipping E2E tests. Set E2E_TESTS=1 to run.")
	}
	suite.Run(t, new(AuthE2ETestSuite))
}

func (s *AuthE2ETestSuite) Test_Login_Flow() {
	bodyBad, _ := json.Marshal(gin.H{"email": s.testUser.Email, "password": "wrongpassword"})
	reqBad := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(bodyBad))
	reqBad.Header.Set("Content-Type", "application/json")

	rrBad := httptest.NewRecorder()
	s.Router.ServeHTTP(rrBad, reqBad)

	assert.Equal(s.T(), http.StatusUnauthorized, rrBad.Code)

	bodyGood, _ := json.Marshal(gin.H{"email": s.testUser.Email, "password": s.testPass})
	reqGood := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(bodyGood))
	reqGood.Header.Set("Content-Type", "application/json")

	rrGood := httptest.NewRecorder()
	s.Router.ServeHTTP(rrGood, reqGood)

	assert.Equal(s.T(), http.StatusOK, rrGood.Code)

	var loginResponse map[string]string
	json.Unmarshal(rrGood.Body.Bytes(), &loginResponse)
	accessToken := loginResponse["access_token"]
	assert.NotEmpty(s.T(), accessToken)

	reqAuth := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	reqAuth.Header.Set("Authorization", "Bearer "+accessToken)

	rrAuth := httptest.NewRecorder()
	s.Router.ServeHTTP(rrAuth, reqAuth)

	assert.Equal(s.T(), http.StatusOK, rrAuth.Code)

	reqOut := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	reqOut.Header.Set("Authorization", "Bearer "+accessToken)
	rrOut := httptest.NewRecorder()
	s.Router.ServeHTTP(rrOut, reqOut)

	assert.Equal(s.T(), http.StatusNoContent, rrOut.Code)

	reqRevoked := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	reqRevoked.Header.Set("Authorization", "Bearer "+accessToken)
	rrRevoked := httptest.NewRecorder()
	s.Router.ServeHTTP(rrRevoked, reqRevoked)

	assert.Equal(s.T(), http.StatusUnauthorized, rrRevoked.Code)
}
