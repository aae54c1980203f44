package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/RamaAlqdri/sehatin/config"
	"github.com/RamaAlqdri/sehatin/controllers"
	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/routes"
	"github.com/RamaAlqdri/sehatin/services"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/gin-gonic/gin"
)

const (
	jwtSecret    = "route-secret"
	forgotSecret = "route-forgot"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Timestamp  string          `json:"timestamp"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *repository.Store
	auth   *services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "routes.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := repository.NewStore(db)
	clock := utils.NewClock(time.UTC)
	hub := services.NewRealtimeHub()
	notifier := services.NewNotifier(hub, nil)

	auth := services.NewAuthService(store, utils.LogMailer{}, services.TokenConfig{
		Secret: jwtSecret, TTL: time.Hour, ForgotSecret: forgotSecret, ForgotTTL: time.Minute, OTPTTL: time.Minute,
	}, clock)
	history := services.NewHistoryService(store, clock, notifier)
	nutrition := services.NewNutritionAggregator(store.History, store.Schedules, clock, utils.LookupLocale("en"))
	bot := services.NewBotService(nil)

	router := routes.SetupRouter(routes.Handlers{
		JWTSecret:       jwtSecret,
		ForgotJWTSecret: forgotSecret,
		Auth:            controllers.NewAuthController(auth, nil),
		User:            controllers.NewUserController(services.NewUserService(store, clock), clock),
		Food:            controllers.NewFoodController(services.NewFoodService(store.Foods, nil, nil)),
		History:         controllers.NewHistoryController(history, nutrition, clock),
		Schedule: &controllers.ScheduleController{
			Schedules:  services.NewScheduleService(store, clock, notifier),
			Water:      services.NewWaterService(store.Water, store.Users, clock, notifier),
			History:    history,
			Nutrition:  nutrition,
			Hydration:  services.NewHydrationAggregator(store.Water, store.Schedules, clock),
			Completion: services.NewCompletionScorer(store.Schedules),
			Weight:     services.NewWeightProgressScorer(store.Users, store.Users),
			Clock:      clock,
		},
		Message:  controllers.NewMessageController(services.NewMessageService(store.Messages, store.Users, bot, notifier, clock), bot),
		Device:   controllers.NewDeviceController(nil, store.Devices),
		Realtime: controllers.NewRealtimeController(hub, nil),
	})
	return &testServer{t: t, router: router, store: store, auth: auth}
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	if env.StatusCode != rec.Code {
		s.t.Fatalf("%s %s: envelope status %d != http %d", method, path, env.StatusCode, rec.Code)
	}
	return rec.Code, env
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/user/auth/login", "", map[string]string{"email": email, "password": password})
	if code != http.StatusCreated {
		s.t.Fatalf("login %s: %d %s", email, code, env.Message)
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		s.t.Fatalf("login data %s: %v", env.Data, err)
	}
	return data.AccessToken
}

func (s *testServer) adminToken() string {
	s.t.Helper()
	if _, err := s.auth.SeedAdmin(context.Background(), "admin@example.com", "admin-pass"); err != nil {
		s.t.Fatalf("seed admin: %v", err)
	}
	code, env := s.do(http.MethodPost, "/api/admin/auth/login", "", map[string]string{"email": "admin@example.com", "password": "admin-pass"})
	if code != http.StatusCreated {
		s.t.Fatalf("admin login: %d %s", code, env.Message)
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(env.Data, &data)
	return data.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestDietFlow(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/user/register", "", map[string]string{
		"name": "Rama", "email": "rama@example.com", "password": "secret1",
	})
	if code != http.StatusCreated || env.Message != "Register Successful" || env.Timestamp == "" {
		t.Fatalf("register: %d %+v", code, env)
	}
	if code, _ := s.do(http.MethodPost, "/api/user/register", "", map[string]string{
		"name": "Rama", "email": "rama@example.com", "password": "secret1",
	}); code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate register status = %d", code)
	}

	user := s.login("rama@example.com", "secret1")
	admin := s.adminToken()

	// only admins manage the catalog
	food := map[string]any{"name": "Nasi Uduk", "calories": 400, "serving_amount": 1, "serving_unit": "plate"}
	if code, _ := s.do(http.MethodPost, "/api/food", user, food); code != http.StatusForbidden {
		t.Fatalf("user create food status = %d", code)
	}
	code, env = s.do(http.MethodPost, "/api/food", admin, food)
	if code != http.StatusCreated {
		t.Fatalf("create food: %d %s", code, env.Message)
	}
	foodID := decode[struct {
		ID string `json:"id"`
	}](t, env.Data).ID

	code, env = s.do(http.MethodPost, "/api/food/history", user, map[string]any{
		"food_id": foodID, "meal_type": "breakfast", "serving_amount": 1.5,
	})
	if code != http.StatusCreated {
		t.Fatalf("add history: %d %s", code, env.Message)
	}

	code, env = s.do(http.MethodGet, "/api/food/history/summary?mode=7days", user, nil)
	if code != http.StatusOK {
		t.Fatalf("summary: %d %s", code, env.Message)
	}
	summary := decode[services.NutritionSummary](t, env.Data)
	if summary.TotalCalories != 600 || summary.CaloriesPerMealType.Breakfast != 600 || len(summary.GroupedCalories) != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	if code, env := s.do(http.MethodGet, "/api/food/history/summary?mode=range&start=2024-05-01", user, nil); code != http.StatusBadRequest {
		t.Fatalf("range without end: %d %s", code, env.Message)
	}

	for _, w := range []float64{80, 78, 75} {
		if code, env := s.do(http.MethodPut, "/api/user/weight", user, map[string]float64{"weight": w}); code != http.StatusOK {
			t.Fatalf("weight %v: %d %s", w, code, env.Message)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if code, _ := s.do(http.MethodPut, "/api/user/target", user, map[string]float64{"weight_target": 70}); code != http.StatusOK {
		t.Fatalf("target status = %d", code)
	}
	code, env = s.do(http.MethodGet, "/api/schedule/progress", user, nil)
	if code != http.StatusOK {
		t.Fatalf("progress: %d %s", code, env.Message)
	}
	progress := decode[services.WeightProgress](t, env.Data)
	if progress.Percentage != 50 || progress.Trend != services.TrendCloser {
		t.Fatalf("progress = %+v", progress)
	}

	code, env = s.do(http.MethodGet, "/api/schedule/completion", user, nil)
	if code != http.StatusOK {
		t.Fatalf("completion: %d %s", code, env.Message)
	}
	if score := decode[services.Score](t, env.Data); score.ShortMessage != "No Data" {
		t.Fatalf("completion = %+v", score)
	}

	if code, _ := s.do(http.MethodPost, "/api/schedule/water", user, map[string]float64{"water": 300}); code != http.StatusCreated {
		t.Fatalf("water status = %d", code)
	}
	code, env = s.do(http.MethodGet, "/api/schedule/water", user, nil)
	if code != http.StatusOK {
		t.Fatalf("daily water: %d %s", code, env.Message)
	}
	if water := decode[services.WaterSummary](t, env.Data); water.ConsumedMl != 300 {
		t.Fatalf("water = %+v", water)
	}
}

func TestAdminTargetsUserByQuery(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.auth.Register(context.Background(), "Target", "target@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	target, err := s.store.Users.GetByEmail(context.Background(), "target@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	user := s.login("target@example.com", "secret1")
	admin := s.adminToken()

	path := "/api/schedule/water?userId=" + target.ID.String()
	if code, env := s.do(http.MethodPost, path, admin, map[string]float64{"water": 200}); code != http.StatusCreated {
		t.Fatalf("admin water: %d %s", code, env.Message)
	}
	_, env := s.do(http.MethodGet, "/api/schedule/water", user, nil)
	if water := decode[services.WaterSummary](t, env.Data); water.ConsumedMl != 200 {
		t.Fatalf("user sees %+v, want the admin's entry", water)
	}

	// a user's ?userId= is ignored
	if _, err := s.auth.Register(context.Background(), "Other", "other@example.com", "secret1"); err != nil {
		t.Fatalf("register other: %v", err)
	}
	otherToken := s.login("other@example.com", "secret1")
	_, env = s.do(http.MethodGet, "/api/schedule/water?userId="+target.ID.String(), otherToken, nil)
	if water := decode[services.WaterSummary](t, env.Data); water.ConsumedMl != 0 {
		t.Fatalf("other user read target's water: %+v", water)
	}

	if code, _ := s.do(http.MethodGet, "/api/user/detail/"+target.ID.String(), otherToken, nil); code != http.StatusForbidden {
		t.Fatalf("foreign detail status = %d", code)
	}
	if code, _ := s.do(http.MethodGet, "/api/user/detail/"+target.ID.String(), admin, nil); code != http.StatusOK {
		t.Fatalf("admin detail status = %d", code)
	}
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t)

	if code, env := s.do(http.MethodGet, "/api/schedule/progress", "", nil); code != http.StatusUnauthorized || env.Message == "" {
		t.Fatalf("no token: %d %+v", code, env)
	}
	if code, _ := s.do(http.MethodGet, "/api/schedule/progress", "garbage", nil); code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d", code)
	}

	// a password-reset token is not a login token
	reset, err := utils.GenerateJWT(forgotSecret, time.Minute, "00000000-0000-0000-0000-000000000001", "x@example.com", utils.RoleUser)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if code, _ := s.do(http.MethodGet, "/api/schedule/progress", reset, nil); code != http.StatusUnauthorized {
		t.Fatalf("reset token on login route status = %d", code)
	}

	// and a login token cannot reset a password
	if _, err := s.auth.Register(context.Background(), "Pw", "pw@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	login := s.login("pw@example.com", "secret1")
	if code, _ := s.do(http.MethodPost, "/api/user/password/reset", login, map[string]string{"new_password": "another1"}); code != http.StatusUnauthorized {
		t.Fatalf("login token on reset route status = %d", code)
	}

	// a user cannot list users
	if code, _ := s.do(http.MethodGet, "/api/user", login, nil); code != http.StatusForbidden {
		t.Fatalf("user list status = %d", code)
	}

	// missing entities map to 404
	if code, _ := s.do(http.MethodGet, "/api/food/detail?id=00000000-0000-0000-0000-000000000009", login, nil); code != http.StatusNotFound {
		t.Fatalf("missing food status = %d", code)
	}

	// push is optional
	if code, _ := s.do(http.MethodPost, "/api/device", login, map[string]string{"platform": "android", "token": "abc"}); code != http.StatusServiceUnavailable {
		t.Fatalf("device register without sns status = %d", code)
	}
	if code, _ := s.do(http.MethodPut, "/api/device/notifications", login, map[string]bool{"enabled": false}); code != http.StatusOK {
		t.Fatalf("toggle notifications status = %d", code)
	}
}

func TestChatWithCannedBot(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.auth.Register(context.Background(), "Chat", "chat@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token := s.login("chat@example.com", "secret1")

	code, env := s.do(http.MethodPost, "/api/message/chat", token, map[string]string{"content": "hi"})
	if code != http.StatusCreated {
		t.Fatalf("chat: %d %s", code, env.Message)
	}
	out := decode[services.ChatExchange](t, env.Data)
	if out.Answer.Content == "" || out.Answer.Sender != "bot" {
		t.Fatalf("answer = %+v", out.Answer)
	}

	code, env = s.do(http.MethodPost, "/api/bot/generate", token, map[string]string{"prompt": ""})
	if code != http.StatusBadRequest {
		t.Fatalf("empty prompt: %d %s", code, env.Message)
	}
}
