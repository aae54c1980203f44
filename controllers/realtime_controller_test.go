package controllers_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RamaAlqdri/sehatin/controllers"
	"github.com/RamaAlqdri/sehatin/middlewares"
	"github.com/RamaAlqdri/sehatin/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func TestRealtimeStreamDeliversEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := services.NewRealtimeHub()
	rc := controllers.NewRealtimeController(hub, nil)
	userID := uuid.New()

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set(middlewares.CtxUserID, userID)
		c.Set(middlewares.CtxRole, "user")
	}, rc.Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connected(userID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	services.NewNotifier(hub, nil).Emit(userID, services.EventWaterLogged, map[string]float64{"amount_ml": 250})
	hub.Broadcast(uuid.New(), "not for this user")

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event struct {
		Kind string             `json:"kind"`
		Data map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	if event.Kind != services.EventWaterLogged || event.Data["amount_ml"] != 250 {
		t.Fatalf("event = %+v", event)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Connected(userID) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRealtimeRejectsForeignOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rc := controllers.NewRealtimeController(services.NewRealtimeHub(), []string{"https://app.example.com"})

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { c.Set(middlewares.CtxUserID, uuid.New()) }, rc.Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	header := map[string][]string{"Origin": {"https://evil.example.com"}}
	if _, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", header); err == nil {
		t.Fatal("foreign origin accepted")
	}
}
