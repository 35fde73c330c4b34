package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ent0n29/aliya/internal/bridge"
	"github.com/ent0n29/aliya/internal/config"
	"github.com/ent0n29/aliya/internal/flow"
	"github.com/ent0n29/aliya/internal/intent"
	"github.com/ent0n29/aliya/internal/interviews"
	"github.com/ent0n29/aliya/internal/memory"
	"github.com/ent0n29/aliya/internal/observability"
	"github.com/ent0n29/aliya/internal/topics"
)

// newTestServer builds a full server on in-memory collaborators. Each call
// uses a fresh metrics namespace so promauto registration never collides
// across tests.
func newTestServer(t *testing.T) (*httptest.Server, *memory.InMemoryStore) {
	t.Helper()

	cfg := config.Config{
		InterviewInactivityTimeout: time.Minute,
		BridgeTimeout:              time.Second,
		AutoAdvanceMinTurns:        2,
		AllowAnyOrigin:             true,
	}
	metrics := observability.NewMetrics(fmt.Sprintf("test_httpapi_%d", time.Now().UnixNano()))
	perf := observability.NewDecisionStageWindow(64)
	store := memory.NewInMemoryStore()

	classifier := intent.NewClassifier(nil)
	composer := bridge.NewComposer(nil, time.Second)
	controller := flow.NewController(classifier, composer, nil, cfg.AutoAdvanceMinTurns)
	registry := interviews.NewManager(cfg.InterviewInactivityTimeout)

	srv := New(cfg, registry, controller, store, metrics, perf)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return res
}

func decodeBody(t *testing.T, res *http.Response, out any) {
	t.Helper()
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createInterview(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	res := postJSON(t, ts.URL+"/v1/interviews", map[string]string{"user_id": "tester"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", res.StatusCode)
	}
	var created createInterviewResponse
	decodeBody(t, res, &created)
	if created.InterviewID == "" {
		t.Fatalf("create returned no interview id")
	}
	return created.InterviewID
}

func TestHealthAndReady(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, res.StatusCode)
		}
	}
}

func TestCreateInterviewDefaults(t *testing.T) {
	ts, _ := newTestServer(t)

	res := postJSON(t, ts.URL+"/v1/interviews", map[string]string{})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", res.StatusCode)
	}
	var created createInterviewResponse
	decodeBody(t, res, &created)
	if created.UserID != "anonymous" {
		t.Fatalf("UserID = %q, want anonymous default", created.UserID)
	}
	if created.Status != interviews.StatusActive {
		t.Fatalf("Status = %s, want active", created.Status)
	}
}

func TestProcessTurnSkipAdvances(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createInterview(t, ts)

	res := postJSON(t, ts.URL+"/v1/interviews/"+id+"/turns", map[string]string{"text": "skip this topic"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("turn status = %d, want 200", res.StatusCode)
	}
	var decision flow.Decision
	decodeBody(t, res, &decision)
	if decision.Action != flow.ActionAdvanceTopic {
		t.Fatalf("action = %s, want %s", decision.Action, flow.ActionAdvanceTopic)
	}
	if decision.NextTopic != topics.ProductServiceFootprint {
		t.Fatalf("next topic = %s", decision.NextTopic)
	}
	want := "Thank you for that information about business overview. Now let's discuss product service footprint."
	if decision.BridgeMessage != want {
		t.Fatalf("bridge = %q, want %q", decision.BridgeMessage, want)
	}
}

func TestProcessTurnValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createInterview(t, ts)

	res := postJSON(t, ts.URL+"/v1/interviews/"+id+"/turns", map[string]string{"text": "   "})
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank text status = %d, want 400", res.StatusCode)
	}
}

func TestProgressAfterTurns(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createInterview(t, ts)

	postJSON(t, ts.URL+"/v1/interviews/"+id+"/turns", map[string]string{"text": "skip this topic"}).Body.Close()

	res, err := http.Get(ts.URL + "/v1/interviews/" + id + "/progress")
	if err != nil {
		t.Fatalf("GET progress: %v", err)
	}
	var report flow.Report
	decodeBody(t, res, &report)
	if report.CoveredCount != 1 {
		t.Fatalf("CoveredCount = %d, want 1", report.CoveredCount)
	}
	if report.CurrentTopicID != topics.ProductServiceFootprint {
		t.Fatalf("CurrentTopicID = %s", report.CurrentTopicID)
	}
	if report.TurnCount != 1 {
		t.Fatalf("TurnCount = %d, want 1", report.TurnCount)
	}
}

func TestProgressUnknownInterview(t *testing.T) {
	ts, _ := newTestServer(t)
	res, err := http.Get(ts.URL + "/v1/interviews/missing/progress")
	if err != nil {
		t.Fatalf("GET progress: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.StatusCode)
	}
}

func TestRegisterQuestionAdvisory(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createInterview(t, ts)
	url := ts.URL + "/v1/interviews/" + id + "/questions"
	question := map[string]string{"text": "Can you describe your revenue growth over the past three years?"}

	var first, second questionResponse
	decodeBody(t, postJSON(t, url, question), &first)
	if first.Duplicate {
		t.Fatalf("first question flagged duplicate")
	}
	decodeBody(t, postJSON(t, url, question), &second)
	if !second.Duplicate {
		t.Fatalf("repeated question not flagged duplicate")
	}
}

func TestEndInterview(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createInterview(t, ts)

	res := postJSON(t, ts.URL+"/v1/interviews/"+id+"/end", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("end status = %d, want 200", res.StatusCode)
	}
	var body map[string]any
	decodeBody(t, res, &body)
	if body["status"] != string(interviews.StatusEnded) {
		t.Fatalf("status = %v, want ended", body["status"])
	}

	res = postJSON(t, ts.URL+"/v1/interviews/missing/end", nil)
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("end missing status = %d, want 404", res.StatusCode)
	}
}

func TestTurnPersistsRedactedTranscript(t *testing.T) {
	ts, store := newTestServer(t)
	id := createInterview(t, ts)

	postJSON(t, ts.URL+"/v1/interviews/"+id+"/turns",
		map[string]string{"text": "you can email me at owner@example.com about this"}).Body.Close()

	turns, err := store.RecentTurns(context.Background(), id, 10)
	if err != nil {
		t.Fatalf("RecentTurns() error: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("persisted turns = %d, want 1", len(turns))
	}
	if strings.Contains(turns[0].Content, "owner@example.com") {
		t.Fatalf("email persisted unredacted: %q", turns[0].Content)
	}
	if !turns[0].PIIRedacted {
		t.Fatalf("PIIRedacted flag not set")
	}
}

func TestFlowStateRestoredAcrossRegistries(t *testing.T) {
	ts, store := newTestServer(t)
	id := createInterview(t, ts)
	postJSON(t, ts.URL+"/v1/interviews/"+id+"/turns", map[string]string{"text": "skip this topic"}).Body.Close()

	state, err := store.LoadFlowState(context.Background(), id)
	if err != nil {
		t.Fatalf("LoadFlowState() error: %v", err)
	}
	if !state.CoveredTopics[0] || state.CurrentTopicIndex != 1 {
		t.Fatalf("persisted flow state wrong: %+v", state)
	}
}

func TestPerfLatencyEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createInterview(t, ts)
	postJSON(t, ts.URL+"/v1/interviews/"+id+"/turns", map[string]string{"text": "skip this topic"}).Body.Close()

	res, err := http.Get(ts.URL + "/v1/perf/latency")
	if err != nil {
		t.Fatalf("GET perf: %v", err)
	}
	var snap observability.DecisionStageSnapshot
	decodeBody(t, res, &snap)
	if len(snap.Stages) == 0 {
		t.Fatalf("no stages recorded after a turn")
	}
	if snap.Stages[0].Stage != "turn_total" {
		t.Fatalf("stage = %s, want turn_total", snap.Stages[0].Stage)
	}
}

func TestWebsocketTurnFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createInterview(t, ts)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/interviews/ws?interview_id=" + id
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer conn.Close()

	err = conn.WriteJSON(map[string]string{
		"type":         "user_turn",
		"interview_id": id,
		"text":         "skip this topic",
	})
	if err != nil {
		t.Fatalf("ws write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var decisionMsg struct {
		Type     string        `json:"type"`
		Decision flow.Decision `json:"decision"`
	}
	if err := conn.ReadJSON(&decisionMsg); err != nil {
		t.Fatalf("ws read decision: %v", err)
	}
	if decisionMsg.Type != "decision" {
		t.Fatalf("first message type = %s, want decision", decisionMsg.Type)
	}
	if decisionMsg.Decision.Action != flow.ActionAdvanceTopic {
		t.Fatalf("ws decision action = %s", decisionMsg.Decision.Action)
	}

	var progressMsg struct {
		Type     string      `json:"type"`
		Progress flow.Report `json:"progress"`
	}
	if err := conn.ReadJSON(&progressMsg); err != nil {
		t.Fatalf("ws read progress: %v", err)
	}
	if progressMsg.Type != "progress" {
		t.Fatalf("second message type = %s, want progress", progressMsg.Type)
	}
	if progressMsg.Progress.CoveredCount != 1 {
		t.Fatalf("ws progress covered = %d, want 1", progressMsg.Progress.CoveredCount)
	}
}

func TestWebsocketRejectsInvalidMessage(t *testing.T) {
	ts, _ := newTestServer(t)
	id := createInterview(t, ts)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/interviews/ws?interview_id=" + id
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`)); err != nil {
		t.Fatalf("ws write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var errMsg struct {
		Type string `json:"type"`
		Code string `json:"code"`
	}
	if err := conn.ReadJSON(&errMsg); err != nil {
		t.Fatalf("ws read error event: %v", err)
	}
	if errMsg.Type != "error_event" || errMsg.Code != "invalid_client_message" {
		t.Fatalf("error event = %+v", errMsg)
	}
}
