package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnwords/catalog"
	"learnwords/db"
	"learnwords/models"
	"learnwords/services"
	"learnwords/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// =============================================================================
// HTTP API TESTS
// =============================================================================
//
// Full router over an in-memory store and a three-day catalog:
//   Day 1: apple, bright, calm
//   Day 2: dawn
//   Day 5: (present, no words)
//
// =============================================================================

type testAPI struct {
	router *gin.Engine
	store  *db.MemoryStore
	tokens *utils.TokenManager
	userID string
	token  string
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := catalog.New(map[string][]catalog.WordEntry{
		"1": {
			{ID: 1, Word: "apple", Meaning: "a fruit", Hindi: "सेब"},
			{ID: 2, Word: "bright", Meaning: "full of light", Hindi: "उज्ज्वल"},
			{ID: 3, Word: "calm", Meaning: "peaceful", Hindi: "शांत"},
		},
		"2": {{ID: 1, Word: "dawn", Meaning: "first light", Hindi: "भोर"}},
		"5": {},
	})
	if err != nil {
		t.Fatalf("catalog.New failed: %v", err)
	}

	store := db.NewMemoryStore()
	user := &models.User{Name: "Asha", Email: "asha@example.com"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	tokens := utils.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	router := SetupRouter(Dependencies{
		Progress:       services.NewProgressService(store, c, nil),
		Tokens:         tokens,
		AllowedOrigins: []string{"http://localhost:5173"},
	})

	return &testAPI{router: router, store: store, tokens: tokens, userID: user.ID.Hex(), token: token}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	return a.doAs(t, a.token, method, path, body)
}

func (a *testAPI) doAs(t *testing.T, token, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestRoot_And_Health(t *testing.T) {
	api := setupAPI(t)

	w, _ := api.doAs(t, "", http.MethodGet, "/", nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("Learn Words Backend Running")) {
		t.Errorf("Unexpected root response: %d %s", w.Code, w.Body.String())
	}

	w, body := api.doAs(t, "", http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("Unexpected health response: %d %v", w.Code, body)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	api := setupAPI(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/courses"},
		{http.MethodGet, "/api/courses/1"},
		{http.MethodPut, "/api/courses/mark"},
		{http.MethodGet, "/api/user/progress"},
		{http.MethodGet, "/api/user/profile"},
		{http.MethodPut, "/api/user/profile"},
	}
	for _, p := range paths {
		w, body := api.doAs(t, "", p.method, p.path, nil)
		if w.Code != http.StatusUnauthorized || body["message"] != "No token provided" {
			t.Errorf("%s %s: expected 401 No token provided, got %d %v", p.method, p.path, w.Code, body)
		}
		w, body = api.doAs(t, "forged", p.method, p.path, nil)
		if w.Code != http.StatusUnauthorized || body["message"] != "Invalid token" {
			t.Errorf("%s %s: expected 401 Invalid token, got %d %v", p.method, p.path, w.Code, body)
		}
	}
}

func TestListCourses(t *testing.T) {
	api := setupAPI(t)

	w, body := api.do(t, http.MethodGet, "/api/courses", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	days := body["days"].([]interface{})
	want := []string{"Day 1", "Day 2", "Day 5"}
	if len(days) != len(want) {
		t.Fatalf("Expected %d days, got %v", len(want), days)
	}
	for i, d := range days {
		entry := d.(map[string]interface{})
		if entry["label"] != want[i] {
			t.Errorf("Day %d: expected label %q, got %v", i, want[i], entry["label"])
		}
	}
	if first := days[0].(map[string]interface{}); first["day"] != float64(1) {
		t.Errorf("Expected numeric day 1, got %v", first["day"])
	}
}

func TestGetCourseDay(t *testing.T) {
	api := setupAPI(t)

	w, body := api.do(t, http.MethodGet, "/api/courses/1", nil)
	if w.Code != http.StatusOK || body["day"] != float64(1) {
		t.Fatalf("Unexpected response: %d %v", w.Code, body)
	}
	words := body["words"].([]interface{})
	first := words[0].(map[string]interface{})
	if len(words) != 3 || first["word"] != "apple" || first["hindi"] != "सेब" || first["id"] != float64(1) {
		t.Errorf("Unexpected words: %v", words)
	}

	w, body = api.do(t, http.MethodGet, "/api/courses/5", nil)
	if w.Code != http.StatusOK || len(body["words"].([]interface{})) != 0 {
		t.Errorf("Present empty day: expected 200 with no words, got %d %v", w.Code, body)
	}

	for _, path := range []string{"/api/courses/999", "/api/courses/abc"} {
		w, body = api.do(t, http.MethodGet, path, nil)
		if w.Code != http.StatusNotFound || body["message"] != "No words found for this day." {
			t.Errorf("%s: expected 404, got %d %v", path, w.Code, body)
		}
	}
}

func TestMarkWord_Scenario(t *testing.T) {
	api := setupAPI(t)

	steps := []struct {
		word      string
		wantCount int
		wantDone  bool
	}{
		{"apple", 1, false},
		{"apple", 1, false},
		{"bright", 2, false},
		{"calm", 3, true},
	}
	for i, step := range steps {
		w, body := api.do(t, http.MethodPut, "/api/courses/mark", gin.H{"day": 1, "word": step.word})
		if w.Code != http.StatusOK {
			t.Fatalf("Step %d: expected 200, got %d %v", i, w.Code, body)
		}
		if body["message"] != "Word marked as read" {
			t.Errorf("Step %d: unexpected message %v", i, body["message"])
		}
		progress := body["progress"].(map[string]interface{})
		if n := len(progress["wordsRead"].([]interface{})); n != step.wantCount {
			t.Errorf("Step %d: expected %d words, got %d", i, step.wantCount, n)
		}
		if progress["completed"] != step.wantDone || progress["day"] != float64(1) {
			t.Errorf("Step %d: unexpected progress %v", i, progress)
		}
	}
}

func TestMarkWord_BadRequests(t *testing.T) {
	api := setupAPI(t)

	cases := []struct {
		name string
		body interface{}
	}{
		{"missing day", gin.H{"word": "apple"}},
		{"missing word", gin.H{"day": 1}},
		{"empty", gin.H{}},
		{"malformed", "{not json"},
		{"day as text", gin.H{"day": "one", "word": "apple"}},
	}
	for _, tc := range cases {
		w, _ := api.do(t, http.MethodPut, "/api/courses/mark", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, w.Code)
		}
	}

	user, _ := api.store.GetUser(context.Background(), api.userID)
	if len(user.Progress) != 0 {
		t.Errorf("Rejected marks must not create progress: %+v", user.Progress)
	}
}

func TestMarkWord_UnknownUser(t *testing.T) {
	api := setupAPI(t)
	ghost, _ := api.tokens.GenerateToken(primitive.NewObjectID().Hex(), "")

	w, body := api.doAs(t, ghost, http.MethodPut, "/api/courses/mark", gin.H{"day": 1, "word": "apple"})
	if w.Code != http.StatusNotFound || body["message"] != "User not found" {
		t.Errorf("Expected 404 User not found, got %d %v", w.Code, body)
	}
}

func TestUserProgress(t *testing.T) {
	api := setupAPI(t)
	ctx := context.Background()
	api.store.SetStreak(ctx, api.userID, 3)
	api.store.AddBadge(ctx, api.userID, "Starter")

	api.do(t, http.MethodPut, "/api/courses/mark", gin.H{"day": 2, "word": "dawn"})
	api.do(t, http.MethodPut, "/api/courses/mark", gin.H{"day": 1, "word": "apple"})
	api.do(t, http.MethodPut, "/api/courses/mark", gin.H{"day": 1, "word": "bright"})

	w, body := api.do(t, http.MethodGet, "/api/user/progress", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	user := body["user"].(map[string]interface{})
	if user["name"] != "Asha" || user["email"] != "asha@example.com" {
		t.Errorf("Unexpected identity: %v", user)
	}
	if user["streak"] != float64(3) || user["totalWordsLearned"] != float64(3) {
		t.Errorf("Unexpected stats: %v", user)
	}
	if badges := user["badges"].([]interface{}); len(badges) != 1 || badges[0] != "Starter" {
		t.Errorf("Unexpected badges: %v", badges)
	}
	progress := user["progress"].([]interface{})
	if len(progress) != 2 || progress[0].(map[string]interface{})["day"] != float64(2) {
		t.Errorf("Expected progress in first-touched order, got %v", progress)
	}
	if _, leaked := user["password"]; leaked {
		t.Error("Password must never be serialized")
	}
}

func TestUserProfile(t *testing.T) {
	api := setupAPI(t)

	api.do(t, http.MethodPut, "/api/courses/mark", gin.H{"day": 2, "word": "dawn"})
	api.do(t, http.MethodPut, "/api/courses/mark", gin.H{"day": 1, "word": "apple"})

	w, body := api.do(t, http.MethodGet, "/api/user/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	user := body["user"].(map[string]interface{})
	if user["coursesCompleted"] != float64(1) || user["totalWordsLearned"] != float64(2) {
		t.Errorf("Unexpected stats: %v", user)
	}
	if pic, present := user["profilePic"]; !present || pic != nil {
		t.Errorf("Expected profilePic null, got %v (present=%v)", pic, present)
	}
	if _, present := user["progress"]; present {
		t.Error("Profile view must not include the raw progress sequence")
	}
}

func TestUpdateProfile(t *testing.T) {
	api := setupAPI(t)

	w, body := api.do(t, http.MethodPut, "/api/user/profile", gin.H{"name": "Asha K", "profilePic": "https://cdn.example.com/a.png"})
	if w.Code != http.StatusOK || body["message"] != "Profile updated successfully" {
		t.Fatalf("Unexpected response: %d %v", w.Code, body)
	}

	// empty values leave fields untouched
	w, _ = api.do(t, http.MethodPut, "/api/user/profile", gin.H{"name": "", "profilePic": ""})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	w, _ = api.do(t, http.MethodPut, "/api/user/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Empty body: expected 200, got %d", w.Code)
	}

	_, body = api.do(t, http.MethodGet, "/api/user/profile", nil)
	user := body["user"].(map[string]interface{})
	if user["name"] != "Asha K" || user["profilePic"] != "https://cdn.example.com/a.png" {
		t.Errorf("Unexpected profile: %v", user)
	}

	w, _ = api.do(t, http.MethodPut, "/api/user/profile", "{broken")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Malformed body: expected 400, got %d", w.Code)
	}
}

func TestUserRoutes_UnknownUser(t *testing.T) {
	api := setupAPI(t)
	ghost, _ := api.tokens.GenerateToken(primitive.NewObjectID().Hex(), "")

	for _, p := range []struct{ method, path string }{
		{http.MethodGet, "/api/user/progress"},
		{http.MethodGet, "/api/user/profile"},
		{http.MethodPut, "/api/user/profile"},
	} {
		w, _ := api.doAs(t, ghost, p.method, p.path, gin.H{"name": "x"})
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", p.method, p.path, w.Code)
		}
	}
}

type failingStore struct{ *db.MemoryStore }

func (failingStore) GetUser(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection reset")
}

func TestInternalErrors_AreGeneric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := catalog.New(map[string][]catalog.WordEntry{"1": {{ID: 1, Word: "a"}}})
	tokens := utils.NewTokenManager("s", time.Hour)
	token, _ := tokens.GenerateToken(primitive.NewObjectID().Hex(), "")

	router := SetupRouter(Dependencies{
		Progress: services.NewProgressService(failingStore{db.NewMemoryStore()}, c, nil),
		Tokens:   tokens,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/progress", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("connection reset")) {
		t.Errorf("Internal error details leaked: %s", w.Body.String())
	}
}
