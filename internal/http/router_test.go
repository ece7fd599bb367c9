package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	itinerahttp "itinera/internal/http"
	"itinera/internal/http/handlers"
	"itinera/internal/infra"
	"itinera/internal/maps"
	"itinera/internal/modules/classifier"
	"itinera/internal/modules/followup"
	"itinera/internal/modules/plan"
	"itinera/internal/modules/scheduler"
	"itinera/internal/modules/slots"
	"itinera/internal/service"
)

type memPlans struct {
	mu     sync.Mutex
	plans  map[uuid.UUID]plan.PlanResult
	owners map[uuid.UUID]string
}

func newMemPlans() *memPlans {
	return &memPlans{plans: map[uuid.UUID]plan.PlanResult{}, owners: map[uuid.UUID]string{}}
}

func (m *memPlans) Save(_ context.Context, owner string, r plan.PlanResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[r.ID] = r.Clone()
	m.owners[r.ID] = owner
	return nil
}

func (m *memPlans) Get(_ context.Context, id uuid.UUID) (plan.PlanResult, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.plans[id]
	if !ok {
		return plan.PlanResult{}, "", plan.ErrNotFound
	}
	return r.Clone(), m.owners[id], nil
}

func (m *memPlans) Update(_ context.Context, r plan.PlanResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[r.ID]; !ok {
		return plan.ErrNotFound
	}
	m.plans[r.ID] = r.Clone()
	return nil
}

type stubVerifier struct{}

// VerifyIDToken treats the token itself as the uid.
func (stubVerifier) VerifyIDToken(_ context.Context, token string) (*infra.Caller, error) {
	return &infra.Caller{UID: token}, nil
}

type stubPlaces struct{}

func (stubPlaces) SearchAttractions(_ context.Context, destination, _ string) ([]maps.Place, error) {
	return []maps.Place{{Name: destination + "城"}}, nil
}

type stubRoutes struct{}

func (stubRoutes) GetTravelEstimateBy(_ context.Context, origin, destination string, pref slots.TransportPreference) (maps.TravelEstimate, error) {
	if destination == "nowhere" {
		return maps.TravelEstimate{}, maps.ErrNoRoute
	}
	return maps.TravelEstimate{Minutes: 25, Mode: string(pref)}, nil
}

type stubQuota struct{}

func (stubQuota) Remaining(_ context.Context, uid string) (int, error) {
	if uid == "broke" {
		return 0, nil
	}
	return 42, nil
}

type testAPI struct {
	router *gin.Engine
	plans  *memPlans
}

func newTestAPI(t *testing.T, withAuth, withMaps bool) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	planner := service.NewTripPlanner(service.Deps{
		Classifier: classifier.New(classifier.WithClock(clock), classifier.WithLocation(time.UTC)),
		Scheduler:  scheduler.New(time.UTC, scheduler.WithClock(clock)),
		Location:   time.UTC,
	})

	plans := newMemPlans()
	deps := itinerahttp.RouterDeps{
		Planner:  planner,
		Plans:    plans,
		Sessions: followup.NewStore(rdb, time.Minute),
		Quota:    stubQuota{},
		Location: time.UTC,
	}
	if withAuth {
		deps.Verifier = stubVerifier{}
	}
	if withMaps {
		deps.Places = stubPlaces{}
		deps.Routes = stubRoutes{}
	}
	return &testAPI{router: itinerahttp.NewRouter(deps), plans: plans}
}

func (a *testAPI) do(method, path string, body any, uid string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("Authorization", "Bearer "+uid)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type outcome struct {
	Status  string         `json:"status"`
	Plan    *plan.Document `json:"plan"`
	Session *struct {
		ID       string `json:"id"`
		Question string `json:"question"`
		Prompt   string `json:"prompt"`
	} `json:"session"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, false, false)
	w := api.do(http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("health = %d %q", w.Code, w.Body.String())
	}
}

func TestClassifyEndpoint(t *testing.T) {
	api := newTestAPI(t, false, false)
	w := api.do(http.MethodPost, "/api/classify", map[string]string{"text": "午餐"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	res := decode[classifier.Result](t, w)
	if res.InputType != classifier.TypeC {
		t.Fatalf("InputType = %s", res.InputType)
	}

	if w := api.do(http.MethodPost, "/api/classify", map[string]string{"text": "  "}, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("blank text status = %d", w.Code)
	}
}

func TestPlanLifecycle(t *testing.T) {
	api := newTestAPI(t, false, false)

	w := api.do(http.MethodPost, "/api/plans", map[string]any{"text": "下個月去東京玩五天，想放鬆"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body.String())
	}
	out := decode[outcome](t, w)
	if out.Status != handlers.StatusPlanned || out.Plan == nil || len(out.Plan.Days) != 5 {
		t.Fatalf("outcome = %+v", out)
	}
	id := out.Plan.ID

	w = api.do(http.MethodGet, "/api/plans/"+id, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	doc := decode[plan.Document](t, w)
	if doc.Version != plan.WireVersion || doc.Destination != "東京" {
		t.Fatalf("doc = %+v", doc)
	}

	w = api.do(http.MethodGet, "/api/plans/"+id+"/template", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("template status = %d", w.Code)
	}
	tpl := decode[plan.Template](t, w)
	if !strings.HasPrefix(tpl.Title, "東京・") || tpl.Days != 5 {
		t.Fatalf("template = %+v", tpl)
	}

	day := doc.Days[0]
	for i := range day.Blocks {
		if day.Blocks[i].Type == plan.BlockActivity {
			day.Blocks[i].Title = "築地市場"
			break
		}
	}
	w = api.do(http.MethodPut, "/api/plans/"+id+"/days/"+day.Date, day, "")
	if w.Code != http.StatusOK {
		t.Fatalf("put day status = %d body=%s", w.Code, w.Body.String())
	}
	updated, _, _ := api.plans.Get(context.Background(), uuid.MustParse(id))
	if updated.Days[0].Activities()[0].Title != "築地市場" {
		t.Fatalf("day not replaced: %+v", updated.Days[0])
	}

	if w := api.do(http.MethodPut, "/api/plans/"+id+"/days/2030-01-01", day, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("mismatched date status = %d", w.Code)
	}
	day.Date = "2030-01-01"
	if w := api.do(http.MethodPut, "/api/plans/"+id+"/days/2030-01-01", day, ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown day status = %d", w.Code)
	}
}

func TestPlanLookupErrors(t *testing.T) {
	api := newTestAPI(t, false, false)
	if w := api.do(http.MethodGet, "/api/plans/not-a-uuid", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", w.Code)
	}
	if w := api.do(http.MethodGet, "/api/plans/"+uuid.NewString(), nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing plan status = %d", w.Code)
	}
}

func TestPlansAreOwnedByCaller(t *testing.T) {
	api := newTestAPI(t, true, false)

	if w := api.do(http.MethodPost, "/api/plans", map[string]any{"text": "下個月去東京玩五天"}, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", w.Code)
	}
	w := api.do(http.MethodPost, "/api/plans", map[string]any{"text": "下個月去東京玩五天"}, "alice")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	id := decode[outcome](t, w).Plan.ID

	if w := api.do(http.MethodGet, "/api/plans/"+id, nil, "alice"); w.Code != http.StatusOK {
		t.Fatalf("owner status = %d", w.Code)
	}
	if w := api.do(http.MethodGet, "/api/plans/"+id, nil, "bob"); w.Code != http.StatusNotFound {
		t.Fatalf("other caller status = %d", w.Code)
	}
}

func TestFragmentStartsDialog(t *testing.T) {
	api := newTestAPI(t, false, false)

	w := api.do(http.MethodPost, "/api/plans", map[string]any{"text": "午餐"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d", w.Code)
	}
	out := decode[outcome](t, w)
	if out.Status != handlers.StatusFollowup || out.Session == nil || out.Session.Question != string(followup.QuestionDestination) {
		t.Fatalf("outcome = %+v", out)
	}
	sid := out.Session.ID

	w = api.do(http.MethodPost, "/api/followups/"+sid+"/answers", map[string]string{"answer": "京都"}, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), string(followup.QuestionDuration)) {
		t.Fatalf("first answer = %d %s", w.Code, w.Body.String())
	}

	w = api.do(http.MethodPost, "/api/followups/"+sid+"/answers", map[string]string{"question": "duration", "answer": "3"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("final answer = %d %s", w.Code, w.Body.String())
	}
	var done struct {
		Complete bool           `json:"complete"`
		Plan     *plan.Document `json:"plan"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !done.Complete || done.Plan == nil || done.Plan.Destination != "京都" || len(done.Plan.Days) != 3 {
		t.Fatalf("final = %+v", done)
	}

	if w := api.do(http.MethodPost, "/api/followups/"+sid+"/answers", map[string]string{"answer": "x"}, ""); w.Code != http.StatusNotFound {
		t.Fatalf("finished session status = %d", w.Code)
	}
}

func TestFollowupValidation(t *testing.T) {
	api := newTestAPI(t, false, false)
	w := api.do(http.MethodPost, "/api/followups", map[string]string{"text": "想出去"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var sess struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &sess)

	if w := api.do(http.MethodPost, "/api/followups/"+sess.ID+"/answers", map[string]string{"answer": " "}, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("empty answer status = %d", w.Code)
	}
	if w := api.do(http.MethodPost, "/api/followups/"+sess.ID+"/answers", map[string]string{"question": "budget", "answer": "多"}, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown question status = %d", w.Code)
	}
}

func TestMapsEndpoints(t *testing.T) {
	off := newTestAPI(t, false, false)
	if w := off.do(http.MethodGet, "/api/attractions?destination=台南", nil, ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured status = %d", w.Code)
	}

	api := newTestAPI(t, false, true)
	w := api.do(http.MethodGet, "/api/attractions?destination=台南&category=culture", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "台南城") {
		t.Fatalf("attractions = %d %s", w.Code, w.Body.String())
	}
	if w := api.do(http.MethodGet, "/api/attractions", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing destination status = %d", w.Code)
	}

	w = api.do(http.MethodGet, "/api/travel-estimate?origin=a&destination=b&mode=walking", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("estimate status = %d", w.Code)
	}
	est := decode[maps.TravelEstimate](t, w)
	if est.Minutes != 25 || est.Mode != "walking" {
		t.Fatalf("estimate = %+v", est)
	}
	if w := api.do(http.MethodGet, "/api/travel-estimate?origin=a&destination=nowhere", nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("no route status = %d", w.Code)
	}
}

func TestDialogsAreOwnedByCaller(t *testing.T) {
	api := newTestAPI(t, true, false)

	w := api.do(http.MethodPost, "/api/plans", map[string]any{"text": "午餐"}, "alice")
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d", w.Code)
	}
	sid := decode[outcome](t, w).Session.ID

	if w := api.do(http.MethodPost, "/api/followups/"+sid+"/answers", map[string]string{"answer": "京都"}, "bob"); w.Code != http.StatusNotFound {
		t.Fatalf("other caller status = %d", w.Code)
	}
	if w := api.do(http.MethodPost, "/api/followups/"+sid+"/answers", map[string]string{"answer": "京都"}, "alice"); w.Code != http.StatusOK {
		t.Fatalf("owner status = %d %s", w.Code, w.Body.String())
	}
	w = api.do(http.MethodPost, "/api/followups/"+sid+"/answers", map[string]string{"answer": "3"}, "alice")
	if w.Code != http.StatusCreated {
		t.Fatalf("final answer = %d %s", w.Code, w.Body.String())
	}
	var done struct {
		Plan *plan.Document `json:"plan"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &done)
	if done.Plan == nil {
		t.Fatalf("final = %s", w.Body.String())
	}
	if _, owner, _ := api.plans.Get(context.Background(), uuid.MustParse(done.Plan.ID)); owner != "alice" {
		t.Fatalf("plan owner = %q", owner)
	}
}

func TestQuotaEndpoint(t *testing.T) {
	anon := newTestAPI(t, false, false)
	if w := anon.do(http.MethodGet, "/api/quota", nil, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", w.Code)
	}

	api := newTestAPI(t, true, false)
	w := api.do(http.MethodGet, "/api/quota", nil, "alice")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode[struct {
		UID       string `json:"uid"`
		Remaining int    `json:"remaining"`
	}](t, w)
	if got.UID != "alice" || got.Remaining != 42 {
		t.Fatalf("quota = %+v", got)
	}
}
