package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centinela/guardia-engine/api"
	"github.com/centinela/guardia-engine/roster"
	"github.com/centinela/guardia-engine/roster/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	holidays := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
	}
	members := roster.Roster{
		{Name: "ALPHA", Rank: 1, RegistryID: 100},
		{Name: "BRAVO", Rank: 2, RegistryID: 200},
		{Name: "CHARLIE", Rank: 3, RegistryID: 300},
	}
	mem := store.NewMemory()
	svc := roster.NewService(roster.NewCalendar(2026, holidays), members, mem, mem, mem, nil)

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(svc), api.RouterOptions{}))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON issues a request and decodes the response body into a generic map.
// Endpoints that return arrays decode their bodies themselves.
func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func getList(t *testing.T, url string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

// =============================================================================
// MONTH AND DAY ENDPOINTS
// =============================================================================

func TestAPI_GetMonth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/months/Enero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Enero", body["month"])
	assert.Equal(t, float64(2026), body["year"])
	assert.Len(t, body["days"], 31)

	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(31), stats["total_days"])
	assert.Equal(t, float64(0), stats["assigned"])
}

func TestAPI_GetMonth_NumericName(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/months/2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Febrero", body["month"])
	assert.Len(t, body["days"], 28)
}

func TestAPI_GetMonth_Unknown(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/months/Smarch", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestAPI_AssignDay(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/months/Marzo/days/5",
		api.AssignRequest{Person: "ALPHA"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ALPHA", body["person"])
	assert.Equal(t, "Marzo", body["month"])
	assert.Equal(t, float64(5), body["day"])
}

func TestAPI_AssignDay_UnknownPerson(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/months/Marzo/days/5",
		api.AssignRequest{Person: "NOBODY"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_AssignDay_BadDay(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/months/Febrero/days/30",
		api.AssignRequest{Person: "ALPHA"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_AssignDay_ConflictAndForce(t *testing.T) {
	srv := newTestServer(t)

	// GIVEN: ALPHA on leave over March 5
	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/availability/ALPHA",
		api.AvailabilityRequest{Active: false, Reason: "licencia", From: "2026-03-01", To: "2026-03-10"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// WHEN: Assigning without force
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/months/Marzo/days/5",
		api.AssignRequest{Person: "ALPHA"})

	// THEN: The conflict is rejected
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// WHEN: Forcing the assignment
	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/months/Marzo/days/5",
		api.AssignRequest{Person: "ALPHA", Force: true})

	// THEN: It lands and is flagged
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["forced"])
}

func TestAPI_ClaimAndRemoveDay(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/months/Marzo/days/7/claim",
		api.SelfAssignRequest{Person: "BRAVO"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// An occupied day cannot be claimed again.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/months/Marzo/days/7/claim",
		api.SelfAssignRequest{Person: "CHARLIE"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := doJSON(t, http.MethodDelete, srv.URL+"/api/months/Marzo/days/7", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "BRAVO", body["person"])

	// Clearing an already-empty day conflicts.
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/months/Marzo/days/7", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_Suggestion(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/months/Marzo/days/10/suggestion", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["found"])
	assert.Equal(t, "ALPHA", body["person"])
	assert.Equal(t, "2026-03-10", body["date"])
}

// =============================================================================
// ALLOCATION ENDPOINTS
// =============================================================================

func TestAPI_Allocate_PreviewThenCommit(t *testing.T) {
	srv := newTestServer(t)

	// A preview returns a full plan but writes nothing.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/months/Enero/allocate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["committed"])
	assert.Len(t, body["assignments"], 31)
	assert.NotEmpty(t, body["id"])

	resp, view := doJSON(t, http.MethodGet, srv.URL+"/api/months/Enero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), view["stats"].(map[string]any)["assigned"])

	// A commit persists the plan.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/months/Enero/allocate?commit=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["committed"])

	resp, view = doJSON(t, http.MethodGet, srv.URL+"/api/months/Enero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(31), view["stats"].(map[string]any)["assigned"])
}

func TestAPI_FillPending(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/months/Enero/days/1",
		api.AssignRequest{Person: "CHARLIE"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/months/Enero/fill?commit=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["filled"], 30)

	// The manual assignment survives.
	assignments := body["assignments"].(map[string]any)
	assert.Equal(t, "CHARLIE", assignments["1"])
}

func TestAPI_Quotas(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/months/Marzo/quotas", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(31), body["total_days"])
	assert.Equal(t, float64(3), body["participants"])
	assert.Len(t, body["entries"], 3)
}

func TestAPI_ResetMonth(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/months/Enero/allocate?commit=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/months/Enero/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(31), body["removed"])
}

// =============================================================================
// PERSON, AVAILABILITY AND REPORT ENDPOINTS
// =============================================================================

func TestAPI_ListPersons(t *testing.T) {
	srv := newTestServer(t)

	var persons []api.PersonDTO
	resp := getList(t, srv.URL+"/api/persons", &persons)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, persons, 3)
	assert.Equal(t, "ALPHA", persons[0].Name)
	assert.Equal(t, 100, persons[0].RegistryID)
}

func TestAPI_Availability(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/availability/BRAVO",
		api.AvailabilityRequest{Active: false, Reason: "curso"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var statuses []api.AvailabilityDTO
	resp = getList(t, srv.URL+"/api/availability", &statuses)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, statuses, 3)

	assert.Equal(t, "BRAVO", statuses[1].Person)
	assert.False(t, statuses[1].Active)
	assert.Equal(t, "curso", statuses[1].Reason)
	assert.True(t, statuses[0].AvailableNow)
}

func TestAPI_Availability_UnknownPerson(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/availability/NOBODY",
		api.AvailabilityRequest{Active: false})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ValidateAssignment(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet,
		srv.URL+"/api/assignments/validate?month=Marzo&day=12&person=ALPHA", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "2026-03-12", body["date"])
}

func TestAPI_Distribution(t *testing.T) {
	srv := newTestServer(t)

	var report []api.DistributionMonthDTO
	resp := getList(t, srv.URL+"/api/reports/distribution?month=Enero", &report)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, report, 1)
	assert.Equal(t, "Enero", report[0].Month)
	assert.Len(t, report[0].Rows, 3)
}

func TestAPI_AnnualReport(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/reports/annual", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2026), body["year"])
	assert.Equal(t, float64(365), body["total_days"])
}

func TestAPI_PersonStats(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/months/Enero/days/5",
		api.AssignRequest{Person: "ALPHA"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/persons/ALPHA/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ALPHA", body["person"])
	assert.Equal(t, float64(1), body["totals"].(map[string]any)["total"])
}

// =============================================================================
// HISTORY AND META ENDPOINTS
// =============================================================================

func TestAPI_History(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/months/Marzo/days/5",
		api.AssignRequest{Person: "ALPHA"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []api.HistoryEventDTO
	hresp := getList(t, srv.URL+"/api/history?limit=5", &events)
	require.Equal(t, http.StatusOK, hresp.StatusCode)
	require.Len(t, events, 1)
	assert.Equal(t, "assign", events[0].Action)
	assert.Equal(t, "ALPHA", events[0].Fields["after"])
}

func TestAPI_InfoAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/info", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2026), body["year"])
	assert.Equal(t, float64(3), body["roster_size"])
	assert.Equal(t, float64(3), body["active"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
