package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expensed/internal/core"
	"expensed/internal/service"
	"expensed/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.NewExpenseService(memory.New(), nil)
	ts := httptest.NewServer(NewServer(":0", svc).Server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func createExpense(t *testing.T, ts *httptest.Server, category string, amount float64, date string) core.Expense {
	t.Helper()
	body := fmt.Sprintf(`{"category":%q,"amount":%v,"date":%q}`, category, amount, date)
	resp, data := doJSON(t, http.MethodPost, ts.URL+"/expenses/", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create returned %d: %s", resp.StatusCode, data)
	}
	var e core.Expense
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("decode created expense: %v (%s)", err, data)
	}
	return e
}

func TestRootLiveness(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestCreateExpense(t *testing.T) {
	ts := newTestServer(t)
	e := createExpense(t, ts, "Food", 12.5, "2024-01-15")
	if e.ID == 0 {
		t.Fatalf("expected assigned id, got %+v", e)
	}
	if e.Category != "Food" || e.Amount != 12.5 || e.Date.String() != "2024-01-15" {
		t.Fatalf("created record mismatch: %+v", e)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	ts := newTestServer(t)
	cases := []string{
		`{"category":"Food","amount":0,"date":"2024-01-15"}`,
		`{"category":"Food","amount":-3,"date":"2024-01-15"}`,
		`{"category":"","amount":10,"date":"2024-01-15"}`,
		`{"category":"` + strings.Repeat("x", 51) + `","amount":10,"date":"2024-01-15"}`,
		`{"category":"Food","amount":10}`,
		`not json`,
	}
	for _, body := range cases {
		resp, data := doJSON(t, http.MethodPost, ts.URL+"/expenses/", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d (%s)", body, resp.StatusCode, data)
		}
	}
}

func TestListExpensesEmptyIs404(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/expenses/", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for empty table, got %d", resp.StatusCode)
	}
}

func TestListExpenses(t *testing.T) {
	ts := newTestServer(t)
	createExpense(t, ts, "Food", 10, "2024-01-01")
	createExpense(t, ts, "Travel", 20, "2024-01-02")

	resp, data := doJSON(t, http.MethodGet, ts.URL+"/expenses/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got []core.Expense
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %+v", got)
	}
}

func TestListByCategoryCaseInsensitive(t *testing.T) {
	ts := newTestServer(t)
	createExpense(t, ts, "Food", 10, "2024-01-01")

	for _, path := range []string{"/expenses/category/Food", "/expenses/category/food", "/expenses/category/FOOD"} {
		resp, data := doJSON(t, http.MethodGet, ts.URL+path, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", path, resp.StatusCode, data)
		}
	}

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/expenses/category/Travel", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unmatched category, got %d", resp.StatusCode)
	}
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)
	createExpense(t, ts, "Food", 10, "2024-01-01")

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/expenses/search/?q=food", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/expenses/search/", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing q: expected 400, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/expenses/search/?q=rent", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("no match: expected 404, got %d", resp.StatusCode)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	ts := newTestServer(t)
	createExpense(t, ts, "Food", 10, "2024-01-01")
	createExpense(t, ts, "Food", 5, "2024-01-02")
	createExpense(t, ts, "Travel", 20, "2024-01-03")

	resp, data := doJSON(t, http.MethodGet, ts.URL+"/expenses/summary/0", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := strings.TrimSpace(string(data))
	if body != `{"Travel":20,"Food":15}` {
		t.Fatalf("unexpected summary body %s", body)
	}

	resp, data = doJSON(t, http.MethodGet, ts.URL+"/expenses/summary/15", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if strings.TrimSpace(string(data)) != `{"Travel":20}` {
		t.Fatalf("threshold 15 must exclude Food: %s", data)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/expenses/summary/abc", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric threshold: expected 400, got %d", resp.StatusCode)
	}
}

func TestSummaryEmptyTableIs404(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/expenses/summary/0", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteExpense(t *testing.T) {
	ts := newTestServer(t)
	e := createExpense(t, ts, "Food", 10, "2024-01-01")

	resp, data := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/expenses/%d", ts.URL, e.ID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, data)
	}
	var confirmation struct {
		Message string       `json:"message"`
		Expense core.Expense `json:"expense"`
	}
	if err := json.Unmarshal(data, &confirmation); err != nil {
		t.Fatalf("decode confirmation: %v", err)
	}
	if confirmation.Expense.ID != e.ID || confirmation.Message == "" {
		t.Fatalf("unexpected confirmation %+v", confirmation)
	}

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/expenses/%d", ts.URL, e.ID), "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/expenses/0", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("id 0: expected 400, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/expenses/abc", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric id: expected 400, got %d", resp.StatusCode)
	}
}

func TestUpdateExpensePartial(t *testing.T) {
	ts := newTestServer(t)
	e := createExpense(t, ts, "Food", 10, "2024-01-01")

	resp, data := doJSON(t, http.MethodPut, fmt.Sprintf("%s/expenses/%d", ts.URL, e.ID), `{"amount":99}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, data)
	}
	var updated core.Expense
	if err := json.Unmarshal(data, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Amount != 99 || updated.Category != "Food" || updated.Date.String() != "2024-01-01" {
		t.Fatalf("partial update changed the wrong fields: %+v", updated)
	}
}

func TestUpdateExpenseErrors(t *testing.T) {
	ts := newTestServer(t)
	e := createExpense(t, ts, "Food", 10, "2024-01-01")

	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/expenses/999", `{"amount":5}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing id: expected 404, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/expenses/%d", ts.URL, e.ID), `{"amount":-1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid amount: expected 400, got %d", resp.StatusCode)
	}
}

func TestDateFilter(t *testing.T) {
	ts := newTestServer(t)
	createExpense(t, ts, "Food", 10, "2024-01-15")
	createExpense(t, ts, "Food", 10, "2024-02-01")

	resp, data := doJSON(t, http.MethodGet, ts.URL+"/expenses/datefilter/?start_date=2024-01-01&end_date=2024-01-31", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got []core.Expense
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Date.String() != "2024-01-15" {
		t.Fatalf("expected only the January record, got %+v", got)
	}

	// Empty match is a 200 with an empty array, unlike the other lists.
	resp, data = doJSON(t, http.MethodGet, ts.URL+"/expenses/datefilter/?start_date=2030-01-01&end_date=2030-12-31", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("empty match: expected 200, got %d", resp.StatusCode)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("expected empty array, got %s", data)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/expenses/datefilter/?start_date=bogus", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed date: expected 400, got %d", resp.StatusCode)
	}
}
