package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"bookbarter/internal/app"
	"bookbarter/pkg/domain"
	"bookbarter/pkg/store"
)

func newTestServer(t *testing.T, cfg Config) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	mem.SeedMembers([]domain.Member{
		{Phone: "9000000001", Name: "Ravi", LentCount: 2, BorrowedCount: 1},
	})
	core, err := app.New(mem)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	cfg.App = core
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, mem
}

func decodeError(t *testing.T, resp *http.Response) (string, string) {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error, body.Code
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status %d", resp.StatusCode)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	ts, mem := newTestServer(t, Config{})
	body := []byte(`{
		"lenderPhone":"9000000001","lenderName":"Wrong",
		"borrowerPhone":"9000000002","borrowerName":"Priya",
		"bookTitle":"Dune","author":"Frank Herbert","deposit":"100"
	}`)
	resp, err := http.Post(ts.URL+"/loans", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post loans: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var rec domain.LoanRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.LenderName != "Ravi" {
		t.Fatalf("registered member name should win, got %q", rec.LenderName)
	}
	loans, _ := mem.ListLoans(context.Background())
	if len(loans) != 1 || loans[0].ID != rec.ID {
		t.Fatalf("ledger should hold the new row: %+v", loans)
	}
}

func TestRegisterEndpointValidation(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	body := []byte(`{"lenderPhone":"123","borrowerPhone":"9000000002","borrowerName":"Priya","bookTitle":"Dune","deposit":"abc"}`)
	resp, err := http.Post(ts.URL+"/loans", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post loans: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if _, code := decodeError(t, resp); code != "BARTER_VALIDATION_FAILED" {
		t.Fatalf("code = %q", code)
	}
}

func TestLookupEndpoint(t *testing.T) {
	ts, mem := newTestServer(t, Config{})
	ctx := context.Background()
	_ = mem.AppendLoan(ctx, domain.LoanRecord{
		ID: "l1", LenderPhone: "9000000001", BorrowerPhone: "9000000002",
		BookTitle: "Dune", Status: domain.StatusLent, Date: "15-03-2025",
	})

	resp, err := http.Get(ts.URL + "/members/9000000001/loans")
	if err != nil {
		t.Fatalf("get member loans: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var view domain.MemberView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Name != "Ravi" || view.LentCount != 2 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if len(view.ActiveLent) != 1 || view.ActiveLent[0].DisplayDate != "15th Mar 2025" {
		t.Fatalf("unexpected active lent: %+v", view.ActiveLent)
	}
}

func TestLookupEndpointErrors(t *testing.T) {
	ts, _ := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/members/12ab/loans")
	if err != nil {
		t.Fatalf("get invalid phone: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid phone expected 400, got %d", resp.StatusCode)
	}
	if _, code := decodeError(t, resp); code != "BARTER_INVALID_PHONE" {
		t.Fatalf("code = %q", code)
	}

	resp, err = http.Get(ts.URL + "/members/9999999999/loans")
	if err != nil {
		t.Fatalf("get unknown member: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown member expected 404, got %d", resp.StatusCode)
	}
	if _, code := decodeError(t, resp); code != "BARTER_MEMBER_NOT_FOUND" {
		t.Fatalf("code = %q", code)
	}
}

func TestReturnEndpoint(t *testing.T) {
	ts, mem := newTestServer(t, Config{})
	ctx := context.Background()
	_ = mem.AppendLoan(ctx, domain.LoanRecord{ID: "l1", LenderPhone: "9000000001", Status: domain.StatusLent})

	resp, err := http.Post(ts.URL+"/loans/l1/return", "application/json", nil)
	if err != nil {
		t.Fatalf("post return: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	rec, _, _ := mem.GetLoan(ctx, "l1")
	if rec.Status != domain.StatusReturned {
		t.Fatalf("loan should be Returned, got %q", rec.Status)
	}

	// Repeats stay 200.
	resp, err = http.Post(ts.URL+"/loans/l1/return", "application/json", nil)
	if err != nil {
		t.Fatalf("repeat return: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat return expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/loans/ghost/return", "application/json", nil)
	if err != nil {
		t.Fatalf("return unknown: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown loan expected 404, got %d", resp.StatusCode)
	}
	if _, code := decodeError(t, resp); code != "BARTER_LOAN_NOT_FOUND" {
		t.Fatalf("code = %q", code)
	}
}

func TestLookupRateLimit(t *testing.T) {
	redis := miniredis.RunT(t)
	ts, _ := newTestServer(t, Config{
		RedisAddr:                redis.Addr(),
		LookupRateLimitPerMinute: 1,
	})

	resp1, err := http.Get(ts.URL + "/members/9000000001/loans")
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	resp1.Body.Close()
	if resp1.StatusCode != http.StatusOK {
		t.Fatalf("first lookup expected 200, got %d", resp1.StatusCode)
	}

	resp2, err := http.Get(ts.URL + "/members/9000000001/loans")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if resp2.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second lookup expected 429, got %d", resp2.StatusCode)
	}
	if _, code := decodeError(t, resp2); code != "RATE_LIMITED" {
		t.Fatalf("code = %q", code)
	}
}

func TestServerRequiresRedisForRateLimits(t *testing.T) {
	core, err := app.New(store.NewMemoryStore())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if _, err := New(Config{App: core, RegisterRateLimitPerMinute: 5}); err == nil {
		t.Fatalf("expected constructor error without redis addr")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/loans")
	if err != nil {
		t.Fatalf("get loans: %v", err)
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
	if _, code := decodeError(t, resp); code != "SYSTEM_METHOD_NOT_ALLOWED" {
		t.Fatalf("code = %q", code)
	}
}
