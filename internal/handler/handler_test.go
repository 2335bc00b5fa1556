package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bancowarmi/warmi-api/internal/auth"
	"github.com/bancowarmi/warmi-api/internal/config"
	"github.com/bancowarmi/warmi-api/internal/models"
	"github.com/bancowarmi/warmi-api/internal/repository"
	"github.com/bancowarmi/warmi-api/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type fakeStore struct {
	membership    *models.Membership
	member        *models.Member
	contributions []models.Contribution
	fines         []models.Fine
	cred          *models.Credential
	err           error
}

func (f *fakeStore) FindMembership(_ context.Context, memberID, cycleID int64) (*models.Membership, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.membership == nil || f.membership.MemberID != memberID {
		return nil, repository.ErrNotFound
	}
	return f.membership, nil
}

func (f *fakeStore) FindMember(_ context.Context, _ int64) (*models.Member, error) {
	if f.member == nil {
		return nil, repository.ErrNotFound
	}
	return f.member, f.err
}

func (f *fakeStore) SumContributions(_ context.Context, _ int64) (float64, error) {
	var total float64
	for _, c := range f.contributions {
		total += c.Amount
	}
	return total, f.err
}

func (f *fakeStore) SumFines(_ context.Context, _ int64) (float64, error) {
	var total float64
	for _, fi := range f.fines {
		total += fi.Amount
	}
	return total, f.err
}

func (f *fakeStore) LastContributionAmount(_ context.Context, _ int64) (float64, error) {
	if len(f.contributions) == 0 {
		return 0, f.err
	}
	return f.contributions[0].Amount, f.err
}

func (f *fakeStore) ListContributions(_ context.Context, _ int64) ([]models.Contribution, error) {
	return f.contributions, f.err
}

func (f *fakeStore) ListFines(_ context.Context, _ int64) ([]models.Fine, error) {
	return f.fines, f.err
}

func (f *fakeStore) FindCredential(_ context.Context, username string) (*models.Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.cred == nil || f.cred.Username != username {
		return nil, repository.ErrNotFound
	}
	return f.cred, nil
}

func newTestRouter(store service.Store) *mux.Router {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := service.NewService(store, auth.NewSHA256Verifier(), log, &config.Config{ActiveCycleID: 1})
	h := NewHandler(svc, log, 5*time.Second)

	r := mux.NewRouter()
	r.HandleFunc("/", h.Root).Methods("GET")
	r.HandleFunc("/dashboard/{socioId}", h.Dashboard).Methods("GET")
	r.HandleFunc("/fines/{socioId}", h.Fines).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	return r
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRoot(t *testing.T) {
	router := newTestRouter(&fakeStore{})
	rr := doRequest(t, router, http.MethodGet, "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "funcionando") {
		t.Errorf("body = %q, want liveness message", rr.Body.String())
	}
}

func TestDashboardEndpoint(t *testing.T) {
	recorded := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		membership: &models.Membership{ID: 7, MemberID: 3, CycleID: 1, Shares: 4},
		member:     &models.Member{ID: 3, FirstName: "María", LastName: "Quispe"},
		contributions: []models.Contribution{
			{ID: 1, Amount: 50, RecordedAt: recorded},
		},
	}
	router := newTestRouter(store)

	t.Run("known member", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/dashboard/3", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var resp struct {
			Nombre            string  `json:"nombre"`
			AportesAcumulados float64 `json:"aportesAcumulados"`
			UltimoAporte      float64 `json:"ultimoAporte"`
			MultasAcumuladas  float64 `json:"multasAcumuladas"`
			Acciones          int64   `json:"acciones"`
			Movimientos       []struct {
				ID    string  `json:"id"`
				Tipo  string  `json:"tipo"`
				Monto float64 `json:"monto"`
				Fecha string  `json:"fecha"`
			} `json:"movimientos"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if resp.Nombre != "María Quispe" {
			t.Errorf("nombre = %q", resp.Nombre)
		}
		if resp.AportesAcumulados != 50 || resp.UltimoAporte != 50 {
			t.Errorf("totals = %v/%v, want 50/50", resp.AportesAcumulados, resp.UltimoAporte)
		}
		if resp.Acciones != 4 {
			t.Errorf("acciones = %d, want 4", resp.Acciones)
		}
		if len(resp.Movimientos) != 1 || resp.Movimientos[0].Tipo != "Aporte" {
			t.Errorf("movimientos = %+v", resp.Movimientos)
		}
		if resp.Movimientos[0].Fecha != "10 mar 2026" {
			t.Errorf("fecha = %q, want %q", resp.Movimientos[0].Fecha, "10 mar 2026")
		}
	})

	t.Run("member without membership", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/dashboard/99", "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if resp["message"] != "Socio no encontrado en el ciclo actual." {
			t.Errorf("message = %q", resp["message"])
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/dashboard/abc", "")
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		failing := newTestRouter(&fakeStore{err: errors.New("pq: connection reset")})
		rr := doRequest(t, failing, http.MethodGet, "/dashboard/3", "")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rr.Code)
		}
		if strings.Contains(rr.Body.String(), "pq:") {
			t.Error("internal error text leaked to client")
		}
		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if resp["message"] != "Error interno del servidor." {
			t.Errorf("message = %q", resp["message"])
		}
	})
}

func TestFinesEndpoint(t *testing.T) {
	store := &fakeStore{
		membership: &models.Membership{ID: 7, MemberID: 3, CycleID: 1},
		fines: []models.Fine{
			{ID: 12, TypeDesc: "Inasistencia", Amount: 10, Date: time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)},
		},
	}
	router := newTestRouter(store)

	t.Run("known member", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/fines/3", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var resp struct {
			TotalFines float64 `json:"totalFines"`
			FinesList  []struct {
				ID     int64   `json:"id"`
				Reason string  `json:"reason"`
				Date   string  `json:"date"`
				Amount float64 `json:"amount"`
			} `json:"finesList"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if resp.TotalFines != 10 {
			t.Errorf("totalFines = %v, want 10", resp.TotalFines)
		}
		if len(resp.FinesList) != 1 || resp.FinesList[0].ID != 12 {
			t.Errorf("finesList = %+v", resp.FinesList)
		}
		if resp.FinesList[0].Date != "2 febrero 2026" {
			t.Errorf("date = %q, want %q", resp.FinesList[0].Date, "2 febrero 2026")
		}
	})

	t.Run("member without membership gets zeros", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/fines/99", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		body := rr.Body.String()
		if !strings.Contains(body, `"totalFines":0`) || !strings.Contains(body, `"finesList":[]`) {
			t.Errorf("body = %q, want zeroed payload", body)
		}
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		failing := newTestRouter(&fakeStore{err: errors.New("timeout")})
		rr := doRequest(t, failing, http.MethodGet, "/fines/3", "")
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rr.Code)
		}
	})
}

func TestLoginEndpoint(t *testing.T) {
	// sha256("warmi2026")
	store := &fakeStore{
		cred: &models.Credential{
			Username:     "mquispe",
			MemberID:     3,
			PasswordHash: "b1a576d60f32f07eebb296e3f4b9af1e07fd2f6374dff3a698b4156b7b514edf",
		},
	}
	router := newTestRouter(store)

	t.Run("missing fields", func(t *testing.T) {
		for _, body := range []string{
			`{}`,
			`{"username":"mquispe"}`,
			`{"password":"warmi2026"}`,
			`{"username":"","password":""}`,
			`not json`,
		} {
			rr := doRequest(t, router, http.MethodPost, "/login", body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("body %q: status = %d, want 400", body, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), `"success":false`) {
				t.Errorf("body %q: response %q missing success:false", body, rr.Body.String())
			}
		}
	})

	t.Run("correct credentials", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/login", `{"username":"mquispe","password":"warmi2026"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var resp models.LoginResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !resp.Success || resp.SocioID != 3 {
			t.Errorf("resp = %+v, want success with socioId 3", resp)
		}
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		wrongPw := doRequest(t, router, http.MethodPost, "/login", `{"username":"mquispe","password":"nope"}`)
		unknown := doRequest(t, router, http.MethodPost, "/login", `{"username":"ghost","password":"warmi2026"}`)

		if wrongPw.Code != http.StatusOK || unknown.Code != http.StatusOK {
			t.Fatalf("statuses = %d/%d, want 200/200", wrongPw.Code, unknown.Code)
		}
		if wrongPw.Body.String() != unknown.Body.String() {
			t.Errorf("responses differ: %q vs %q", wrongPw.Body.String(), unknown.Body.String())
		}
		if !strings.Contains(wrongPw.Body.String(), "Usuario o contraseña incorrectos.") {
			t.Errorf("body = %q, want generic rejection message", wrongPw.Body.String())
		}
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		failing := newTestRouter(&fakeStore{err: errors.New("connection refused")})
		rr := doRequest(t, failing, http.MethodPost, "/login", `{"username":"mquispe","password":"warmi2026"}`)
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rr.Code)
		}
	})
}
