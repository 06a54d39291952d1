package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/auth"
	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
	"github.com/rogerio-castellano/wabot-dashboard/internal/http/ban"
	handler "github.com/rogerio-castellano/wabot-dashboard/internal/http/handlers"
	mw "github.com/rogerio-castellano/wabot-dashboard/internal/http/middleware"
	"github.com/rogerio-castellano/wabot-dashboard/internal/http/router"
	"github.com/rogerio-castellano/wabot-dashboard/internal/insights"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/rogerio-castellano/wabot-dashboard/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

var (
	token       string
	viewerToken string

	now         = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	client      *backend.MemoryClient
	store       *cache.MemoryStore
	insightRepo *repo.InMemoryInsightRepository
	authService *auth.AuthService
)

func init() {
	setupTestServices()
	r := newRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
	viewerToken, err = generateToken(r, "viewer", "viewer-secret")
	if err != nil {
		panic(fmt.Sprintf("error generating viewer token: %v", err))
	}
}

func setupTestServices() {
	client = backend.NewMemoryClient(fixture())
	store = cache.NewMemoryStore()
	insightRepo = repo.NewInMemoryInsightRepository()

	admins := repo.NewInMemoryAdminRepository()
	createAdmin(admins, "admin", "secret", models.RoleAdmin)
	createAdmin(admins, "viewer", "viewer-secret", models.RoleViewer)

	authService = auth.NewAuthService(admins, store, auth.Config{Secret: "test-secret-0123456789"})

	handler.SetBackend(client)
	handler.SetHealthChecker(client)
	handler.SetAuthService(authService)
	handler.SetBanGuard(ban.NewGuard(store, 3, time.Minute))
	handler.SetFormatter(format.New("IDR", "id"), time.UTC)
	handler.SetClock(func() time.Time { return now })
	handler.SetInsightService(insights.NewService(client, store, insightRepo, insights.Options{
		Now: func() time.Time { return now },
	}))
	mw.SetAuthService(authService)
}

func newRouter() http.Handler {
	return router.NewRouter()
}

func createAdmin(admins repo.AdminRepository, username, password, role string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	admins.Create(models.AdminUser{Username: username, PasswordHash: string(hash), Role: role})
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 10, 0, 0, 0, time.UTC)
}

// fixture: three users, three products and five transactions, three of them
// completed (95.000 total, 80.000 in March).
func fixture() backend.Data {
	return backend.Data{
		Users: []models.User{
			{ID: "u1", Name: "Budi", PhoneNumber: "6281234567890", IsActive: true, CreatedAt: day(time.January, 10), LastActiveAt: day(time.March, 14)},
			{ID: "u2", Name: "Siti", PhoneNumber: "6289876543210", IsActive: true, CreatedAt: day(time.March, 2), LastActiveAt: day(time.January, 1)},
			{ID: "u3", Name: "Andi", PhoneNumber: "6281111111111", IsActive: true, CreatedAt: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)},
		},
		Products: []models.Product{
			{ID: "p1", Name: "Kopi Susu", Category: "drinks", Price: 25000, Stock: 40, IsActive: true},
			{ID: "p2", Name: "Roti Bakar", Category: "food", Price: 15000, Stock: 3, IsActive: true},
			{ID: "p3", Name: "Teh Manis", Category: "drinks", Price: 10000, Stock: 0, IsActive: true},
		},
		Transactions: []models.Transaction{
			{ID: "t1", UserID: "u1", CustomerName: "Budi", PhoneNumber: "6281234567890", ProductID: "p1", ProductName: "Kopi Susu", Quantity: 2, Amount: 50000, Status: models.StatusCompleted, PaymentMethod: "qris", CreatedAt: day(time.March, 10)},
			{ID: "t2", UserID: "u1", CustomerName: "Budi", PhoneNumber: "6281234567890", ProductID: "p2", ProductName: "Roti Bakar", Quantity: 1, Amount: 15000, Status: models.StatusCompleted, PaymentMethod: "cash", CreatedAt: day(time.February, 20)},
			{ID: "t3", UserID: "u2", CustomerName: "Siti", PhoneNumber: "6289876543210", ProductID: "p1", ProductName: "Kopi Susu", Quantity: 1, Amount: 25000, Status: models.StatusPending, PaymentMethod: "qris", CreatedAt: day(time.March, 12)},
			{ID: "t4", UserID: "u3", CustomerName: "Andi", PhoneNumber: "6281111111111", ProductID: "p3", ProductName: "Teh Manis", Quantity: 3, Amount: 30000, Status: models.StatusCompleted, PaymentMethod: "transfer", CreatedAt: day(time.March, 14)},
			{ID: "t5", UserID: "u3", CustomerName: "Andi", PhoneNumber: "6281111111111", ProductID: "p1", ProductName: "Kopi Susu", Quantity: 1, Amount: 25000, Status: models.StatusFailed, PaymentMethod: "qris", CreatedAt: day(time.January, 5)},
		},
	}
}

func resetBackend() {
	client.FailWith(nil)
	client.SetData(fixture())
	handler.SetBackend(client)
}

func generateToken(r http.Handler, username, password string) (string, error) {
	w := login(r, username, password, "")
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login returned %d: %s", w.Code, w.Body.String())
	}

	var resp auth.TokenPair
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.AccessToken, nil
}

func login(r http.Handler, username, password, ip string) *httptest.ResponseRecorder {
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func post(r http.Handler, path, bearer string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func refresh(r http.Handler, refreshToken, ip string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(handler.RefreshRequest{RefreshToken: refreshToken})
	req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(body))
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
