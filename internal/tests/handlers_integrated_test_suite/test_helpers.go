package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/auth"
	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
	"github.com/rogerio-castellano/wabot-dashboard/internal/db"
	handler "github.com/rogerio-castellano/wabot-dashboard/internal/http/handlers"
	mw "github.com/rogerio-castellano/wabot-dashboard/internal/http/middleware"
	"github.com/rogerio-castellano/wabot-dashboard/internal/http/router"
	"github.com/rogerio-castellano/wabot-dashboard/internal/insights"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/rogerio-castellano/wabot-dashboard/internal/repo"
)

var (
	database    *sql.DB
	insightRepo *repo.PostgresInsightRepository
)

func setupTestServices(dbUrl string) error {
	var err error
	database, err = db.Connect(dbUrl)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		return err
	}

	store := cache.NewMemoryStore()
	client := backend.NewMemoryClient(backend.Data{
		Users:    []models.User{{ID: "u1", Name: "Budi", PhoneNumber: "6281234567890", CreatedAt: time.Now()}},
		Products: []models.Product{{ID: "p1", Name: "Kopi Susu", Price: 25000, Stock: 10}},
		Transactions: []models.Transaction{
			{ID: "t1", UserID: "u1", CustomerName: "Budi", ProductID: "p1", ProductName: "Kopi Susu", Quantity: 1, Amount: 25000, Status: models.StatusCompleted, CreatedAt: time.Now()},
		},
	})

	admins := repo.NewPostgresAdminRepository(database)
	insightRepo = repo.NewPostgresInsightRepository(database)
	authService := auth.NewAuthService(admins, store, auth.Config{Secret: "integration-secret-0123"})
	if err := authService.EnsureAdmin("admin", "secret"); err != nil {
		return err
	}

	handler.SetBackend(client)
	handler.SetAuthService(authService)
	handler.SetInsightService(insights.NewService(client, store, insightRepo, insights.Options{}))
	mw.SetAuthService(authService)
	return nil
}

func newRouter() http.Handler {
	return router.NewRouter()
}

func clearInsights() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE insights")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate insights table: %w", err))
	}
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp auth.TokenPair
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.AccessToken, nil
}
