package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

func userResponse(u models.User) UserResponse {
	t := now()
	resp := UserResponse{
		User:        u,
		DisplayName: u.DisplayName(),
		Active:      analytics.UserActive(u, t),
		MaskedPhone: format.MaskPhone(u.PhoneNumber),
	}
	if !u.LastActiveAt.IsZero() {
		resp.LastSeen = format.RelativeTime(u.LastActiveAt, t)
	}
	return resp
}

// ListUsersHandler godoc
// @Summary List bot users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name, phone or email"
// @Param active query bool false "Only active or inactive users"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit, max 100"
// @Success 200 {object} UsersSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/users [get]
func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	active, err := queryBool(q, "active")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	offset, limit, err := pagination(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	users, err := backendClient.ListUsers(r.Context())
	if err != nil {
		backendError(w, err, "users")
		return
	}

	filter := analytics.UserFilter{Search: q.Get("search"), Active: active, Offset: offset, Limit: limit}
	page, total := analytics.FilterUsers(users, filter, now())

	data := make([]UserResponse, 0, len(page))
	for _, u := range page {
		data = append(data, userResponse(u))
	}
	respond(w, UsersSearchResult{Data: data, Meta: pageMeta(total, offset, limit)})
}

// GetUserHandler godoc
// @Summary User detail with purchase history
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserDetailResponse
// @Failure 404 {string} string "User not found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/users/{id} [get]
func GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := backendClient.GetUser(r.Context(), id)
	if err != nil {
		backendError(w, err, "user")
		return
	}
	txs, err := backendClient.ListTransactions(r.Context())
	if err != nil {
		backendError(w, err, "transactions")
		return
	}

	own := analytics.TransactionsForUser(txs, user.ID)
	resp := UserDetailResponse{User: userResponse(user), Transactions: transactionResponses(own)}
	if summaries := analytics.GroupByCustomer(own); len(summaries) > 0 {
		resp.Summary = &summaries[0]
	}
	respond(w, resp)
}
