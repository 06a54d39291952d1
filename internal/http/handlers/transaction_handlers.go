package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/rs/zerolog/log"
)

func transactionResponses(txs []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, TransactionResponse{Transaction: t, FormattedAmount: formatter.Currency(t.Amount)})
	}
	return out
}

// transactionFilter reads the shared transaction query parameters. A plain
// date in until covers the whole day.
func transactionFilter(q url.Values) (analytics.TransactionFilter, error) {
	f := analytics.TransactionFilter{
		Status:    normalise(q.Get("status")),
		UserID:    q.Get("user_id"),
		ProductID: q.Get("product_id"),
		Search:    q.Get("search"),
	}

	var err error
	if f.Since, err = queryTime(q, "since"); err != nil {
		return f, err
	}
	if f.Until, err = queryTime(q, "until"); err != nil {
		return f, err
	}
	if f.Until != nil && len(q.Get("until")) == len(time.DateOnly) {
		end := f.Until.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.Until = &end
	}
	if f.Since != nil && f.Until != nil && f.Since.After(*f.Until) {
		return f, &queryError{"since", "must not be after until"}
	}
	if f.MinAmount, err = queryFloat(q, "min_amount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = queryFloat(q, "max_amount"); err != nil {
		return f, err
	}
	return f, nil
}

// ListTransactionsHandler godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, completed, failed or cancelled"
// @Param user_id query string false "Buyer ID"
// @Param product_id query string false "Product ID"
// @Param search query string false "Matches customer, phone or product"
// @Param since query string false "RFC3339 or YYYY-MM-DD"
// @Param until query string false "RFC3339 or YYYY-MM-DD"
// @Param min_amount query number false "Minimum amount"
// @Param max_amount query number false "Maximum amount"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit, max 100"
// @Success 200 {object} TransactionsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/transactions [get]
func ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := transactionFilter(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if filter.Offset, filter.Limit, err = pagination(q); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := backendClient.ListTransactions(r.Context())
	if err != nil {
		backendError(w, err, "transactions")
		return
	}

	page, total := analytics.FilterTransactions(txs, filter)
	respond(w, TransactionsSearchResult{
		Data: transactionResponses(page),
		Meta: pageMeta(total, filter.Offset, filter.Limit),
	})
}

// GetTransactionHandler godoc
// @Summary Transaction detail
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 404 {string} string "Transaction not found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/transactions/{id} [get]
func GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	tx, err := backendClient.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		backendError(w, err, "transaction")
		return
	}
	respond(w, TransactionResponse{Transaction: tx, FormattedAmount: formatter.Currency(tx.Amount)})
}

// ExportTransactionsHandler godoc
// @Summary Export transactions as CSV or JSON
// @Tags transactions
// @Produce text/csv
// @Produce json
// @Security BearerAuth
// @Param format query string true "csv or json"
// @Param status query string false "Status"
// @Param since query string false "RFC3339 or YYYY-MM-DD"
// @Param until query string false "RFC3339 or YYYY-MM-DD"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid query"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/transactions/export [get]
func ExportTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exportFormat := q.Get("format")
	if exportFormat != "csv" && exportFormat != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}
	filter, err := transactionFilter(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := backendClient.ListTransactions(r.Context())
	if err != nil {
		backendError(w, err, "transactions")
		return
	}
	rows := analytics.MatchTransactions(txs, filter)
	filename := "transactions-" + now().Format("20060102")

	switch exportFormat {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.json"`)
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			log.Error().Err(err).Msg("transaction export failed")
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{
			"id", "created_at", "customer_name", "phone_number", "product_id",
			"product_name", "quantity", "amount", "status", "payment_method",
		})
		for _, t := range rows {
			_ = csvWriter.Write([]string{
				t.ID,
				t.CreatedAt.In(location).Format(time.RFC3339),
				t.CustomerName,
				t.PhoneNumber,
				t.ProductID,
				t.ProductName,
				strconv.Itoa(t.Quantity),
				strconv.FormatFloat(t.Amount, 'f', 2, 64),
				t.Status,
				t.PaymentMethod,
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			log.Error().Err(err).Msg("transaction export failed")
		}
	}
}

// CustomersHandler godoc
// @Summary Customers ranked by spend
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Offset"
// @Param limit query int false "Limit, max 100"
// @Success 200 {object} CustomersResult
// @Failure 400 {string} string "Invalid query"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/customers [get]
func CustomersHandler(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pagination(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	txs, err := backendClient.ListTransactions(r.Context())
	if err != nil {
		backendError(w, err, "transactions")
		return
	}

	all := analytics.GroupByCustomer(txs)
	meta := pageMeta(len(all), offset, limit)
	start := min(meta.Offset, len(all))
	end := min(start+meta.Limit, len(all))

	data := make([]CustomerResponse, 0, end-start)
	for _, c := range all[start:end] {
		data = append(data, CustomerResponse{CustomerSummary: c, FormattedSpent: formatter.Currency(c.TotalSpent)})
	}
	respond(w, CustomersResult{Data: data, Meta: meta})
}

// MonthlyReportHandler godoc
// @Summary Monthly sales report
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param months query int false "Only the most recent months"
// @Success 200 {object} MonthlyReportResponse
// @Failure 400 {string} string "Invalid query"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/reports/monthly [get]
func MonthlyReportHandler(w http.ResponseWriter, r *http.Request) {
	n, err := boundedInt(r.URL.Query(), "months", 0, 120)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	txs, err := backendClient.ListTransactions(r.Context())
	if err != nil {
		backendError(w, err, "transactions")
		return
	}

	t := now()
	months := analytics.LastMonths(analytics.GroupByMonth(txs, location), t, n)
	rows := make([]MonthlyReportRow, 0, len(months))
	for _, m := range months {
		rows = append(rows, MonthlyReportRow{
			MonthlySummary:   m,
			Label:            format.MonthLabel(m.Month),
			FormattedRevenue: formatter.Currency(m.Revenue),
		})
	}
	respond(w, MonthlyReportResponse{Months: rows})
}
