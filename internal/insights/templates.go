package insights

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

const systemPrompt = `You are a retail analyst writing short briefings for the owner of a small shop that sells through a WhatsApp bot.
Only use the figures you are given. Do not invent numbers. Keep the currency formatting exactly as given.
Answer in this format:
TITLE: <one short headline>
SUMMARY: <two or three sentences>
- <highlight>
- <highlight>
- <highlight>`

var prompts = template.Must(template.New("prompts").Parse(`
{{define "overview"}}Write a business overview briefing.
Users: {{.Stats.TotalUsers}} total, {{.Stats.ActiveUsers}} active in the last 30 days, {{.Stats.NewUsersThisMonth}} new this month.
Orders: {{.Stats.TotalTransactions}} total, {{.Stats.CompletedTransactions}} completed, {{.Stats.PendingTransactions}} pending, {{.Stats.FailedTransactions}} failed.
Revenue: {{.TotalRevenue}} all time, {{.RevenueThisMonth}} this month, {{.RevenueLastMonth}} last month{{if .HasGrowth}} ({{.Growth}}){{end}}.
Average order value: {{.AverageOrder}}. Conversion rate: {{.ConversionRate}}.
Products: {{.Stats.TotalProducts}} listed, {{.Stats.LowStockProducts}} low on stock, {{.OutOfStock}} out of stock.
{{end}}

{{define "sales"}}Write a sales trend briefing.
Revenue this month: {{.RevenueThisMonth}}. Last month: {{.RevenueLastMonth}}.{{if .HasGrowth}} Change: {{.Growth}}.{{end}}
Average order value: {{.AverageOrder}}. Conversion rate: {{.ConversionRate}}.
Monthly history:
{{range .Months}}- {{.Label}}: {{.Orders}} orders, {{.Revenue}}
{{else}}- no orders yet
{{end}}{{with .BestMonth}}Best month: {{.Label}} with {{.Revenue}}.
{{end}}{{end}}

{{define "customers"}}Write a customer behaviour briefing.
Customers who ordered: {{.TotalCustomers}}. Repeat customers: {{.RepeatCustomers}} ({{.RepeatRate}}).
New users this month: {{.Stats.NewUsersThisMonth}}. Active users: {{.Stats.ActiveUsers}} of {{.Stats.TotalUsers}}.
Top customers:
{{range .TopCustomers}}- {{.Name}}: {{.Orders}} orders, {{.Spent}}
{{else}}- none yet
{{end}}{{end}}

{{define "products"}}Write a product performance briefing.
Best sellers:
{{range .TopProducts}}- {{.Name}}: {{.UnitsSold}} units, {{.Revenue}}
{{else}}- no sales yet
{{end}}Low stock:
{{range .LowStock}}- {{.Name}}: {{.Stock}} left
{{else}}- nothing is running low
{{end}}Out of stock products: {{.OutOfStock}}.
{{end}}
`))

type fallbackText struct {
	title      *template.Template
	summary    *template.Template
	highlights []*template.Template
}

func fallback(kind, title, summary string, highlights ...string) fallbackText {
	ft := fallbackText{
		title:   template.Must(template.New(kind + "-title").Parse(title)),
		summary: template.Must(template.New(kind + "-summary").Parse(summary)),
	}
	for i, h := range highlights {
		ft.highlights = append(ft.highlights, template.Must(template.New(fmt.Sprintf("%s-%d", kind, i)).Parse(h)))
	}
	return ft
}

var fallbacks = map[string]fallbackText{
	models.InsightOverview: fallback(models.InsightOverview,
		`Business overview`,
		`{{.Stats.CompletedTransactions}} of {{.Stats.TotalTransactions}} orders completed, bringing in {{.TotalRevenue}}. This month has earned {{.RevenueThisMonth}}{{if .HasGrowth}}, {{.Growth}} against last month{{end}}.`,
		`{{.Stats.ActiveUsers}} of {{.Stats.TotalUsers}} users were active in the last 30 days`,
		`Average order value is {{.AverageOrder}}`,
		`{{if .Stats.LowStockProducts}}{{.Stats.LowStockProducts}} products are low on stock{{else}}Stock levels look healthy{{end}}`,
	),
	models.InsightSales: fallback(models.InsightSales,
		`{{if not .HasGrowth}}Sales this month{{else if .Growing}}Sales are up {{.Growth}}{{else}}Sales are down {{.Decline}}{{end}}`,
		`Revenue this month is {{.RevenueThisMonth}} compared with {{.RevenueLastMonth}} last month. {{.ConversionRate}} of orders complete successfully.`,
		`Average order value is {{.AverageOrder}}`,
		`{{with .BestMonth}}Best month so far: {{.Label}} with {{.Revenue}}{{else}}No completed sales recorded yet{{end}}`,
		`{{.Stats.PendingTransactions}} orders are still pending`,
	),
	models.InsightCustomers: fallback(models.InsightCustomers,
		`{{.TotalCustomers}} customers have ordered`,
		`{{.RepeatCustomers}} customers came back for more than one completed order, a repeat rate of {{.RepeatRate}}. {{.Stats.NewUsersThisMonth}} new users joined this month.`,
		`{{with .LeadCustomer}}Top customer: {{.Name}} with {{.Spent}}{{end}}`,
		`{{.Stats.ActiveUsers}} users were active in the last 30 days`,
	),
	models.InsightProducts: fallback(models.InsightProducts,
		`{{with .LeadProduct}}{{.Name}} leads sales{{else}}Product performance{{end}}`,
		`{{.SoldProducts}} products have completed sales. {{.LowStockCount}} products are low on stock and {{.OutOfStock}} are sold out.`,
		`{{with .LeadProduct}}{{.Name}}: {{.UnitsSold}} units for {{.Revenue}}{{end}}`,
		`{{range $i, $p := .LowStock}}{{if $i}}, {{else}}Restock soon: {{end}}{{$p.Name}} ({{$p.Stock}}){{end}}`,
	),
}

func renderPrompt(kind string, facts Facts) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, kind, facts); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", kind, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func execute(t *template.Template, facts Facts) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, facts); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
