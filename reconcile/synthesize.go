package reconcile

import (
	"strings"

	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/utils"
)

// SynthesizeClients derives one client per distinct email from orders.
// Orders without an email are skipped. Emails are compared trimmed and
// case-insensitively; the first order for an email supplies the contact
// details. The result is never persisted by callers.
func SynthesizeClients(orders []models.Order) []models.Client {
	clients := make([]models.Client, 0)
	index := make(map[string]int)

	for _, o := range orders {
		email := strings.TrimSpace(o.Email)
		if email == "" {
			continue
		}
		key := strings.ToLower(email)
		spent := models.BudgetValue(o.Budget)

		if i, ok := index[key]; ok {
			c := &clients[i]
			c.TotalOrders++
			c.TotalSpent += spent
			if isLater(o.CreatedAt, c.LastOrderDate) {
				c.LastOrderDate = o.CreatedAt
			}
			continue
		}

		name := o.ClientName
		if name == "" {
			name = models.UnknownClientName
		}
		index[key] = len(clients)
		clients = append(clients, models.Client{
			ID:            utils.DerivedID(models.ClientIDPrefix, key),
			Name:          name,
			Email:         email,
			Phone:         o.Phone,
			Company:       o.Company,
			TotalOrders:   1,
			TotalSpent:    spent,
			LastOrderDate: o.CreatedAt,
			CreatedAt:     o.CreatedAt,
		})
	}

	return clients
}

// isLater reports whether a is after b. Unparseable timestamps compare as strings.
func isLater(a, b string) bool {
	ta, okA := utils.ParseTimestamp(a)
	tb, okB := utils.ParseTimestamp(b)
	if okA && okB {
		return ta.After(tb)
	}
	return a > b
}
