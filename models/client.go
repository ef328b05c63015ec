package models

import (
	"math"

	"github.com/kendall-kelly/design-orders-panel/utils"
)

// ClientIDPrefix prefixes client ids
const ClientIDPrefix = "CLIENT"

// UnknownClientName is used when a client record carries no name
const UnknownClientName = "Unknown Client"

// Client is a customer aggregate, either received from the remote service or
// derived from order history
type Client struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Company       string  `json:"company"`
	TotalOrders   int     `json:"totalOrders"`
	TotalSpent    float64 `json:"totalSpent"`
	LastOrderDate string  `json:"lastOrderDate"`
	CreatedAt     string  `json:"createdAt"`
}

// NormalizeClient coerces an arbitrary record into a canonical Client.
// Counters are clamped to be non-negative and totalOrders is truncated to an integer.
func NormalizeClient(raw Record) Client {
	c := Client{
		ID:            stringField(raw, "id"),
		Name:          stringField(raw, "name"),
		Email:         stringField(raw, "email"),
		Phone:         stringField(raw, "phone"),
		Company:       stringField(raw, "company"),
		TotalOrders:   int(math.Max(0, math.Trunc(numberField(raw, "totalOrders")))),
		TotalSpent:    math.Max(0, numberField(raw, "totalSpent")),
		LastOrderDate: stringField(raw, "lastOrderDate"),
		CreatedAt:     stringField(raw, "createdAt"),
	}

	if c.ID == "" {
		c.ID = utils.NewID(ClientIDPrefix)
	}
	if c.Name == "" {
		c.Name = UnknownClientName
	}
	if c.CreatedAt == "" {
		c.CreatedAt = utils.NowTimestamp()
	}
	return c
}

// NormalizeClients normalizes every record in order
func NormalizeClients(raw []Record) []Client {
	out := make([]Client, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeClient(r))
	}
	return out
}

// Record returns the client as a raw record with every field present
func (c Client) Record() Record {
	return Record{
		"id":            c.ID,
		"name":          c.Name,
		"email":         c.Email,
		"phone":         c.Phone,
		"company":       c.Company,
		"totalOrders":   c.TotalOrders,
		"totalSpent":    c.TotalSpent,
		"lastOrderDate": c.LastOrderDate,
		"createdAt":     c.CreatedAt,
	}
}

// ClientRecords converts clients to raw records
func ClientRecords(clients []Client) []Record {
	out := make([]Record, 0, len(clients))
	for _, c := range clients {
		out = append(out, c.Record())
	}
	return out
}
