package models

import "github.com/kendall-kelly/design-orders-panel/utils"

// OrderIDPrefix prefixes ids minted for orders created offline
const OrderIDPrefix = "ORD"

// Order represents a design work request submitted through the intake form.
// A normalized Order always carries every field with a valid value.
type Order struct {
	ID                      string      `json:"id"`
	ClientName              string      `json:"clientName"`
	Email                   string      `json:"email"`
	Phone                   string      `json:"phone"`
	Company                 string      `json:"company"`
	ProjectType             string      `json:"projectType"`
	Services                []string    `json:"services"`
	ProjectTitle            string      `json:"projectTitle"`
	Description             string      `json:"description"`
	Budget                  string      `json:"budget"`
	Deadline                string      `json:"deadline"`
	Priority                Priority    `json:"priority"`
	Status                  OrderStatus `json:"status"`
	CommunicationPreference string      `json:"communicationPreference"`
	RevisionRounds          string      `json:"revisionRounds"`
	FileFormat              []string    `json:"fileFormat"`
	ColorPreferences        string      `json:"colorPreferences"`
	TargetAudience          string      `json:"targetAudience"`
	AdditionalNotes         string      `json:"additionalNotes"`
	CreatedAt               string      `json:"createdAt"`
	UpdatedAt               string      `json:"updatedAt"`
}

// NormalizeOrder coerces an arbitrary record into a canonical Order.
// Nothing is rejected: wrong-typed fields become their zero value, unknown
// enumeration values become the documented default, a missing id is minted
// and missing timestamps are set to now. NormalizeOrder(o.Record()) == o.
func NormalizeOrder(raw Record) Order {
	o := Order{
		ID:                      stringField(raw, "id"),
		ClientName:              stringField(raw, "clientName"),
		Email:                   stringField(raw, "email"),
		Phone:                   stringField(raw, "phone"),
		Company:                 stringField(raw, "company"),
		ProjectType:             stringField(raw, "projectType"),
		Services:                stringsField(raw, "services"),
		ProjectTitle:            stringField(raw, "projectTitle"),
		Description:             stringField(raw, "description"),
		Budget:                  stringField(raw, "budget"),
		Deadline:                stringField(raw, "deadline"),
		Priority:                Priority(enumField(raw, "priority", validPriorities, string(PriorityNormal))),
		Status:                  OrderStatus(enumField(raw, "status", validStatuses, string(StatusPending))),
		CommunicationPreference: enumField(raw, "communicationPreference", validCommunication, CommunicationEmail),
		RevisionRounds:          enumField(raw, "revisionRounds", validRevisionRounds, DefaultRevisionRounds),
		FileFormat:              stringsField(raw, "fileFormat"),
		ColorPreferences:        stringField(raw, "colorPreferences"),
		TargetAudience:          stringField(raw, "targetAudience"),
		AdditionalNotes:         stringField(raw, "additionalNotes"),
		CreatedAt:               stringField(raw, "createdAt"),
		UpdatedAt:               stringField(raw, "updatedAt"),
	}

	if o.ID == "" {
		o.ID = utils.NewID(OrderIDPrefix)
	}
	if o.CreatedAt == "" {
		o.CreatedAt = utils.NowTimestamp()
	}
	if o.UpdatedAt == "" {
		o.UpdatedAt = o.CreatedAt
	}
	return o
}

// NormalizeOrders normalizes every record in order
func NormalizeOrders(raw []Record) []Order {
	out := make([]Order, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeOrder(r))
	}
	return out
}

// Record returns the order as a raw record with every field present
func (o Order) Record() Record {
	return Record{
		"id":                      o.ID,
		"clientName":              o.ClientName,
		"email":                   o.Email,
		"phone":                   o.Phone,
		"company":                 o.Company,
		"projectType":             o.ProjectType,
		"services":                append([]string{}, o.Services...),
		"projectTitle":            o.ProjectTitle,
		"description":             o.Description,
		"budget":                  o.Budget,
		"deadline":                o.Deadline,
		"priority":                string(o.Priority),
		"status":                  string(o.Status),
		"communicationPreference": o.CommunicationPreference,
		"revisionRounds":          o.RevisionRounds,
		"fileFormat":              append([]string{}, o.FileFormat...),
		"colorPreferences":        o.ColorPreferences,
		"targetAudience":          o.TargetAudience,
		"additionalNotes":         o.AdditionalNotes,
		"createdAt":               o.CreatedAt,
		"updatedAt":               o.UpdatedAt,
	}
}

// OrderRecords converts orders to raw records
func OrderRecords(orders []Order) []Record {
	out := make([]Record, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Record())
	}
	return out
}

// OrderRequest is the body sent to POST /orders: an order minus the fields
// the service assigns (id, status, timestamps)
type OrderRequest struct {
	ClientName              string   `json:"clientName"`
	Email                   string   `json:"email"`
	Phone                   string   `json:"phone"`
	Company                 string   `json:"company"`
	ProjectType             string   `json:"projectType"`
	Services                []string `json:"services"`
	ProjectTitle            string   `json:"projectTitle"`
	Description             string   `json:"description"`
	Budget                  string   `json:"budget"`
	Deadline                string   `json:"deadline"`
	Priority                string   `json:"priority"`
	CommunicationPreference string   `json:"communicationPreference"`
	RevisionRounds          string   `json:"revisionRounds"`
	FileFormat              []string `json:"fileFormat"`
	ColorPreferences        string   `json:"colorPreferences"`
	TargetAudience          string   `json:"targetAudience"`
	AdditionalNotes         string   `json:"additionalNotes"`
}

// Request strips the service-assigned fields from o
func (o Order) Request() OrderRequest {
	return OrderRequest{
		ClientName:              o.ClientName,
		Email:                   o.Email,
		Phone:                   o.Phone,
		Company:                 o.Company,
		ProjectType:             o.ProjectType,
		Services:                append([]string{}, o.Services...),
		ProjectTitle:            o.ProjectTitle,
		Description:             o.Description,
		Budget:                  o.Budget,
		Deadline:                o.Deadline,
		Priority:                string(o.Priority),
		CommunicationPreference: o.CommunicationPreference,
		RevisionRounds:          o.RevisionRounds,
		FileFormat:              append([]string{}, o.FileFormat...),
		ColorPreferences:        o.ColorPreferences,
		TargetAudience:          o.TargetAudience,
		AdditionalNotes:         o.AdditionalNotes,
	}
}
