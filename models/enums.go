package models

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in-progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
	StatusOnHold     OrderStatus = "on-hold"
)

func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	_, ok := validStatuses[string(s)]
	return ok
}

// Priority ranks an order on the dashboard
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) String() string {
	return string(p)
}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	_, ok := validPriorities[string(p)]
	return ok
}

const (
	CommunicationEmail     = "email"
	CommunicationPhone     = "phone"
	CommunicationVideoCall = "video-call"
	CommunicationMessaging = "messaging"
)

const DefaultRevisionRounds = "3"

// Statuses lists every status in dashboard display order
var Statuses = []OrderStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusOnHold}

var validStatuses = map[string]struct{}{
	string(StatusPending):    {},
	string(StatusInProgress): {},
	string(StatusCompleted):  {},
	string(StatusCancelled):  {},
	string(StatusOnHold):     {},
}

var validPriorities = map[string]struct{}{
	string(PriorityLow):    {},
	string(PriorityNormal): {},
	string(PriorityHigh):   {},
	string(PriorityUrgent): {},
}

var validCommunication = map[string]struct{}{
	CommunicationEmail:     {},
	CommunicationPhone:     {},
	CommunicationVideoCall: {},
	CommunicationMessaging: {},
}

var validRevisionRounds = map[string]struct{}{
	"1": {}, "2": {}, "3": {}, "5": {}, "unlimited": {},
}

// budgetValues maps a budget range to the amount credited to a derived client
var budgetValues = map[string]float64{
	"under-500": 250,
	"500-1000":  750,
	"1000-2500": 1750,
	"2500-5000": 3750,
	"over-5000": 7500,
}

// BudgetValue returns the representative amount for a budget range, 0 when unknown
func BudgetValue(budget string) float64 {
	return budgetValues[budget]
}
