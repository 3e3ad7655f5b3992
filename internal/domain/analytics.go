package domain

import "time"

// RecentTasksLimit bounds the recent-task listing in an analytics snapshot.
const RecentTasksLimit = 10

// UserCounts are user totals by role and helper state.
type UserCounts struct {
	Total            int `json:"total"`
	Customers        int `json:"customers"`
	Helpers          int `json:"helpers"`
	ActiveHelpers    int `json:"activeHelpers"`
	PendingApprovals int `json:"pendingApprovals"`
}

// CategoryCount is the number of tasks in one category.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// TaskCounts are task totals by status and category.
type TaskCounts struct {
	Total      int                `json:"total"`
	Pending    int                `json:"pending"`
	Completed  int                `json:"completed"`
	Cancelled  int                `json:"cancelled"`
	ByStatus   map[TaskStatus]int `json:"byStatus"`
	ByCategory []CategoryCount    `json:"byCategory"`
}

// Revenue sums completed-task prices. Average divides by the number of completed tasks.
type Revenue struct {
	Total          float64 `json:"total"`
	Average        float64 `json:"average"`
	CompletedTasks int     `json:"completedTasks"`
}

// AnalyticsSnapshot is a read-only dashboard view.
// It is JSON-tagged because the snapshot is cached as a document.
type AnalyticsSnapshot struct {
	Users       UserCounts    `json:"users"`
	Tasks       TaskCounts    `json:"tasks"`
	Revenue     Revenue       `json:"revenue"`
	RecentTasks []TaskSummary `json:"recentTasks"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// TaskSummary is the subset of a task shown in recent listings.
type TaskSummary struct {
	ID             string     `json:"id"`
	CustomerID     string     `json:"customerId"`
	HelperID       *string    `json:"helperId,omitempty"`
	Category       Category   `json:"category"`
	Title          string     `json:"title"`
	Status         TaskStatus `json:"status"`
	EstimatedPrice float64    `json:"estimatedPrice"`
	FinalPrice     *float64   `json:"finalPrice,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Summarize returns the task's summary view.
func (t *Task) Summarize() TaskSummary {
	return TaskSummary{
		ID:             t.ID,
		CustomerID:     t.CustomerID,
		HelperID:       t.HelperID,
		Category:       t.Category,
		Title:          t.Title,
		Status:         t.Status,
		EstimatedPrice: t.EstimatedPrice,
		FinalPrice:     t.FinalPrice,
		CreatedAt:      t.CreatedAt,
	}
}

// AverageRevenue divides total by completed, returning 0 when nothing completed.
func AverageRevenue(total float64, completed int) float64 {
	if completed == 0 {
		return 0
	}
	return total / float64(completed)
}

// EarningsSummary is a helper's own earnings dashboard.
type EarningsSummary struct {
	Earnings       Earnings
	CompletedTasks int
	Rating         float64
	TotalRatings   int
	RecentTasks    []*Task
}
