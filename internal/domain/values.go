package domain

// Category is the kind of service a task requests.
// Value object - immutable string enum.
type Category string

const (
	CategoryPickupDrop  Category = "pickup_drop"
	CategoryDelivery    Category = "delivery"
	CategoryHomeService Category = "home_service"
	CategoryRepair      Category = "repair"
	CategoryCleaning    Category = "cleaning"
	CategoryMoving      Category = "moving"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPickupDrop,
	CategoryDelivery,
	CategoryHomeService,
	CategoryRepair,
	CategoryCleaning,
	CategoryMoving,
	CategoryOther,
}

// TaskStatus represents the current state of a task.
// Value object - immutable string enum.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusAssigned   TaskStatus = "assigned" // stored value kept for compatibility, never entered
	TaskStatusAccepted   TaskStatus = "accepted"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusRejected   TaskStatus = "rejected"
)

// TaskStatuses lists every status value.
var TaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusAssigned,
	TaskStatusAccepted,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
	TaskStatusRejected,
}

// PaymentStatus tracks settlement of a task. Independent of TaskStatus.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Role is the role attribute of an authenticated identity.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleHelper   Role = "helper"
	RoleAdmin    Role = "admin"
)

// Availability describes when a helper works.
type Availability string

const (
	AvailabilityFullTime Availability = "full_time"
	AvailabilityPartTime Availability = "part_time"
	AvailabilityWeekends Availability = "weekends"
)

// VehicleType describes the vehicle a helper brings.
type VehicleType string

const (
	VehicleBike VehicleType = "bike"
	VehicleCar  VehicleType = "car"
	VehicleVan  VehicleType = "van"
	VehicleNone VehicleType = "none"
)

// AggregateEventKind identifies a helper aggregate fold applied for a task.
type AggregateEventKind string

const (
	AggregateEventCompleted AggregateEventKind = "completed"
	AggregateEventRated     AggregateEventKind = "rated"
)
