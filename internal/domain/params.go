package domain

// UpdateTaskParams persists a task mutation with optimistic concurrency.
type UpdateTaskParams struct {
	Task *Task

	// ExpectedVersion must match the stored version, otherwise the update fails with ErrVersionConflict.
	ExpectedVersion int

	// AppendChange is the history entry created by this mutation; nil when status did not change.
	AppendChange *StatusChange
}

// ListTasksParams filters and pages task queries. Zero values mean "no filter".
// Results are ordered newest first.
type ListTasksParams struct {
	CustomerID string
	HelperID   string
	Statuses   []TaskStatus
	Categories []Category
	Limit      int
	Offset     int
}

// ListUsersParams filters user queries.
type ListUsersParams struct {
	Role     *Role
	IsActive *bool
}

// UpdateUserStatusParams overwrites moderation flags. Nil fields are left unchanged.
type UpdateUserStatusParams struct {
	UserID     string
	IsActive   *bool
	IsVerified *bool
}

// UpdateHelperProfileParams are the helper-editable profile fields. Nil fields are left unchanged.
type UpdateHelperProfileParams struct {
	UserID       string
	Categories   []Category
	Experience   *int
	Availability *Availability
	VehicleType  *VehicleType
	Documents    *Documents
}
