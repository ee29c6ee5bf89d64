package entity

import "time"

// Enrollment (alta) liga un cliente con un plan y con la revisión vigente al darse de alta.
type Enrollment struct {
	ID             string
	CompanyID      string
	BranchID       string
	CustomerID     string
	PlanID         string
	PlanRevisionID string
	StartDate      time.Time
	EndDate        *time.Time
	Renewal        bool
	IsActive       bool
	CreatedAt      time.Time
	CreatedBy      string
}
