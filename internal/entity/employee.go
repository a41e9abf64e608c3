package entity

import "time"

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
	EmployeeOnLeave  EmployeeStatus = "on-leave"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeActive, EmployeeInactive, EmployeeOnLeave:
		return true
	}

	return false
}

type Employee struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Position    string         `json:"position"`
	Department  string         `json:"department"`
	Salary      int64          `json:"salary"`
	HireDate    time.Time      `json:"hireDate"`
	Skills      []string       `json:"skills"`
	Status      EmployeeStatus `json:"status"`
	Performance int            `json:"performance"`
}

type EmployeePayload struct {
	ID          string
	UserID      string
	Position    string
	Department  string
	Salary      int64
	HireDate    time.Time
	Skills      []string
	Status      EmployeeStatus
	Performance int
}

func (p EmployeePayload) Validate() error {
	if !p.Status.Valid() {
		return invalid("unknown employee status %q", p.Status)
	}

	if p.Performance < 0 || p.Performance > 100 {
		return invalid("performance %d outside 0..100", p.Performance)
	}

	return nil
}

func NewEmployee(p EmployeePayload, genID string) Employee {
	return Employee{
		ID:          pickID(p.ID, genID),
		UserID:      p.UserID,
		Position:    p.Position,
		Department:  p.Department,
		Salary:      p.Salary,
		HireDate:    p.HireDate,
		Skills:      append([]string{}, p.Skills...),
		Status:      p.Status,
		Performance: p.Performance,
	}
}
