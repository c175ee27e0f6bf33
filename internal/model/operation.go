package model

import "time"

type OperationStatus string

const (
	OperationStatusScheduled  OperationStatus = "scheduled"
	OperationStatusInProgress OperationStatus = "in-progress"
	OperationStatusCompleted  OperationStatus = "completed"
	OperationStatusCancelled  OperationStatus = "cancelled"
)

// ValidOperationStatus reports membership in the status enumeration.
// Transitions between statuses are deliberately unrestricted.
func ValidOperationStatus(s string) bool {
	switch OperationStatus(s) {
	case OperationStatusScheduled, OperationStatusInProgress,
		OperationStatusCompleted, OperationStatusCancelled:
		return true
	}
	return false
}

// Operation is the logbook entry joining one Patient, one Surgeon, and the
// Nurse (user id) who created it.
type Operation struct {
	ID                 string          `json:"id"`
	PatientID          string          `json:"patientId"`
	SurgeonID          string          `json:"surgeonId"`
	NurseID            string          `json:"nurseId"`
	OperationType      string          `json:"operationType"`
	OperationDate      time.Time       `json:"operationDate"`
	ScheduledStartTime *time.Time      `json:"scheduledStartTime,omitempty"`
	ActualStartTime    *time.Time      `json:"actualStartTime,omitempty"`
	ActualEndTime      *time.Time      `json:"actualEndTime,omitempty"`
	OperatingRoom      string          `json:"operatingRoom,omitempty"`
	AnesthesiaType     string          `json:"anesthesiaType,omitempty"`
	Anesthesiologist   string          `json:"anesthesiologist,omitempty"`
	AssistantSurgeons  []string        `json:"assistantSurgeons"`
	Complications      string          `json:"complications,omitempty"`
	Outcomes           string          `json:"outcomes,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Status             OperationStatus `json:"status"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// Validate checks the candidate operation record, accumulating all
// violations. Referential integrity of the ids is checked by the services,
// not here.
func (o *Operation) Validate() ValidationResult {
	var errs []string

	if isBlank(o.PatientID) {
		errs = append(errs, "patient ID is required")
	}
	if isBlank(o.SurgeonID) {
		errs = append(errs, "surgeon ID is required")
	}
	if isBlank(o.NurseID) {
		errs = append(errs, "nurse ID is required")
	}
	if isBlank(o.OperationType) {
		errs = append(errs, "operation type is required")
	}
	if o.OperationDate.IsZero() {
		errs = append(errs, "valid operation date is required")
	}
	if o.Status != "" && !ValidOperationStatus(string(o.Status)) {
		errs = append(errs, "status must be scheduled, in-progress, completed, or cancelled")
	}

	return newValidationResult(errs)
}

// OperationDuration is the elapsed time between actual start and end.
type OperationDuration struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	TotalMinutes int `json:"totalMinutes"`
}

// Duration reports the operation's actual duration. The second return is
// false when either timestamp is missing or the end precedes the start.
func (o *Operation) Duration() (OperationDuration, bool) {
	if o.ActualStartTime == nil || o.ActualEndTime == nil {
		return OperationDuration{}, false
	}

	elapsed := o.ActualEndTime.Sub(*o.ActualStartTime)
	if elapsed < 0 {
		return OperationDuration{}, false
	}

	total := int(elapsed.Minutes())
	return OperationDuration{
		Hours:        total / 60,
		Minutes:      total % 60,
		TotalMinutes: total,
	}, true
}

// IsOverdue reports whether the scheduled moment has passed for an operation
// that is neither completed nor cancelled. The scheduled moment is the
// operation date, refined by the scheduled start time when present.
func (o *Operation) IsOverdue(now time.Time) bool {
	if o.Status == OperationStatusCompleted || o.Status == OperationStatusCancelled {
		return false
	}

	scheduled := o.OperationDate
	if o.ScheduledStartTime != nil {
		t := *o.ScheduledStartTime
		scheduled = time.Date(scheduled.Year(), scheduled.Month(), scheduled.Day(),
			t.Hour(), t.Minute(), t.Second(), 0, scheduled.Location())
	}

	return now.After(scheduled)
}

type CreateOperationRequest struct {
	PatientID          string     `json:"patientId"`
	SurgeonID          string     `json:"surgeonId"`
	OperationType      string     `json:"operationType"`
	OperationDate      time.Time  `json:"operationDate"`
	ScheduledStartTime *time.Time `json:"scheduledStartTime"`
	OperatingRoom      string     `json:"operatingRoom"`
	AnesthesiaType     string     `json:"anesthesiaType"`
	Anesthesiologist   string     `json:"anesthesiologist"`
	AssistantSurgeons  []string   `json:"assistantSurgeons"`
	Notes              string     `json:"notes"`
	Status             string     `json:"status"`
}

type UpdateOperationRequest struct {
	PatientID          *string    `json:"patientId"`
	SurgeonID          *string    `json:"surgeonId"`
	OperationType      *string    `json:"operationType"`
	OperationDate      *time.Time `json:"operationDate"`
	ScheduledStartTime *time.Time `json:"scheduledStartTime"`
	ActualStartTime    *time.Time `json:"actualStartTime"`
	ActualEndTime      *time.Time `json:"actualEndTime"`
	OperatingRoom      *string    `json:"operatingRoom"`
	AnesthesiaType     *string    `json:"anesthesiaType"`
	Anesthesiologist   *string    `json:"anesthesiologist"`
	AssistantSurgeons  []string   `json:"assistantSurgeons"`
	Complications      *string    `json:"complications"`
	Outcomes           *string    `json:"outcomes"`
	Notes              *string    `json:"notes"`
	Status             *string    `json:"status"`
}

type UpdateOperationStatusRequest struct {
	Status          string     `json:"status" binding:"required"`
	ActualStartTime *time.Time `json:"actualStartTime"`
	ActualEndTime   *time.Time `json:"actualEndTime"`
	Notes           string     `json:"notes"`
}

// OperationFilters is the sparse filter set accepted by listing endpoints.
type OperationFilters struct {
	PatientID     string
	SurgeonID     string
	NurseID       string
	OperatingRoom string
	Status        OperationStatus
	StartDate     *time.Time
	EndDate       *time.Time
	// EndBefore is an exclusive upper bound, used for whole-day windows.
	EndBefore *time.Time
}

// OperationStats aggregates operation counts by status plus completed
// durations over an optional date window.
type OperationStats struct {
	TotalOperations      int `json:"totalOperations"`
	CompletedOperations  int `json:"completedOperations"`
	CancelledOperations  int `json:"cancelledOperations"`
	InProgressOperations int `json:"inProgressOperations"`
	ScheduledOperations  int `json:"scheduledOperations"`
	TotalDuration        int `json:"totalDuration"`
	AverageDuration      int `json:"averageDuration"`
}

// AggregateOperationStats folds a set of operations into counts by status and
// the total and average completed-operation duration in minutes. The average
// is 0, not an error, when no completed operation has a usable duration.
func AggregateOperationStats(ops []*Operation) *OperationStats {
	stats := &OperationStats{}

	totalMinutes := 0
	completedWithDuration := 0

	for _, op := range ops {
		stats.TotalOperations++

		switch op.Status {
		case OperationStatusCompleted:
			stats.CompletedOperations++
			if d, ok := op.Duration(); ok {
				totalMinutes += d.TotalMinutes
				completedWithDuration++
			}
		case OperationStatusCancelled:
			stats.CancelledOperations++
		case OperationStatusInProgress:
			stats.InProgressOperations++
		case OperationStatusScheduled:
			stats.ScheduledOperations++
		}
	}

	if completedWithDuration > 0 {
		stats.TotalDuration = totalMinutes
		stats.AverageDuration = (totalMinutes + completedWithDuration/2) / completedWithDuration
	}

	return stats
}

// UpcomingOperation pairs an operation with its patient when the patient
// fetch succeeded.
type UpcomingOperation struct {
	*Operation
	Patient *Patient `json:"patient,omitempty"`
}
