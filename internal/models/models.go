package models

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// AvailabilityBlock is a designer-defined interval that marks a date/time
// range as unbookable. IsActive=true means the block is live: clients cannot
// book into it. The remote table stores the inverse flag (is_available);
// the mapping happens in the availability package and nowhere else.
type AvailabilityBlock struct {
	ID           string `json:"id"`
	DesignerID   string `json:"designerId"`
	DayOfWeek    int    `json:"dayOfWeek"` // vestigial, kept for schema compatibility
	SpecificDate string `json:"specificDate"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	IsActive     bool   `json:"isActive"`
}

// AvailabilityRow mirrors the remote availability table.
type AvailabilityRow struct {
	ID           string  `db:"id"`
	DesignerID   string  `db:"designer_id"`
	DayOfWeek    int     `db:"day_of_week"`
	StartTime    string  `db:"start_time"`
	EndTime      string  `db:"end_time"`
	IsAvailable  bool    `db:"is_available"`
	SpecificDate *string `db:"specific_date"`
}

type Appointment struct {
	ID          string            `db:"id"`
	DesignerID  string            `db:"designer_id"`
	ClientName  string            `db:"client_name"`
	ClientPhone string            `db:"client_phone"`
	ClientEmail string            `db:"client_email"`
	Service     string            `db:"service"`
	Date        string            `db:"date"`
	Time        string            `db:"time"`
	Price       float64           `db:"price"`
	Status      AppointmentStatus `db:"status"`
}

type Designer struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Phone    string `db:"phone"`
	PixKey   string `db:"pix_key"`
	IsActive bool   `db:"is_active"`
}

type Service struct {
	ID              string  `db:"id"`
	DesignerID      string  `db:"designer_id"`
	Name            string  `db:"name"`
	Price           float64 `db:"price"`
	DurationMinutes int     `db:"duration_minutes"`
}
