package api

type AvailabilityBlockRequest struct {
	SpecificDate string `json:"specific_date"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Hour         *int   `json:"hour,omitempty"`
}

type AvailabilityBlockResponse struct {
	ID           string `json:"id"`
	DesignerID   string `json:"designer_id"`
	SpecificDate string `json:"specific_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	IsActive     bool   `json:"is_active"`

	// Write outcome per backend; only set on write paths, never on reads.
	RemoteOK *bool `json:"remote_ok,omitempty"`
	LocalOK  *bool `json:"local_ok,omitempty"`
}

type SlotsResponse struct {
	DesignerID string   `json:"designer_id"`
	Date       string   `json:"date"`
	Slots      []string `json:"slots"`
	DayBlocked bool     `json:"day_blocked"`
}

type AppointmentRequest struct {
	DesignerID  string  `json:"designer_id"`
	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	ClientEmail string  `json:"client_email,omitempty"`
	Service     string  `json:"service"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Price       float64 `json:"price"`
}

type AppointmentResponse struct {
	ID          string  `json:"id"`
	DesignerID  string  `json:"designer_id"`
	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	ClientEmail string  `json:"client_email,omitempty"`
	Service     string  `json:"service"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

type DesignerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	PixKey   string `json:"pix_key,omitempty"`
	IsActive bool   `json:"is_active"`
}

type ServiceRequest struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

type ServiceResponse struct {
	ID              string  `json:"id"`
	DesignerID      string  `json:"designer_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}
