package domain

// Barber represents a staff member who can be booked
type Barber struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	Photo       string   `json:"photo,omitempty"`
	Rating      float64  `json:"rating"`
	Specialties []string `json:"specialties"`
	Experience  int      `json:"experience"`
	Bio         string   `json:"bio,omitempty"`
	HireDate    string   `json:"hireDate,omitempty"`
}

// Service represents an offered service
type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	IsActive        bool    `json:"isActive"`
}

// ServiceCatalog is the full service list together with its category grouping
type ServiceCatalog struct {
	Services           []Service            `json:"services"`
	ServicesByCategory map[string][]Service `json:"servicesByCategory"`
	Categories         []string             `json:"categories"`
}

// Roster is the list of barbers
type Roster []Barber

// FindBarber returns the barber with the given id
func (r Roster) FindBarber(id string) (*Barber, bool) {
	for i := range r {
		if r[i].ID == id {
			return &r[i], true
		}
	}
	return nil, false
}
