package barberapi

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

const (
	unknownBarberName         = "Unknown Barber"
	defaultServiceDescription = "Professional service"
	defaultServiceCategory    = "general"
)

// envelope общий формат ответов API
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// ID идентификатор, который API отдает то числом, то строкой
type ID string

// UnmarshalJSON принимает и число, и строку
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// ShiftDTO смена в рабочем дне
type ShiftDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayScheduleDTO расписание одного дня недели
type DayScheduleDTO struct {
	IsOpen bool       `json:"is_open"`
	Shifts []ShiftDTO `json:"shifts"`
}

// CompanyConfigDTO модель конфигурации компании из API
type CompanyConfigDTO struct {
	CompanyName         string                    `json:"company_name"`
	CompanyDescription  string                    `json:"company_description"`
	CompanyPhone        string                    `json:"company_phone"`
	CompanyEmail        string                    `json:"company_email"`
	CompanyAddress      string                    `json:"company_address"`
	Currency            string                    `json:"currency"`
	BookingAdvanceHours *float64                  `json:"booking_advance_hours"`
	TimeSlotInterval    *int                      `json:"time_slot_interval"`
	BookingWindowDays   int                       `json:"booking_window_days"`
	MaintenanceMode     bool                      `json:"maintenance_mode"`
	MaintenanceMessage  string                    `json:"maintenance_message"`
	WorkingHours        map[string]DayScheduleDTO `json:"working_hours"`
}

// BarberUserDTO вложенный пользователь барбера
type BarberUserDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BarberDTO модель барбера из API
type BarberDTO struct {
	ID              ID             `json:"id"`
	User            *BarberUserDTO `json:"user"`
	ProfileImageURL string         `json:"profile_image_url"`
	Rating          float64        `json:"rating"`
	Specialties     []string       `json:"specialties"`
	ExperienceYears int            `json:"experience_years"`
	Bio             string         `json:"bio"`
	HireDate        string         `json:"hire_date"`
}

// BarbersData содержимое data ответа /api/barbers
type BarbersData struct {
	Barbers []BarberDTO `json:"barbers"`
}

// ServiceDTO модель услуги из API
type ServiceDTO struct {
	ID              ID      `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	IsActive        bool    `json:"is_active"`
}

// ServicesData содержимое data ответа /api/services
type ServicesData struct {
	Services           []ServiceDTO            `json:"services"`
	ServicesByCategory map[string][]ServiceDTO `json:"servicesByCategory"`
	Categories         []string                `json:"categories"`
	Count              int                     `json:"count"`
}

// OccupiedSlotDTO занятый интервал из API
type OccupiedSlotDTO struct {
	BookingID ID     `json:"booking_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

// OccupiedSlotsData содержимое data ответа /api/barbers/{id}/occupied-slots
type OccupiedSlotsData struct {
	OccupiedSlots []OccupiedSlotDTO `json:"occupied_slots"`
}

// refreshRequest тело запроса обновления токена
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenInfo struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// refreshResponse ответ /api/auth/refresh; токены приходят либо в session, либо в token_info
type refreshResponse struct {
	Session   *tokenInfo `json:"session"`
	TokenInfo *tokenInfo `json:"token_info"`
}

func (r refreshResponse) tokens() (tokenInfo, bool) {
	for _, t := range []*tokenInfo{r.Session, r.TokenInfo} {
		if t != nil && t.AccessToken != "" && t.RefreshToken != "" {
			return *t, true
		}
	}
	return tokenInfo{}, false
}

// ToDomain преобразует конфигурацию в доменную модель.
// Политика слотов и рабочие часы остаются nil, если компания их не указала.
func (c CompanyConfigDTO) ToDomain() *domain.CompanyConfig {
	cfg := &domain.CompanyConfig{
		CompanyName:        c.CompanyName,
		Description:        c.CompanyDescription,
		Phone:              c.CompanyPhone,
		Email:              c.CompanyEmail,
		Address:            c.CompanyAddress,
		Currency:           c.Currency,
		BookingWindowDays:  c.BookingWindowDays,
		MaintenanceMode:    c.MaintenanceMode,
		MaintenanceMessage: c.MaintenanceMessage,
	}

	if c.BookingAdvanceHours != nil || c.TimeSlotInterval != nil {
		policy := domain.DefaultSlotPolicy()
		if c.BookingAdvanceHours != nil {
			policy.AdvanceHours = *c.BookingAdvanceHours
		}
		if c.TimeSlotInterval != nil {
			policy.IntervalMinutes = *c.TimeSlotInterval
		}
		cfg.Policy = &policy
	}

	if len(c.WorkingHours) > 0 {
		hours := make(domain.WorkingHours, len(c.WorkingHours))
		for day, schedule := range c.WorkingHours {
			shifts := make([]domain.Shift, 0, len(schedule.Shifts))
			for _, s := range schedule.Shifts {
				shifts = append(shifts, domain.Shift{Start: s.Start, End: s.End})
			}
			hours[domain.Weekday(strings.ToLower(day))] = domain.DaySchedule{
				IsOpen: schedule.IsOpen,
				Shifts: shifts,
			}
		}
		cfg.WorkingHours = &hours
	}

	return cfg
}

// ToDomain преобразует барбера в доменную модель
func (b BarberDTO) ToDomain() domain.Barber {
	barber := domain.Barber{
		ID:          string(b.ID),
		Name:        unknownBarberName,
		Photo:       b.ProfileImageURL,
		Rating:      b.Rating,
		Specialties: b.Specialties,
		Experience:  b.ExperienceYears,
		Bio:         b.Bio,
		HireDate:    b.HireDate,
	}
	if barber.Specialties == nil {
		barber.Specialties = []string{}
	}
	if b.User != nil {
		if b.User.Name != "" {
			barber.Name = b.User.Name
		}
		barber.Email = b.User.Email
	}
	return barber
}

// ToDomain преобразует список барберов
func (d BarbersData) ToDomain() domain.Roster {
	roster := make(domain.Roster, 0, len(d.Barbers))
	for _, b := range d.Barbers {
		roster = append(roster, b.ToDomain())
	}
	return roster
}

// ToDomain преобразует услугу, подставляя значения по умолчанию
func (s ServiceDTO) ToDomain() domain.Service {
	service := domain.Service{
		ID:              string(s.ID),
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Category:        s.Category,
		IsActive:        s.IsActive,
	}
	if service.Description == "" {
		service.Description = defaultServiceDescription
	}
	if service.DurationMinutes <= 0 {
		service.DurationMinutes = domain.DefaultSlotIntervalMinutes
	}
	if service.Category == "" {
		service.Category = defaultServiceCategory
	}
	return service
}

// ToDomain преобразует каталог услуг.
// Если API не прислал группировку или список категорий, они строятся по списку услуг.
func (d ServicesData) ToDomain() *domain.ServiceCatalog {
	catalog := &domain.ServiceCatalog{
		Services:           make([]domain.Service, 0, len(d.Services)),
		ServicesByCategory: make(map[string][]domain.Service),
		Categories:         d.Categories,
	}

	for _, s := range d.Services {
		catalog.Services = append(catalog.Services, s.ToDomain())
	}

	if len(d.ServicesByCategory) > 0 {
		for category, services := range d.ServicesByCategory {
			converted := make([]domain.Service, 0, len(services))
			for _, s := range services {
				converted = append(converted, s.ToDomain())
			}
			catalog.ServicesByCategory[category] = converted
		}
	} else {
		for _, s := range catalog.Services {
			catalog.ServicesByCategory[s.Category] = append(catalog.ServicesByCategory[s.Category], s)
		}
	}

	if len(catalog.Categories) == 0 {
		catalog.Categories = make([]string, 0, len(catalog.ServicesByCategory))
		for category := range catalog.ServicesByCategory {
			catalog.Categories = append(catalog.Categories, category)
		}
		sort.Strings(catalog.Categories)
	}

	return catalog
}

// ToDomain преобразует занятые интервалы
func (d OccupiedSlotsData) ToDomain() []domain.OccupiedInterval {
	intervals := make([]domain.OccupiedInterval, 0, len(d.OccupiedSlots))
	for _, s := range d.OccupiedSlots {
		intervals = append(intervals, domain.OccupiedInterval{
			BookingID: string(s.BookingID),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Status:    domain.BookingStatus(s.Status),
		})
	}
	return intervals
}
