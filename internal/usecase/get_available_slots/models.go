package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	BarberID string    // ID барбера
	Date     time.Time // Дата для получения слотов (время игнорируется)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	BarberID        string    // ID барбера
	Slots           []string  // Свободные слоты в формате "9:00 AM", по возрастанию
	ConfigSource    string    // Откуда взята конфигурация: api, cache или none (значения по умолчанию)
	OccupancySource string    // Откуда взята занятость: api или cache
	Degraded        bool      // Часть данных устарела или подставлена по умолчанию
}
