package placeservice

// Place заведение (тенант) из каталога PlaceService
type Place struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	OwnerID        int64   `json:"ownerId"`
	ManagerUserIDs []int64 `json:"managerUserIds"`
	Currency       string  `json:"currency"`
	EmployeeIDs    []int64 `json:"employeeIds"`
}

// IsManager возвращает true, если пользователь управляет заведением
func (p *Place) IsManager(userID int64) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, id := range p.ManagerUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasEmployee возвращает true, если сотрудник числится в заведении
func (p *Place) HasEmployee(employeeID int64) bool {
	for _, id := range p.EmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

// Service услуга заведения из каталога PlaceService
type Service struct {
	ID              int64    `json:"id"`
	PlaceID         int64    `json:"placeId"`
	Name            string   `json:"name"`
	Price           *float64 `json:"price"`
	DurationMinutes int      `json:"durationMinutes"`
	// EmployeeIDs сотрудники, оказывающие услугу
	EmployeeIDs []int64 `json:"employeeIds"`
}

// HasEmployee возвращает true, если сотрудник оказывает услугу
func (s *Service) HasEmployee(employeeID int64) bool {
	for _, id := range s.EmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}

// Employee сотрудник заведения из каталога PlaceService
type Employee struct {
	ID      int64  `json:"id"`
	PlaceID int64  `json:"placeId"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
}
