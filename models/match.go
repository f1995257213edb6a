package models

// Match зарезервирован под будущий слайс расписания. Ни одна текущая
// операция его не заполняет.
type Match struct {
	ID string `json:"id,omitempty"`
}
