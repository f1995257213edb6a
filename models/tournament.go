package models

// Tournament — корневой агрегат. Groups материализуются при создании
// согласно формату; Matches пока не используются.
type Tournament struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Format  Format  `json:"format"`
	Groups  []Group `json:"groups"`
	Matches []Match `json:"matches,omitempty"`
}

func (t *Tournament) EntityID() string { return t.ID }

func (t *Tournament) SetEntityID(id string) { t.ID = id }

// MaterializeGroups приводит список групп к ровно Format.NumberOfGroups
// элементам до записи в хранилище. Группы, присланные клиентом, сохраняются
// по порядку; недостающие добавляются пустыми; безымянные получают
// последовательное буквенное имя ("Group A", "Group B", ...).
func (t *Tournament) MaterializeGroups() {
	n := t.Format.NumberOfGroups
	if n < 0 {
		n = 0
	}

	groups := make([]Group, n)
	copy(groups, t.Groups)
	for i := range groups {
		if groups[i].Name == "" {
			groups[i].Name = "Group " + GroupLetter(i)
		}
		if groups[i].Teams == nil {
			groups[i].Teams = []Team{}
		}
	}
	t.Groups = groups
}

// GroupLetter возвращает буквенную метку для нулевого индекса в стиле
// колонок таблицы: A..Z, AA, AB, ...
func GroupLetter(index int) string {
	label := ""
	for index >= 0 {
		label = string(rune('A'+index%26)) + label
		index = index/26 - 1
	}
	return label
}
