package models

type Team struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Format  Format  `json:"format"`
	Groups  []Group `json:"groups,omitempty"`
	Matches []Match `json:"matches,omitempty"`
}

func (t *Team) EntityID() string { return t.ID }

func (t *Team) SetEntityID(id string) { t.ID = id }
