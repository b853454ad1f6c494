package entity

// ApplicationChange is emitted after a stored application is updated.
// Inserts never produce a change.
type ApplicationChange struct {
	New CourierApplication `json:"new"`
	Old CourierApplication `json:"old"`
}

func (c ApplicationChange) StatusChanged() bool { return c.New.Status != c.Old.Status }
