package employee

import "strconv"

// Candidates is a mutable list of profiles being narrowed down for a team.
type Candidates struct {
	Items []*Profile
}

// NewCandidates copies the provided profiles into a candidate list, skipping nils.
func NewCandidates(profiles []*Profile) *Candidates {
	items := make([]*Profile, 0, len(profiles))
	for _, p := range profiles {
		if p != nil {
			items = append(items, p)
		}
	}
	return &Candidates{Items: items}
}

func (c *Candidates) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// IDs returns the candidate ids in list order.
func (c *Candidates) IDs() []int64 {
	ids := make([]int64, 0, c.Len())
	if c == nil {
		return ids
	}
	for _, p := range c.Items {
		ids = append(ids, p.ID)
	}
	return ids
}

func (c *Candidates) FindByID(id int64) *Profile {
	if c == nil {
		return nil
	}
	for _, p := range c.Items {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Keep retains the candidates for which keep returns true and returns the ids
// of the dropped ones as strings, ready for logging.
func (c *Candidates) Keep(keep func(*Profile) bool) []string {
	if c == nil {
		return nil
	}

	dropped := make([]string, 0)
	kept := c.Items[:0]
	for _, p := range c.Items {
		if keep(p) {
			kept = append(kept, p)
			continue
		}
		dropped = append(dropped, strconv.FormatInt(p.ID, 10))
	}

	for i := len(kept); i < len(c.Items); i++ {
		c.Items[i] = nil
	}
	c.Items = kept

	return dropped
}

// Exclude drops the candidates whose ids are listed.
func (c *Candidates) Exclude(ids []int64) []string {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return c.Keep(func(p *Profile) bool {
		_, found := set[p.ID]
		return !found
	})
}
