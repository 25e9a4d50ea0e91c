package loot

// Gain is a quantity of a single resource earned or lost in one batch.
type Gain struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

// Collector coalesces gains per resource id while preserving the order in
// which ids were first seen. Task completions for the same resource across
// several professions collapse into one gain per tick.
type Collector struct {
	order []string
	byID  map[string]int64
}

func NewCollector() *Collector {
	return &Collector{byID: map[string]int64{}}
}

func (c *Collector) Add(id string, quantity int64) {
	if quantity <= 0 {
		return
	}
	if _, ok := c.byID[id]; !ok {
		c.order = append(c.order, id)
	}
	c.byID[id] += quantity
}

func (c *Collector) Empty() bool {
	return len(c.order) == 0
}

// Gains returns the coalesced gains in first-seen order.
func (c *Collector) Gains() []Gain {
	if len(c.order) == 0 {
		return nil
	}
	out := make([]Gain, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Gain{ID: id, Quantity: c.byID[id]})
	}
	return out
}
