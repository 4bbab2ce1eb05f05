package items

// Consumables are the potion counters.
type Consumables struct {
	HealPotion     int `json:"healPotion"`
	PoisonPotion   int `json:"poisonPotion"`
	StrengthPotion int `json:"strengthPotion"`
	DefensePotion  int `json:"defensePotion"`
}

// StartingConsumables is what a new character carries.
func StartingConsumables() Consumables {
	return Consumables{HealPotion: 3, PoisonPotion: 2, StrengthPotion: 1, DefensePotion: 1}
}

func (c *Consumables) counter(t ConsumableType) *int {
	switch t {
	case HealPotion:
		return &c.HealPotion
	case PoisonPotion:
		return &c.PoisonPotion
	case StrengthPotion:
		return &c.StrengthPotion
	case DefensePotion:
		return &c.DefensePotion
	default:
		return nil
	}
}

// Count returns how many of a consumable are held.
func (c *Consumables) Count(t ConsumableType) int {
	if p := c.counter(t); p != nil {
		return *p
	}
	return 0
}

// Add increments a counter. Returns false for an unknown type.
func (c *Consumables) Add(t ConsumableType, n int) bool {
	p := c.counter(t)
	if p == nil {
		return false
	}
	*p += n
	return true
}

// Take decrements a counter if any are left.
func (c *Consumables) Take(t ConsumableType) bool {
	p := c.counter(t)
	if p == nil || *p <= 0 {
		return false
	}
	*p--
	return true
}
