package items

// Shop is the purchasable catalog, grouped the way the shop lists it.
type Shop struct {
	Weapons     []Item `yaml:"weapons" json:"weapons"`
	Armor       []Item `yaml:"armor" json:"armor"`
	Accessories []Item `yaml:"accessories" json:"accessories"`
	Consumables []Item `yaml:"consumables" json:"consumables"`
}

// All returns every shop item in display order.
func (s *Shop) All() []Item {
	all := make([]Item, 0, len(s.Weapons)+len(s.Armor)+len(s.Accessories)+len(s.Consumables))
	all = append(all, s.Weapons...)
	all = append(all, s.Armor...)
	all = append(all, s.Accessories...)
	all = append(all, s.Consumables...)
	return all
}

// Find looks up a shop item by its catalog key.
func (s *Shop) Find(key string) (Item, bool) {
	for _, item := range s.All() {
		if item.Key == key {
			return item, true
		}
	}
	return Item{}, false
}
