package engine

import (
	"fmt"

	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/skills"
)

// PurchaseSkill buys the next level of a skill with gold or gems.
func (e *Engine) PurchaseSkill(id skills.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !id.Valid() {
		return e.reject(fmt.Errorf("%w: skill %d", ErrUnknownItem, int(id)), "Unknown skill.")
	}
	def := e.cat.Skills.Get(id)
	level := e.skills[id]
	if level >= def.MaxLevel {
		return e.reject(ErrMaxLevel, "%s is already at max level.", def.Name)
	}

	cost := e.cat.Skills.Cost(id, level)
	switch def.Currency {
	case skills.Gems:
		if !e.player.SpendGems(cost) {
			return e.reject(ErrInsufficientFunds, "Not enough gems for %s (%d needed).", def.Name, cost)
		}
		e.stats.RecordSkillPurchase(0)
	default:
		if !e.player.SpendGold(cost) {
			return e.reject(ErrInsufficientFunds, "Not enough gold for %s (%d needed).", def.Name, cost)
		}
		e.stats.RecordSkillPurchase(cost)
	}

	e.skills[id]++
	e.recompute()
	e.sound(SoundPurchase)
	e.logf("%s upgraded to level %d!", def.Name, e.skills[id])
	if e.skills[id] == def.MaxLevel {
		e.tracker.UpdateAchievement(objective.SkillMaster, 1)
	}
	e.refreshRaids()
	return nil
}

// SkillCost returns the price of the next level of a skill.
func (e *Engine) SkillCost(id skills.ID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !id.Valid() {
		return 0
	}
	return e.cat.Skills.Cost(id, e.skills[id])
}

// PurchaseItem buys a shop item by key. Consumables go to their counter;
// equipment goes to the inventory as a new instance, which is returned.
func (e *Engine) PurchaseItem(key string) (items.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.cat.Shop.Find(key)
	if !ok {
		return items.Item{}, e.reject(fmt.Errorf("%w: %q", ErrUnknownItem, key), "That item is not for sale.")
	}
	if !e.player.SpendGold(item.Cost) {
		return items.Item{}, e.reject(ErrInsufficientFunds, "Not enough gold for %s (%d needed).", item.Name, item.Cost)
	}
	e.stats.RecordItemPurchase(item.Cost)
	e.sound(SoundPurchase)

	if item.Type == items.Consumable {
		e.consumables.Add(item.Consumable, 1)
		e.notify("Item Purchased", fmt.Sprintf("Bought %s!", item.Name))
		e.refreshRaids()
		return item, nil
	}

	owned := items.NewInstance(item)
	e.inventory = append(e.inventory, owned)
	e.notify("Item Purchased", fmt.Sprintf("Bought %s!", item.Name))
	e.tracker.UpdateAchievement(objective.EquipmentCollector, 1)
	e.tracker.UpdateQuest(objective.BuyEquipment, 1)
	e.refreshRaids()
	return owned, nil
}

// EquipItem puts item into its slot, overwriting and discarding whatever
// was equipped there. It does not touch the inventory: callers equipping
// an owned item must remove it themselves, or use EquipFromInventory.
func (e *Engine) EquipItem(item items.Item) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.equip(item)
}

func (e *Engine) equip(item items.Item) error {
	if err := e.equipment.Equip(item); err != nil {
		return e.reject(err, "%s cannot be equipped.", item.Name)
	}
	e.recompute()
	e.logf("Equipped %s.", item.Name)
	return nil
}

// EquipFromInventory equips an owned item by instance ID and removes it
// from the inventory.
func (e *Engine) EquipFromInventory(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := items.FindByID(e.inventory, id)
	if i < 0 {
		return e.reject(fmt.Errorf("%w: %q", ErrUnknownItem, id), "You don't have that item.")
	}
	if err := e.equip(e.inventory[i]); err != nil {
		return err
	}
	items.RemoveByID(&e.inventory, id)
	return nil
}
