// Package session runs the live game loop for each signed-in user: the
// 100 ms tick, the autosave cadence, and every player command. All state
// mutation happens under the controller's lock, one command or tick at a
// time, mirroring the single-threaded loop the game rules assume.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickpersak/idle-rpg/internal/catalog"
	"github.com/rickpersak/idle-rpg/internal/content"
	"github.com/rickpersak/idle-rpg/internal/game"
	"github.com/rickpersak/idle-rpg/internal/inventory"
	"github.com/rickpersak/idle-rpg/internal/loot"
	"github.com/rickpersak/idle-rpg/internal/profession"
	"github.com/rickpersak/idle-rpg/internal/progression"
	"github.com/rickpersak/idle-rpg/internal/save"
	"github.com/rickpersak/idle-rpg/internal/settings"
)

var (
	ErrNoSession = errors.New("no active game session")
	ErrNoSave    = errors.New("no saved game available")
	ErrEmptyName = errors.New("save name is empty")
)

// UnknownSlotError reports a load of a slot the user's directory lacks,
// optionally carrying the closest existing key as a hint.
type UnknownSlotError struct {
	Key        string
	Suggestion string
}

func (e *UnknownSlotError) Error() string {
	return fmt.Sprintf("unknown save slot %q", e.Key)
}

func (e *UnknownSlotError) Is(target error) bool {
	return target == save.ErrSlotNotFound
}

// SettingsSource reads a user's current preferences.
type SettingsSource interface {
	Get(userID string) settings.Settings
}

// Options configures a controller. Zero intervals get the production
// defaults; tests shorten them or drive tick steps directly.
type Options struct {
	Clock         game.Clock
	Content       *content.Content
	Saves         save.Repository
	Settings      SettingsSource
	Broker        *Broker
	Logger        *log.Logger
	TickEvery     time.Duration
	AutosaveEvery time.Duration
}

func (o *Options) applyDefaults() {
	if o.Clock == nil {
		o.Clock = game.RealClock{}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.TickEvery <= 0 {
		o.TickEvery = profession.TickMillis * time.Millisecond
	}
	if o.AutosaveEvery <= 0 {
		o.AutosaveEvery = 10 * time.Second
	}
}

// Controller owns one user's live game state.
type Controller struct {
	userID   string
	clock    game.Clock
	cat      catalog.Catalog
	content  *content.Content
	saves    save.Repository
	settings SettingsSource
	broker   *Broker
	logger   *log.Logger

	tickEvery     time.Duration
	autosaveEvery time.Duration

	mu     sync.Mutex
	state  *game.State
	doc    save.Document
	active bool
}

// NewController loads the user's save directory and returns an idle
// controller; the game loop starts with Run.
func NewController(ctx context.Context, userID string, opts Options) (*Controller, error) {
	opts.applyDefaults()
	doc, err := opts.Saves.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load save document: %w", err)
	}
	return &Controller{
		userID:        userID,
		doc:           doc,
		clock:         opts.Clock,
		cat:           opts.Content.Catalog(),
		content:       opts.Content,
		saves:         opts.Saves,
		settings:      opts.Settings,
		broker:        opts.Broker,
		logger:        opts.Logger,
		tickEvery:     opts.TickEvery,
		autosaveEvery: opts.AutosaveEvery,
	}, nil
}

// Run drives the tick and autosave loops until ctx is cancelled, then takes
// a final autosave so an orderly shutdown never loses more than in-flight
// tick progress.
func (c *Controller) Run(ctx context.Context) {
	tick := time.NewTicker(c.tickEvery)
	defer tick.Stop()
	autosave := time.NewTicker(c.autosaveEvery)
	defer autosave.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			c.autosave(shutdownCtx)
			cancel()
			return
		case <-tick.C:
			c.Tick()
		case <-autosave.C:
			c.autosave(ctx)
		}
	}
}

// Tick advances every profession by one tick interval and folds the
// resulting loot into the inventory and resource ledger.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}

	delta := int(c.tickEvery / time.Millisecond)
	gains := loot.NewCollector()
	for i := range c.state.Professions {
		res := profession.Step(c.state.Professions[i], delta)
		if res.Changed {
			c.state.Professions[i] = res.Profession
		}
		if res.Loot != nil {
			gains.Add(res.Loot.ID, res.Loot.Quantity)
		}
	}
	if gains.Empty() {
		return
	}

	merged := inventory.Merge(c.state.Inventory, gains.Gains(), c.state.InventoryCapacity, c.cat)
	c.state.Inventory = merged.Slots
	for _, g := range merged.Added {
		c.state.AddResource(g.ID, decimal.NewFromInt(g.Quantity))
		c.notifyLocked(NotifyGain, fmt.Sprintf("+%d %s", g.Quantity, c.cat.Lookup(g.ID).Name))
	}
	for _, g := range merged.Rejected {
		c.notifyLocked(NotifyWarning, fmt.Sprintf("Inventory full! Lost %d %s.", g.Quantity, c.cat.Lookup(g.ID).Name))
	}
}

// NewGame starts a fresh session and writes its initial autosave.
func (c *Controller) NewGame(ctx context.Context) error {
	c.mu.Lock()
	c.state = game.NewState(c.content.Professions())
	c.active = true
	c.mu.Unlock()

	if err := c.persist(ctx, save.DefaultSlotKey, save.DefaultSlotName); err != nil {
		return fmt.Errorf("initial autosave: %w", err)
	}
	return nil
}

// Continue resumes the most recently written slot, falling back to any
// existing slot or a bare current snapshot from a legacy document.
func (c *Controller) Continue() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Already playing: keep the live state, don't rewind to the last save.
	if c.active {
		return nil
	}
	snap, ok := c.pickContinueSnapshot()
	if !ok {
		c.notifyLocked(NotifyWarning, "No saved game available.")
		return ErrNoSave
	}
	c.state = save.Hydrate(snap)
	c.active = true
	return nil
}

func (c *Controller) pickContinueSnapshot() (save.Snapshot, bool) {
	if snap, ok := c.doc.Slots[c.doc.LastSlot]; ok {
		return snap, true
	}
	if keys := c.doc.SlotKeys(); len(keys) > 0 {
		return c.doc.Slots[keys[0]], true
	}
	if c.doc.Current != nil {
		return *c.doc.Current, true
	}
	return save.Snapshot{}, false
}

// LoadSlot hydrates a named slot. A miss warns the player, with the closest
// existing slot name as a hint when one is plausible.
func (c *Controller) LoadSlot(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, ok := c.doc.Slots[key]
	if !ok {
		suggestion, _ := save.ClosestSlot(c.doc.Slots, key)
		msg := fmt.Sprintf("No save named %q.", key)
		if suggestion != "" {
			msg += fmt.Sprintf(" Did you mean %q?", suggestion)
		}
		c.notifyLocked(NotifyWarning, msg)
		return &UnknownSlotError{Key: key, Suggestion: suggestion}
	}
	c.state = save.Hydrate(snap)
	c.active = true
	return nil
}

// Save writes a manual named save. Returns the slot key and whether an
// existing slot was overwritten.
func (c *Controller) Save(ctx context.Context, name string) (string, bool, error) {
	c.mu.Lock()
	if !c.active {
		c.notifyLocked(NotifyWarning, "Nothing to save yet.")
		c.mu.Unlock()
		return "", false, ErrNoSession
	}
	if name == "" {
		c.notifyLocked(NotifyWarning, "Save name cannot be empty.")
		c.mu.Unlock()
		return "", false, ErrEmptyName
	}
	slot := save.Slugify(name, c.clock.Now())
	_, overwritten := c.doc.Slots[slot]
	c.mu.Unlock()

	if err := c.persist(ctx, slot, name); err != nil {
		c.notify(NotifyWarning, "Save failed. Please try again.")
		return "", false, err
	}
	c.notify(NotifyGain, fmt.Sprintf("Saved game as %q.", name))
	return slot, overwritten, nil
}

// SetTask sets a profession's active task. Selecting the running task
// toggles pause; selecting another resets progress and unpauses.
func (c *Controller) SetTask(professionID string, taskIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	pi, ok := c.state.ProfessionByID(professionID)
	if !ok {
		c.notifyLocked(NotifyWarning, fmt.Sprintf("Unknown profession %q.", professionID))
		return
	}
	p := &c.state.Professions[pi]
	if taskIndex < 0 || taskIndex >= len(p.Tasks) {
		c.notifyLocked(NotifyWarning, "That task does not exist.")
		return
	}
	if p.ActiveTaskIndex != nil && *p.ActiveTaskIndex == taskIndex {
		p.IsPaused = !p.IsPaused
		return
	}
	task := p.Tasks[taskIndex]
	if p.Level < task.RequiredLevel {
		c.notifyLocked(NotifyWarning, fmt.Sprintf("Requires %s level %d.", p.Name, task.RequiredLevel))
		return
	}
	idx := taskIndex
	p.ActiveTaskIndex = &idx
	p.IsPaused = false
	p.TaskProgress = 0
}

// Sell converts part of a stack to gold at catalog value. Quantity is
// clamped to what the stack holds; an emptied stack frees its slot.
func (c *Controller) Sell(slotIndex int, quantity int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	if slotIndex < 0 || slotIndex >= len(c.state.Inventory) {
		c.notifyLocked(NotifyWarning, "Nothing to sell there.")
		return
	}
	it := c.state.Inventory[slotIndex]
	if it == nil || quantity <= 0 {
		c.notifyLocked(NotifyWarning, "Nothing to sell there.")
		return
	}
	if quantity > it.Quantity {
		quantity = it.Quantity
	}

	proceeds := decimal.NewFromInt(it.Value).Mul(decimal.NewFromInt(quantity))
	c.state.AddResource(game.ResourceGold, proceeds)
	c.state.SubtractResource(it.ID, decimal.NewFromInt(quantity))
	it.Quantity -= quantity
	if it.Quantity == 0 {
		c.state.Inventory[slotIndex] = nil
	}
	c.notifyLocked(NotifySell, fmt.Sprintf("Sold %dx %s for %s gold.", quantity, it.Name, proceeds))
}

// Move swaps two inventory slots. Out-of-range indexes or an empty source
// slot leave the inventory untouched.
func (c *Controller) Move(fromIndex, toIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	inv := c.state.Inventory
	if fromIndex < 0 || fromIndex >= len(inv) || toIndex < 0 || toIndex >= len(inv) {
		return
	}
	if inv[fromIndex] == nil || fromIndex == toIndex {
		return
	}
	inv[fromIndex], inv[toIndex] = inv[toIndex], inv[fromIndex]
}

// Equip acknowledges equipping a weapon or armor item. Gear has no combat
// effect yet; the gate and feedback match the item categories.
func (c *Controller) Equip(slotIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	if slotIndex < 0 || slotIndex >= len(c.state.Inventory) {
		c.notifyLocked(NotifyWarning, "Nothing to equip there.")
		return
	}
	it := c.state.Inventory[slotIndex]
	if it == nil {
		c.notifyLocked(NotifyWarning, "Nothing to equip there.")
		return
	}
	if it.Category != catalog.CategoryWeapon && it.Category != catalog.CategoryArmor {
		c.notifyLocked(NotifyWarning, fmt.Sprintf("You can't equip %s.", it.Name))
		return
	}
	c.notifyLocked(NotifyGain, fmt.Sprintf("Equipped %s.", it.Name))
}

// UpgradeInventory buys five more slots if the player can afford it.
func (c *Controller) UpgradeInventory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	cost := progression.InventoryUpgradeCost(c.state.InventoryCapacity)
	price := decimal.NewFromInt(cost)
	if c.state.Gold().LessThan(price) {
		c.notifyLocked(NotifyWarning, fmt.Sprintf("Not enough gold. Upgrade costs %d.", cost))
		return
	}
	c.state.SubtractResource(game.ResourceGold, price)
	c.state.InventoryCapacity += progression.InventoryUpgradeStep
	c.state.Inventory = append(c.state.Inventory, make([]*inventory.Item, progression.InventoryUpgradeStep)...)
	c.notifyLocked(NotifyGain, fmt.Sprintf("Inventory expanded to %d slots.", c.state.InventoryCapacity))
}

// persist captures a snapshot under the lock and writes it outside it, then
// folds the written slot back into the cached directory.
func (c *Controller) persist(ctx context.Context, slot, name string) error {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return ErrNoSession
	}
	snap := save.Serialize(c.state, c.clock.Now(), save.Overrides{SlotName: slot, SaveName: name})
	c.mu.Unlock()

	if err := c.saves.PutSlot(ctx, c.userID, slot, snap); err != nil {
		return fmt.Errorf("put save slot %q: %w", slot, err)
	}

	c.mu.Lock()
	if c.doc.Slots == nil {
		c.doc.Slots = map[string]save.Snapshot{}
	}
	c.doc.Slots[slot] = snap
	c.doc.Current = &snap
	c.doc.LastSlot = slot
	c.mu.Unlock()
	return nil
}

func (c *Controller) autosave(ctx context.Context) {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	if !active {
		return
	}
	if err := c.persist(ctx, save.DefaultSlotKey, save.DefaultSlotName); err != nil {
		c.logger.Printf("[session] autosave failed for %s: %v", c.userID, err)
	}
}

// Document returns the cached save directory.
func (c *Controller) Document() save.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := save.Document{
		Slots:    make(map[string]save.Snapshot, len(c.doc.Slots)),
		LastSlot: c.doc.LastSlot,
	}
	for k, v := range c.doc.Slots {
		out.Slots[k] = v
	}
	if c.doc.Current != nil {
		cur := *c.doc.Current
		out.Current = &cur
	}
	return out
}

func (c *Controller) notify(kind NotificationType, message string) {
	c.mu.Lock()
	c.notifyLocked(kind, message)
	c.mu.Unlock()
}

// notifyLocked publishes a notification, honoring the player's
// showNotifications preference for everything except warnings.
func (c *Controller) notifyLocked(kind NotificationType, message string) {
	if c.broker == nil {
		return
	}
	if kind != NotifyWarning && c.settings != nil && !c.settings.Get(c.userID).ShowNotifications {
		return
	}
	c.broker.Publish(c.userID, newNotification(kind, message))
}
