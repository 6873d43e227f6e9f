package cart

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/catalog"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
)

// Item is one line of a cart. Several items may reference the same service.
type Item struct {
	ID       string          `json:"id"`
	Service  catalog.Service `json:"service"`
	Quantity int             `json:"quantity"`
	Details  map[string]any  `json:"details,omitempty"`
	AddedAt  time.Time       `json:"added_at"`
}

// Snapshot is a consistent copy of the cart state.
type Snapshot struct {
	Items         []Item `json:"items"`
	IsOpen        bool   `json:"is_open"`
	Count         int    `json:"count"`
	TotalQuantity int    `json:"total_quantity"`
}

// IDFunc generates the id of a new line item.
type IDFunc func(code string) string

// DefaultID returns "<code>_<uuid>".
func DefaultID(code string) string {
	return fmt.Sprintf("%s_%s", code, uuid.NewString())
}

// Cart holds the line items of one session. Methods are safe for concurrent use and
// apply in call order.
type Cart struct {
	mu       sync.RWMutex
	items    []Item
	isOpen   bool
	newID    IDFunc
	now      func() time.Time
	lastSeen time.Time
}

// Option customizes a Cart.
type Option func(*Cart)

// WithIDFunc overrides the line item id generator.
func WithIDFunc(fn IDFunc) Option {
	return func(c *Cart) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cart) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns an empty, closed cart.
func New(opts ...Option) *Cart {
	c := &Cart{newID: DefaultID, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.lastSeen = c.now()
	return c
}

// AddItem appends a new line item and opens the cart view.
func (c *Cart) AddItem(svc catalog.Service, quantity int, details map[string]any) (Item, error) {
	if err := checkItem(svc, quantity, details); err != nil {
		return Item{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.uniqueID(svc.Code)
	if err != nil {
		return Item{}, err
	}
	item := Item{
		ID:       id,
		Service:  svc,
		Quantity: quantity,
		Details:  CleanDetails(details),
		AddedAt:  c.now().UTC(),
	}
	c.items = append(c.items, item)
	c.isOpen = true
	c.touch()
	return cloneItem(item), nil
}

// ItemChanges describes an update to a line item. A nil Quantity or a nil Details
// map keeps the current value; an empty non-nil Details map clears the answers.
type ItemChanges struct {
	Quantity *int
	Details  map[string]any
}

// UpdateItem applies changes to an item. An unknown id is a no-op reported through
// found.
func (c *Cart) UpdateItem(id string, changes ItemChanges) (Item, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	idx := c.indexOf(id)
	if idx < 0 {
		return Item{}, false, nil
	}
	current := c.items[idx]
	quantity := current.Quantity
	if changes.Quantity != nil {
		quantity = *changes.Quantity
	}
	details := current.Details
	if changes.Details != nil {
		details = changes.Details
	}
	if err := checkItem(current.Service, quantity, details); err != nil {
		return Item{}, true, err
	}
	current.Quantity = quantity
	current.Details = CleanDetails(details)
	c.items[idx] = current
	return cloneItem(current), true, nil
}

// RemoveItem deletes the item with the given id and reports whether it existed.
func (c *Cart) RemoveItem(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return true
}

// Clear empties the cart. The open flag is left as is.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.touch()
}

func (c *Cart) Open() {
	c.setOpen(func(bool) bool { return true })
}

func (c *Cart) Close() {
	c.setOpen(func(bool) bool { return false })
}

func (c *Cart) Toggle() {
	c.setOpen(func(v bool) bool { return !v })
}

func (c *Cart) setOpen(next func(bool) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isOpen = next(c.isOpen)
	c.touch()
}

// IsInCart reports whether any line item references the service code.
func (c *Cart) IsInCart(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.Service.Code == code {
			return true
		}
	}
	return false
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyItems()
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// TotalQuantity sums the quantity of every line item.
func (c *Cart) TotalQuantity() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalQuantity()
}

func (c *Cart) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isOpen
}

// Snapshot returns items and flags read under a single lock.
func (c *Cart) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Items:         c.copyItems(),
		IsOpen:        c.isOpen,
		Count:         len(c.items),
		TotalQuantity: c.totalQuantity(),
	}
}

func (c *Cart) idleSince(now time.Time) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return now.Sub(c.lastSeen)
}

func (c *Cart) touch() {
	c.lastSeen = c.now()
}

func (c *Cart) indexOf(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// maxIDAttempts bounds regeneration when the id function keeps colliding.
const maxIDAttempts = 8

func (c *Cart) uniqueID(code string) (string, error) {
	for range maxIDAttempts {
		id := c.newID(code)
		if c.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("could not allocate a unique item id for %s", code))
}

func (c *Cart) totalQuantity() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) copyItems() []Item {
	out := make([]Item, len(c.items))
	for i, item := range c.items {
		out[i] = cloneItem(item)
	}
	return out
}

func cloneItem(item Item) Item {
	if item.Details != nil {
		details := make(map[string]any, len(item.Details))
		for k, v := range item.Details {
			details[k] = v
		}
		item.Details = details
	}
	return item
}

func checkItem(svc catalog.Service, quantity int, details map[string]any) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]string{"quantity": "must be at least 1"})
	}
	if problems := ValidateDetails(svc, details); len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid service details").
			WithDetails(map[string]any{"details": problems})
	}
	return nil
}
