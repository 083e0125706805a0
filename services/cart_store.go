package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/yeremiapane/burger-storefront/content"
	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/utils"
)

// CartObserver is called with a copy of the cart after every mutation.
type CartObserver func(cart models.Cart)

// CartStore owns one session's cart. Every mutation rewrites the whole
// snapshot and then notifies observers.
type CartStore struct {
	storage   SnapshotStorage
	sessionID string
	content   *content.Store
	confirmer Confirmer
	notifier  Notifier

	mu        sync.Mutex
	cart      models.Cart
	observers map[int]CartObserver
	nextObs   int
}

type CartOption func(*CartStore)

// WithConfirmer sets the prompt used before a confirmed removal.
func WithConfirmer(c Confirmer) CartOption {
	return func(s *CartStore) { s.confirmer = c }
}

func WithNotifier(n Notifier) CartOption {
	return func(s *CartStore) { s.notifier = n }
}

func NewCartStore(storage SnapshotStorage, sessionID string, store *content.Store, opts ...CartOption) *CartStore {
	s := &CartStore{
		storage:   storage,
		sessionID: sessionID,
		content:   store,
		confirmer: NeverConfirm,
		observers: make(map[int]CartObserver),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers an observer and returns its unsubscribe func.
func (s *CartStore) Subscribe(obs CartObserver) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = obs
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Load rehydrates the cart from the persisted snapshot. A missing or corrupt
// snapshot yields an empty cart and no error.
func (s *CartStore) Load(ctx context.Context) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = models.Cart{}
	raw, ok, err := s.storage.Get(ctx, s.sessionID, models.CartStorageKey)
	if err != nil {
		utils.Error().WithField("session", s.sessionID).Errorf("Error reading cart snapshot: %v", err)
		return s.cart.Clone()
	}
	if !ok {
		return s.cart.Clone()
	}

	var saved models.Cart
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		utils.Info().WithField("session", s.sessionID).Warnf("Discarding corrupt cart snapshot: %v", err)
		return s.cart.Clone()
	}
	s.cart = sanitize(saved)
	return s.cart.Clone()
}

// sanitize drops entries that break the cart invariants: duplicate ids keep
// the first occurrence and quantities below one are removed.
func sanitize(in models.Cart) models.Cart {
	out := make(models.Cart, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, it := range in {
		if it.ID == "" || it.Quantity < 1 || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}

// Items returns a copy of the current cart.
func (s *CartStore) Items() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

func (s *CartStore) Quantity(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Quantity(id)
}

// Totals is recomputed from the cart on every call.
func (s *CartStore) Totals() models.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotals(s.cart, s.content.Constants.DeliveryFee, s.content.Constants.TaxRate)
}

// Add increments the quantity of id or appends it with quantity one.
func (s *CartStore) Add(ctx context.Context, id, name string, price float64, image string) error {
	return s.AddN(ctx, id, name, price, image, 1)
}

// AddN adds n units of id in one write, as the product page does.
func (s *CartStore) AddN(ctx context.Context, id, name string, price float64, image string, n int) error {
	if id == "" {
		return fmt.Errorf("add to cart: empty product id")
	}
	if n < 1 {
		n = 1
	}
	if price < 0 {
		price = 0
	}
	if image == "" {
		image = content.PlaceholderImage
	}

	s.mu.Lock()
	next := s.cart.Clone()
	if i := next.Find(id); i >= 0 {
		next[i].Quantity += n
	} else {
		next = append(next, models.LineItem{
			ID:       id,
			Name:     name,
			Price:    price,
			Image:    image,
			Quantity: n,
		})
	}
	err := s.commitLocked(ctx, next)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publish()
	s.toast(ctx, ToastSuccess, "itemAdded", "Item added to cart")
	return nil
}

// SetQuantity overwrites the quantity of id. Below one it asks to remove the
// item instead. Unknown ids are ignored.
func (s *CartStore) SetQuantity(ctx context.Context, id string, qty int) error {
	s.mu.Lock()
	i := s.cart.Find(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	if qty < 1 {
		s.mu.Unlock()
		_, err := s.Remove(ctx, id, false, nil)
		return err
	}
	next := s.cart.Clone()
	next[i].Quantity = qty
	err := s.commitLocked(ctx, next)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publish()
	s.toast(ctx, ToastSuccess, "quantityUpdated", "Quantity updated")
	return nil
}

// Remove takes id out of the cart. Unless skipConfirmation is set the
// Confirmer is asked first; when it declines nothing changes and onComplete
// is not called. The bool reports whether the removal happened.
func (s *CartStore) Remove(ctx context.Context, id string, skipConfirmation bool, onComplete func()) (bool, error) {
	s.mu.Lock()
	known := s.cart.Find(id) >= 0
	s.mu.Unlock()
	if !known {
		return false, nil
	}

	if !skipConfirmation {
		msg := s.content.TextOr("removeItemConfirm", "Minimum quantity is 1. Do you want to remove this item from cart?")
		if !s.confirmer.Confirm(ctx, msg) {
			return false, nil
		}
	}

	s.mu.Lock()
	kept := make(models.Cart, 0, len(s.cart))
	for _, it := range s.cart {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	err := s.commitLocked(ctx, kept)
	s.mu.Unlock()

	if err != nil {
		return false, err
	}
	s.publish()
	s.toast(ctx, ToastSuccess, "itemRemoved", "Item removed from cart")
	if onComplete != nil {
		onComplete()
	}
	return true, nil
}

// Clear empties the cart after a submitted order.
func (s *CartStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.commitLocked(ctx, models.Cart{})
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publish()
	return nil
}

// commitLocked writes next as the full snapshot and only then makes it the
// current cart, so a failed write leaves the cart as it was.
func (s *CartStore) commitLocked(ctx context.Context, next models.Cart) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := s.storage.Put(ctx, s.sessionID, models.CartStorageKey, string(raw)); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	s.cart = next
	return nil
}

func (s *CartStore) publish() {
	s.mu.Lock()
	snapshot := s.cart.Clone()
	observers := make([]CartObserver, 0, len(s.observers))
	for _, obs := range s.observers {
		observers = append(observers, obs)
	}
	s.mu.Unlock()

	for _, obs := range observers {
		obs(snapshot.Clone())
	}
}

func (s *CartStore) toast(ctx context.Context, kind, key, def string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, Toast{Type: kind, Message: s.content.TextOr(key, def)})
}
