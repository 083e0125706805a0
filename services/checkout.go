package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yeremiapane/burger-storefront/content"
	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/utils"
)

// CountryCode is prefixed to the local phone number of every order.
const CountryCode = "962"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrSubmissionInFlight = errors.New("order submission already in progress")
	ErrSubmitFailed       = errors.New("order submission failed")
)

var localPhonePattern = regexp.MustCompile(`^7\d{8}$`)

// CheckoutForm is the contact and address form. Notes is optional.
type CheckoutForm struct {
	Name          string `form:"name" json:"name" validate:"required"`
	Phone         string `form:"phone" json:"phone" validate:"required,local_phone"`
	Address       string `form:"address" json:"address" validate:"required"`
	City          string `form:"city" json:"city" validate:"required"`
	Street        string `form:"street" json:"street" validate:"required"`
	Building      string `form:"building" json:"building" validate:"required,number"`
	Notes         string `form:"notes" json:"notes"`
	PaymentMethod string `form:"paymentMethod" json:"paymentMethod" validate:"required"`
}

func (f CheckoutForm) trimmed() CheckoutForm {
	return CheckoutForm{
		Name:          strings.TrimSpace(f.Name),
		Phone:         strings.TrimSpace(f.Phone),
		Address:       strings.TrimSpace(f.Address),
		City:          strings.TrimSpace(f.City),
		Street:        strings.TrimSpace(f.Street),
		Building:      strings.TrimSpace(f.Building),
		Notes:         strings.TrimSpace(f.Notes),
		PaymentMethod: strings.TrimSpace(f.PaymentMethod),
	}
}

// ValidationError carries one user-facing message for the whole form.
type ValidationError struct {
	Message string
	Fields  []string
	cause   error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.cause }

const defaultFormError = "Please fill in all required fields correctly"

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("local_phone", func(fl validator.FieldLevel) bool {
		return localPhonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the form. Every failure maps to the same message.
func Validate(form CheckoutForm) error {
	return validateWith(form.trimmed(), defaultFormError)
}

func validateWith(form CheckoutForm, message string) error {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}
	verr := &ValidationError{Message: message, cause: err}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verr.Fields = append(verr.Fields, fe.Field())
		}
	}
	return verr
}

// BuildOrder snapshots the form, the cart and its totals at now.
func BuildOrder(form CheckoutForm, cart models.Cart, totals models.CartTotals, now time.Time) models.Order {
	form = form.trimmed()
	return models.Order{
		Reference: uuid.NewString(),
		Customer: models.CustomerInfo{
			Name:     form.Name,
			Phone:    CountryCode + form.Phone,
			Address:  form.Address,
			City:     form.City,
			Street:   form.Street,
			Building: form.Building,
			Notes:    form.Notes,
		},
		PaymentMethod: form.PaymentMethod,
		Items:         cart.Clone(),
		Totals:        totals.Snapshot(),
		Timestamp:     now.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

type CheckoutState int

const (
	CheckoutIdle CheckoutState = iota
	CheckoutValidating
	CheckoutInvalid
	CheckoutSubmitting
	CheckoutSubmitted
	CheckoutFailed
)

func (s CheckoutState) String() string {
	switch s {
	case CheckoutIdle:
		return "idle"
	case CheckoutValidating:
		return "validating"
	case CheckoutInvalid:
		return "invalid"
	case CheckoutSubmitting:
		return "submitting"
	case CheckoutSubmitted:
		return "submitted"
	case CheckoutFailed:
		return "failed"
	default:
		return fmt.Sprintf("CheckoutState(%d)", int(s))
	}
}

// OrderSender delivers an order. A nil error means the order counts as placed.
type OrderSender interface {
	Submit(ctx context.Context, order models.Order) error
}

// OrderEventPublisher announces placed orders to other systems.
type OrderEventPublisher interface {
	PublishOrderSubmitted(ctx context.Context, order models.Order) error
}

// Receipt is what the thank-you view shows.
type Receipt struct {
	Phone     string       `json:"phone"`
	Reference string       `json:"reference"`
	Order     models.Order `json:"order"`
}

// CheckoutFlow runs one session's checkout state machine:
// Idle -> Validating -> (Invalid -> Idle) | Submitting -> (Submitted | Failed) -> Idle.
type CheckoutFlow struct {
	sender    OrderSender
	publisher OrderEventPublisher
	content   *content.Store
	notifier  Notifier
	now       func() time.Time

	mu       sync.Mutex
	state    CheckoutState
	onChange func(CheckoutState)
}

type CheckoutOption func(*CheckoutFlow)

func WithCheckoutNotifier(n Notifier) CheckoutOption {
	return func(f *CheckoutFlow) { f.notifier = n }
}

func WithOrderEvents(p OrderEventPublisher) CheckoutOption {
	return func(f *CheckoutFlow) { f.publisher = p }
}

func WithClock(now func() time.Time) CheckoutOption {
	return func(f *CheckoutFlow) { f.now = now }
}

// WithStateObserver is called on every state transition.
func WithStateObserver(fn func(CheckoutState)) CheckoutOption {
	return func(f *CheckoutFlow) { f.onChange = fn }
}

func NewCheckoutFlow(sender OrderSender, store *content.Store, opts ...CheckoutOption) *CheckoutFlow {
	f := &CheckoutFlow{
		sender:  sender,
		content: store,
		now:     time.Now,
		state:   CheckoutIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *CheckoutFlow) State() CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SubmitLabel is the submit button label for the current state.
func (f *CheckoutFlow) SubmitLabel() string {
	if f.State() == CheckoutSubmitting {
		return f.content.TextOr("processingOrderBtn", "Processing...")
	}
	return f.content.TextOr("completeOrderBtn", "Complete Order")
}

// SubmitDisabled mirrors the disabled submit button while a request is out.
func (f *CheckoutFlow) SubmitDisabled() bool {
	s := f.State()
	return s == CheckoutValidating || s == CheckoutSubmitting
}

func (f *CheckoutFlow) transition(to CheckoutState) {
	f.mu.Lock()
	f.state = to
	fn := f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn(to)
	}
}

// Submit validates the form, sends the order and clears the cart. The send
// is fire-and-forget: any outcome without a transport error is success.
// On failure the cart is left untouched so the user can retry.
func (f *CheckoutFlow) Submit(ctx context.Context, form CheckoutForm, cart *CartStore) (*Receipt, error) {
	f.mu.Lock()
	if f.state != CheckoutIdle {
		f.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	f.state = CheckoutValidating
	fn := f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn(CheckoutValidating)
	}

	formMsg := f.content.TextOr("formError", defaultFormError)
	if err := validateWith(form.trimmed(), formMsg); err != nil {
		return nil, f.reject(ctx, err)
	}
	items := cart.Items()
	if len(items) == 0 {
		msg := f.content.TextOr("cartEmptyMessage", "Your cart is empty")
		return nil, f.reject(ctx, &ValidationError{Message: msg, cause: ErrEmptyCart})
	}

	f.transition(CheckoutSubmitting)
	order := BuildOrder(form, items, cart.Totals(), f.now())

	log := utils.Info().WithField("reference", order.Reference)
	if err := f.sender.Submit(ctx, order); err != nil {
		f.transition(CheckoutFailed)
		utils.Error().WithField("reference", order.Reference).Errorf("Error submitting order: %v", err)
		f.notify(ctx, ToastError, f.content.TextOr("orderFailed", "Order failed. Please try again."))
		f.transition(CheckoutIdle)
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	f.transition(CheckoutSubmitted)
	log.WithField("items", len(order.Items)).Info("Order submitted")

	if err := cart.Clear(ctx); err != nil {
		utils.Error().WithField("reference", order.Reference).Errorf("Error clearing cart after order: %v", err)
	}
	if f.publisher != nil {
		if err := f.publisher.PublishOrderSubmitted(ctx, order); err != nil {
			utils.Error().WithField("reference", order.Reference).Errorf("Error publishing order event: %v", err)
		}
	}
	f.transition(CheckoutIdle)

	return &Receipt{
		Phone:     order.Customer.Phone,
		Reference: order.Reference,
		Order:     order,
	}, nil
}

func (f *CheckoutFlow) reject(ctx context.Context, err error) error {
	f.transition(CheckoutInvalid)
	var verr *ValidationError
	if errors.As(err, &verr) {
		f.notify(ctx, ToastError, verr.Message)
	}
	f.transition(CheckoutIdle)
	return err
}

func (f *CheckoutFlow) notify(ctx context.Context, kind, msg string) {
	if f.notifier != nil {
		f.notifier.Notify(ctx, Toast{Type: kind, Message: msg})
	}
}

// CheckoutRegistry hands out one CheckoutFlow per session.
type CheckoutRegistry struct {
	mu       sync.Mutex
	flows    map[string]*CheckoutFlow
	lastUsed map[string]time.Time
	build    func(sessionID string) *CheckoutFlow
	now      func() time.Time
}

func NewCheckoutRegistry(build func(sessionID string) *CheckoutFlow) *CheckoutRegistry {
	return &CheckoutRegistry{
		flows:    make(map[string]*CheckoutFlow),
		lastUsed: make(map[string]time.Time),
		build:    build,
		now:      time.Now,
	}
}

func (r *CheckoutRegistry) For(sessionID string) *CheckoutFlow {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[sessionID]
	if !ok {
		f = r.build(sessionID)
		r.flows[sessionID] = f
	}
	r.lastUsed[sessionID] = r.now()
	return f
}

// Len reports how many sessions currently hold a flow.
func (r *CheckoutRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// Forget drops idle flows for sessions that no longer exist.
func (r *CheckoutRegistry) Forget(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forgetLocked(sessionID)
}

// ForgetIdleSince drops every idle flow not handed out since cutoff and
// returns how many went. A flow that is still submitting is kept.
func (r *CheckoutRegistry) ForgetIdleSince(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, used := range r.lastUsed {
		if used.Before(cutoff) && r.forgetLocked(id) {
			dropped++
		}
	}
	return dropped
}

func (r *CheckoutRegistry) forgetLocked(sessionID string) bool {
	f, ok := r.flows[sessionID]
	if !ok || f.State() != CheckoutIdle {
		return false
	}
	delete(r.flows, sessionID)
	delete(r.lastUsed, sessionID)
	return true
}
