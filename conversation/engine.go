package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"pizza-telegram/models"
	"pizza-telegram/retry"
)

// Commerce is the catalog, cart and order backend.
type Commerce interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	GetCart(ctx context.Context, key string) (models.Cart, error)
	AddItem(ctx context.Context, key, productID string, qty int) error
	RemoveItem(ctx context.Context, key, productID string) error
	ClearCart(ctx context.Context, key string) error
	CreateCustomer(ctx context.Context, c models.Customer) error
	ListFulfillingLocations(ctx context.Context) ([]models.FulfillingLocation, error)
	SaveOrder(ctx context.Context, o models.Order) error
}

// Geocoder turns a free-form address into coordinates. found is false when
// the address is not recognized.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (coords models.Coordinates, found bool, err error)
}

// Engine applies events to sessions. It keeps no state of its own.
type Engine struct {
	commerce Commerce
	geocoder Geocoder
	retry    retry.Policy
	now      func() time.Time
	newToken func() string
}

type Option func(*Engine)

func WithRetryPolicy(p retry.Policy) Option {
	return func(e *Engine) { e.retry = p }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithTokenSource(f func() string) Option {
	return func(e *Engine) { e.newToken = f }
}

func NewEngine(commerce Commerce, geocoder Geocoder, opts ...Option) *Engine {
	e := &Engine{
		commerce: commerce,
		geocoder: geocoder,
		retry:    retry.Once,
		now:      time.Now,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func cartKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Apply computes the next session and replies for ev. On error the returned
// transition carries the unchanged session.
func (e *Engine) Apply(ctx context.Context, s Session, ev Event) (Transition, error) {
	next := s.clone()
	tr, err := e.apply(ctx, next, ev)
	if err != nil {
		return Transition{Session: s}, err
	}
	if tr.Ignored {
		tr.Session = s
	}
	return tr, nil
}

func (e *Engine) apply(ctx context.Context, s Session, ev Event) (Transition, error) {
	switch ev.Kind {
	case EventCancel:
		return Transition{
			Session: Session{ChatID: s.ChatID, State: StateTerminated},
			Replies: []Reply{{Screen: ScreenCancelled}},
		}, nil
	case EventStart:
		return e.start(ctx, s)
	case EventPaymentConfirmed:
		return e.confirmPayment(ctx, s, ev)
	}

	if !s.State.Active() {
		return ignored(), nil
	}

	switch s.State {
	case StateMenu:
		switch ev.Kind {
		case EventPageChange:
			return e.changePage(ctx, s, ev)
		case EventSelectProduct:
			return e.showProduct(ctx, s, ev.ProductID, ev.MessageID, "")
		case EventViewCart:
			return e.showCart(ctx, s, ev.MessageID)
		}
	case StateProductDescription:
		switch ev.Kind {
		case EventAddToCart:
			return e.addToCart(ctx, s, ev)
		case EventBackToMenu:
			return e.showMenu(ctx, s, ev.MessageID)
		case EventViewCart:
			return e.showCart(ctx, s, ev.MessageID)
		}
	case StateCart:
		switch ev.Kind {
		case EventRemoveItem:
			return e.removeItem(ctx, s, ev)
		case EventBackToMenu:
			return e.showMenu(ctx, s, ev.MessageID)
		case EventRequestOrder:
			return e.requestOrder(ctx, s)
		}
	case StateAwaitingContact:
		switch ev.Kind {
		case EventText:
			return e.collectContact(s, ev.Text)
		case EventBackToMenu:
			return e.showMenu(ctx, s, ev.MessageID)
		}
	case StateAwaitingLocation:
		switch ev.Kind {
		case EventSharedLocation:
			if ev.Location == nil {
				return ignored(), nil
			}
			return e.offerDelivery(ctx, s, *ev.Location)
		case EventText:
			return e.geocode(ctx, s, ev.Text)
		case EventBackToMenu:
			return e.showMenu(ctx, s, ev.MessageID)
		}
	case StateOrder:
		switch ev.Kind {
		case EventSelectDelivery:
			return e.selectDelivery(ctx, s, ev)
		case EventBackToMenu:
			s.clearCheckout()
			return e.showMenu(ctx, s, ev.MessageID)
		}
	}
	return ignored(), nil
}

func ignored() Transition {
	return Transition{Ignored: true}
}

// start enters the menu. A terminated or unknown chat gets a fresh session;
// an active one keeps what it has collected.
func (e *Engine) start(ctx context.Context, s Session) (Transition, error) {
	if !s.State.Active() {
		s = NewSession(s.ChatID)
	}
	s.clearCheckout()
	return e.showMenu(ctx, s, 0)
}

func (e *Engine) menuReply(ctx context.Context, page, messageID int) (Reply, error) {
	products, err := e.commerce.ListProducts(ctx)
	if err != nil {
		return Reply{}, NewCollaboratorError("list products", err)
	}
	p, err := Paginate(products, page)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Screen: ScreenMenu, Menu: &p, Replace: messageID != 0, MessageID: messageID}, nil
}

func (e *Engine) showMenu(ctx context.Context, s Session, messageID int) (Transition, error) {
	r, err := e.menuReply(ctx, 1, messageID)
	if err != nil {
		return Transition{}, err
	}
	s.State = StateMenu
	return Transition{Session: s, Replies: []Reply{r}}, nil
}

// changePage is a no-op for page 0, which inactive pager buttons carry.
func (e *Engine) changePage(ctx context.Context, s Session, ev Event) (Transition, error) {
	if ev.Page == 0 {
		return ignored(), nil
	}
	r, err := e.menuReply(ctx, ev.Page, ev.MessageID)
	if errors.Is(err, ErrValidation) {
		// The catalog shrank under an old pager; start over from the first page.
		if r, err = e.menuReply(ctx, 1, ev.MessageID); err != nil {
			return Transition{}, err
		}
		return Transition{Session: s, Replies: []Reply{r}, Toast: ToastStale}, nil
	}
	if err != nil {
		return Transition{}, err
	}
	return Transition{Session: s, Replies: []Reply{r}}, nil
}

func (e *Engine) productReply(ctx context.Context, s Session, productID string, messageID int) (Reply, error) {
	product, err := e.commerce.GetProduct(ctx, productID)
	if err != nil {
		return Reply{}, NewCollaboratorError("get product", err)
	}
	cart, err := e.commerce.GetCart(ctx, s.CartKey())
	if err != nil {
		return Reply{}, NewCollaboratorError("get cart", err)
	}
	view := &ProductView{Product: product}
	if line, ok := cart.Line(productID); ok {
		view.InCart = &line
	}
	return Reply{Screen: ScreenProduct, Product: view, Replace: messageID != 0, MessageID: messageID}, nil
}

func (e *Engine) showProduct(ctx context.Context, s Session, productID string, messageID int, toast Toast) (Transition, error) {
	r, err := e.productReply(ctx, s, productID, messageID)
	if err != nil {
		return Transition{}, err
	}
	s.State = StateProductDescription
	return Transition{Session: s, Replies: []Reply{r}, Toast: toast}, nil
}

func (e *Engine) showCart(ctx context.Context, s Session, messageID int) (Transition, error) {
	cart, err := e.commerce.GetCart(ctx, s.CartKey())
	if err != nil {
		return Transition{}, NewCollaboratorError("get cart", err)
	}
	s.State = StateCart
	return Transition{Session: s, Replies: []Reply{{
		Screen: ScreenCart, Cart: &cart, Replace: messageID != 0, MessageID: messageID,
	}}}, nil
}

// addToCart increments the product's quantity by one.
func (e *Engine) addToCart(ctx context.Context, s Session, ev Event) (Transition, error) {
	if _, err := e.commerce.GetProduct(ctx, ev.ProductID); err != nil {
		return Transition{}, NewCollaboratorError("get product", err)
	}
	err := e.retry(ctx, func() error {
		return e.commerce.AddItem(ctx, s.CartKey(), ev.ProductID, 1)
	})
	if err != nil {
		return Transition{}, NewCollaboratorError("add item", err)
	}
	return e.showProduct(ctx, s, ev.ProductID, ev.MessageID, ToastAdded)
}

func (e *Engine) removeItem(ctx context.Context, s Session, ev Event) (Transition, error) {
	cart, err := e.commerce.GetCart(ctx, s.CartKey())
	if err != nil {
		return Transition{}, NewCollaboratorError("get cart", err)
	}
	if _, ok := cart.Line(ev.ProductID); !ok {
		return ignored(), nil
	}
	err = e.retry(ctx, func() error {
		return e.commerce.RemoveItem(ctx, s.CartKey(), ev.ProductID)
	})
	if err != nil {
		return Transition{}, NewCollaboratorError("remove item", err)
	}
	return e.showCart(ctx, s, ev.MessageID)
}

func (e *Engine) requestOrder(ctx context.Context, s Session) (Transition, error) {
	cart, err := e.commerce.GetCart(ctx, s.CartKey())
	if err != nil {
		return Transition{}, NewCollaboratorError("get cart", err)
	}
	if cart.IsEmpty() {
		return Transition{Session: s, Toast: ToastCartEmpty}, nil
	}
	s.clearCheckout()
	switch {
	case s.Contact.Complete():
		s.State = StateAwaitingLocation
		return Transition{Session: s, Replies: []Reply{{Screen: ScreenAskLocation}}}, nil
	case s.Contact.Name != "":
		s.State = StateAwaitingContact
		return Transition{Session: s, Replies: []Reply{{Screen: ScreenAskEmail}}}, nil
	default:
		s.State = StateAwaitingContact
		return Transition{Session: s, Replies: []Reply{{Screen: ScreenAskName}}}, nil
	}
}

func (e *Engine) collectContact(s Session, text string) (Transition, error) {
	contact, step, err := CollectContact(s.Contact, text)
	s.Contact = contact
	if err != nil {
		if step == ContactNeedEmail {
			return Transition{Session: s, Replies: []Reply{{Screen: ScreenEmailInvalid}}}, nil
		}
		return Transition{Session: s, Replies: []Reply{{Screen: ScreenAskName}}}, nil
	}
	switch step {
	case ContactNeedEmail:
		return Transition{Session: s, Replies: []Reply{{Screen: ScreenAskEmail}}}, nil
	default:
		s.State = StateAwaitingLocation
		return Transition{Session: s, Replies: []Reply{{Screen: ScreenAskLocation}}}, nil
	}
}

func (e *Engine) geocode(ctx context.Context, s Session, address string) (Transition, error) {
	coords, found, err := e.geocoder.Resolve(ctx, address)
	if err != nil {
		return Transition{}, NewCollaboratorError("geocode address", err)
	}
	if !found {
		return Transition{Session: s, Replies: []Reply{{Screen: ScreenAddressUnknown}}}, nil
	}
	return e.offerDelivery(ctx, s, coords)
}

func (e *Engine) offerDelivery(ctx context.Context, s Session, at models.Coordinates) (Transition, error) {
	candidates, err := e.commerce.ListFulfillingLocations(ctx)
	if err != nil {
		return Transition{}, NewCollaboratorError("list fulfilling locations", err)
	}
	res, err := Resolve(at, candidates)
	if errors.Is(err, ErrValidation) {
		return Transition{Session: s, Replies: []Reply{{Screen: ScreenAddressUnknown}}}, nil
	}
	if err != nil {
		return Transition{}, err
	}
	loc := res.Location
	s.Location = &at
	s.FulfillingLocation = &loc
	s.clearCheckout()
	s.State = StateOrder
	return Transition{Session: s, Replies: []Reply{{
		Screen: ScreenDeliveryOffer,
		Offer:  &DeliveryOffer{Location: res.Location, Options: res.Options},
	}}}, nil
}

// selectDelivery accepts only an option offered for the stored coordinates
// and issues a fresh invoice token.
func (e *Engine) selectDelivery(ctx context.Context, s Session, ev Event) (Transition, error) {
	options := s.OfferedOptions()
	if !offered(options, ev.DeliveryType) {
		return reofferDelivery(s, options), nil
	}
	cart, err := e.commerce.GetCart(ctx, s.CartKey())
	if err != nil {
		return Transition{}, NewCollaboratorError("get cart", err)
	}
	if cart.IsEmpty() {
		return Transition{Session: s, Toast: ToastCartEmpty}, nil
	}
	fee, _ := DeliveryCost(ev.DeliveryType)
	s.DeliveryType = ev.DeliveryType
	s.InvoicePayload = e.newToken()
	return Transition{Session: s, Replies: []Reply{{
		Screen: ScreenInvoice,
		Invoice: &Invoice{
			Payload:      s.InvoicePayload,
			Items:        cart.Items,
			ItemsTotal:   cart.Total(),
			DeliveryType: ev.DeliveryType,
			DeliveryFee:  fee,
		},
	}}}, nil
}

// reofferDelivery answers a delivery button that is not valid for the stored
// coordinates by showing the options that are.
func reofferDelivery(s Session, options []models.DeliveryType) Transition {
	tr := Transition{Session: s, Toast: ToastStale}
	if s.FulfillingLocation == nil || len(options) == 0 {
		return tr
	}
	loc := *s.FulfillingLocation
	loc.DistanceKm, _ = s.DistanceKm()
	tr.Replies = []Reply{{
		Screen: ScreenDeliveryOffer,
		Offer:  &DeliveryOffer{Location: loc, Options: options},
	}}
	return tr
}

// CheckPayment reports whether payload matches the session's outstanding
// invoice and the chosen delivery is still valid for its coordinates.
func CheckPayment(s Session, payload string) error {
	if s.State != StateOrder || s.InvoicePayload == "" || payload != s.InvoicePayload {
		return ErrPaymentMismatch
	}
	if !offered(s.OfferedOptions(), s.DeliveryType) {
		return fmt.Errorf("%w: delivery %q no longer offered", ErrPaymentMismatch, s.DeliveryType)
	}
	return nil
}

func (e *Engine) confirmPayment(ctx context.Context, s Session, ev Event) (Transition, error) {
	if s.State != StateOrder || s.InvoicePayload == "" || ev.Payload != s.InvoicePayload {
		return Transition{}, ErrPaymentMismatch
	}
	cart, err := e.commerce.GetCart(ctx, s.CartKey())
	if err != nil {
		return Transition{}, NewCollaboratorError("get cart", err)
	}
	order, err := Finalize(s, cart, ev.ChargeID, e.now())
	if err != nil {
		return Transition{}, err
	}
	if !offered(OfferedOptions(order.Location.DistanceKm), order.DeliveryType) {
		return Transition{}, NewValidationError("delivery_type", fmt.Errorf("%q not offered at %.2f km", order.DeliveryType, order.Location.DistanceKm))
	}
	order.ID = e.newToken()

	next := NewSession(s.ChatID)
	replies := []Reply{{Screen: ScreenThanks, Order: &order}}
	// The order is final once paid; a failing catalog only costs the menu.
	if menu, err := e.menuReply(ctx, 1, 0); err == nil {
		replies = append(replies, menu)
	}
	return Transition{Session: next, Replies: replies, Order: &order}, nil
}
