package bot

import (
	"fmt"
	"strings"

	"pizza-telegram/conversation"
	"pizza-telegram/models"
	"pizza-telegram/services"
)

const (
	textMenu           = "Добрый день! Пожалуйста, выберите пиццу:"
	textCartEmpty      = "Сейчас в вашей корзине ничего нет"
	textAskName        = "Пожалуйста, введите ваше имя"
	textAskEmail       = "Пожалуйста, введите ваш email"
	textEmailInvalid   = "Пожалуйста, введите ваш email еще раз, похоже, произошла ошибка"
	textAskLocation    = "Пожалуйста, отправьте ваше местоположение через телеграм или введите адрес вручную"
	textAddressUnknown = "Не удалось распознать адрес, попробуйте ввести еще раз"
	textThanks         = "Спасибо за заказ!"
	textCancelled      = "До встречи! Чтобы начать заново, отправьте /start"
	textTryAgain       = "Что-то пошло не так. Пожалуйста, попробуйте еще раз чуть позже"
	textUnavailable    = "Сейчас мы не можем принять заказ. Мы уже разбираемся с проблемой"
	textPaymentProblem = "Мы получили оплату, но не смогли сопоставить ее с заказом. Оператор свяжется с вами"
	textPreCheckoutBad = "Счет устарел. Пожалуйста, оформите заказ заново"

	toastAdded     = "Пицца добавлена в корзину!"
	toastCartEmpty = "Корзина пуста"
	toastStale     = "Эта кнопка устарела, выберите еще раз"

	invoiceTitle      = "Оплата заказа"
	invoicePriceLabel = "Заказ"
)

// formatPrice renders minor units as rubles, dropping zero kopecks.
func formatPrice(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	if minor%100 == 0 {
		return fmt.Sprintf("%s%d ₽", sign, minor/100)
	}
	return fmt.Sprintf("%s%d.%02d ₽", sign, minor/100, minor%100)
}

func toastText(t conversation.Toast) string {
	switch t {
	case conversation.ToastAdded:
		return toastAdded
	case conversation.ToastCartEmpty:
		return toastCartEmpty
	case conversation.ToastStale:
		return toastStale
	}
	return ""
}

func productText(v conversation.ProductView) string {
	parts := []string{v.Product.Name, formatPrice(v.Product.Price)}
	if d := strings.TrimSpace(v.Product.Description); d != "" {
		parts = append(parts, d)
	}
	if v.InCart != nil {
		parts = append(parts, fmt.Sprintf("%d шт. на сумму %s уже в корзине", v.InCart.Quantity, formatPrice(v.InCart.LineTotal())))
	}
	return strings.Join(parts, "\n\n")
}

func cartText(c models.Cart) string {
	if c.IsEmpty() {
		return textCartEmpty
	}
	blocks := make([]string, 0, len(c.Items)+1)
	for _, it := range c.Items {
		blocks = append(blocks, strings.Join([]string{
			it.Name,
			formatPrice(it.UnitPrice) + " за шт.",
			fmt.Sprintf("%d шт. в корзине на сумму %s", it.Quantity, formatPrice(it.LineTotal())),
		}, "\n"))
	}
	blocks = append(blocks, "Всего: "+formatPrice(c.Total()))
	return strings.Join(blocks, "\n\n")
}

func offerText(o conversation.DeliveryOffer) string {
	courier, ok := conversation.Resolution{Location: o.Location, Options: o.Options}.Courier()
	addr := o.Location.Address
	switch {
	case !ok:
		return "К сожалению, мы не сможем доставить ваш заказ. Вы можете забрать его сами по адресу: " + addr
	case courier == models.DeliveryFree:
		return "Доставим ваш заказ бесплатно! Также вы можете забрать его сами по адресу: " + addr
	default:
		cost, _ := conversation.DeliveryCost(courier)
		return fmt.Sprintf("Доставка вашего заказа будет стоить %s. Также вы можете забрать его сами по адресу: %s", formatPrice(cost), addr)
	}
}

func invoiceDescription(inv conversation.Invoice) string {
	if inv.DeliveryFee > 0 {
		return fmt.Sprintf("Оплата заказа на сумму %s, включая доставку %s", formatPrice(inv.Total()), formatPrice(inv.DeliveryFee))
	}
	return "Оплата заказа на сумму " + formatPrice(inv.Total())
}

// orderCardText is what the fulfilling location's chat receives.
func orderCardText(o models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s оставил новый заказ:\n\n", o.Customer.Name)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%s: %d шт.\n", it.Name, it.Quantity)
	}
	fmt.Fprintf(&b, "\nИтого: %s", formatPrice(o.GrandTotal))
	if o.SelfPickup || o.Delivery == nil {
		b.WriteString("\n\nКлиент заберет его самостоятельно.")
	} else {
		fmt.Fprintf(&b, "\n\nАдрес доставки находится в %.2f км, вот здесь:", o.Delivery.DistanceKm)
	}
	fmt.Fprintf(&b, "\n\nEmail: %s\nЗаказ: %s", o.Customer.Email, o.ID)
	return b.String()
}

func statsText(date string, s *services.DailyStats) string {
	return fmt.Sprintf(
		"📊 Статистика (%s)\n\nЗаказов: %d\nСамовывоз: %d\nТовары: %s\nДоставка: %s\nВсего: %s",
		date, s.OrdersCount, s.PickupCount, formatPrice(s.ItemsRevenue), formatPrice(s.DeliveryRevenue), formatPrice(s.GrandRevenue),
	)
}
