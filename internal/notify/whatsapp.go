package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rashadk/barberai-platform/internal/catalog"
	"github.com/rashadk/barberai-platform/internal/dialogue"
)

// ConfirmationText renders the message a customer can forward to the shop
// over WhatsApp after a booking is created.
func ConfirmationText(cat *catalog.Catalog, data dialogue.BookingData, lang dialogue.Language, shopName string) string {
	service := data.ServiceID
	if svc, ok := cat.ByID(data.ServiceID); ok {
		service = svc.Name(string(lang))
	}
	if lang == dialogue.LanguageArabic {
		return fmt.Sprintf("مرحبا %s، تم تأكيد حجزك في %s: %s يوم %s الساعة %s.",
			data.CustomerName, shopName, service, data.Date, data.Time)
	}
	return fmt.Sprintf("Hi %s, your booking at %s is confirmed: %s on %s at %s.",
		data.CustomerName, shopName, service, data.Date, data.Time)
}

// Link builds a wa.me deep link that opens a chat with the shop number and
// the confirmation text prefilled.
func Link(shopPhone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, shopPhone)
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}
