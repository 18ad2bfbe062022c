package quote

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// ContactMessage builds the pre-filled purchase message sent to a supplier
// when the buyer follows a quote's contact link.
func ContactMessage(lines []LineItem, total decimal.Decimal) string {
	if len(lines) == 1 {
		line := lines[0]
		return fmt.Sprintf(
			"Olá, vim pela plataforma de orçamentos, gostaria de comprar %d unidade(s) do produto %s pelo valor de R$%s",
			line.Quantity, line.Name, line.LineTotal.String(),
		)
	}

	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = fmt.Sprintf("%d unidade(s) de %s", line.Quantity, line.Name)
	}
	return fmt.Sprintf(
		"Olá, vim pela plataforma de orçamentos, gostaria de comprar %s pelo valor de R$%s",
		strings.Join(parts, ", "), total.String(),
	)
}

// ContactURL builds the WhatsApp deep link carrying the pre-filled message.
func ContactURL(phone, message string) string {
	return fmt.Sprintf("https://api.whatsapp.com/send?phone=%s&text=%s",
		url.QueryEscape(phone), url.QueryEscape(message))
}
