package quote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestContactMessageSingleItem(t *testing.T) {
	lines := []LineItem{
		{Name: "Botulift 100 UI", Quantity: 2, LineTotal: decimal.NewFromInt(1600)},
	}

	msg := ContactMessage(lines, decimal.NewFromInt(1600))
	assert.Contains(t, msg, "2 unidade(s) do produto Botulift 100 UI")
	assert.Contains(t, msg, "R$1600")
}

func TestContactMessageMultipleItems(t *testing.T) {
	lines := []LineItem{
		{Name: "Botulift 100 UI", Quantity: 1, LineTotal: decimal.NewFromInt(800)},
		{Name: "Juvederm Ultra 1ml", Quantity: 3, LineTotal: decimal.NewFromInt(2700)},
	}

	msg := ContactMessage(lines, decimal.NewFromInt(3500))
	assert.Contains(t, msg, "1 unidade(s) de Botulift 100 UI")
	assert.Contains(t, msg, "3 unidade(s) de Juvederm Ultra 1ml")
	assert.Contains(t, msg, "R$3500")
}

func TestContactURLEscapesMessage(t *testing.T) {
	link := ContactURL("5511988887777", "Olá, tudo bem?")
	assert.Contains(t, link, "https://api.whatsapp.com/send?phone=5511988887777")
	assert.Contains(t, link, "text=Ol%C3%A1%2C+tudo+bem%3F")
	assert.NotContains(t, link, " ")
}
