package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", " \t\n ", ""},
		{"plain cyrillic", "Купите дешево!!!", "купите дешево!!!"},
		{"latin lookalikes", "Kупитe дeшeвo!!!", "купите дешево!!!"},
		{"all latin caps", "BOT", "вот"},
		{"pure latin word kept", "hello", "hello"},
		{"latin sentence kept", "Buy crypto now", "buy crypto now"},
		{"latin next to cyrillic", "Buy сейчас", "buy сейчас"},
		{"lookalike only word", "TOP скидки", "тор скидки"},
		{"digits in mixed word", "cкидкa50%", "скидка50%"},
		{"greek lookalikes", "Κупите дешεвο", "купите дешево"},
		{"fullwidth", "Ｋупите", "купите"},
		{"zero width chars", "Куп\u200bи\u200dте", "купите"},
		{"bidi marks", "\u200fКупите\u200e", "купите"},
		{"collapse spaces", "  Купите \t\t дешево\n\nсейчас  ", "купите дешево сейчас"},
		{"control chars", "Купите\x00\x07дешево", "купите дешево"},
		{"digits kept", "Заработок 1000$ в день", "заработок 1000$ в день"},
		{"emoji kept", "привет 👋", "привет 👋"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	inputs := []string{"Kупитe дeшeвo!!!", "Ｈｅｌｌｏ world", "Купите\u200b дешево", "обычное сообщение"}
	for _, in := range inputs {
		first := Normalize(in)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Normalize(in))
		}
		assert.Equal(t, first, Normalize(first), "normalized text is a fixed point")
	}
}

func TestNormalize_HomoglyphEquivalence(t *testing.T) {
	// every latin key of the table substituted for its cyrillic target gives the same result
	cyr := "купите дешево срочно заработок на дому"
	var latin strings.Builder
	inverse := map[rune]rune{}
	for k, v := range homoglyphs {
		if k < 0x80 {
			inverse[v] = k
		}
	}
	for _, r := range cyr {
		if l, ok := inverse[r]; ok {
			latin.WriteRune(l)
			continue
		}
		latin.WriteRune(r)
	}
	assert.NotEqual(t, cyr, latin.String())
	assert.Equal(t, Normalize(cyr), Normalize(latin.String()))
	assert.Equal(t, Normalize(strings.ToUpper(cyr)), Normalize(strings.ToUpper(latin.String())))
}

func TestNormalizer_Options(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		input    string
		expected string
	}{
		{"strip links", Options{StripLinks: true}, "Смотри https://spam.example.com/x?y=1 тут!", "смотри тут!"},
		{"strip www links", Options{StripLinks: true}, "заходи www.spam.example.com сюда", "заходи сюда"},
		{"strip symbols", Options{StripSymbols: true}, "Купите!!! дешево???", "купите дешево"},
		{"strip symbols keeps digits", Options{StripSymbols: true}, "100% скидка*", "100 скидка"},
		{"both", Options{StripLinks: true, StripSymbols: true}, "ЖМИ >> http://x.example/a-b << !!!", "жми"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.opts).Normalize(tt.input))
		})
	}
}

func TestNormalize_Concurrent(t *testing.T) {
	n := New(Options{StripSymbols: true})
	done := make(chan string, 50)
	for i := 0; i < 50; i++ {
		go func() { done <- n.Normalize("Kупитe дeшeвo!!!") }()
	}
	for i := 0; i < 50; i++ {
		assert.Equal(t, "купите дешево", <-done)
	}
}
