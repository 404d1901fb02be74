package normalize

// homoglyphs maps case-folded latin and greek letters to the cyrillic letter they are confused with.
// Only lowercase keys are needed, the text is folded before lookup. Targets are never keys,
// so applying the table twice gives the same result.
var homoglyphs = map[rune]rune{
	// latin
	'a': 'а',
	'b': 'в', // B looks like В
	'c': 'с',
	'd': 'ԁ',
	'e': 'е',
	'h': 'н', // H looks like Н
	'i': 'і',
	'j': 'ј',
	'k': 'к',
	'm': 'м',
	'o': 'о',
	'p': 'р',
	's': 'ѕ',
	't': 'т',
	'x': 'х',
	'y': 'у',

	// greek
	'α': 'а',
	'β': 'в',
	'ε': 'е',
	'η': 'н',
	'ι': 'і',
	'κ': 'к',
	'μ': 'м',
	'ο': 'о',
	'ρ': 'р',
	'τ': 'т',
	'υ': 'у',
	'χ': 'х',
	'ϲ': 'с', // lunate sigma
	'ϳ': 'ј',
}
