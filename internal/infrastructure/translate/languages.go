package translate

import "strings"

var languageNames = map[string]string{
	"af": "afrikaans", "sq": "albanian", "am": "amharic", "ar": "arabic",
	"hy": "armenian", "az": "azerbaijani", "eu": "basque", "be": "belarusian",
	"bn": "bengali", "bs": "bosnian", "bg": "bulgarian", "ca": "catalan",
	"zh": "chinese", "zh-cn": "chinese (simplified)", "zh-tw": "chinese (traditional)",
	"hr": "croatian", "cs": "czech", "da": "danish", "nl": "dutch",
	"en": "english", "eo": "esperanto", "et": "estonian", "tl": "filipino",
	"fi": "finnish", "fr": "french", "gl": "galician", "ka": "georgian",
	"de": "german", "el": "greek", "gu": "gujarati", "ht": "haitian creole",
	"he": "hebrew", "iw": "hebrew", "hi": "hindi", "hu": "hungarian",
	"is": "icelandic", "id": "indonesian", "ga": "irish", "it": "italian",
	"ja": "japanese", "kn": "kannada", "kk": "kazakh", "km": "khmer",
	"ko": "korean", "ku": "kurdish", "lo": "lao", "la": "latin",
	"lv": "latvian", "lt": "lithuanian", "mk": "macedonian", "ms": "malay",
	"ml": "malayalam", "mt": "maltese", "mr": "marathi", "mn": "mongolian",
	"my": "myanmar (burmese)", "ne": "nepali", "no": "norwegian", "fa": "persian",
	"pl": "polish", "pt": "portuguese", "pa": "punjabi", "ro": "romanian",
	"ru": "russian", "sr": "serbian", "sk": "slovak", "sl": "slovenian",
	"so": "somali", "es": "spanish", "sw": "swahili", "sv": "swedish",
	"ta": "tamil", "te": "telugu", "th": "thai", "tr": "turkish",
	"uk": "ukrainian", "ur": "urdu", "uz": "uzbek", "vi": "vietnamese",
	"cy": "welsh", "yi": "yiddish", "zu": "zulu",
}

// LanguageName returns a capitalized display name for an ISO 639-1 code,
// or "Unknown" when the code is empty or not listed.
func LanguageName(code string) string {
	name, ok := languageNames[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return "Unknown"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
