package currency

// gatewayCurrencies is the set of settlement currencies the gateway accepts.
// Keep in sync with the gateway's published collection currencies.
var gatewayCurrencies = map[string]struct{}{
	"NGN": {},
	"USD": {},
	"EUR": {},
	"GBP": {},
	"GHS": {},
	"KES": {},
	"UGX": {},
	"TZS": {},
	"RWF": {},
	"ZAR": {},
	"ZMW": {},
	"MWK": {},
	"XAF": {},
	"XOF": {},
	"EGP": {},
	"ETB": {},
	"SLL": {},
}

// currencyByCountry maps ISO 3166-1 alpha-2 country codes to their primary
// ISO 4217 currency. Countries whose currency the gateway cannot settle are
// still listed; Resolve handles the allowlist check.
var currencyByCountry = map[string]string{
	// Africa
	"NG": "NGN",
	"GH": "GHS",
	"KE": "KES",
	"UG": "UGX",
	"TZ": "TZS",
	"RW": "RWF",
	"ZA": "ZAR",
	"ZM": "ZMW",
	"MW": "MWK",
	"CM": "XAF",
	"GA": "XAF",
	"TD": "XAF",
	"CG": "XAF",
	"CF": "XAF",
	"GQ": "XAF",
	"SN": "XOF",
	"CI": "XOF",
	"BJ": "XOF",
	"BF": "XOF",
	"ML": "XOF",
	"NE": "XOF",
	"TG": "XOF",
	"GW": "XOF",
	"EG": "EGP",
	"ET": "ETB",
	"SL": "SLL",
	"MA": "MAD",
	"DZ": "DZD",
	"TN": "TND",
	"LY": "LYD",
	"SD": "SDG",
	"BW": "BWP",
	"NA": "NAD",
	"MZ": "MZN",
	"AO": "AOA",
	"CD": "CDF",
	"LR": "LRD",
	"GM": "GMD",
	"MU": "MUR",

	// Europe
	"GB": "GBP",
	"IE": "EUR",
	"FR": "EUR",
	"DE": "EUR",
	"ES": "EUR",
	"PT": "EUR",
	"IT": "EUR",
	"NL": "EUR",
	"BE": "EUR",
	"LU": "EUR",
	"AT": "EUR",
	"FI": "EUR",
	"GR": "EUR",
	"CY": "EUR",
	"MT": "EUR",
	"SK": "EUR",
	"SI": "EUR",
	"EE": "EUR",
	"LV": "EUR",
	"LT": "EUR",
	"HR": "EUR",
	"CH": "CHF",
	"NO": "NOK",
	"SE": "SEK",
	"DK": "DKK",
	"PL": "PLN",
	"CZ": "CZK",
	"HU": "HUF",
	"RO": "RON",
	"BG": "BGN",
	"UA": "UAH",
	"TR": "TRY",
	"RS": "RSD",
	"IS": "ISK",

	// Americas
	"US": "USD",
	"CA": "CAD",
	"MX": "MXN",
	"BR": "BRL",
	"AR": "ARS",
	"CL": "CLP",
	"CO": "COP",
	"PE": "PEN",
	"EC": "USD",
	"PA": "USD",
	"SV": "USD",
	"JM": "JMD",
	"TT": "TTD",
	"BB": "BBD",
	"BS": "BSD",
	"GY": "GYD",
	"PR": "USD",

	// Middle East
	"AE": "AED",
	"SA": "SAR",
	"QA": "QAR",
	"KW": "KWD",
	"BH": "BHD",
	"OM": "OMR",
	"IL": "ILS",
	"JO": "JOD",
	"LB": "LBP",
	"IQ": "IQD",

	// Asia & Oceania
	"IN": "INR",
	"PK": "PKR",
	"BD": "BDT",
	"LK": "LKR",
	"NP": "NPR",
	"CN": "CNY",
	"JP": "JPY",
	"KR": "KRW",
	"HK": "HKD",
	"TW": "TWD",
	"SG": "SGD",
	"MY": "MYR",
	"TH": "THB",
	"VN": "VND",
	"PH": "PHP",
	"ID": "IDR",
	"AU": "AUD",
	"NZ": "NZD",
	"FJ": "FJD",
	"PG": "PGK",
}

// countryByTimezone maps IANA zone names to ISO country codes. Only the zone
// names browsers commonly report are listed; unknown zones fall through to
// the default currency.
var countryByTimezone = map[string]string{
	// Africa
	"Africa/Lagos":         "NG",
	"Africa/Accra":         "GH",
	"Africa/Nairobi":       "KE",
	"Africa/Kampala":       "UG",
	"Africa/Dar_es_Salaam": "TZ",
	"Africa/Kigali":        "RW",
	"Africa/Johannesburg":  "ZA",
	"Africa/Lusaka":        "ZM",
	"Africa/Blantyre":      "MW",
	"Africa/Douala":        "CM",
	"Africa/Libreville":    "GA",
	"Africa/Ndjamena":      "TD",
	"Africa/Brazzaville":   "CG",
	"Africa/Bangui":        "CF",
	"Africa/Malabo":        "GQ",
	"Africa/Dakar":         "SN",
	"Africa/Abidjan":       "CI",
	"Africa/Porto-Novo":    "BJ",
	"Africa/Ouagadougou":   "BF",
	"Africa/Bamako":        "ML",
	"Africa/Niamey":        "NE",
	"Africa/Lome":          "TG",
	"Africa/Bissau":        "GW",
	"Africa/Cairo":         "EG",
	"Africa/Addis_Ababa":   "ET",
	"Africa/Freetown":      "SL",
	"Africa/Casablanca":    "MA",
	"Africa/Algiers":       "DZ",
	"Africa/Tunis":         "TN",
	"Africa/Tripoli":       "LY",
	"Africa/Khartoum":      "SD",
	"Africa/Gaborone":      "BW",
	"Africa/Windhoek":      "NA",
	"Africa/Maputo":        "MZ",
	"Africa/Luanda":        "AO",
	"Africa/Kinshasa":      "CD",
	"Africa/Lubumbashi":    "CD",
	"Africa/Monrovia":      "LR",
	"Africa/Banjul":        "GM",
	"Indian/Mauritius":     "MU",

	// Europe
	"Europe/London":     "GB",
	"Europe/Dublin":     "IE",
	"Europe/Paris":      "FR",
	"Europe/Berlin":     "DE",
	"Europe/Madrid":     "ES",
	"Europe/Lisbon":     "PT",
	"Europe/Rome":       "IT",
	"Europe/Amsterdam":  "NL",
	"Europe/Brussels":   "BE",
	"Europe/Luxembourg": "LU",
	"Europe/Vienna":     "AT",
	"Europe/Helsinki":   "FI",
	"Europe/Athens":     "GR",
	"Europe/Nicosia":    "CY",
	"Europe/Malta":      "MT",
	"Europe/Bratislava": "SK",
	"Europe/Ljubljana":  "SI",
	"Europe/Tallinn":    "EE",
	"Europe/Riga":       "LV",
	"Europe/Vilnius":    "LT",
	"Europe/Zagreb":     "HR",
	"Europe/Zurich":     "CH",
	"Europe/Oslo":       "NO",
	"Europe/Stockholm":  "SE",
	"Europe/Copenhagen": "DK",
	"Europe/Warsaw":     "PL",
	"Europe/Prague":     "CZ",
	"Europe/Budapest":   "HU",
	"Europe/Bucharest":  "RO",
	"Europe/Sofia":      "BG",
	"Europe/Kyiv":       "UA",
	"Europe/Kiev":       "UA",
	"Europe/Istanbul":   "TR",
	"Europe/Belgrade":   "RS",
	"Atlantic/Reykjavik": "IS",

	// Americas
	"America/New_York":    "US",
	"America/Chicago":     "US",
	"America/Denver":      "US",
	"America/Phoenix":     "US",
	"America/Los_Angeles": "US",
	"America/Anchorage":   "US",
	"Pacific/Honolulu":    "US",
	"America/Toronto":     "CA",
	"America/Vancouver":   "CA",
	"America/Edmonton":    "CA",
	"America/Winnipeg":    "CA",
	"America/Halifax":     "CA",
	"America/Mexico_City": "MX",
	"America/Sao_Paulo":   "BR",
	"America/Fortaleza":   "BR",
	"America/Manaus":      "BR",
	"America/Argentina/Buenos_Aires": "AR",
	"America/Santiago":    "CL",
	"America/Bogota":      "CO",
	"America/Lima":        "PE",
	"America/Guayaquil":   "EC",
	"America/Panama":      "PA",
	"America/El_Salvador": "SV",
	"America/Jamaica":     "JM",
	"America/Port_of_Spain": "TT",
	"America/Barbados":    "BB",
	"America/Nassau":      "BS",
	"America/Guyana":      "GY",
	"America/Puerto_Rico": "PR",

	// Middle East
	"Asia/Dubai":     "AE",
	"Asia/Riyadh":    "SA",
	"Asia/Qatar":     "QA",
	"Asia/Kuwait":    "KW",
	"Asia/Bahrain":   "BH",
	"Asia/Muscat":    "OM",
	"Asia/Jerusalem": "IL",
	"Asia/Amman":     "JO",
	"Asia/Beirut":    "LB",
	"Asia/Baghdad":   "IQ",

	// Asia & Oceania
	"Asia/Kolkata":      "IN",
	"Asia/Calcutta":     "IN",
	"Asia/Karachi":      "PK",
	"Asia/Dhaka":        "BD",
	"Asia/Colombo":      "LK",
	"Asia/Kathmandu":    "NP",
	"Asia/Shanghai":     "CN",
	"Asia/Tokyo":        "JP",
	"Asia/Seoul":        "KR",
	"Asia/Hong_Kong":    "HK",
	"Asia/Taipei":       "TW",
	"Asia/Singapore":    "SG",
	"Asia/Kuala_Lumpur": "MY",
	"Asia/Bangkok":      "TH",
	"Asia/Ho_Chi_Minh":  "VN",
	"Asia/Saigon":       "VN",
	"Asia/Manila":       "PH",
	"Asia/Jakarta":      "ID",
	"Asia/Makassar":     "ID",
	"Australia/Sydney":  "AU",
	"Australia/Melbourne": "AU",
	"Australia/Brisbane": "AU",
	"Australia/Perth":   "AU",
	"Pacific/Auckland":  "NZ",
	"Pacific/Fiji":      "FJ",
	"Pacific/Port_Moresby": "PG",
}
