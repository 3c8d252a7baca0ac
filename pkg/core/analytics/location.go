package analytics

import "strings"

const UnknownCountry = "Other"

var timezoneCountries = map[string]string{
	"America/New_York":               "US",
	"America/Chicago":                "US",
	"America/Denver":                 "US",
	"America/Phoenix":                "US",
	"America/Los_Angeles":            "US",
	"America/Anchorage":              "US",
	"Pacific/Honolulu":               "US",
	"America/Detroit":                "US",
	"America/Toronto":                "CA",
	"America/Vancouver":              "CA",
	"America/Edmonton":               "CA",
	"America/Halifax":                "CA",
	"America/Mexico_City":            "MX",
	"America/Sao_Paulo":              "BR",
	"America/Argentina/Buenos_Aires": "AR",
	"America/Bogota":                 "CO",
	"America/Lima":                   "PE",
	"America/Santiago":               "CL",
	"Europe/London":                  "GB",
	"Europe/Dublin":                  "IE",
	"Europe/Paris":                   "FR",
	"Europe/Berlin":                  "DE",
	"Europe/Madrid":                  "ES",
	"Europe/Rome":                    "IT",
	"Europe/Amsterdam":               "NL",
	"Europe/Brussels":                "BE",
	"Europe/Zurich":                  "CH",
	"Europe/Vienna":                  "AT",
	"Europe/Stockholm":               "SE",
	"Europe/Oslo":                    "NO",
	"Europe/Copenhagen":              "DK",
	"Europe/Helsinki":                "FI",
	"Europe/Warsaw":                  "PL",
	"Europe/Lisbon":                  "PT",
	"Europe/Istanbul":                "TR",
	"Europe/Kiev":                    "UA",
	"Europe/Kyiv":                    "UA",
	"Europe/Moscow":                  "RU",
	"Asia/Dubai":                     "AE",
	"Asia/Kolkata":                   "IN",
	"Asia/Calcutta":                  "IN",
	"Asia/Singapore":                 "SG",
	"Asia/Bangkok":                   "TH",
	"Asia/Jakarta":                   "ID",
	"Asia/Manila":                    "PH",
	"Asia/Ho_Chi_Minh":               "VN",
	"Asia/Shanghai":                  "CN",
	"Asia/Hong_Kong":                 "HK",
	"Asia/Tokyo":                     "JP",
	"Asia/Seoul":                     "KR",
	"Australia/Sydney":               "AU",
	"Australia/Melbourne":            "AU",
	"Australia/Perth":                "AU",
	"Pacific/Auckland":               "NZ",
	"Africa/Lagos":                   "NG",
	"Africa/Cairo":                   "EG",
	"Africa/Johannesburg":            "ZA",
	"Africa/Nairobi":                 "KE",
}

// CountryForTimezone maps an IANA timezone name to an ISO country code.
func CountryForTimezone(tz string) string {
	if c, ok := timezoneCountries[strings.TrimSpace(tz)]; ok {
		return c
	}
	return UnknownCountry
}
