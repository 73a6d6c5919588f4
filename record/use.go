package record

import "strings"

// PhoneUse is the context a phone number is used in.
type PhoneUse string

const (
	PhoneHome   PhoneUse = "home"
	PhoneWork   PhoneUse = "work"
	PhoneMobile PhoneUse = "mobile"
	PhoneOther  PhoneUse = "other"
)

// PhoneUses lists every accepted PhoneUse.
var PhoneUses = []PhoneUse{PhoneHome, PhoneWork, PhoneMobile, PhoneOther}

// EmailUse is the context an email address is used in.
type EmailUse string

const (
	EmailHome  EmailUse = "home"
	EmailWork  EmailUse = "work"
	EmailOther EmailUse = "other"
)

// EmailUses lists every accepted EmailUse.
var EmailUses = []EmailUse{EmailHome, EmailWork, EmailOther}

// FaxUse is the context a fax number is used in.
type FaxUse string

const (
	FaxHome  FaxUse = "home"
	FaxWork  FaxUse = "work"
	FaxOther FaxUse = "other"
)

// FaxUses lists every accepted FaxUse.
var FaxUses = []FaxUse{FaxHome, FaxWork, FaxOther}

// useSynonyms maps free-form use labels onto the closed use-context set.
// "mobile" only survives for phones; emails and faxes fold it into other.
var useSynonyms = map[string]string{
	"home":      "home",
	"house":     "home",
	"personal":  "home",
	"private":   "home",
	"residence": "home",
	"work":      "work",
	"office":    "work",
	"business":  "work",
	"job":       "work",
	"company":   "work",
	"mobile":    "mobile",
	"cell":      "mobile",
	"cellular":  "mobile",
	"cellphone": "mobile",
	"handy":     "mobile",
}

func canonicalUse(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	if v, ok := useSynonyms[key]; ok {
		return v
	}
	return "other"
}

// NormalizePhoneUse maps any label onto a PhoneUse, defaulting to PhoneOther.
func NormalizePhoneUse(s string) PhoneUse {
	return PhoneUse(canonicalUse(s))
}

// NormalizeEmailUse maps any label onto an EmailUse, defaulting to EmailOther.
func NormalizeEmailUse(s string) EmailUse {
	if u := canonicalUse(s); u == "home" || u == "work" {
		return EmailUse(u)
	}
	return EmailOther
}

// NormalizeFaxUse maps any label onto a FaxUse, defaulting to FaxOther.
func NormalizeFaxUse(s string) FaxUse {
	if u := canonicalUse(s); u == "home" || u == "work" {
		return FaxUse(u)
	}
	return FaxOther
}

func oneOf[T ~string](v T, set []T) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Valid reports whether g is a member of Genders.
func (g Gender) Valid() bool { return oneOf(g, Genders) }

// Valid reports whether m is a member of MaritalStatuses.
func (m MaritalStatus) Valid() bool { return oneOf(m, MaritalStatuses) }

// Valid reports whether u is a member of PhoneUses.
func (u PhoneUse) Valid() bool { return oneOf(u, PhoneUses) }

// Valid reports whether u is a member of EmailUses.
func (u EmailUse) Valid() bool { return oneOf(u, EmailUses) }

// Valid reports whether u is a member of FaxUses.
func (u FaxUse) Valid() bool { return oneOf(u, FaxUses) }
