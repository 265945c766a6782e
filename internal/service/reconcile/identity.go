package reconcile

import (
	"strings"
)

// IdentityPolicy controls how display names collapse into one person.
type IdentityPolicy struct {
	// Aliases maps an alternative spelling to the canonical name. Both sides
	// are normalized before use.
	Aliases map[string]string
	// StripTitles removes a leading honorific such as นาย or Mr.
	StripTitles bool
}

// Thai honorifics attach directly to the name; longest first so นางสาว wins
// over นาง.
var thaiTitles = []string{"ว่าที่ร้อยตรี", "นางสาว", "น.ส.", "ดร.", "นาง", "นาย"}

// English honorifics must be followed by a space or a dot.
var englishTitles = []string{"mrs", "miss", "mr", "ms", "dr"}

// Identity turns display names into person keys.
type Identity struct {
	aliases     map[string]string
	stripTitles bool
}

func NewIdentity(policy IdentityPolicy) *Identity {
	id := &Identity{stripTitles: policy.StripTitles, aliases: make(map[string]string, len(policy.Aliases))}
	for alias, canonical := range policy.Aliases {
		from := id.base(alias)
		to := id.base(canonical)
		if from != "" && to != "" && from != to {
			id.aliases[from] = to
		}
	}
	return id
}

// Key returns the canonical person key for a display name, "" when the name
// is blank.
func (id *Identity) Key(display string) string {
	key := id.base(display)
	if canonical, ok := id.aliases[key]; ok {
		return canonical
	}
	return key
}

func (id *Identity) base(display string) string {
	key := NormalizeName(display)
	if id.stripTitles {
		key = stripTitle(key)
	}
	return key
}

func stripTitle(key string) string {
	for _, t := range thaiTitles {
		if rest, ok := strings.CutPrefix(key, t); ok {
			if rest = strings.TrimSpace(rest); rest != "" {
				return rest
			}
			return key
		}
	}
	for _, t := range englishTitles {
		rest, ok := strings.CutPrefix(key, t)
		if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '.') {
			continue
		}
		if rest = strings.TrimSpace(strings.TrimPrefix(rest, ".")); rest != "" {
			return rest
		}
	}
	return key
}

// ParseAliases reads "alias=canonical;alias2=canonical2" into a map. Blank
// or malformed pairs are skipped.
func ParseAliases(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ";") {
		alias, canonical, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		alias, canonical = strings.TrimSpace(alias), strings.TrimSpace(canonical)
		if alias == "" || canonical == "" {
			continue
		}
		out[alias] = canonical
	}
	return out
}
