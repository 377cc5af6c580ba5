package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// AliasEntry lists the substrings that identify one room category
type AliasEntry struct {
	Category string   `json:"category"`
	Aliases  []string `json:"aliases"`
}

// AliasTable is ordered; the first category whose alias matches wins
type AliasTable []AliasEntry

// RuleEntry lists the directions a room category may be placed in
type RuleEntry struct {
	Category string      `json:"category"`
	Allowed  []Direction `json:"allowed"`
}

// RuleTable holds the Vastu placement rules
type RuleTable []RuleEntry

// AnyDirection is shown for rooms without a configured rule
const AnyDirection = "Any direction"

var defaultAliases = AliasTable{
	{Category: "bedroom", Aliases: []string{"bed", "bedroom", "master", "guest", "kids"}},
	{Category: "kitchen", Aliases: []string{"kitchen", "cooking", "pantry"}},
	{Category: "bathroom", Aliases: []string{"bath", "bathroom", "toilet", "wc", "washroom"}},
	{Category: "living", Aliases: []string{"living", "lounge", "sitting", "family"}},
	{Category: "dining", Aliases: []string{"dining", "dining room", "eating"}},
	{Category: "study", Aliases: []string{"study", "office", "work", "computer"}},
	{Category: "puja", Aliases: []string{"puja", "pooja", "temple", "worship", "altar", "mandir"}},
	{Category: "staircase", Aliases: []string{"stair", "stairs", "staircase", "steps"}},
	{Category: "entrance", Aliases: []string{"entrance", "main door", "gate", "entry"}},
	{Category: "store", Aliases: []string{"store", "storage", "godown", "warehouse"}},
}

var defaultRules = RuleTable{
	{Category: "bedroom", Allowed: []Direction{Southwest, South, West}},
	{Category: "kitchen", Allowed: []Direction{Southeast, Northwest}},
	{Category: "bathroom", Allowed: []Direction{Northwest, Southeast}},
	{Category: "living", Allowed: []Direction{Northeast, North, East}},
	{Category: "dining", Allowed: []Direction{West, Northwest}},
	{Category: "study", Allowed: []Direction{Northeast, North, East}},
	{Category: "puja", Allowed: []Direction{Northeast, North, East}},
	{Category: "staircase", Allowed: []Direction{Southwest, South, West}},
	{Category: "entrance", Allowed: []Direction{North, East, Northeast}},
	{Category: "store", Allowed: []Direction{Southwest, South, West}},
}

// DefaultAliases returns a copy of the built-in alias table
func DefaultAliases() AliasTable {
	out := make(AliasTable, len(defaultAliases))
	for i, entry := range defaultAliases {
		out[i] = AliasEntry{Category: entry.Category, Aliases: append([]string(nil), entry.Aliases...)}
	}
	return out
}

// DefaultRules returns a copy of the built-in rule table
func DefaultRules() RuleTable {
	out := make(RuleTable, len(defaultRules))
	for i, entry := range defaultRules {
		out[i] = RuleEntry{Category: entry.Category, Allowed: append([]Direction(nil), entry.Allowed...)}
	}
	return out
}

// Lookup returns the permitted directions of a category
func (t RuleTable) Lookup(category string) ([]Direction, bool) {
	for _, entry := range t {
		if entry.Category == category {
			return entry.Allowed, true
		}
	}
	return nil, false
}

// AllowedString renders the permitted set for display, or AnyDirection
// when the category has no rule.
func (t RuleTable) AllowedString(category string) string {
	allowed, ok := t.Lookup(category)
	if !ok || len(allowed) == 0 {
		return AnyDirection
	}
	names := make([]string, len(allowed))
	for i, d := range allowed {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

// Categories returns the alias categories in table order
func (t AliasTable) Categories() []string {
	out := make([]string, len(t))
	for i, entry := range t {
		out[i] = entry.Category
	}
	return out
}

// ValidateTables checks that the alias and rule tables cover the same
// categories and that no rule names an unknown direction.
func ValidateTables(aliases AliasTable, rules RuleTable) error {
	aliasKeys := make(map[string]bool, len(aliases))
	for _, entry := range aliases {
		if aliasKeys[entry.Category] {
			return fmt.Errorf("duplicate alias category %q", entry.Category)
		}
		if len(entry.Aliases) == 0 {
			return fmt.Errorf("alias category %q has no aliases", entry.Category)
		}
		aliasKeys[entry.Category] = true
	}

	known := make(map[Direction]bool, len(octants))
	for _, d := range octants {
		known[d] = true
	}

	ruleKeys := make(map[string]bool, len(rules))
	for _, entry := range rules {
		if ruleKeys[entry.Category] {
			return fmt.Errorf("duplicate rule category %q", entry.Category)
		}
		ruleKeys[entry.Category] = true
		for _, d := range entry.Allowed {
			if !known[d] {
				return fmt.Errorf("rule %q names unknown direction %q", entry.Category, d)
			}
		}
	}

	var missing []string
	for key := range aliasKeys {
		if !ruleKeys[key] {
			missing = append(missing, "rule for "+key)
		}
	}
	for key := range ruleKeys {
		if !aliasKeys[key] {
			missing = append(missing, "aliases for "+key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("alias and rule tables disagree: missing %s", strings.Join(missing, ", "))
	}
	return nil
}
