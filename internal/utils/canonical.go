package utils

import (
	"strings"
	"unicode/utf8"
)

// minPrefixRunes is the shortest input accepted as an abbreviation.
const minPrefixRunes = 3

// Common aliases for form values, keyed by lower-case input
var (
	stateAliases = map[string]string{
		"fct":                       "Abuja",
		"abuja fct":                 "Abuja",
		"federal capital territory": "Abuja",
		"lagos state":               "Lagos",
		"lag":                       "Lagos",
		"ikeja":                     "Lagos",
		"port harcourt":             "Rivers",
		"ph":                        "Rivers",
		"rivers state":              "Rivers",
		"ibadan":                    "Oyo",
		"oyo state":                 "Oyo",
		"abeokuta":                  "Ogun",
		"ogun state":                "Ogun",
		"ilorin":                    "Kwara",
		"kwara state":               "Kwara",
	}

	buildingAliases = map[string]string{
		"house":      "Residential",
		"home":       "Residential",
		"residence":  "Residential",
		"apartment":  "Residential",
		"flat":       "Residential",
		"duplex":     "Residential",
		"office":     "Commercial",
		"shop":       "Commercial",
		"retail":     "Commercial",
		"plaza":      "Commercial",
		"factory":    "Industrial",
		"warehouse":  "Industrial",
		"plant":      "Industrial",
		"workshop":   "Industrial",
		"residental": "Residential",
		"comercial":  "Commercial",
	}

	labourAliases = map[string]string{
		"basic":          "Standard",
		"regular":        "Standard",
		"normal":         "Standard",
		"experienced":    "Skilled",
		"expert":         "Highly Skilled",
		"master":         "Highly Skilled",
		"highly-skilled": "Highly Skilled",
		"highly_skilled": "Highly Skilled",
		"highlyskilled":  "Highly Skilled",
	}
)

// CanonicalOption maps free-form input onto one of options. It tries an exact
// case-insensitive match, then the alias table, then a prefix of at least
// three runes that starts exactly one option. Input that matches nothing is returned trimmed but
// otherwise untouched.
func CanonicalOption(input string, options []string, aliases map[string]string) string {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(strings.Join(strings.Fields(trimmed), " "))
	if lower == "" {
		return trimmed
	}

	// Exact match
	for _, option := range options {
		if strings.ToLower(option) == lower {
			return option
		}
	}

	// Aliases, only when the target is on offer
	if target, ok := aliases[lower]; ok && contains(options, target) {
		return target
	}

	if utf8.RuneCountInString(lower) < minPrefixRunes {
		return trimmed
	}

	// Unique prefix match
	var hit string
	for _, option := range options {
		if strings.HasPrefix(strings.ToLower(option), lower) {
			if hit != "" {
				return trimmed
			}
			hit = option
		}
	}
	if hit != "" {
		return hit
	}

	return trimmed
}

// CanonicalState canonicalises a state against the offered regions.
func CanonicalState(input string, regions []string) string {
	return CanonicalOption(input, regions, stateAliases)
}

// CanonicalBuildingType canonicalises a building type.
func CanonicalBuildingType(input string, options []string) string {
	return CanonicalOption(input, options, buildingAliases)
}

// CanonicalLabourType canonicalises a labour skill level.
func CanonicalLabourType(input string, options []string) string {
	return CanonicalOption(input, options, labourAliases)
}

func contains(options []string, target string) bool {
	for _, option := range options {
		if option == target {
			return true
		}
	}
	return false
}
