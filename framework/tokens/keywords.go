package tokens

import "strings"

// Rule maps a keyword onto a category.
type Rule struct {
	Keyword  string `yaml:"keyword" json:"keyword"`
	Category string `yaml:"category" json:"category"`
}

// Rules is an ordered keyword table; the first match wins.
type Rules []Rule

// KeywordMatches applies the matching policy for one keyword:
//   - "anim_" (trailing underscore) matches any token with that prefix;
//   - "ui cheats" (contains a space) must appear in the joined token stream;
//   - anything else must equal a token.
//
// joined is the output of Joined(tokens).
func KeywordMatches(keyword string, tokens []string, joined string) bool {
	if keyword == "" {
		return false
	}
	if strings.HasSuffix(keyword, "_") {
		prefix := strings.TrimRight(keyword, "_")
		for _, t := range tokens {
			if strings.HasPrefix(t, prefix) {
				return true
			}
		}
		return false
	}
	if strings.Contains(keyword, " ") {
		return strings.Contains(joined, " "+keyword+" ")
	}
	for _, t := range tokens {
		if t == keyword {
			return true
		}
	}
	return false
}

// Match returns the first rule matching tokens.
func (r Rules) Match(tokens []string) (Rule, bool) {
	joined := Joined(tokens)
	for _, rule := range r {
		if KeywordMatches(rule.Keyword, tokens, joined) {
			return rule, true
		}
	}
	return Rule{}, false
}

func group(category string, keywords ...string) Rules {
	out := make(Rules, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, Rule{Keyword: kw, Category: category})
	}
	return out
}

// DefaultRules returns a fresh copy of the built-in keyword table. More
// specific keywords precede general ones.
func DefaultRules() Rules {
	var r Rules
	r = append(r, group("Script Mod", "ui cheats", "uicheats", "mccc", "mc command", "command center")...)
	r = append(r, group("CAS Clothing",
		"top", "bottom", "shirt", "blouse", "dress", "skirt", "pants", "trousers", "shorts",
		"jacket", "coat", "jeans", "legging", "heels", "boots", "sneaker", "shoe")...)
	r = append(r, group("CAS Hair", "hair", "ponytail", "bun")...)
	r = append(r, group("CAS Accessories", "brow", "eyebrow", "lash", "eyelash")...)
	r = append(r, group("CAS Makeup", "makeup", "lipstick", "blush", "eyeliner")...)
	r = append(r, group("CAS Skin", "skinoverlay", "overlay", "tattoo", "freckle", "scar")...)
	r = append(r, group("CAS Eyes", "eyes", "iris")...)
	r = append(r, group("CAS Accessories",
		"eyeglass", "glasses", "spectacle", "sunglass", "eyewear", "goggle",
		"ring", "necklace", "earring", "piercing", "nails", "glove", "tail")...)
	r = append(r, group("BuildBuy Recolour", "recolor", "recolour", "swatch")...)
	r = append(r, group("BuildBuy Object", "object", "clutter", "deco", "furniture", "sofa", "chair", "table", "bed")...)
	r = append(r, group("Animation", "animation", "anim_")...)
	r = append(r, group("Pose", "pose")...)
	r = append(r, group("Preset", "preset")...)
	r = append(r, group("Slider", "slider")...)
	r = append(r, group("World", "world")...)
	r = append(r, group("Override", "override")...)
	r = append(r, group("Utility Tool", "utility", "tool")...)
	return r
}
