package framework

import "strings"

// Category labels produced by the classifier.
const (
	CategoryScriptMod        = "Script Mod"
	CategoryAdultScript      = "Adult Script"
	CategoryAdultGameplay    = "Adult Gameplay"
	CategoryAdultAnimation   = "Adult Animation"
	CategoryAdultPose        = "Adult Pose"
	CategoryAdultCAS         = "Adult CAS"
	CategoryAdultBuildBuy    = "Adult BuildBuy"
	CategoryAdultOverride    = "Adult Override"
	CategoryAdultOther       = "Adult Other"
	CategoryGameplayTuning   = "Gameplay Tuning"
	CategoryCASHair          = "CAS Hair"
	CategoryCASClothing      = "CAS Clothing"
	CategoryCASMakeup        = "CAS Makeup"
	CategoryCASSkin          = "CAS Skin"
	CategoryCASEyes          = "CAS Eyes"
	CategoryCASAccessories   = "CAS Accessories"
	CategoryBuildBuyObject   = "BuildBuy Object"
	CategoryBuildBuyRecolour = "BuildBuy Recolour"
	CategoryAnimation        = "Animation"
	CategoryPreset           = "Preset"
	CategoryPose             = "Pose"
	CategorySlider           = "Slider"
	CategoryWorld            = "World"
	CategoryOverride         = "Override"
	CategoryUtilityTool      = "Utility Tool"
	CategoryArchive          = "Archive"
	CategoryOther            = "Other"
	CategoryUnknown          = "Unknown"
)

// CategoryOrder is the display and folder precedence order.
var CategoryOrder = []string{
	CategoryScriptMod,
	CategoryAdultScript,
	CategoryAdultGameplay,
	CategoryAdultAnimation,
	CategoryAdultPose,
	CategoryAdultCAS,
	CategoryAdultBuildBuy,
	CategoryAdultOverride,
	CategoryAdultOther,
	CategoryGameplayTuning,
	CategoryCASHair,
	CategoryCASClothing,
	CategoryCASMakeup,
	CategoryCASSkin,
	CategoryCASEyes,
	CategoryCASAccessories,
	CategoryBuildBuyObject,
	CategoryBuildBuyRecolour,
	CategoryAnimation,
	CategoryPreset,
	CategoryPose,
	CategorySlider,
	CategoryWorld,
	CategoryOverride,
	CategoryUtilityTool,
	CategoryArchive,
	CategoryOther,
	CategoryUnknown,
}

var categoryIndex = func() map[string]int {
	out := make(map[string]int, len(CategoryOrder))
	for i, c := range CategoryOrder {
		out[c] = i
	}
	return out
}()

// CategoryIndex returns the sort position of a category. Unrecognised
// categories sort after every known one.
func CategoryIndex(category string) int {
	if idx, ok := categoryIndex[category]; ok {
		return idx
	}
	return len(CategoryOrder)
}

// IsKnownCategory reports whether category is part of CategoryOrder.
func IsKnownCategory(category string) bool {
	_, ok := categoryIndex[category]
	return ok
}

// IsAdult reports whether the category is one of the adult variants.
func IsAdult(category string) bool {
	return strings.HasPrefix(category, "Adult")
}

var adultPromotions = map[string]string{
	CategoryScriptMod:      CategoryAdultScript,
	CategoryGameplayTuning: CategoryAdultGameplay,
	CategoryAnimation:      CategoryAdultAnimation,
	CategoryPose:           CategoryAdultPose,
	CategoryOverride:       CategoryAdultOverride,
}

var adultDemotions = map[string]string{
	CategoryAdultScript:    CategoryScriptMod,
	CategoryAdultGameplay:  CategoryGameplayTuning,
	CategoryAdultAnimation: CategoryAnimation,
	CategoryAdultPose:      CategoryPose,
	CategoryAdultCAS:       CategoryCASClothing,
	CategoryAdultBuildBuy:  CategoryBuildBuyObject,
	CategoryAdultOverride:  CategoryOverride,
	CategoryAdultOther:     CategoryOther,
}

// PromoteAdult maps a base category onto its adult counterpart. Adult
// categories are returned unchanged.
func PromoteAdult(category string) string {
	if IsAdult(category) {
		return category
	}
	if adult, ok := adultPromotions[category]; ok {
		return adult
	}
	switch {
	case strings.HasPrefix(category, "CAS"):
		return CategoryAdultCAS
	case strings.HasPrefix(category, "BuildBuy"):
		return CategoryAdultBuildBuy
	}
	return CategoryAdultOther
}

// DemoteAdult strips the adult label from a category.
func DemoteAdult(category string) string {
	if !IsAdult(category) {
		return category
	}
	if base, ok := adultDemotions[category]; ok {
		return base
	}
	if base := strings.TrimSpace(strings.TrimPrefix(category, "Adult")); base != "" {
		return base
	}
	return CategoryOther
}

// DefaultFolderMap is the category to folder routing table used when the
// configuration does not override an entry.
func DefaultFolderMap() map[string]string {
	return map[string]string{
		CategoryAdultScript:      "Adult - Scripts",
		CategoryAdultGameplay:    "Adult - Gameplay",
		CategoryAdultAnimation:   "Adult - Animations",
		CategoryAdultPose:        "Adult - Poses",
		CategoryAdultCAS:         "Adult - CAS",
		CategoryAdultBuildBuy:    "Adult - Objects",
		CategoryAdultOverride:    "Adult - Overrides",
		CategoryAdultOther:       "Adult - Other",
		CategoryScriptMod:        "Script Mods",
		CategoryGameplayTuning:   "Gameplay Mods",
		CategoryCASHair:          "CAS Hair",
		CategoryCASClothing:      "CAS Clothing",
		CategoryCASMakeup:        "CAS Makeup",
		CategoryCASSkin:          "CAS Skin",
		CategoryCASEyes:          "CAS Eyes",
		CategoryCASAccessories:   "CAS Accessories",
		CategoryBuildBuyObject:   "BuildBuy Objects",
		CategoryBuildBuyRecolour: "BuildBuy Recolours",
		CategoryAnimation:        "Animations",
		CategoryPreset:           "Presets",
		CategoryPose:             "Poses",
		CategorySlider:           "Sliders",
		CategoryWorld:            "World",
		CategoryOverride:         "Overrides",
		CategoryUtilityTool:      "Utilities",
		CategoryArchive:          "Archives",
		CategoryOther:            "Other",
		CategoryUnknown:          "Unsorted",
	}
}
