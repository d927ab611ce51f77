package recommend

import "github.com/glucoguide/glucoguide/internal/catalog"

const lowCarbThreshold = 30

const (
	tipLowGILowCarb = "Excellent choice for blood sugar management. Low carb content helps prevent blood sugar spikes."
	tipLowGI        = "Good choice with moderate carbs. Monitor portion size to maintain stable blood sugar."
	tipMediumGI     = "Pair with a protein source and fiber-rich vegetables to slow carbohydrate absorption."
	tipHighGI       = "Consider reducing portion size and pairing with healthy fats to reduce glycemic impact."
)

// annotateMeals fills in diabetes tips for meals that lack one. The tip is
// a pure function of glycemic index and carb content, so existing tips are
// never overwritten.
func annotateMeals(meals []catalog.Meal) {
	for i := range meals {
		if meals[i].DiabetesTips == "" {
			meals[i].DiabetesTips = tipFor(meals[i])
		}
	}
}

func tipFor(m catalog.Meal) string {
	switch {
	case m.GlycemicIndex == "low" && m.Carbs < lowCarbThreshold:
		return tipLowGILowCarb
	case m.GlycemicIndex == "low":
		return tipLowGI
	case m.GlycemicIndex == "medium":
		return tipMediumGI
	default:
		return tipHighGI
	}
}
