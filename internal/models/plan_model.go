package models

// PlanID is the closed set of purchasable plans. New plans are compile-time
// additions here and in the catalog below.
type PlanID string

const (
	PlanCreator PlanID = "plan_creator"
	PlanPro     PlanID = "plan_pro"
)

// Plan describes a purchasable subscription plan.
type Plan struct {
	ID                PlanID   `json:"id"`
	Name              string   `json:"name"`
	Price             int      `json:"price"` // monthly price in INR
	Description       string   `json:"description"`
	Features          []string `json:"features"`
	MonthlyStoryLimit int      `json:"monthlyStoryLimit"`
}

// Plans is the full plan catalog, in display order.
var Plans = []Plan{
	{
		ID:          PlanCreator,
		Name:        "Creator",
		Price:       199,
		Description: "Perfect for getting started and bringing your first few stories to life.",
		Features: []string{
			"Generate up to 5 stories per month",
			"Access to all illustration styles",
			"Standard story generation speed",
			"Community support",
		},
		MonthlyStoryLimit: 5,
	},
	{
		ID:          PlanPro,
		Name:        "Pro",
		Price:       599,
		Description: "For prolific storytellers who want to unleash their full creative potential.",
		Features: []string{
			"Generate up to 15 stories per month",
			"Access to all illustration styles",
			"Priority story generation",
			"Email support",
		},
		MonthlyStoryLimit: 15,
	},
}

// PlanByID looks up a plan in the catalog. The second return value is false
// for any id outside the closed PlanID set.
func PlanByID(id PlanID) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
