package questionsource

import (
	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"gorm.io/datatypes"
)

// SeedTaxonomy returns the built-in domain and skill tree. Weights are
// section blueprint shares and feed reporting, not scoring.
func SeedTaxonomy() []*models.Domain {
	return []*models.Domain{
		{
			ID: "RW_II", Name: "Information and Ideas", Weight: 0.26,
			Skills: []models.Skill{
				{ID: "RW_II_CID", Name: "Central Ideas and Details", DomainID: "RW_II"},
				{ID: "RW_II_INF", Name: "Inferences", DomainID: "RW_II"},
				{ID: "RW_II_COE", Name: "Command of Evidence", DomainID: "RW_II"},
			},
		},
		{
			ID: "RW_CS", Name: "Craft and Structure", Weight: 0.28,
			Skills: []models.Skill{
				{ID: "RW_CS_WIC", Name: "Words in Context", DomainID: "RW_CS"},
				{ID: "RW_CS_TSP", Name: "Text Structure and Purpose", DomainID: "RW_CS"},
				{ID: "RW_CS_CTC", Name: "Cross-Text Connections", DomainID: "RW_CS"},
			},
		},
		{
			ID: "RW_EOI", Name: "Expression of Ideas", Weight: 0.20,
			Skills: []models.Skill{
				{ID: "RW_EOI_RHS", Name: "Rhetorical Synthesis", DomainID: "RW_EOI"},
				{ID: "RW_EOI_TRN", Name: "Transitions", DomainID: "RW_EOI"},
			},
		},
		{
			ID: "RW_SEC", Name: "Standard English Conventions", Weight: 0.26,
			Skills: []models.Skill{
				{ID: "RW_SEC_BND", Name: "Boundaries", DomainID: "RW_SEC"},
				{ID: "RW_SEC_FSS", Name: "Form, Structure, and Sense", DomainID: "RW_SEC"},
			},
		},
		{
			ID: "M_ALG", Name: "Algebra", Weight: 0.35,
			Skills: []models.Skill{
				{ID: "M_ALG_LIN1", Name: "Linear equations in one variable", DomainID: "M_ALG"},
				{ID: "M_ALG_FUNC", Name: "Linear functions", DomainID: "M_ALG"},
				{ID: "M_ALG_LIN2", Name: "Linear equations in two variables", DomainID: "M_ALG"},
				{ID: "M_ALG_SYS", Name: "Systems of two linear equations in two variables", DomainID: "M_ALG"},
				{ID: "M_ALG_INEQ", Name: "Linear inequalities in one or two variables", DomainID: "M_ALG"},
			},
		},
		{
			ID: "M_ADV", Name: "Advanced Math", Weight: 0.35,
			Skills: []models.Skill{
				{ID: "M_ADV_NONF", Name: "Nonlinear functions", DomainID: "M_ADV"},
				{ID: "M_ADV_NONE", Name: "Nonlinear equations in one variable", DomainID: "M_ADV"},
				{ID: "M_ADV_SYS", Name: "Systems of equations in two variables", DomainID: "M_ADV"},
				{ID: "M_ADV_EXP", Name: "Equivalent expressions", DomainID: "M_ADV"},
			},
		},
		{
			ID: "M_PSD", Name: "Problem-Solving and Data Analysis", Weight: 0.15,
			Skills: []models.Skill{
				{ID: "M_PSD_RAT", Name: "Ratios, rates, proportional relationships, and units", DomainID: "M_PSD"},
				{ID: "M_PSD_PCT", Name: "Percentages", DomainID: "M_PSD"},
				{ID: "M_PSD_OV", Name: "One-variable data: Distributions and measures", DomainID: "M_PSD"},
				{ID: "M_PSD_TV", Name: "Two-variable data: Models and scatterplots", DomainID: "M_PSD"},
				{ID: "M_PSD_PROB", Name: "Probability and conditional probability", DomainID: "M_PSD"},
				{ID: "M_PSD_INF", Name: "Inference from sample statistics and margin of error", DomainID: "M_PSD"},
				{ID: "M_PSD_EVAL", Name: "Evaluating statistical claims: Observational studies", DomainID: "M_PSD"},
			},
		},
		{
			ID: "M_GEO", Name: "Geometry and Trigonometry", Weight: 0.15,
			Skills: []models.Skill{
				{ID: "M_GEO_AV", Name: "Area and volume", DomainID: "M_GEO"},
				{ID: "M_GEO_LAT", Name: "Lines, angles, and triangles", DomainID: "M_GEO"},
				{ID: "M_GEO_RTT", Name: "Right triangles and trigonometry", DomainID: "M_GEO"},
				{ID: "M_GEO_CIR", Name: "Circles", DomainID: "M_GEO"},
			},
		},
	}
}

func seedQuestion(id, skillID, seedID string, tier models.DifficultyTier, stimulus string, choices [4]string, correct string) *models.Question {
	return &models.Question{
		ID:           id,
		SkillID:      skillID,
		SeedID:       &seedID,
		Difficulty:   tier,
		Stimulus:     stimulus,
		CorrectLabel: correct,
		Points:       1,
		Choices: datatypes.NewJSONType([]models.Choice{
			{Label: "A", Text: choices[0]},
			{Label: "B", Text: choices[1]},
			{Label: "C", Text: choices[2]},
			{Label: "D", Text: choices[3]},
		}),
		Status: models.QuestionApproved,
		Source: models.SourceBank,
	}
}

// batteryOrder fixes the slot order of every built-in module.
var batteryOrder = map[models.ModuleName][]string{
	models.ModuleRouting: {
		"MATH_ROUTING_Q1", "MATH_ROUTING_Q2", "MATH_ROUTING_Q3", "MATH_ROUTING_Q4",
		"MATH_ROUTING_Q5", "MATH_ROUTING_Q6", "MATH_ROUTING_Q7", "MATH_ROUTING_Q8",
		"MATH_ROUTING_Q9", "MATH_ROUTING_Q10",
	},
	models.ModuleStage2Easy: {
		"MATH_STAGE2_EASY_Q1", "MATH_STAGE2_EASY_Q2", "MATH_STAGE2_EASY_Q3", "MATH_STAGE2_EASY_Q4",
		"MATH_STAGE2_EASY_Q5", "MATH_STAGE2_EASY_Q6", "MATH_STAGE2_EASY_Q7", "MATH_STAGE2_EASY_Q8",
	},
	models.ModuleStage2Medium: {
		"MATH_STAGE2_MED_Q1", "MATH_STAGE2_MED_Q2", "MATH_STAGE2_MED_Q3", "MATH_STAGE2_MED_Q4",
		"MATH_STAGE2_MED_Q5", "MATH_STAGE2_MED_Q6", "MATH_STAGE2_MED_Q7", "MATH_STAGE2_MED_Q8",
	},
	models.ModuleStage2Hard: {
		"MATH_STAGE2_HARD_Q1", "MATH_STAGE2_HARD_Q2", "MATH_STAGE2_HARD_Q3", "MATH_STAGE2_HARD_Q4",
		"MATH_STAGE2_HARD_Q5", "MATH_STAGE2_HARD_Q6", "MATH_STAGE2_HARD_Q7", "MATH_STAGE2_HARD_Q8",
		"MATH_STAGE2_HARD_Q9",
	},
}

// BatteryOrder returns the fixed question ID order of a module, or nil
// for unknown modules.
func BatteryOrder(module models.ModuleName) []string {
	ids := batteryOrder[module]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// SeedQuestions returns the built-in diagnostic batteries: ten routing
// items spanning the three tiers plus one fixed battery per Stage-2 tier.
func SeedQuestions() []*models.Question {
	return []*models.Question{
		// Routing battery
		seedQuestion("MATH_ROUTING_Q1", "M_PSD_RAT", "RAT-E1", models.TierEasy,
			"A recipe uses 3 cups of flour for every 2 cups of sugar. If a baker uses 9 cups of flour, how many cups of sugar should they use to keep the same ratio?",
			[4]string{"4.5", "5", "6", "9"}, "C"),
		seedQuestion("MATH_ROUTING_Q2", "M_ALG_LIN1", "LIN1-B-4", models.TierEasy,
			"A gym charges a one-time fee of $12 plus $3 for each class attended. If a student paid $27 in total, how many classes did they attend?",
			[4]string{"4", "3", "5", "2"}, "C"),
		seedQuestion("MATH_ROUTING_Q3", "M_ALG_LIN2", "LIN2-A-1", models.TierEasy,
			"A line passes through the points (1, 3) and (5, 11). What is the slope of the line?",
			[4]string{"1", "2", "4", "8"}, "C"),
		seedQuestion("MATH_ROUTING_Q4", "M_ALG_SYS", "SYS1-D-2", models.TierMedium,
			"A movie theater sells popcorn for $4 each and drinks for $3 each. A customer buys 7 items for a total of $26. How many popcorns did the customer buy?",
			[4]string{"2", "3", "4", "5"}, "C"),
		seedQuestion("MATH_ROUTING_Q5", "M_ADV_NONF", "NONF-3B-M1", models.TierMedium,
			"The height of a ball, in feet, is modeled by h(t) = -4t^2 + 20t + 1, where t is the time in seconds after it is thrown. At what time does the ball reach its maximum height?",
			[4]string{"2.5", "5", "10", "1.25"}, "A"),
		seedQuestion("MATH_ROUTING_Q6", "M_PSD_PCT", "PCT-M1", models.TierMedium,
			"A jacket originally costs $80. After a percent increase, its new price is $92. What percent increase was applied?",
			[4]string{"10%", "12.5%", "15%", "20%"}, "B"),
		seedQuestion("MATH_ROUTING_Q7", "M_GEO_LAT", "LAT-M2", models.TierMedium,
			"Lines m and n are parallel. If an angle formed on line m measures 35°, what is the measure of the alternate interior angle on line n?",
			[4]string{"145", "35", "55", "70"}, "B"),
		seedQuestion("MATH_ROUTING_Q8", "M_ADV_EXP", "EXP2-H1", models.TierHard,
			"Which expression is equivalent to (12x^2 - 18x) / (6x)?",
			[4]string{"2x - 3", "2 - 3x", "(12x - 18) / 6", "x - 3"}, "A"),
		seedQuestion("MATH_ROUTING_Q9", "M_GEO_RTT", "RTT-H1", models.TierHard,
			"A right triangle has one leg of length 9 and a hypotenuse of length 15. What is the length of the other leg?",
			[4]string{"12", "5", "18", "6"}, "A"),
		seedQuestion("MATH_ROUTING_Q10", "M_ADV_NONF", "NONF-2B-H1", models.TierHard,
			"A population of bacteria triples every hour. If the population is currently 200, what will the population be after 2 hours?",
			[4]string{"400", "600", "1800", "2000"}, "C"),

		// Stage-2 Easy battery
		seedQuestion("MATH_STAGE2_EASY_Q1", "M_ALG_LIN1", "LIN1-B-2", models.TierEasy,
			"A babysitter charges a $10 flat fee plus $4 for each hour of babysitting. If the total cost for one evening was $26, for how many hours did the babysitter work?",
			[4]string{"2", "4", "5", "6"}, "B"),
		seedQuestion("MATH_STAGE2_EASY_Q2", "M_ALG_INEQ", "INEQ-A-2", models.TierEasy,
			"A student needs at least 75 points on the final exam to earn a B in the class. If the final exam is worth 100 points and they already have 520 points out of 700 possible, which inequality represents the score x they need on the final to earn a B?",
			[4]string{"x + 520 ≤ 675", "520 + 100x ≥ 675", "x ≥ 75", "x + 520 ≥ 675"}, "D"),
		seedQuestion("MATH_STAGE2_EASY_Q3", "M_ADV_NONF", "NONF-1A-E1", models.TierEasy,
			"A quadratic function is given by f(x) = x^2 - 6x + 5. What is the value of f(3)?",
			[4]string{"-4", "2", "5", "4"}, "A"),
		seedQuestion("MATH_STAGE2_EASY_Q4", "M_ADV_EXP", "EXP1-E1", models.TierEasy,
			"Which expression is equivalent to 5x + 3x - 12?",
			[4]string{"5x + 3x - 12", "8x + 12", "8x - 12", "2x - 12"}, "C"),
		seedQuestion("MATH_STAGE2_EASY_Q5", "M_PSD_RAT", "RAT-E2", models.TierEasy,
			"A map uses a scale where 1 inch represents 20 miles. If two towns are 3.5 inches apart on the map, how many miles apart are they in reality?",
			[4]string{"35", "55", "60", "70"}, "D"),
		seedQuestion("MATH_STAGE2_EASY_Q6", "M_PSD_OV", "OV-M1", models.TierMedium,
			"The ages of five students are 14, 16, 17, 18, and 25. What is the median age?",
			[4]string{"16", "17", "18", "20"}, "B"),
		seedQuestion("MATH_STAGE2_EASY_Q7", "M_GEO_AV", "AV-E2", models.TierEasy,
			"A rectangular garden has a length of 12 meters and a width of 9 meters. What is its area?",
			[4]string{"108", "96", "84", "21"}, "A"),
		seedQuestion("MATH_STAGE2_EASY_Q8", "M_ADV_NONF", "NONF-1A-M1", models.TierMedium,
			"The function g(x) = x^2 - 4x + 3 models the height of a toy car on a ramp. Which of the following values of x is a solution to g(x) = 0?",
			[4]string{"0", "2", "1", "4"}, "C"),

		// Stage-2 Medium battery
		seedQuestion("MATH_STAGE2_MED_Q1", "M_ALG_LIN1", "LIN1-C-2", models.TierMedium,
			"Solve the equation: 3(2x - 1) + 5 = x + 12.",
			[4]string{"2", "3", "4", "6"}, "A"),
		seedQuestion("MATH_STAGE2_MED_Q2", "M_ALG_SYS", "SYS1-C-1", models.TierMedium,
			"A system of equations is given below:\n\nx + 2y = 8\n3x - y = 3\n\nWhat is the value of x?",
			[4]string{"1", "2", "3", "5"}, "B"),
		seedQuestion("MATH_STAGE2_MED_Q3", "M_ADV_NONF", "NONF-3A-M1", models.TierMedium,
			"A population of fish in a lake is modeled by P(t) = 200(1.02)^t, where t is the number of years after 2020. What is the population in 2030?",
			[4]string{"244", "325", "200(1.02)^10", "200(1.02)^5"}, "C"),
		seedQuestion("MATH_STAGE2_MED_Q4", "M_ADV_EXP", "EXP3-M1", models.TierMedium,
			"Which expression is equivalent to (6x^2 - 9x) / (3x)?",
			[4]string{"2 - 3/x", "2x^2 - 3x", "6x - 9", "2x - 3"}, "D"),
		seedQuestion("MATH_STAGE2_MED_Q5", "M_PSD_PCT", "PCT-M2", models.TierMedium,
			"A company increases the price of a product by 8% and then decreases the new price by 5%. What is the overall percent change from the original price?",
			[4]string{"3% increase", "3.6% decrease", "2.6% increase", "5% decrease"}, "C"),
		seedQuestion("MATH_STAGE2_MED_Q6", "M_PSD_TV", "TV-M2", models.TierMedium,
			"The table below shows the relationship between x and y.\n\nx: 2, 4, 6, 8\ny: 5, 11, 17, 23\n\nWhat is the slope of the line that best fits the data?",
			[4]string{"2", "3", "4", "6"}, "B"),
		seedQuestion("MATH_STAGE2_MED_Q7", "M_GEO_LAT", "LAT-M3", models.TierMedium,
			"In triangle ABC, angle A measures (4x - 10)°, angle B measures (3x - 5)°, and angle C measures 90°. What is the value of x?",
			[4]string{"15", "10", "20", "25"}, "A"),
		seedQuestion("MATH_STAGE2_MED_Q8", "M_ADV_NONF", "NONF-1B-M1", models.TierHard,
			"Solve the equation: x^2 - 7x + 10 = 0.",
			[4]string{"1 and 10", "3 and 4", "5 and 7", "2 and 5"}, "D"),

		// Stage-2 Hard battery
		seedQuestion("MATH_STAGE2_HARD_Q1", "M_ALG_LIN1", "LIN1-B-7", models.TierMedium,
			"A factory produces x units of a product each day. The daily revenue R (in dollars) is modeled by R = 15x − 200. The daily cost C is modeled by C = 9x + 80. For what value of x does the factory break even?",
			[4]string{"35", "40", "45", "50"}, "B"),
		seedQuestion("MATH_STAGE2_HARD_Q2", "M_ALG_INEQ", "INEQ-D-3", models.TierHard,
			"A delivery company charges $12 for the first 5 miles and $1.50 for each additional mile. Which inequality represents the number of miles m that can be driven if the total cost must be less than $30?",
			[4]string{"12 + 1.5m < 30", "12 + 1.5(m - 5) < 30", "1.5m < 30", "(m - 5)/1.5 < 30"}, "B"),
		seedQuestion("MATH_STAGE2_HARD_Q3", "M_ADV_NONF", "NONF-3B-H1", models.TierHard,
			"The height of a projectile is modeled by h(t) = -5t^2 + 40t + 15, where t is the time in seconds. At what time does the projectile reach its maximum height?",
			[4]string{"2", "3", "4", "5"}, "B"),
		seedQuestion("MATH_STAGE2_HARD_Q4", "M_ADV_EXP", "EXP3-H1", models.TierHard,
			"Which expression is equivalent to (4x^3 - 8x^2) / (2x)?",
			[4]string{"2x^2 - 4x", "2x^2 - 4", "4x^2 - 8x", "2x^2 - 8/x"}, "A"),
		seedQuestion("MATH_STAGE2_HARD_Q5", "M_PSD_PROB", "PROB-H2", models.TierHard,
			"A bag contains 5 red, 7 blue, and 8 green marbles. Two marbles are drawn at random without replacement. What is the probability that both marbles drawn are blue?",
			[4]string{"7/20", "7/95", "42/380", "21/190"}, "D"),
		seedQuestion("MATH_STAGE2_HARD_Q6", "M_PSD_EVAL", "EVAL-H3", models.TierHard,
			"A study claims that students who drink more than 3 cups of coffee per day score 10 points higher on average on an exam. Which of the following is the strongest critique of this claim?",
			[4]string{
				"The study does not include enough exam questions.",
				"The study does not show whether coffee consumption causes higher scores.",
				"The difference of 10 points may not be statistically significant.",
				"Some students prefer tea instead of coffee.",
			}, "B"),
		seedQuestion("MATH_STAGE2_HARD_Q7", "M_GEO_RTT", "RTT-H2", models.TierHard,
			"In right triangle ABC, angle C is the right angle. If AB = 26 and AC = 10, what is the measure of angle A to the nearest degree?",
			[4]string{"23", "28", "67", "72"}, "A"),
		seedQuestion("MATH_STAGE2_HARD_Q8", "M_ADV_NONF", "NONF-1A-H1", models.TierHard,
			"A function is defined as f(x) = 2x^2 - 3x + 1. A new function g is defined by g(x) = f(2x - 1). What is the value of g(3)?",
			[4]string{"46", "52", "58", "62"}, "C"),
		seedQuestion("MATH_STAGE2_HARD_Q9", "M_ADV_NONF", "NONF-1A-H2", models.TierHard,
			"A function is defined as f(x) = 3x^2 - 2x + 1. A second function is defined by g(x) = f(x + 2) - f(2). What is the value of g(5)?",
			[4]string{"78", "84", "96", "102"}, "C"),
	}
}
