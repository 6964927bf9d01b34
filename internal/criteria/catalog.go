package criteria

// Names of the built-in archetypes.
const (
	NetZero            = "NET ZERO"
	PrivateEquity      = "Private Equity"
	BoardDirectors     = "Board Directors"
	GlobalMindset      = "Global Mindset"
	FutureCapabilities = "Future Capabilities"
)

// Declaration order matters: archetype inference keeps the first entry on ties.
var catalog = []Archetype{
	{
		Name: NetZero,
		Skills: []RequiredSkill{
			{Name: "Climate Strategy & Carbon Accounting", Category: "Sustainability & ESG", Subcategory: "Climate Strategy & Carbon Accounting", Priority: 1,
				Rationale: "Foundational for developing and implementing carbon reduction and sustainability strategies."},
			{Name: "Strategic Thinking", Category: "Business & Strategy", Subcategory: "Strategic Thinking & Business Planning", Priority: 2,
				Rationale: "Essential for planning long-term, impactful sustainability initiatives."},
			{Name: "Collaboration", Category: "Soft Skills", Subcategory: "Collaboration Skills", Priority: 3,
				Rationale: "Key to aligning diverse teams and stakeholders on climate action goals."},
			{Name: "Data Analytics", Category: "Technology & Digital Skills", Subcategory: "Data & Analytics", Priority: 4,
				Rationale: "Supports accurate monitoring and assessment of environmental metrics."},
			{Name: "ESG Reporting & Compliance", Category: "Sustainability & ESG", Subcategory: "ESG Reporting & Compliance", Priority: 5,
				Rationale: "Ensures adherence to sustainability regulations and transparency."},
		},
		Traits: []RequiredTrait{
			{Name: "Conceptual", Rationale: "Encourages creative approaches to climate and sustainability challenges."},
			{Name: "Structure", Rationale: "Supports organized implementation of complex environmental plans."},
			{Name: "Cooperativeness", Rationale: "Promotes team alignment and shared responsibility in sustainable projects."},
		},
		Keywords: []string{"net zero", "carbon", "climate", "sustainability", "esg"},
	},
	{
		Name: PrivateEquity,
		Skills: []RequiredSkill{
			{Name: "Analytical", Category: "Soft Skills", Subcategory: "Work Productivity Skills", Priority: 1,
				Rationale: "Critical for evaluating investment opportunities and financial performance."},
			{Name: "Risk Management", Category: "Business & Strategy", Subcategory: "Strategic Thinking & Risk Management", Priority: 2,
				Rationale: "Core to protecting assets and managing uncertainty in investments."},
			{Name: "Financial Acumen", Category: "Business & Strategy", Subcategory: "Strategic Thinking & Business Planning", Priority: 3,
				Rationale: "Required for interpreting financial data and market trends."},
			{Name: "Decision Making", Category: "Soft Skills", Subcategory: "Work Productivity Skills", Priority: 4,
				Rationale: "Supports fast, confident decisions in high-stakes environments."},
			{Name: "Collaboration", Category: "Soft Skills", Subcategory: "Collaboration Skills", Priority: 5,
				Rationale: "Ensures synergy among analysts, risk managers, and domain experts."},
		},
		Traits: []RequiredTrait{
			{Name: "Drive", Rationale: "Reflects the ambition and energy needed to succeed in competitive markets."},
			{Name: "Assertiveness", Rationale: "Enables confident expression of opinions and firm decision-making."},
			{Name: "Awareness", Rationale: "Allows careful consideration of both risks and opportunities."},
		},
		Keywords: []string{"private equity", "investment", "finance", "fund", "portfolio"},
	},
	{
		Name: BoardDirectors,
		Skills: []RequiredSkill{
			{Name: "Governance", Category: "Business & Strategy", Subcategory: "Governance & Oversight", Priority: 1,
				Rationale: "Central to defining and upholding corporate governance practices."},
			{Name: "Strategic Thinking", Category: "Business & Strategy", Subcategory: "Strategic Thinking & Business Planning", Priority: 2,
				Rationale: "Guides high-level planning and oversight."},
			{Name: "Decision Making", Category: "Soft Skills", Subcategory: "Work Productivity Skills", Priority: 3,
				Rationale: "Vital for evaluating options and approving key initiatives."},
			{Name: "Communication Skills", Category: "Soft Skills", Subcategory: "Collaboration Skills", Priority: 4,
				Rationale: "Ensures effective discussion and articulation of policies."},
			{Name: "Leadership", Category: "Soft Skills", Subcategory: "Work-Oriented Skills", Priority: 5,
				Rationale: "Influences strategic direction and board cohesion."},
		},
		Traits: []RequiredTrait{
			{Name: "Composure", Rationale: "Maintains clarity and calm during board deliberations."},
			{Name: "Power", Rationale: "Drives confident leadership and board presence."},
			{Name: "Structure", Rationale: "Supports disciplined decision-making and adherence to policy."},
		},
		Keywords: []string{"board", "director", "governance", "oversight", "committee"},
	},
	{
		Name: GlobalMindset,
		Skills: []RequiredSkill{
			{Name: "Cross-Cultural Skills", Category: "Soft Skills", Subcategory: "Interpersonal & Social Skills", Priority: 1,
				Rationale: "Enables effective interaction across diverse cultural contexts."},
			{Name: "Language Skills", Category: "Soft Skills", Subcategory: "Culture & Language", Priority: 2,
				Rationale: "Facilitates direct communication with global teams."},
			{Name: "Client & Stakeholder Management", Category: "Business & Strategy", Subcategory: "Client & Stakeholder Management", Priority: 3,
				Rationale: "Supports relationship-building across geographies."},
			{Name: "Adaptability", Category: "Soft Skills", Subcategory: "Growth & Adaptability", Priority: 4,
				Rationale: "Helps navigate change and cultural complexity."},
			{Name: "Strategic Thinking", Category: "Business & Strategy", Subcategory: "Strategic Thinking & Business Planning", Priority: 5,
				Rationale: "Enables global planning and market entry strategies."},
		},
		Traits: []RequiredTrait{
			{Name: "Flexibility", Rationale: "Enables smooth adaptation to cultural and situational changes."},
			{Name: "Positivity", Rationale: "Promotes open, friendly global collaboration."},
			{Name: "Liveliness", Rationale: "Energizes international engagements and team dynamics."},
		},
		Keywords: []string{"global", "international", "cross-cultural", "worldwide", "multinational"},
	},
	{
		Name: FutureCapabilities,
		Skills: []RequiredSkill{
			{Name: "Digital Savvy", Category: "Technology & Digital Skills", Subcategory: "Digital Literacy", Priority: 1,
				Rationale: "Enables understanding and application of emerging technologies."},
			{Name: "Innovation", Category: "Technology & Digital Skills", Subcategory: "General Digital Literacy", Priority: 2,
				Rationale: "Drives the creation of new solutions and competitive advantages."},
			{Name: "Energy Trading Knowledge", Category: "Sustainability & ESG", Subcategory: "Energy & Resource Economics", Priority: 3,
				Rationale: "Essential for operational success in the energy sector."},
			{Name: "Strategic Thinking", Category: "Business & Strategy", Subcategory: "Strategic Thinking & Business Planning", Priority: 4,
				Rationale: "Supports long-term planning in volatile markets."},
			{Name: "Problem Solving", Category: "Soft Skills", Subcategory: "Work Productivity Skills", Priority: 5,
				Rationale: "Crucial for overcoming technical and market challenges."},
		},
		Traits: []RequiredTrait{
			{Name: "Ambition", Rationale: "Pushes the team to explore bold ideas and disruptive technologies."},
			{Name: "Conceptual", Rationale: "Drives innovative thinking and future-focused strategies."},
			{Name: "Mastery", Rationale: "Demonstrates deep commitment to excellence and skill refinement."},
		},
		Keywords: []string{"future", "innovation", "digital", "technology", "transformation"},
	},
}
