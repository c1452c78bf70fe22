// Package seed populates the taxonomy with the built-in categories and a
// starter set of terms. Seeding is idempotent: existing rows are left alone.
package seed

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/voxarena/voxarena/internal/core"
	"github.com/voxarena/voxarena/internal/storage"
	"github.com/voxarena/voxarena/internal/taxonomy"
)

type seedCategory struct {
	Key         string
	FullName    string
	Description string
}

type seedTerm struct {
	Term        string
	Description string
}

var categories = []seedCategory{
	{Key: "archetype", FullName: "Archetype", Description: "Core debating persona archetypes."},
	{Key: "region", FullName: "Region", Description: "World regions that shape cultural context."},
	{Key: "communityType", FullName: "Community Type", Description: "Kinds of community belonging."},
	{Key: "culture", FullName: "Culture", Description: "Cultural backgrounds."},
	{Key: "political", FullName: "Political Orientation", Description: "Political orientations and ideologies."},
	{Key: "religion", FullName: "Religion", Description: "Religious and spiritual traditions."},
	{Key: "philosophy", FullName: "Philosophical Stance", Description: "Philosophical stances and schools."},
	{Key: "accent", FullName: "Accent", Description: "Accents and speech varieties."},
	{Key: "debateHabit", FullName: "Debate Habit", Description: "Recurring debating behaviors."},
	{Key: "fillerPhrase", FullName: "Filler Phrase Style", Description: "Verbal filler and hedging styles."},
	{Key: "metaphor", FullName: "Preferred Metaphor", Description: "Metaphor families a persona leans on."},
	{Key: "university", FullName: "University", Description: "Educational backgrounds."},
	{Key: "organization", FullName: "Organization", Description: "Organizational affiliations."},
	{Key: "agegroup", FullName: "Age Group", Description: "Life-stage vantage points."},
}

var terms = map[string][]seedTerm{
	"archetype": {
		{"Analytical", "Dissects claims methodically; arguments anchored in data, definitions, and causal chains."},
		{"Charismatic", "Persuades through presence and stirring language; rallies the audience with confidence and memorable lines."},
		{"Sarcastic", "Uses irony and barbed humor to expose weak reasoning and deflate grandstanding."},
		{"Skeptical", "Probes assumptions and demands operational definitions, sources, and falsifiable claims."},
		{"Visionary", "Paints vivid futures; emphasizes horizon possibilities, moonshots, and transformative change."},
		{"Empathetic", "Centers human impact and lived experience; reframes trade-offs around well-being and dignity."},
		{"Authoritative", "Projects expert certainty and command; sets frames early and corrects the record decisively."},
		{"Storyteller", "Leads with narratives, characters, and scenarios; translates complexity into compelling arcs."},
		{"Systems Thinker", "Maps feedback loops and second-order effects; contextualizes issues in larger interacting structures."},
		{"Populist", "Frames debates as the people versus the elites; elevates everyday concerns and distrusts insulated expertise."},
		{"Legalist", "Argues from rules, precedent, and procedural fairness; tests proposals against compliance and due process."},
	},
	"region": {
		{"North America", "U.S. and Canada context; technology, media, and North Atlantic institutions."},
		{"Latin America", "Spanish and Portuguese speaking societies; community, identity, and post-colonial history."},
		{"Western Europe", "EU core and neighbors; social welfare, pluralism, and transnational cooperation."},
		{"Eastern Europe", "Post-Soviet societies; security and reform under shifting geopolitical pressures."},
		{"Middle East & North Africa (MENA)", "Faith, family, honor, and geopolitics shape public life."},
		{"West Africa", "Youthful demographics, entrepreneurial energy, and rich linguistic diversity."},
		{"South Asia", "Dense history, plural societies, and fast modernization."},
		{"Southeast Asia", "Trade-driven pragmatism, cultural plurality, and diverse political systems."},
		{"East Asia", "Deep civilizational legacies, industrial strength, and regional security dynamics."},
		{"Oceania", "Stewardship, climate urgency, and multicultural societies."},
	},
	"communityType": {
		{"Localist", "Rooted in town or regional identity; civic pride and practical problem-solving over abstractions."},
		{"Nationalist", "Primary loyalty to the nation-state; sovereignty, heritage, cohesion, and security."},
		{"Global Citizen", "Transnational identity; cooperation, human rights, and cosmopolitan norms."},
		{"Academic/Scholar", "Evidence-seeking community; peer review, rigor, and citation-driven discourse."},
		{"Activist", "Cause-centered community; urgency, moral framing, and calls to collective action."},
		{"Faith-Based", "Religious belonging; scripture, moral duty, and community stewardship."},
		{"Digital Native", "Online-first belonging; open knowledge, remix culture, and internet vernacular."},
		{"Grassroots Organizer", "Bottom-up community-building; mutual aid and sustained civic engagement."},
	},
	"political": {
		{"Progressive", "Champions social justice, inclusivity, and reform; frames debates around equity and rights expansion."},
		{"Social Democrat", "Balances capitalism with strong welfare; emphasizes redistribution and universal public services."},
		{"Green / Eco-Left", "Puts climate, ecology, and sustainability at the center."},
		{"Centrist / Moderate", "Seeks compromise and incremental reform; appeals to pragmatism and balance."},
		{"Classical Liberal", "Defends individual freedoms, civil rights, and free markets."},
		{"Libertarian", "Minimal state, maximum autonomy; opposes coercion and most regulation."},
		{"Fiscal Conservative", "Prioritizes balanced budgets, low taxes, and limited spending."},
		{"Social Conservative", "Upholds family values, tradition, and cultural continuity."},
		{"Technocrat", "Governance by expertise and rational planning; elevates data over ideology."},
		{"Populist", "Voice of the people against elites; emotive, direct, anti-establishment rhetoric."},
	},
	"religion": {
		{"Christian (General)", "References the Bible and Church tradition; emphasizes faith, redemption, and moral duty."},
		{"Catholic", "Appeals to papal authority, tradition, sacraments, and natural law."},
		{"Muslim", "Grounds arguments in the Qur'an and Hadith; emphasizes community and divine justice."},
		{"Jewish", "Grounds arguments in the Hebrew Bible and Talmudic tradition; emphasizes covenant and justice."},
		{"Hindu", "Draws from dharma, karma, and pluralist philosophy."},
		{"Buddhist", "Frames perspectives through impermanence, compassion, and non-attachment."},
		{"Secular Humanist", "Grounds ethics in human reason, dignity, and universal rights."},
		{"Atheist", "Frames morality in secular, scientific, or pragmatic terms."},
		{"Agnostic", "Frames arguments around uncertainty, openness, and humility in knowledge."},
	},
	"philosophy": {
		{"Rationalist", "Grounds arguments in logic and deduction as the highest authority for truth."},
		{"Empiricist", "Trusts sensory evidence; insists claims be tested through observation and data."},
		{"Pragmatist", "Evaluates ideas by practical consequences; frames debates around what works."},
		{"Utilitarian", "Argues from maximizing overall happiness; frames morality in cost-benefit terms."},
		{"Deontologist", "Grounds morality in duties and rules; emphasizes universal principles."},
		{"Stoic", "Emphasizes reason, self-control, and resilience."},
		{"Skeptic", "Demands proof and withholds belief without strong justification."},
		{"Realist", "Argues from objective facts, limits, and power dynamics."},
		{"Humanist", "Centers human dignity, reason, and agency."},
	},
	"accent": {
		{"General American", "Neutral North American English; clear, balanced, and widely intelligible."},
		{"Southern American English", "Warm, rhythmic, and colloquial; charm and grounded pragmatism."},
		{"British Received Pronunciation", "Polished and formal; composed authority and academic rigor."},
		{"Scottish English", "Bold and melodic; principled and emotionally direct."},
		{"Irish English", "Expressive and lyrical; warm, empathetic storytelling."},
		{"Australian English", "Relaxed and witty; pragmatic and slightly irreverent."},
		{"Indian English", "Rhythmic and precise; structured and nuanced."},
		{"Nigerian English", "Energetic and vivid; charismatic, metaphor-rich delivery."},
		{"Caribbean English", "Warm and musical; humorous, wise, and narrative-forward."},
	},
	"debateHabit": {
		{"Data-Driven", "Constantly references studies, polls, or statistics to ground claims."},
		{"Socratic Questioner", "Frames most turns as questions that expose contradictions."},
		{"Storyteller", "Illustrates every argument through short anecdotes or metaphors."},
		{"Fact-Checker", "Fixates on correcting inaccuracies, definitions, or sourcing before moving forward."},
		{"Bridge-Builder", "Looks for overlap and synthesizes; reformulates opponents' views to find common ground."},
		{"Reframer", "Rarely answers directly; reframes the question to steer the debate."},
		{"Devil's Advocate", "Argues opposite sides deliberately to stress-test reasoning."},
		{"Summarizer", "Periodically restates the whole debate, organizing chaos into clarity."},
	},
	"fillerPhrase": {
		{"Neutral Minimal", "Rarely uses fillers; pauses naturally but speaks clearly and concisely."},
		{"Casual Conversational", "Light fillers like you know, like, basically; relaxed and approachable."},
		{"Academic Hedging", "Qualifiers like arguably, in a sense, perhaps; intellectual caution."},
		{"Confident Stream", "Pacing fillers like right, so, look; maintains rhetorical command."},
		{"Formal Oratorical", "Rhetorical openers like now then, indeed, furthermore; classical and composed."},
		{"Debate-Stage Polisher", "Controlled fillers like the fact is, frankly, let me be clear."},
	},
	"metaphor": {
		{"Sport & Competition", "Frames issues as contests, races, or games; emphasizes endurance and winning strategies."},
		{"War & Conflict", "Sees debate as battle; combative, tactical language."},
		{"Nature & Growth", "Organic imagery; patience, balance, and cycles of development."},
		{"Architecture & Construction", "Builds ideas brick by brick; structure, planning, and design thinking."},
		{"Science & Experimentation", "Frames claims as hypotheses and evidence as tests; analytical and empirical."},
		{"Law & Justice", "References fairness and order; appeals to ethics and due process."},
		{"Music & Rhythm", "Frames harmony and dissonance; poetic, emotional, timing-oriented."},
		{"Navigation & Maps", "Plots direction; appeals to clarity, guidance, and moral orientation."},
	},
	"university": {
		{"Harvard University", "Prestigious and leadership-driven; confident, articulate debaters who blend moral reasoning with institutional pragmatism."},
		{"University of Oxford", "Rooted in classical dialectic; eloquent thinkers who value rhetorical structure and historical framing."},
		{"Massachusetts Institute of Technology (MIT)", "Precise, quantitative, and no-nonsense; systems thinkers who reason like engineers."},
		{"London School of Economics (LSE)", "Thinks in systems and incentives; frames arguments through policy and power dynamics."},
		{"University of Tokyo", "Tradition and discipline; measured, formal, technically articulate speech."},
		{"State University", "Large, diverse, and civic-minded; balanced logic and democratic sensibility."},
		{"Community College", "Grounded in vocational learning; hands-on, empathetic, and story-driven."},
		{"Law School", "Structured, precedent-aware thinkers; argues through definitions and procedural fairness."},
	},
	"organization": {
		{"Global Technology Company", "Efficiency-obsessed and innovation-driven; pragmatic, data-heavy, optimistic about systems."},
		{"Startup / Entrepreneurial Venture", "Fast-moving and risk-tolerant; speaks in prototypes, momentum, and disruption."},
		{"Government Agency / Civil Service", "Procedural and cautious; favors rule-based reasoning and stability."},
		{"Non-Governmental Organization (NGO)", "Morally anchored and mission-driven; argues passionately about ethics and impact."},
		{"Research Institute / Think Tank", "Analytical and evidence-driven; relies on citations, data, and long-term implications."},
		{"Media & Journalism Organization", "Narrative-focused and probing; exposes contradictions through storytelling."},
		{"Trade Union / Labor Organization", "Collective and justice-oriented; advocates fairness, dignity, and material equity."},
		{"AI Ethics Council", "Analytical and moral; blends precision with philosophical caution about governance and alignment."},
	},
	"agegroup": {
		{"Teen", "Early-life vantage point; debates with curiosity, immediacy, and moral clarity."},
		{"Young Adult (18-25)", "Transitional independence; optimistic, exploratory, and reform-leaning."},
		{"Adult (26-39)", "Building career and relationships; pragmatic and time-sensitive."},
		{"Middle-aged (40-54)", "Peak responsibility window; balances risk and stability."},
		{"Senior (55-69)", "Perspective and institutional memory; values measured change and resilience."},
		{"Elder (70+)", "Legacy framing and stewardship; favors clarity, prudence, and human dignity."},
	},
}

// Run seeds the built-in taxonomy categories and terms. Rows that already
// exist are skipped, so repeated runs are safe.
func Run(store storage.Storage) error {
	svc := taxonomy.NewService(store)

	for _, c := range categories {
		_, err := svc.CreateCategory(taxonomy.CategoryInput{
			Key:         c.Key,
			FullName:    c.FullName,
			Description: c.Description,
		})
		if err != nil && !isConflict(err) {
			return fmt.Errorf("failed to seed category %s: %w", c.Key, err)
		}
	}

	for categoryKey, items := range terms {
		seeded := 0
		for _, t := range items {
			term := t.Term
			category := categoryKey
			desc := t.Description
			_, err := svc.CreateTerm(taxonomy.TermInput{
				Term:        &term,
				Category:    &category,
				Description: &desc,
			})
			if err != nil {
				if isConflict(err) {
					continue
				}
				return fmt.Errorf("failed to seed term %s/%s: %w", categoryKey, t.Term, err)
			}
			seeded++
		}
		if seeded > 0 {
			slog.Info("Seeded taxonomy terms", "category", categoryKey, "count", seeded)
		}
	}

	return nil
}

func isConflict(err error) bool {
	var conflict *core.ConflictError
	return errors.As(err, &conflict)
}
