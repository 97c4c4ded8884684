// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "github.com/pdiddy/da-research/pkg/types"

var categoryKeywords = map[types.Category]map[string]float64{
	types.CategoryEnvironmental: {
		"flood": 2, "flooding": 2, "bushfire": 2, "fire": 1.5, "hazard": 1.5,
		"contamination": 2, "contaminated": 2, "pollution": 1.5, "polluted": 1.5,
		"ecological": 1.5, "ecology": 1.5, "habitat": 1.5, "species": 1,
		"wildlife": 1.5, "conservation": 1.5, "protected": 1, "wetland": 1.5,
		"waterway": 1.5, "creek": 1, "river": 1, "runoff": 1, "drainage": 1,
		"erosion": 1.5, "sustainable": 1, "sustainability": 1, "green space": 1.5,
		"trees": 1, "vegetation": 1.5, "biodiversity": 1.5, "climate": 1,
		"emissions": 1.5, "waste": 1, "sewage": 1.5, "environmental impact": 2,
	},
	types.CategoryZoning: {
		"zoning": 2, "zone": 1.5, "rezoning": 2, "planning": 1.5, "permit": 1.5,
		"approval": 1.5, "regulation": 1, "compliance": 1.5, "compliant": 1.5,
		"non-compliant": 1.5, "code": 1, "ordinance": 1.5, "bylaw": 1.5,
		"variance": 1.5, "height limit": 1.5, "setback": 1, "floor area ratio": 1.5,
		"density": 1, "land use": 2, "masterplan": 1.5, "master plan": 1.5,
		"development control": 1.5, "building code": 1.5, "overlay": 1,
		"restriction": 1, "easement": 1.5, "covenant": 1.5, "lot size": 1,
		"frontage": 1, "subdivision": 1.5,
	},
	types.CategoryCommunity: {
		"community": 1.5, "feedback": 1.5, "public": 1, "resident": 1.5,
		"residents": 1.5, "neighbor": 1.5, "neighbour": 1.5, "neighbors": 1.5,
		"neighbours": 1.5, "consultation": 1.5, "meeting": 1, "hearing": 1.5,
		"submission": 1.5, "submissions": 1.5, "objection": 2, "objections": 2,
		"support": 1.5, "supported": 1.5, "oppose": 1.5, "opposed": 1.5,
		"concern": 1.5, "concerns": 1.5, "petition": 2, "protest": 1.5,
		"community group": 1.5, "stakeholder": 1.5, "stakeholders": 1.5,
		"public opinion": 1.5, "public interest": 1.5, "letters": 1, "comments": 1,
	},
	types.CategoryInfrastructure: {
		"infrastructure": 2, "transport": 1.5, "transportation": 1.5, "road": 1,
		"traffic": 1.5, "congestion": 1.5, "parking": 1.5, "public transport": 1.5,
		"transit": 1.5, "bus": 1, "train": 1, "railway": 1, "utility": 1.5,
		"utilities": 1.5, "water supply": 1.5, "sewerage": 1.5, "electricity": 1,
		"power": 1, "gas": 1, "telecommunications": 1.5, "internet": 1,
		"broadband": 1, "school": 1.5, "hospital": 1.5, "medical": 1,
		"amenity": 1.5, "amenities": 1.5, "service": 1, "services": 1,
		"capacity": 1, "access": 1.5, "accessibility": 1.5,
	},
	types.CategoryHistorical: {
		"historic": 2, "historical": 2, "heritage": 2, "listed": 1.5,
		"preservation": 1.5, "preserve": 1.5, "artifact": 1.5, "artefact": 1.5,
		"archaeological": 2, "archaeology": 2, "cultural": 1.5, "indigenous": 1.5,
		"aboriginal": 1.5, "significant site": 1.5, "landmark": 1.5,
		"monument": 1.5, "memorial": 1.5, "century": 1, "ancient": 1.5,
		"traditional": 1, "legacy": 1, "history": 1.5, "vintage": 1,
		"colonial": 1.5, "architecture": 1, "restoration": 1.5, "conserve": 1.5,
	},
}

var positiveKeywords = map[string]float64{
	"approval": 2, "approved": 2, "positive": 1.5, "support": 1.5,
	"compliant": 1, "complies": 1, "compliance": 1, "successful": 1.5,
	"success": 1.5, "favorable": 1, "favourable": 1, "benefit": 1.5,
	"benefits": 1.5, "opportunity": 1.5, "opportunities": 1.5, "advantage": 1,
	"advantages": 1, "improved": 1, "improvement": 1, "enhancing": 1,
	"enhance": 1, "valuable": 1, "recommended": 1, "safe": 1, "desirable": 1,
	"increase": 0.5, "progress": 0.5, "sustainable": 1, "efficient": 1,
	"good": 0.5, "great": 1, "excellent": 1.5,
}

var negativeKeywords = map[string]float64{
	"rejected": 2, "rejection": 2, "denied": 2, "denial": 2, "refused": 2,
	"refusal": 2, "negative": 1.5, "oppose": 1.5, "opposition": 1.5,
	"non-compliant": 1.5, "violation": 1.5, "violations": 1.5, "fails": 1,
	"failed": 1, "failure": 1, "concern": 1, "concerns": 1, "concerning": 1,
	"issue": 0.5, "issues": 0.5, "problem": 1, "problems": 1, "risk": 1,
	"risks": 1, "hazard": 1.5, "hazards": 1.5, "dangerous": 1.5,
	"contaminated": 1.5, "contamination": 1.5, "pollution": 1, "polluted": 1,
	"objection": 1.5, "objections": 1.5, "opposed": 1.5, "protest": 1.5,
	"protests": 1.5, "difficult": 0.5, "challenge": 0.5, "challenges": 0.5,
	"delay": 0.5, "delays": 0.5, "complaint": 1, "complaints": 1, "harm": 1.5,
	"harmful": 1.5, "damage": 1, "damages": 1, "prohibited": 1.5,
	"prohibition": 1.5, "restriction": 1, "restricted": 1, "limitation": 0.5,
	"limited": 0.5, "unfortunate": 0.5, "sadly": 0.5, "bad": 1, "worse": 1.5,
	"worst": 2,
}
