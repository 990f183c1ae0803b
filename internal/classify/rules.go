package classify

import "github.com/furnacex/intel-cli/internal/model"

// Keyword categories for signal detection. Matching is case-insensitive
// substring matching over the lead's concatenated free text.
var keywordCategories = map[string][]string{
	"industrial_machinery": {
		// Boilers & heaters
		"Fire-tube Boiler", "Water-tube Boiler", "IBR Boiler", "Thermic Fluid Heater",
		"Hot Air Generator", "Stenter Machine", "Steam Generator", "Industrial Burner",
		// Power generation
		"DG Set", "Diesel Generator", "Captive Power Plant", "CPP", "HSD Storage Tank",
		"125 KVA", "500 KVA", "1000 KVA", "Back-up Power",
		// Metal & furnaces
		"Induction Furnace", "Cupola Furnace", "Ladle Refining Furnace", "Arc Furnace",
		"Rolling Mill", "Reheating Furnace", "Annealing Furnace", "Galvanizing Bath",
		// Road construction
		"Asphalt Paver", "Bitumen Sprayer", "Hot Mix Plant", "Batching Plant",
		"Vogele Paver", "Bitumen Pressure Distributor", "Road Roller",
	},
	"regulatory_events": {
		// Tender / procurement
		"Notice Inviting Tender", "NIT", "Bill of Quantities", "BOQ",
		"Request for Proposal", "RFP", "Procurement of", "Supply of",
		"Annual Rate Contract", "ARC",
		// Project stages
		"Commissioning", "Expansion", "Greenfield Project", "Brownfield Project",
		"Capacity Enhancement", "Modernization", "Debottlenecking",
		"Environmental Clearance", "CTE", "CTO",
	},
	"commodities": {
		// Bitumen
		"Bitumen", "VG-10", "VG-30", "VG-40", "Viscosity Grade", "Bituminous Concrete",
		"Dense Bituminous Macadam", "DBM", "Emulsion RS-1", "Emulsion SS-1",
		"PMB", "CRMB",
		// Industrial oils / solvents
		"LSHS", "Furnace Oil", "Heavy Fuel Oil", "C9 Solvent",
		"Base Oil SN 150", "Base Oil SN 500", "Diesel", "HSD",
		// Specialty products
		"Hexane", "Solvent 1425", "Mineral Turpentine Oil", "MTO",
		"Jute Batch Oil", "JBO", "Sulphur", "Molten Sulphur", "Propylene",
		"Marine Bunker Fuel", "Bunker Fuel", "Steel Wash Oil",
	},
}

// keywordCategoryOrder fixes the iteration order over the category table so
// the audit map and derived products are stable across runs.
var keywordCategoryOrder = []string{
	"industrial_machinery", "regulatory_events", "commodities",
}

// Sector inference indicators, checked in order. The first sector whose
// indicator count is maximal wins, which makes inference deterministic.
var sectorIndicators = []struct {
	Sector     model.Sector
	Indicators []string
}{
	{model.SectorMining, []string{
		"mining", "mine", "quarry", "excavat", "earth mover", "coal block", "overburden",
	}},
	{model.SectorInfrastructure, []string{
		"nhai", "pwd", "highway", "road", "bridge", "flyover", "bitumen", "asphalt", "metro rail",
	}},
	{model.SectorThermal, []string{
		"thermal power", "captive power plant", "power plant", "dg set", "kva", "genset",
	}},
	{model.SectorTransport, []string{
		"vessel", "port", "marine", "bunker", "shipping", "jetty",
	}},
	{model.SectorIndustrial, []string{
		"boiler", "furnace", "rolling mill", "galvanizing", "steel", "cement",
		"stenter", "textile", "jute", "solvent", "hexane", "heater", "plant",
	}},
}

// Default petroleum products offered per sector, in pitch order. Keyword
// specialties append to these, never replace them.
var sectorDefaultProducts = map[model.Sector][]string{
	model.SectorMining:         {"HSD", "Lubricants"},
	model.SectorInfrastructure: {"Bitumen", "HSD"},
	model.SectorIndustrial:     {"Furnace Oil", "LDO"},
	model.SectorThermal:        {"LSHS", "Furnace Oil"},
	model.SectorTransport:      {"Marine Bunker", "HSD"},
	model.SectorOther:          nil,
}

// Specialty product triggers. Any matched keyword containing the trigger
// substring appends the product to the lead's product match.
var specialtyProducts = []struct {
	Trigger string
	Product string
}{
	{"bitumen", "Bitumen"},
	{"vg-", "Bitumen"},
	{"dbm", "Bitumen"},
	{"emulsion", "Bitumen"},
	{"furnace oil", "Furnace Oil"},
	{"lshs", "LSHS"},
	{"heavy fuel oil", "Furnace Oil"},
	{"hsd", "HSD"},
	{"diesel", "HSD"},
	{"base oil", "Base Oil"},
	{"hexane", "Hexane"},
	{"hexane", "Solvents"},
	{"solvent", "Solvents"},
	{"mineral turpentine", "MTO"},
	{"mto", "MTO"},
	{"jute batch", "JBO"},
	{"jbo", "JBO"},
	{"sulphur", "Sulphur"},
	{"bunker", "Marine Bunker"},
	{"steel wash oil", "Steel Wash Oil"},
	{"propylene", "Propylene"},
}

// Canonical signal type per source. BSE filings aggregate expansion and
// plain financial disclosures, so they get a secondary keyword rule in
// signalFor rather than a fixed entry semantics.
var sourceSignals = map[model.SourceSystem]model.SignalType{
	model.SourceParivesh: model.SignalEnvironmentalClearance,
	model.SourceCPPP:     model.SignalGovernmentTender,
	model.SourceGeM:      model.SignalPSUProcurement,
	model.SourceNHAI:     model.SignalRoadProject,
	model.SourceBSE:      model.SignalFinancialAnnouncement,
	model.SourceMCA:      model.SignalNewRegistration,
}

// expansionTriggers promote an aggregated-source signal to Capacity
// Expansion when present in the lead's text.
var expansionTriggers = []string{
	"expansion", "capacity enhancement", "brownfield", "debottlenecking",
}
