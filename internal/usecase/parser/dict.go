package parser

// Curated dictionaries for deterministic entity extraction. Keys and
// canonical forms are lowercase; matching is whole-word. The tables are
// intentionally conservative: a miss degrades to raw-text search, a wrong
// match poisons the whole pipeline.

// abbreviations expand before extraction, longest key first so "biz dev"
// wins over "biz".
var abbreviations = map[string]string{
	"pm":      "product manager",
	"swe":     "software engineer",
	"sde":     "software engineer",
	"mgr":     "manager",
	"dir":     "director",
	"vp":      "vice president",
	"svp":     "senior vice president",
	"evp":     "executive vice president",
	"biz dev": "business development",
	"bd":      "business development",
	"hr":      "human resources",
	"ux":      "user experience",
	"ui":      "user interface",
	"qa":      "quality assurance",
	"sf":      "san francisco",
	"nyc":     "new york",
	"la":      "los angeles",
}

// roles maps title variants to canonical personas.
var roles = map[string]string{
	"software engineer":         "software engineer",
	"developer":                 "software engineer",
	"programmer":                "software engineer",
	"engineer":                  "engineer",
	"product manager":           "product manager",
	"project manager":           "project manager",
	"program manager":           "program manager",
	"engineering manager":       "engineering manager",
	"data scientist":            "data scientist",
	"data analyst":              "data analyst",
	"data engineer":             "data engineer",
	"machine learning engineer": "machine learning engineer",
	"designer":                  "designer",
	"product designer":          "product designer",
	"user experience designer":  "product designer",
	"researcher":                "researcher",
	"recruiter":                 "recruiter",
	"marketing manager":         "marketing manager",
	"sales manager":             "sales manager",
	"account executive":         "account executive",
	"business development":      "business development",
	"founder":                   "founder",
	"co-founder":                "founder",
	"cofounder":                 "founder",
	"ceo":                       "chief executive officer",
	"chief executive officer":   "chief executive officer",
	"cto":                       "chief technology officer",
	"chief technology officer":  "chief technology officer",
	"cfo":                       "chief financial officer",
	"chief financial officer":   "chief financial officer",
	"coo":                       "chief operating officer",
	"chief operating officer":   "chief operating officer",
	"cmo":                       "chief marketing officer",
	"vice president":            "vice president",
	"director":                  "director",
	"partner":                   "partner",
	"investor":                  "investor",
	"consultant":                "consultant",
	"analyst":                   "analyst",
	"attorney":                  "attorney",
	"lawyer":                    "attorney",
}

// companyAliases maps ticker-style and colloquial names to canonical companies.
var companyAliases = map[string]string{
	"google":                  "google",
	"alphabet":                "google",
	"meta":                    "meta",
	"facebook":                "meta",
	"microsoft":               "microsoft",
	"msft":                    "microsoft",
	"amazon":                  "amazon",
	"aws":                     "amazon",
	"apple":                   "apple",
	"netflix":                 "netflix",
	"tesla":                   "tesla",
	"uber":                    "uber",
	"lyft":                    "lyft",
	"airbnb":                  "airbnb",
	"stripe":                  "stripe",
	"square":                  "block",
	"block":                   "block",
	"plaid":                   "plaid",
	"coinbase":                "coinbase",
	"robinhood":               "robinhood",
	"salesforce":              "salesforce",
	"oracle":                  "oracle",
	"adobe":                   "adobe",
	"ibm":                     "ibm",
	"intel":                   "intel",
	"nvidia":                  "nvidia",
	"openai":                  "openai",
	"anthropic":               "anthropic",
	"deepmind":                "deepmind",
	"databricks":              "databricks",
	"linkedin":                "linkedin",
	"slack":                   "slack",
	"zoom":                    "zoom",
	"dropbox":                 "dropbox",
	"atlassian":               "atlassian",
	"github":                  "github",
	"figma":                   "figma",
	"notion":                  "notion",
	"goldman sachs":           "goldman sachs",
	"goldman":                 "goldman sachs",
	"jpmorgan":                "jpmorgan",
	"jp morgan":               "jpmorgan",
	"morgan stanley":          "morgan stanley",
	"mckinsey":                "mckinsey",
	"bain":                    "bain",
	"bcg":                     "boston consulting group",
	"boston consulting group": "boston consulting group",
	"deloitte":                "deloitte",
	"accenture":               "accenture",
	"sequoia":                 "sequoia capital",
	"sequoia capital":         "sequoia capital",
	"a16z":                    "andreessen horowitz",
	"andreessen horowitz":     "andreessen horowitz",
	"benchmark":               "benchmark",
	"accel":                   "accel",
	"greylock":                "greylock",
	"kleiner perkins":         "kleiner perkins",
	"y combinator":            "y combinator",
	"yc":                      "y combinator",
	"techstars":               "techstars",
}

// industries maps sector variants to canonical industries.
var industries = map[string]string{
	"tech":                    "technology",
	"technology":              "technology",
	"software":                "technology",
	"fintech":                 "fintech",
	"financial technology":    "fintech",
	"ai":                      "artificial intelligence",
	"artificial intelligence": "artificial intelligence",
	"machine learning":        "artificial intelligence",
	"ml":                      "artificial intelligence",
	"vc":                      "venture capital",
	"venture capital":         "venture capital",
	"crypto":                  "crypto",
	"cryptocurrency":          "crypto",
	"blockchain":              "crypto",
	"web3":                    "crypto",
	"finance":                 "finance",
	"banking":                 "finance",
	"consulting":              "consulting",
	"healthcare":              "healthcare",
	"health tech":             "healthcare",
	"biotech":                 "biotech",
	"education":               "education",
	"edtech":                  "education",
	"real estate":             "real estate",
	"media":                   "media",
	"entertainment":           "media",
	"retail":                  "retail",
	"ecommerce":               "retail",
	"e-commerce":              "retail",
	"startup":                 "startups",
	"startups":                "startups",
}

// geos maps location variants to canonical city names.
var geos = map[string]string{
	"san francisco":  "san francisco",
	"bay area":       "san francisco",
	"silicon valley": "san francisco",
	"new york":       "new york",
	"new york city":  "new york",
	"manhattan":      "new york",
	"brooklyn":       "new york",
	"los angeles":    "los angeles",
	"seattle":        "seattle",
	"austin":         "austin",
	"boston":         "boston",
	"chicago":        "chicago",
	"denver":         "denver",
	"miami":          "miami",
	"london":         "london",
	"berlin":         "berlin",
	"paris":          "paris",
	"amsterdam":      "amsterdam",
	"dublin":         "dublin",
	"tel aviv":       "tel aviv",
	"singapore":      "singapore",
	"toronto":        "toronto",
	"vancouver":      "vancouver",
	"bangalore":      "bangalore",
	"remote":         "remote",
}

// industryExpansions maps a canonical industry to representative companies.
// Only exact extracted industries expand; free text never triggers this.
var industryExpansions = map[string][]string{
	"technology": {
		"google", "apple", "meta", "amazon", "microsoft", "netflix",
		"tesla", "uber", "airbnb", "stripe", "salesforce", "oracle",
		"adobe", "nvidia", "linkedin", "slack", "dropbox", "atlassian",
		"github", "figma", "notion",
	},
	"venture capital": {
		"sequoia capital", "andreessen horowitz", "benchmark", "accel",
		"greylock", "kleiner perkins", "y combinator", "techstars",
	},
	"artificial intelligence": {
		"openai", "anthropic", "deepmind", "nvidia", "databricks",
	},
	"fintech": {
		"stripe", "block", "plaid", "robinhood", "coinbase",
	},
	"crypto": {
		"coinbase",
	},
	"finance": {
		"goldman sachs", "jpmorgan", "morgan stanley",
	},
	"consulting": {
		"mckinsey", "bain", "boston consulting group", "deloitte", "accenture",
	},
	"startups": {
		"stripe", "notion", "figma",
	},
}

// nicknames maps formal first names to common variants.
var nicknames = map[string][]string{
	"william":     {"bill", "will", "billy", "willy"},
	"elizabeth":   {"liz", "beth", "betty", "lizzy", "eliza"},
	"robert":      {"rob", "bob", "bobby", "robbie"},
	"michael":     {"mike", "mick", "mickey"},
	"jonathan":    {"jon", "john", "jonny"},
	"jennifer":    {"jen", "jenny", "jenn"},
	"richard":     {"rick", "dick", "ricky", "rich"},
	"charles":     {"charlie", "chuck", "chas"},
	"christopher": {"chris", "topher"},
	"daniel":      {"dan", "danny"},
	"david":       {"dave", "davy"},
	"james":       {"jim", "jimmy", "jamie"},
	"joseph":      {"joe", "joey"},
	"matthew":     {"matt", "matty"},
	"nicholas":    {"nick", "nicky"},
	"thomas":      {"tom", "tommy"},
	"anthony":     {"tony"},
	"andrew":      {"andy", "drew"},
	"katherine":   {"kate", "kathy", "katie", "kat"},
	"margaret":    {"maggie", "meg", "peggy"},
	"patricia":    {"pat", "patty", "tricia"},
	"susan":       {"sue", "susie", "suzy"},
	"timothy":     {"tim", "timmy"},
}

// titleSynonyms maps a canonical title token to interchangeable variants.
var titleSynonyms = map[string][]string{
	"engineer":       {"developer", "swe", "software engineer", "programmer", "coder"},
	"manager":        {"mgr", "lead", "head of", "director"},
	"vp":             {"vice president", "v.p.", "vice-president"},
	"ceo":            {"chief executive officer", "chief executive"},
	"cto":            {"chief technology officer", "chief technical officer"},
	"cfo":            {"chief financial officer"},
	"coo":            {"chief operating officer"},
	"ml":             {"machine learning", "artificial intelligence", "ai"},
	"data scientist": {"data analyst", "analytics"},
}
