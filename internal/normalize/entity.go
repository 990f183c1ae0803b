package normalize

import "strings"

// companyAliases folds the common abbreviations and spelling variants of
// large proponents into one canonical entity name.
var companyAliases = map[string]string{
	"ril":                                "Reliance Industries Ltd",
	"reliance":                           "Reliance Industries Ltd",
	"reliance industries":                "Reliance Industries Ltd",
	"iocl":                               "Indian Oil Corporation Ltd",
	"indian oil":                         "Indian Oil Corporation Ltd",
	"ioc":                                "Indian Oil Corporation Ltd",
	"bpcl":                               "Bharat Petroleum Corporation Ltd",
	"bharat petroleum":                   "Bharat Petroleum Corporation Ltd",
	"hpcl":                               "Hindustan Petroleum Corporation Ltd",
	"ongc":                               "Oil and Natural Gas Corporation",
	"ntpc":                               "NTPC Ltd",
	"national thermal power corporation": "NTPC Ltd",
	"sail":                               "Steel Authority of India Ltd",
	"steel authority":                    "Steel Authority of India Ltd",
	"jsw":                                "JSW Steel Ltd",
	"jsw steel":                          "JSW Steel Ltd",
	"tata steel":                         "Tata Steel Ltd",
	"l&t":                                "Larsen & Toubro Ltd",
	"larsen & toubro":                    "Larsen & Toubro Ltd",
	"ultratech":                          "Ultratech Cement Ltd",
	"ambuja":                             "Ambuja Cements Ltd",
	"acc":                                "ACC Ltd",
	"nhai":                               "National Highways Authority of India",
	"national highways":                  "National Highways Authority of India",
	"dmrc":                               "Delhi Metro Rail Corporation",
	"delhi metro":                        "Delhi Metro Rail Corporation",
	"bro":                                "Border Roads Organisation",
	"jindal steel":                       "Jindal Steel & Power Ltd",
	"jindal steel & power":               "Jindal Steel & Power Ltd",
	"jspl":                               "Jindal Steel & Power Ltd",
}

// companySuffixes are stripped before alias lookup, longest first so "Pvt
// Ltd" is removed before "Ltd" can match inside it.
var companySuffixes = []string{
	" Private Limited", " Corporation", " (India)", " Pvt Ltd", " Limited",
	" Group", " India", " & Co", " Corp", " Inc", " Ltd",
}

// ResolveCompany normalizes a proponent name to its canonical entity. Names
// without a known alias are returned trimmed but otherwise untouched.
func ResolveCompany(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}

	stripped := trimmed
	for _, suffix := range companySuffixes {
		if strings.HasSuffix(strings.ToLower(stripped), strings.ToLower(suffix)) {
			stripped = strings.TrimSpace(stripped[:len(stripped)-len(suffix)])
			break
		}
	}

	if canonical, ok := companyAliases[strings.ToLower(stripped)]; ok {
		return canonical
	}
	return trimmed
}
