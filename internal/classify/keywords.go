package classify

import "regexp"

// directAssociation maps a label phrase found immediately before an amount to
// a type. The list is ordered most-specific first; broad single-word phrases
// sit at the bottom so "final amount" never resolves as plain "amount".
type directAssociation struct {
	phrase string
	typ    string
}

var directAssociations = []directAssociation{
	{"final amount", "total_bill"},
	{"grand total", "total_bill"},
	{"net amount", "total_bill"},
	{"total amount", "total_bill"},
	{"sub total", "total_bill"},
	{"subtotal", "total_bill"},
	{"amount paid", "paid"},
	{"paid amount", "paid"},
	{"payment", "paid"},
	{"amount due", "due"},
	{"due amount", "due"},
	{"balance", "due"},
	{"outstanding", "due"},
	{"discount", "discount"},
	{"concession", "discount"},
	{"tax", "tax"},
	{"gst", "tax"},
	{"vat", "tax"},
	{"consultation", "consultation"},
	{"consult", "consultation"},
	{"x-ray", "x_ray"},
	{"x ray", "x_ray"},
	{"xray", "x_ray"},
	{"medicine", "medicine"},
	{"medication", "medicine"},
	{"blood test", "blood_test"},
	{"blood", "blood_test"},
	{"ultrasound", "ultrasound"},
	{"scan", "scan"},
	{"injection", "injection"},
	{"ecg", "ecg"},
	{"nursing", "nursing"},
	{"physiotherapy", "physiotherapy"},
	{"physio", "physiotherapy"},
	{"mri", "mri"},
	{"ct scan", "ct_scan"},
	{"ct", "ct_scan"},
	{"pet scan", "pet_scan"},
	{"pet", "pet_scan"},
	{"endoscopy", "endoscopy"},
	{"biopsy", "biopsy"},
	{"surgery", "surgery"},
	{"operation", "surgery"},
	{"lab test", "lab_test"},
	{"laboratory", "lab_test"},
	{"pathology", "pathology"},
	{"radiology", "radiology"},
	{"total", "total_bill"},
	{"paid", "paid"},
	{"due", "due"},
}

// knownServiceTypes are the service labels that pass through label derivation
// unchanged.
var knownServiceTypes = map[string]bool{
	"consultation": true, "x_ray": true, "medicine": true, "blood_test": true,
	"ultrasound": true, "scan": true, "injection": true, "ecg": true,
	"nursing": true, "physiotherapy": true, "mri": true, "ct_scan": true,
	"pet_scan": true, "endoscopy": true, "biopsy": true, "surgery": true,
	"lab_test": true, "pathology": true, "radiology": true,
}

// itemPattern scores a service label against context text. Ordered so the
// first label wins score ties.
type itemPattern struct {
	name     string
	patterns []*regexp.Regexp
}

var itemPatterns = []itemPattern{
	{"consultation", compileAll(`consultation`, `consult`, `doctor\s+fee`, `physician`, `visit`)},
	{"x_ray", compileAll(`x[-\s]?ray`, `xray`, `radiograph`)},
	{"medicine", compileAll(`medicine`, `medication`, `drugs?`, `pharma`)},
	{"blood_test", compileAll(`blood\s+test`, `lab\s+test`, `laboratory`, `blood`)},
	{"scan", compileAll(`scan`, `ct\s+scan`, `mri`)},
	{"ultrasound", compileAll(`ultrasound`, `sonography`, `sono`)},
	{"surgery", compileAll(`surgery`, `operation`, `procedure`)},
	{"injection", compileAll(`injection`, `vaccine`, `shot`)},
	{"ecg", compileAll(`ecg`, `ekg`, `electrocardiogram`)},
	{"physiotherapy", compileAll(`physio`, `therapy`, `rehabilitation`, `physiotherapy`)},
	{"ambulance", compileAll(`ambulance`, `transport`)},
	{"room_charges", compileAll(`room`, `bed`, `ward`, `accommodation`, `charges`)},
	{"nursing", compileAll(`nursing`, `nurse`, `care`)},
	{"test", compileAll(`test(?:ing)?\b`)},
}

// serviceWordPatterns is the aggressive last-pass scan for any service word in
// the context. The first capture group becomes the label.
var serviceWordPatterns = compileAll(
	`\b(consultation|consult|doctor|physician|visit)\b`,
	`\b(x[-\s]?ray|xray|radiograph)\b`,
	`\b(medicine|medication|drugs?|pharma)\b`,
	`\b(blood|test|lab|laboratory)\b`,
	`\b(scan|ct|mri|ultrasound|sonography)\b`,
	`\b(surgery|operation|procedure)\b`,
	`\b(injection|vaccine|shot)\b`,
	`\b(ecg|ekg|electrocardiogram)\b`,
	`\b(physio|therapy|rehabilitation)\b`,
	`\b(ambulance|transport)\b`,
	`\b(room|bed|ward|accommodation)\b`,
	`\b(nursing|nurse|care)\b`,
	`\b(checkup|examination|exam)\b`,
	`\b(report|diagnostic|analysis)\b`,
)

// genericLabelWords never become a derived label on their own.
var genericLabelWords = map[string]bool{
	"item": true, "service": true, "charge": true, "fee": true, "cost": true,
	"amount": true, "bill": true, "rs": true, "inr": true,
	"total": true, "paid": true, "due": true, "balance": true,
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}
