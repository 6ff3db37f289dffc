package classify

// Fixed vocabularies backing the heuristic. These are tuning data rather
// than code: adjusting a list changes suggestions but never the shape of the
// result.

var positiveWords = wordSet(
	"good", "great", "excellent", "thank", "thanks", "appreciate",
	"helpful", "happy", "satisfied", "prompt", "resolved", "kind",
)

var negativeWords = wordSet(
	"bad", "terrible", "awful", "horrible", "worst", "broken", "burst",
	"dirty", "unsafe", "dangerous", "angry", "ignored", "delayed", "delay",
	"overflowing", "stinking", "leaking", "failed", "rude", "corrupt",
)

// urgencyWeights maps urgency indicators to their weight. The highest weight
// present wins; a word absent from this table contributes nothing.
var urgencyWeights = map[string]int{
	"emergency":   10,
	"urgent":      10,
	"urgently":    10,
	"immediately": 9,
	"asap":        9,
	"danger":      9,
	"dangerous":   9,
	"critical":    8,
	"severe":      8,
	"accident":    8,
	"quickly":     6,
	"today":       6,
	"tonight":     6,
	"tomorrow":    5,
	"soon":        4,
	"week":        2,
}

var technicalTerms = wordSet(
	"pipe", "pipeline", "valve", "sewage", "drainage", "manhole", "borewell",
	"chlorination", "transformer", "voltage", "wiring", "substation",
	"pothole", "asphalt", "culvert", "girder", "signal", "junction",
	"meter", "billing", "mutation", "encroachment", "effluent", "landfill",
)

// departmentBuckets is scanned in order and the first keyword hit wins, so
// the ordering here is part of the classifier's contract.
type bucket struct {
	department string
	category   string
	keywords   []string
}

var departmentBuckets = []bucket{
	{"Education", "Education & Schools", []string{
		"school", "teacher", "student", "education", "exam", "college",
		"classroom", "tuition", "scholarship", "midday",
	}},
	{"Healthcare", "Health Services", []string{
		"hospital", "doctor", "medicine", "clinic", "ambulance", "health",
		"vaccine", "patient", "pharmacy", "nurse",
	}},
	{"Transport", "Roads & Transport", []string{
		"bus", "road", "traffic", "pothole", "highway", "vehicle",
		"transport", "bridge", "footpath", "rickshaw",
	}},
	{"Police", "Law & Order", []string{
		"theft", "crime", "police", "harassment", "violence", "robbery",
		"assault", "fir", "thief", "vandalism",
	}},
	{"Municipal Services", "Water & Utilities", []string{
		"water", "pipe", "pipeline", "sewage", "drainage", "garbage",
		"electricity", "power", "streetlight", "sanitation", "leak",
		"supply", "tap",
	}},
	{"Revenue", "Land & Revenue", []string{
		"tax", "land", "property", "certificate", "registration", "deed",
		"revenue", "stamp", "mutation",
	}},
	{"Agriculture", "Agriculture & Farming", []string{
		"crop", "farmer", "irrigation", "seed", "fertilizer", "agriculture",
		"livestock", "harvest", "subsidy",
	}},
	{"Environment", "Environment", []string{
		"pollution", "tree", "waste", "environment", "noise", "smoke",
		"dumping", "river", "air", "plastic",
	}},
}

const (
	fallbackDepartment = "Other"
	fallbackCategory   = "General"
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}
