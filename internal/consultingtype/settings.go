package consultingtype

// ConsultingType selects the registration workflow variant and the optional
// features of a counseling session.
type ConsultingType int

const (
	Sucht ConsultingType = iota
	U25
	Pregnancy
	Parenting
	Cure
	Debt
	Social
	Seniority
	Disability
	Law
	Offender
	Aids
	Children
	Kreuzbund
)

var consultingTypeNames = map[ConsultingType]string{
	Sucht:      "SUCHT",
	U25:        "U25",
	Pregnancy:  "PREGNANCY",
	Parenting:  "PARENTING",
	Cure:       "CURE",
	Debt:       "DEBT",
	Social:     "SOCIAL",
	Seniority:  "SENIORITY",
	Disability: "DISABILITY",
	Law:        "LAW",
	Offender:   "OFFENDER",
	Aids:       "AIDS",
	Children:   "CHILDREN",
	Kreuzbund:  "KREUZBUND",
}

func (t ConsultingType) String() string {
	if name, ok := consultingTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// AccountShape is the closed variant deciding which account-initialization
// branch registration takes.
type AccountShape int

const (
	// ShapeSession registration creates a counseling session.
	ShapeSession AccountShape = iota
	// ShapeGroupChat registration creates a chat/agency relation instead.
	ShapeGroupChat
)

// Settings holds the per-type feature switches. Resolved once at startup by
// the Manager; orchestrators branch on the resolved struct, never on raw
// configuration.
type Settings struct {
	Type               ConsultingType
	Shape              AccountShape
	Monitoring         bool
	FeedbackChat       bool
	LanguageFormal     bool
	WelcomeMessage     string
	SendWelcomeMessage bool
	Roles              []string
}
