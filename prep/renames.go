package prep

// Condition labels. Each condition was run in two replicate channels, and
// every ratio shares the 126 reference channel as its denominator.
const (
	AD1      = "AD1"
	AD2      = "AD2"
	Control1 = "Control1"
	Control2 = "Control2"
	PD1      = "PD1"
	PD2      = "PD2"
	ADPD1    = "ADPD1"
	ADPD2    = "ADPD2"

	QScore   = "q_score"
	PepScore = "pep_score"
)

// DefaultRenames maps normalized Proteome Discoverer labels to short labels.
// The lower-cased short labels are included so that files read with an
// explicit list of column names end up with the same labels.
var DefaultRenames = map[string]string{
	"abundance_ratio:_(127n)_/_(126)": AD1,
	"abundance_ratio:_(127c)_/_(126)": AD2,
	"abundance_ratio:_(128n)_/_(126)": Control1,
	"abundance_ratio:_(128c)_/_(126)": Control2,
	"abundance_ratio:_(129n)_/_(126)": PD1,
	"abundance_ratio:_(129c)_/_(126)": PD2,
	"abundance_ratio:_(130n)_/_(126)": ADPD1,
	"abundance_ratio:_(130c)_/_(126)": ADPD2,

	"exp._q-value:_combined": QScore,
	"sum_pep_score":          PepScore,

	"ad1":      AD1,
	"ad2":      AD2,
	"control1": Control1,
	"control2": Control2,
	"pd1":      PD1,
	"pd2":      PD2,
	"adpd1":    ADPD1,
	"adpd2":    ADPD2,
}

// RatioLabels lists the abundance-ratio labels in channel order.
var RatioLabels = []string{AD1, AD2, Control1, Control2, PD1, PD2, ADPD1, ADPD2}
