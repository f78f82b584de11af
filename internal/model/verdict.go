package model

// Verdict is the classified outcome of an analysis report
type Verdict int

const (
	VerdictDetailedOnly      Verdict = iota // No verdict keyword found
	VerdictTrue                             // Report affirms the input
	VerdictFalse                            // Report refutes the input
	VerdictPartiallyAccurate                // Misleading or partially correct
	VerdictInconclusive                     // Needs further investigation
)

func (v Verdict) String() string {
	switch v {
	case VerdictTrue:
		return "true"
	case VerdictFalse:
		return "false"
	case VerdictPartiallyAccurate:
		return "partially_accurate"
	case VerdictInconclusive:
		return "inconclusive"
	default:
		return "detailed_only"
	}
}

// Headline returns the banner text displayed with the verdict
func (v Verdict) Headline() string {
	switch v {
	case VerdictTrue:
		return "✅ VERDICT: THE PROVIDED INFORMATION IS TRUE"
	case VerdictFalse:
		return "❌ VERDICT: THE PROVIDED INFORMATION IS FALSE"
	case VerdictPartiallyAccurate:
		return "⚠️ VERDICT: THE PROVIDED INFORMATION IS PARTIALLY ACCURATE"
	case VerdictInconclusive:
		return "🔍 VERDICT: REQUIRES FURTHER INVESTIGATION"
	default:
		return "📋 DETAILED ANALYSIS AVAILABLE"
	}
}

// Tone classifies how a verdict should be presented
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
	ToneWarning Tone = "warning"
	ToneInfo    Tone = "info"
)

// Tone returns the display tone for the verdict banner
func (v Verdict) Tone() Tone {
	switch v {
	case VerdictTrue:
		return ToneSuccess
	case VerdictFalse:
		return ToneDanger
	case VerdictPartiallyAccurate:
		return ToneWarning
	default:
		return ToneInfo
	}
}

// MarshalText renders the verdict by name in JSON and YAML output
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
