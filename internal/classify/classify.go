// Package classify maps free event text onto the fixed industry tag set
// using keyword-frequency scoring.
package classify

import "strings"

// Canonical industry tags. General carries no keywords; it only appears as
// a caller-supplied default for sources that pre-tag their records.
const (
	Technology = "Technology"
	AI         = "AI"
	Startup    = "Startup"
	Finance    = "Finance"
	Marketing  = "Marketing"
	Healthcare = "Healthcare"
	Legal      = "Legal"
	General    = "General"
)

// Industries lists every valid tag, in classifier evaluation order.
var Industries = []string{
	Technology, AI, Startup, Finance, Marketing, Healthcare, Legal, General,
}

type keywordEntry struct {
	industry string
	keywords []string
}

// Fragments are matched as lowercase substrings against space-padded input,
// so short tokens like " ai " only match as whole-ish words. Declaration
// order is the tie-break: the first entry with the top count wins.
var keywordTable = []keywordEntry{
	{Technology, []string{
		"tech", "software", "developer", "devops", "cloud", "cyber", "iot",
		"blockchain", "saas", "digital transformation", "computing", "web3",
		"engineering", "code", "programming", "hackathon", "open source",
	}},
	{AI, []string{
		"artificial intelligence", " ai ", "machine learning", "deep learning",
		"llm", "generative ai", "chatgpt", "data science", "neural", "nlp",
		"computer vision", "prompt engineering", "langchain", "rag ",
	}},
	{Startup, []string{
		"startup", "start-up", "venture", "entrepreneurship", "incubator",
		"accelerator", "founder", "pitch", "demo day", "seed", "series a",
		"bootstrapp", "yc ", "y combinator", "indie hacker",
	}},
	{Finance, []string{
		"finance", "fintech", "banking", "investment", "wealth", "capital",
		"trading", "insurance", "fund", "asset management", "crypto", "defi",
		"payments", "lending", "wall street",
	}},
	{Marketing, []string{
		"marketing", "advertising", "brand", "social media", "seo", "content",
		"pr ", "public relations", "growth", "demand gen", "b2b marketing",
		"product marketing", "copywriting", "analytics",
	}},
	{Healthcare, []string{
		"medical", "healthcare", "health care", "clinical", "physician",
		"nursing", "nurse", "pharma", "cme", "continuing medical", "hospital",
		"patient", "cardiology", "oncology", "pediatric", "orthopedic",
		"dermatology", "radiology", "surgery", "dental", "mental health",
		"therapy", "biotech", "medtech", "telemedicine", "primary care",
		"internal medicine", "emergency medicine", "public health",
		"epidemiology",
	}},
	{Legal, []string{
		"legal", "law ", "lawyer", "attorney", "litigation", "compliance",
		"regulatory", "contract", "intellectual property", "patent",
		"trademark", "legal tech", "legaltech", "paralegal", "bar association",
		"court", "arbitration", "mediation", "corporate counsel",
		"in-house counsel", "cle ", "continuing legal",
	}},
}

// Classify picks the industry whose keywords occur most often in text.
// Ties keep the earliest table entry, so repeated calls are deterministic.
// Zero matches return fallback, which may be empty.
func Classify(text string, fallback string) string {
	if strings.TrimSpace(text) == "" {
		return fallback
	}

	padded := " " + strings.ToLower(text) + " "

	best := ""
	bestCount := 0
	for _, entry := range keywordTable {
		count := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(padded, keyword) {
				count++
			}
		}
		if count > bestCount {
			best = entry.industry
			bestCount = count
		}
	}

	if best == "" {
		return fallback
	}
	return best
}

// Valid reports whether tag is a member of the canonical industry set.
func Valid(tag string) bool {
	for _, industry := range Industries {
		if industry == tag {
			return true
		}
	}
	return false
}
