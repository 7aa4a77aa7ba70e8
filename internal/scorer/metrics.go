package scorer

import (
	"fmt"
	"regexp"
	"strings"
)

// MetricsConfig holds the language-dependent word lists and patterns the
// lexical metrics run on. The algorithms themselves are language-neutral;
// swapping this config retargets them to another corpus.
type MetricsConfig struct {
	// LeadWords are interrogative sentence openers ("what", "apakah", ...).
	LeadWords []string
	// VaguePatterns match bare deictic references right before the question
	// mark ("what is it?"), which make a question unanswerable out of context.
	VaguePatterns []string
	// StopWords are removed before grounding coverage is computed.
	StopWords []string
	// TechnicalTerms feed the term-density factor of lexical difficulty.
	TechnicalTerms []string
}

// DefaultMetricsConfig covers English plus Bahasa Melayu, the corpus the
// scorer was originally tuned on.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		LeadWords: []string{
			"what", "who", "where", "when", "why", "how", "which",
			"apakah", "siapakah", "bilakah", "mengapakah", "bagaimanakah",
			"manakah", "berapakah", "apa", "siapa", "mengapa", "bagaimana",
		},
		VaguePatterns: []string{
			`(?i)\b(it|this|that|these|those)\s*\?`,
			`(?i)\b(ini|itu|tersebut)\s*\?`,
		},
		StopWords: []string{
			"the", "a", "an", "is", "are", "was", "were", "and", "or", "of",
			"to", "in", "on", "at", "for", "with", "as", "by", "that", "this",
			"dan", "atau", "yang", "di", "ke", "dari", "pada", "untuk",
			"dengan", "adalah", "ialah", "ini", "itu",
		},
		TechnicalTerms: []string{
			"arkeologi", "interpretasi", "analisis", "metodologi",
			"sinergis", "fenomenologi", "epistemologi", "ontologi",
			"deskriptif", "kualitatif", "kuantitatif", "empiris",
			"analysis", "methodology", "hypothesis", "empirical",
			"qualitative", "quantitative", "theoretical", "framework",
		},
	}
}

// Metrics computes the per-pair lexical scores. All methods are pure and
// return values in [0, 1].
type Metrics struct {
	leadWords     map[string]bool
	vaguePatterns []*regexp.Regexp
	stopWords     map[string]bool
	technical     []string
}

// NewMetrics validates the config up front: an empty lead-word list would
// silently zero the clarity bonus for every question, so it is rejected as a
// programmer error rather than discovered per pair.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if len(cfg.LeadWords) == 0 {
		return nil, fmt.Errorf("metrics config: lead word list is empty")
	}

	m := &Metrics{
		leadWords: make(map[string]bool, len(cfg.LeadWords)),
		stopWords: make(map[string]bool, len(cfg.StopWords)),
		technical: make([]string, len(cfg.TechnicalTerms)),
	}
	for _, w := range cfg.LeadWords {
		m.leadWords[strings.ToLower(w)] = true
	}
	for _, w := range cfg.StopWords {
		m.stopWords[strings.ToLower(w)] = true
	}
	for i, t := range cfg.TechnicalTerms {
		m.technical[i] = strings.ToLower(t)
	}

	for _, p := range cfg.VaguePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("metrics config: vague pattern %q: %w", p, err)
		}
		m.vaguePatterns = append(m.vaguePatterns, re)
	}

	return m, nil
}

// LengthFitness maps answer word count to a fitness score. Both truncated
// and rambling answers are penalized; the 20-100 word band is the target.
func (m *Metrics) LengthFitness(answer string) float64 {
	wc := len(strings.Fields(answer))

	switch {
	case wc < 10:
		return float64(wc) / 10.0 * 0.5
	case wc <= 20:
		return 0.5 + float64(wc-10)/10.0*0.5
	case wc <= 100:
		return 1.0
	case wc <= 200:
		return 1.0 - float64(wc-100)/100.0*0.3
	default:
		// Decays from 0.7 at 200 words down to 0 at 400.
		return clamp01(0.7 - float64(wc-200)/200.0*0.7)
	}
}

// Clarity scores how well-formed a question is: interrogative opener,
// question punctuation, reasonable length, and no vague references.
func (m *Metrics) Clarity(question string) float64 {
	score := 0.2

	words := strings.Fields(question)
	if len(words) > 0 {
		lead := strings.ToLower(strings.TrimRight(words[0], ",.:;?!"))
		if m.leadWords[lead] {
			score += 0.3
		}
	}

	if strings.Contains(question, "?") {
		score += 0.2
	}

	wc := len(words)
	switch {
	case wc >= 5 && wc <= 30:
		score += 0.3
	case wc >= 31 && wc <= 50:
		score += 0.2
	}

	for _, re := range m.vaguePatterns {
		if re.MatchString(question) {
			score -= 0.2
			break
		}
	}

	return clamp01(score)
}

// Grounding measures how much of the answer's vocabulary is attested in the
// source text. The coverage-to-score mapping is a deliberate step function;
// the band boundaries are relied on by downstream thresholds.
func (m *Metrics) Grounding(answer, source string) float64 {
	answerTokens := m.contentTokens(answer)
	if len(answerTokens) == 0 {
		return 0.5 // nothing to judge
	}
	sourceTokens := m.contentTokens(source)

	matched := 0
	for tok := range answerTokens {
		if sourceTokens[tok] {
			matched++
		}
	}
	coverage := float64(matched) / float64(len(answerTokens))

	switch {
	case coverage > 0.5:
		return 0.9
	case coverage > 0.3:
		return 0.6
	default:
		return 0.3
	}
}

// LexicalDifficulty estimates answer difficulty from surface features alone.
// Each factor is capped before weighting so no single dimension dominates.
func (m *Metrics) LexicalDifficulty(answer string) float64 {
	lowered := strings.ToLower(answer)
	words := strings.Fields(lowered)
	if len(words) == 0 {
		return 0.0
	}
	wc := float64(len(words))

	lengthFactor := wc / 200.0
	if lengthFactor > 1.0 {
		lengthFactor = 1.0
	}

	techCount := 0
	for _, term := range m.technical {
		if strings.Contains(lowered, term) {
			techCount++
		}
	}
	techFactor := float64(techCount) / wc * 3.0
	if techFactor > 1.0 {
		techFactor = 1.0
	}

	sentenceFactor := avgWordsPerSentence(answer) / 30.0
	if sentenceFactor > 1.0 {
		sentenceFactor = 1.0
	}

	return clamp01(lengthFactor*0.3 + techFactor*0.3 + sentenceFactor*0.4)
}

func (m *Metrics) contentTokens(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if !m.stopWords[w] {
			tokens[w] = true
		}
	}
	return tokens
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

func avgWordsPerSentence(text string) float64 {
	total := 0
	sentences := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		wc := len(strings.Fields(s))
		if wc == 0 {
			continue
		}
		total += wc
		sentences++
	}
	if sentences == 0 {
		return 0
	}
	return float64(total) / float64(sentences)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
