package masker

import "regexp"

// Kind groups tokens for statistics and selection.
type Kind string

const (
	KindTimestamp Kind = "timestamp"
	KindUUID      Kind = "uuid"
	KindIPv4      Kind = "ipv4"
	KindHex       Kind = "hex"
	KindDuration  Kind = "duration"
	KindNumber    Kind = "number"
)

// Kinds lists every built-in kind in priority order.
func Kinds() []Kind {
	return []Kind{KindTimestamp, KindUUID, KindIPv4, KindHex, KindDuration, KindNumber}
}

// Token is a volatile value that varies between runs of the same program.
type Token struct {
	Kind       Kind
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled PatternStr (set by DefaultTokens)
	PatternStr string         // Finds the token inside a line
	Mask       string         // Regex written in place of the token
	Layout     string         // Go time layout; non-empty means matches must parse
	Examples   []string
}

// timestamp builds a token whose mask is its own pattern.
func timestamp(name, pattern, layout string, examples ...string) *Token {
	return &Token{
		Kind:       KindTimestamp,
		Name:       name,
		PatternStr: pattern,
		Mask:       pattern,
		Layout:     layout,
		Examples:   examples,
	}
}

// DefaultTokens returns the built-in tokens. Timestamps come first so that
// their digits are not claimed by the generic kinds.
func DefaultTokens() []*Token {
	tokens := []*Token{
		timestamp("ISO 8601 with timezone",
			`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})`,
			"2006-01-02T15:04:05Z07:00",
			"2024-01-15T10:30:00Z", "2024-01-15T10:30:00.123+00:00", "2024-01-15T10:30:00-05:00"),
		timestamp("ISO 8601",
			`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?`,
			"2006-01-02T15:04:05",
			"2024-01-15T10:30:00", "2024-01-15T10:30:00.123"),
		timestamp("Datetime",
			`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(?:[.,]\d+)?`,
			"2006-01-02 15:04:05",
			"2024-01-15 10:30:00", "2024-01-15 10:30:00,123", "2024-01-15 10:30:00.123"),
		timestamp("Syslog with year",
			`[A-Z][a-z]{2} +\d{1,2} +\d{4} +\d{2}:\d{2}:\d{2}`,
			"Jan 2 2006 15:04:05",
			"Jun 14 2024 15:16:01"),
		timestamp("Syslog (BSD)",
			`[A-Z][a-z]{2} +\d{1,2} +\d{2}:\d{2}:\d{2}`,
			"Jan 2 15:04:05",
			"Jun 14 15:16:01", "Jan  5 09:30:00"),
		timestamp("Apache/NGINX CLF",
			`\d{2}/[A-Z][a-z]{2}/\d{4}:\d{2}:\d{2}:\d{2} [+-]\d{4}`,
			"02/Jan/2006:15:04:05 -0700",
			"15/Jun/2024:10:30:00 +0000"),
		timestamp("Apache error log",
			`[A-Z][a-z]{2} [A-Z][a-z]{2} \d{2} \d{2}:\d{2}:\d{2} \d{4}`,
			"Mon Jan 02 15:04:05 2006",
			"Sun Dec 04 04:47:44 2005"),
		// Day and month order is ambiguous, so matches are not parsed.
		timestamp("Slashed date",
			`\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2}`,
			"",
			"01/15/2024 10:30:00", "15/01/2024 10:30:00"),
		timestamp("Spark/Hadoop short date",
			`\d{2}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}`,
			"06/01/02 15:04:05",
			"17/06/09 20:10:40"),
		timestamp("Time of day",
			`\d{2}:\d{2}:\d{2}(?:[.,]\d+)?`,
			"15:04:05",
			"10:30:00", "23:59:59.999"),
		{
			Kind:       KindUUID,
			Name:       "UUID",
			PatternStr: `\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`,
			Mask:       `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
			Examples:   []string{"123e4567-e89b-12d3-a456-426614174000"},
		},
		{
			Kind:       KindIPv4,
			Name:       "IPv4 address",
			PatternStr: `\b(?:\d{1,3}\.){3}\d{1,3}\b`,
			Mask:       `(?:\d{1,3}\.){3}\d{1,3}`,
			Examples:   []string{"10.0.0.1", "192.168.100.254"},
		},
		{
			Kind:       KindHex,
			Name:       "Hex address",
			PatternStr: `\b0[xX][0-9a-fA-F]+\b`,
			Mask:       `0[xX][0-9a-fA-F]+`,
			Examples:   []string{"0x7ffd5e8c", "0XDEADBEEF"},
		},
		{
			Kind:       KindDuration,
			Name:       "Duration",
			PatternStr: `\b\d+(?:\.\d+)?(?:ns|us|µs|ms|s|m|h)\b`,
			Mask:       `\d+(?:\.\d+)?(?:ns|us|µs|ms|s|m|h)`,
			Examples:   []string{"12ms", "1.5s", "300us", "2h"},
		},
		{
			Kind:       KindNumber,
			Name:       "Long number",
			PatternStr: `\b\d{4,}\b`,
			Mask:       `\d+`,
			Examples:   []string{"1705315800", "4096"},
		},
	}

	// Compile all patterns
	for _, t := range tokens {
		t.Pattern = regexp.MustCompile(t.PatternStr)
	}

	return tokens
}
