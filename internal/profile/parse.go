package profile

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const digits = `(\d{1,3}(?:,\d{3})+|\d+)`

var (
	// "500+ connections", "1,234 connections"
	countBeforePattern = regexp.MustCompile(`(?i)(?:^|[^\w,])([-−])?` + digits + `\s*\+?\s*connections?\b`)
	// "Connections: 1,234", "connections 500+"
	countAfterPattern = regexp.MustCompile(`(?i)\bconnections?\s*[:=]?\s*([-−])?` + digits + `\+?(?:$|[^\w])`)
	// bare count: "500+", "1,234"
	countBarePattern = regexp.MustCompile(`^([-−])?` + digits + `\s*\+?$`)
	// "Headline: ...", "About: ..."
	labelPattern = regexp.MustCompile(`(?i)^(name|headline|title|connections?|summary|about)\s*:\s*(.*)$`)
	// bare "About" or "Summary" line starting the summary block
	markerPattern = regexp.MustCompile(`(?i)^(?:about|summary)\s*:?$`)
	// separators left adjacent once a count is cut out: "Founder | | Boston"
	separatorRunPattern = regexp.MustCompile(`(?:\s*[|•·]\s*){2,}`)
)

const separators = " \t|•·,;:-–"

// count accumulates connection counts seen across lines. Any negative,
// overflowing or conflicting value makes the count unknown.
type count struct {
	value   int
	seen    bool
	invalid bool
}

func (c *count) add(n int, ok bool) {
	switch {
	case !ok:
		c.invalid = true
	case c.seen && c.value != n:
		c.invalid = true
	default:
		c.value = n
		c.seen = true
	}
}

func (c *count) result() *int {
	if !c.seen || c.invalid {
		return nil
	}
	return intPtr(c.value)
}

type parser struct {
	name          string
	nameCandidate string
	labeled       []string // "Headline:" lines
	text          []string // unlabeled lines before the summary marker
	summary       []string
	marker        bool
	conns         count
}

// Parse converts pasted profile text into a Record. It never fails.
//
// The first line is taken as the name when it looks like a personal name and
// is followed by other profile text. Labeled lines ("Headline:", "About:")
// set their field. A line with digits next to "connections" sets the count.
// Before an "About"/"Summary" marker, unlabeled lines form the headline;
// without a marker only the first does and the rest form the summary.
func Parse(raw string) Record {
	var p parser
	first := true
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		isFirst := first
		first = false
		p.line(line, isFirst)
	}
	return p.record()
}

func (p *parser) line(line string, first bool) {
	if markerPattern.MatchString(line) {
		p.marker = true
		return
	}

	if m := labelPattern.FindStringSubmatch(line); m != nil {
		value := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "name":
			if p.name == "" {
				p.name = value
			} else if value != "" {
				p.summary = append(p.summary, line)
			}
		case "headline", "title":
			if value != "" {
				p.labeled = append(p.labeled, value)
			}
		case "connection", "connections":
			if value != "" {
				p.conns.add(ParseCount(value))
			}
		case "summary", "about":
			p.marker = true
			if value != "" {
				p.summary = append(p.summary, value)
			}
		}
		return
	}

	if n, ok, found, rest := lineCount(line); found {
		p.conns.add(n, ok)
		// text sharing the line with the count is kept
		if rest == "" {
			return
		}
		line = rest
	}

	if first && LooksLikeName(line) {
		p.nameCandidate = line
		return
	}

	if p.marker {
		p.summary = append(p.summary, line)
		return
	}
	p.text = append(p.text, line)
}

func (p *parser) record() Record {
	text := p.text
	if p.nameCandidate != "" {
		// a name needs some profile text beside it; a lone line is the headline
		if p.name == "" && (len(text) > 0 || len(p.labeled) > 0 || len(p.summary) > 0) {
			p.name = p.nameCandidate
		} else {
			text = append([]string{p.nameCandidate}, text...)
		}
	}

	var headline []string
	summary := p.summary
	switch {
	case len(p.labeled) > 0:
		headline = p.labeled
		summary = append(append([]string{}, text...), summary...)
	case p.marker:
		headline = text
	case len(text) > 0:
		headline = text[:1]
		summary = append(append([]string{}, text[1:]...), summary...)
	}

	return Record{
		Name:        p.name,
		Headline:    strings.Join(headline, "\n"),
		Connections: p.conns.result(),
		Summary:     strings.Join(summary, "\n"),
	}
}

// lineCount extracts a connection count from a line. found reports whether
// the line states a count at all; ok is false when it is negative, overflows
// or the line states two different counts. rest is the line with the count
// phrases removed, or "" when nothing but separators remains.
func lineCount(line string) (n int, ok bool, found bool, rest string) {
	var c count
	cut := make([]bool, len(line))
	for _, re := range []*regexp.Regexp{countBeforePattern, countAfterPattern} {
		for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
			found = true
			sign := ""
			if m[2] >= 0 {
				sign = line[m[2]:m[3]]
			}
			c.add(toCount(sign, line[m[4]:m[5]]))
			for i := m[0]; i < m[1]; i++ {
				cut[i] = true
			}
		}
	}
	if !found {
		return 0, false, false, ""
	}
	rest = remainder(line, cut)
	if v := c.result(); v != nil {
		return *v, true, true, rest
	}
	return 0, false, true, rest
}

// remainder drops the cut bytes of line, leaving a space where each cut run
// was, and tidies the separators around the gap.
func remainder(line string, cut []bool) string {
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		if !cut[i] {
			b.WriteByte(line[i])
		} else if i == 0 || !cut[i-1] {
			b.WriteByte(' ')
		}
	}
	rest := strings.Join(strings.Fields(b.String()), " ")
	rest = separatorRunPattern.ReplaceAllString(rest, " | ")
	rest = strings.Trim(rest, separators)
	if !strings.ContainsFunc(rest, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) {
		return ""
	}
	return rest
}

// ParseCount parses a free-text connection count such as "500+",
// "1,234 connections" or "Connections: 87". A trailing "+" is ignored.
func ParseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if m := countBarePattern.FindStringSubmatch(s); m != nil {
		return toCount(m[1], m[2])
	}
	n, ok, _, _ := lineCount(s)
	return n, ok
}

func toCount(sign, num string) (int, bool) {
	if sign != "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(num, ",", ""))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
