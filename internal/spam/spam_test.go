package spam

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/rollingchair63/EntrepreNO/internal/profile"
	"github.com/rollingchair63/EntrepreNO/internal/ruleset"
)

func conns(n int) *int { return &n }

func rec(headline string, connections *int, summary string) profile.Record {
	return profile.FromValues("", headline, connections, summary)
}

func hasMatch(r Result, rule Category, label string) bool {
	for _, m := range r.Matches {
		if m.Rule == rule && (label == "" || m.Label == label) {
			return true
		}
	}
	return false
}

// --- Enum tests ---

func TestVerdictValid(t *testing.T) {
	for _, v := range Verdicts {
		if !v.Valid() {
			t.Errorf("expected %q to be valid", v)
		}
		if v.Label() == string(v) {
			t.Errorf("%q has no label", v)
		}
		if v.Emoji() == "" || v.Recommendation() == "" {
			t.Errorf("%q missing emoji or recommendation", v)
		}
	}
	if Verdict("SPAMMY").Valid() {
		t.Error("expected SPAMMY to be invalid")
	}
	if Verdict("SPAMMY").Rank() != -1 {
		t.Error("expected invalid verdict to rank -1")
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		in   string
		want Verdict
		ok   bool
	}{
		{"LIKELY_SPAM", VerdictLikelySpam, true},
		{"likely-spam", VerdictLikelySpam, true},
		{"Highly Likely Spam", VerdictHighlyLikelySpam, true},
		{" suspicious ", VerdictSuspicious, true},
		{"probably_legitimate", VerdictLegitimate, true},
		{"spam", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseVerdict(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseVerdict(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseVerdict(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryAndFieldValid(t *testing.T) {
	for _, c := range []Category{
		CategoryKeyword, CategoryPhrase, CategoryEmoji, CategoryCaps,
		CategoryLowConnections, CategoryTitleLowConnections, CategoryIncome, CategoryGeneric,
	} {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if Category("OTHER").Valid() {
		t.Error("expected OTHER category to be invalid")
	}
	for _, f := range []Field{FieldHeadline, FieldSummary, FieldConnections} {
		if !f.Valid() {
			t.Errorf("expected %q to be valid", f)
		}
	}
	if Field("name").Valid() {
		t.Error("expected name field to be invalid")
	}
}

// --- Score and verdict tests ---

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-50, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{105, 100},
		{1 << 40, 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestVerdictForBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Verdict
	}{
		{-1, VerdictLegitimate},
		{0, VerdictLegitimate},
		{19, VerdictLegitimate},
		{20, VerdictSomewhatSuspicious},
		{39, VerdictSomewhatSuspicious},
		{40, VerdictSuspicious},
		{59, VerdictSuspicious},
		{60, VerdictLikelySpam},
		{79, VerdictLikelySpam},
		{80, VerdictHighlyLikelySpam},
		{99, VerdictHighlyLikelySpam},
		{100, VerdictHighlyLikelySpam},
		{250, VerdictHighlyLikelySpam},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.score), func(t *testing.T) {
			if got := VerdictFor(tt.score); got != tt.want {
				t.Errorf("VerdictFor(%d) = %s, want %s", tt.score, got, tt.want)
			}
		})
	}
}

func TestComputeResult(t *testing.T) {
	r := ComputeResult([]Match{{Points: 60}, {Points: 70}})
	if r.Score != 100 || r.Total() != 130 || r.Verdict != VerdictHighlyLikelySpam {
		t.Errorf("unexpected result: %+v", r)
	}
	r = ComputeResult(nil)
	if r.Score != 0 || r.Verdict != VerdictLegitimate {
		t.Errorf("unexpected empty result: %+v", r)
	}
}

func TestComputeResultOrdersCategories(t *testing.T) {
	in := []Match{
		{Rule: CategoryGeneric, Label: "generic"},
		{Rule: CategoryIncome, Label: "income"},
		{Rule: CategoryKeyword, Label: "kw b"},
		{Rule: CategoryCaps, Label: "caps"},
		{Rule: CategoryKeyword, Label: "kw a"},
		{Rule: CategoryPhrase, Label: "phrase"},
	}
	r := ComputeResult(in)

	want := []string{"kw b", "kw a", "phrase", "caps", "income", "generic"}
	if len(r.Matches) != len(want) {
		t.Fatalf("got %d matches, want %d", len(r.Matches), len(want))
	}
	for i, label := range want {
		if r.Matches[i].Label != label {
			t.Errorf("match %d = %q, want %q", i, r.Matches[i].Label, label)
		}
	}
	if in[0].Label != "generic" {
		t.Error("ComputeResult reordered the caller's slice")
	}
}

func TestComputeResultSaturates(t *testing.T) {
	r := ComputeResult([]Match{
		{Rule: CategoryKeyword, Points: math.MaxInt},
		{Rule: CategoryKeyword, Points: math.MaxInt},
		{Rule: CategoryPhrase, Points: 15},
	})
	if r.Total() != math.MaxInt {
		t.Errorf("Total() = %d, want saturation at MaxInt", r.Total())
	}
	if r.Score != MaxScore || r.Verdict != VerdictHighlyLikelySpam {
		t.Errorf("score = %d verdict = %s, want %d %s", r.Score, r.Verdict, MaxScore, VerdictHighlyLikelySpam)
	}

	r = ComputeResult([]Match{{Points: math.MinInt}, {Points: -1}})
	if r.Total() != math.MinInt || r.Score != MinScore {
		t.Errorf("negative saturation: total %d score %d", r.Total(), r.Score)
	}
}

// --- Engine construction ---

func TestNewRejectsInvalidRuleSet(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil rule set")
	}

	rs := ruleset.Default()
	rs.Income.Patterns[0].Pattern = "(broken"
	_, err := New(rs)
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if !strings.Contains(err.Error(), "income.patterns[0].pattern") {
		t.Errorf("error should name the bad field: %v", err)
	}
}

func TestNewRejectsOversizedWeights(t *testing.T) {
	rs := ruleset.Default()
	rs.Keywords[0].Points = math.MaxInt
	rs.Keywords[1].Points = math.MaxInt
	if _, err := New(rs); err == nil {
		t.Fatal("expected error for weights above the per-rule bound")
	}
}

func TestEngineCopiesRuleSet(t *testing.T) {
	rs := ruleset.Default()
	e, err := New(rs)
	if err != nil {
		t.Fatal(err)
	}
	r := rec("", conns(50), "")
	before := e.Score(r)

	rs.Connections.Low.Points = 90
	rs.Keywords[0].Points = 99

	after := e.Score(r)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("engine changed after rule set mutation: %+v vs %+v", before, after)
	}
}

// --- End-to-end scenarios ---

func TestScenarioObviousSpam(t *testing.T) {
	e := Default()
	r := e.Score(rec(
		"💰 CEO & Founder | Financial Freedom Coach | DM Me! 🚀",
		conns(156),
		"I quit my 9-5! Ask me how!",
	))

	if r.Score < 80 || r.Score > 100 {
		t.Errorf("score = %d, want [80,100]", r.Score)
	}
	if r.Verdict != VerdictHighlyLikelySpam {
		t.Errorf("verdict = %s, want %s", r.Verdict, VerdictHighlyLikelySpam)
	}
	for _, want := range []struct {
		rule  Category
		label string
	}{
		{CategoryKeyword, `Spam keyword "financial freedom"`},
		{CategoryPhrase, `Red-flag phrase "dm me"`},
		{CategoryPhrase, `Red-flag phrase "ask me how"`},
		{CategoryTitleLowConnections, ""},
	} {
		if !hasMatch(r, want.rule, want.label) {
			t.Errorf("missing reason %s %s in %v", want.rule, want.label, r.Reasons())
		}
	}
}

func TestScenarioObviousSpamWithEmoji(t *testing.T) {
	e := Default()
	r := e.Score(rec(
		"💰💰 CEO & Founder | Financial Freedom Coach | DM Me! 🚀",
		conns(156),
		"I quit my 9-5! Ask me how!",
	))
	if r.Verdict != VerdictHighlyLikelySpam {
		t.Errorf("verdict = %s", r.Verdict)
	}
	if !hasMatch(r, CategoryEmoji, "Excessive emoji in headline (3 found)") {
		t.Errorf("missing emoji reason in %v", r.Reasons())
	}
}

func TestScenarioLegitimateEngineer(t *testing.T) {
	e := Default()
	r := e.Score(rec("Senior Software Engineer at Google", conns(847), "Building scalable ML systems"))
	if r.Score != 0 {
		t.Errorf("score = %d, want 0 (%v)", r.Score, r.Reasons())
	}
	if r.Verdict != VerdictLegitimate {
		t.Errorf("verdict = %s", r.Verdict)
	}
	if len(r.Matches) != 0 {
		t.Errorf("expected no reasons, got %v", r.Reasons())
	}
}

func TestScenarioFounderLowConnections(t *testing.T) {
	e := Default()
	r := e.Score(rec("Founder | Early-stage startup", conns(180), ""))
	if r.Score < 15 || r.Score > 30 {
		t.Errorf("score = %d, want [15,30]", r.Score)
	}
	if r.Verdict != VerdictSomewhatSuspicious {
		t.Errorf("verdict = %s, want %s", r.Verdict, VerdictSomewhatSuspicious)
	}
	if len(r.Matches) != 1 || r.Matches[0].Rule != CategoryTitleLowConnections {
		t.Errorf("expected only the title rule, got %+v", r.Matches)
	}
}

// --- Rule categories ---

func TestScoreRules(t *testing.T) {
	e := Default()
	tests := []struct {
		name      string
		record    profile.Record
		wantScore int
		wantRules []Category
	}{
		{"empty record", profile.Record{}, 0, nil},
		{"single keyword", rec("Crypto enthusiast", nil, ""), 15, []Category{CategoryKeyword}},
		{"repeated keyword counts once", rec("crypto crypto CRYPTO", nil, ""), 15, []Category{CategoryKeyword}},
		{"keyword in both fields counts once", rec("Crypto", nil, "more crypto"), 15, []Category{CategoryKeyword}},
		{"alias scores as its term", rec("Drop Shipping expert", nil, ""), 20, []Category{CategoryKeyword}},
		{"longer keyword covers shorter", rec("Life Coach", nil, ""), 20, []Category{CategoryKeyword}},
		{"shorter keyword also alone", rec("Life Coach and business coach", nil, ""), 35, []Category{CategoryKeyword, CategoryKeyword}},
		{"phrase", rec("", nil, "Join my team today"), 15, []Category{CategoryPhrase}},
		{"three emoji", rec("🔥💎🚀", nil, ""), 10, []Category{CategoryEmoji}},
		{"four emoji", rec("🔥💎🚀💰", nil, ""), 15, []Category{CategoryEmoji}},
		{"five emoji", rec("🔥💎🚀💰🌟🌟", nil, ""), 20, []Category{CategoryEmoji}},
		{"two emoji", rec("🔥 Designer 🚀", nil, ""), 0, nil},
		{"shouting", rec("GROWTH HACKER", nil, ""), 15, []Category{CategoryCaps}},
		{"acronym only", rec("CEO", conns(500), ""), 0, nil},
		{"low connections", rec("Designer", conns(99), ""), 10, []Category{CategoryLowConnections}},
		{"connections at threshold", rec("Designer", conns(100), ""), 0, nil},
		{"zero connections", rec("Designer", conns(0), ""), 10, []Category{CategoryLowConnections}},
		{"unknown connections", rec("Designer", nil, ""), 0, nil},
		{"title and low connections", rec("CEO at Acme", conns(50), ""), 30, []Category{CategoryLowConnections, CategoryTitleLowConnections}},
		{"co-founder below title threshold", rec("Co-Founder", conns(199), ""), 20, []Category{CategoryTitleLowConnections}},
		{"co-founder at title threshold", rec("Co-Founder", conns(200), ""), 0, nil},
		{"title without count", rec("Founder", nil, ""), 0, nil},
		{"income claims", rec("", nil, "I make $10k/month and quit my job"), 15, []Category{CategoryIncome}},
		{"single income claim", rec("", nil, "I quit my job last year"), 0, nil},
		{"generic language", rec("", nil, "Looking for success and money"), 10, []Category{CategoryGeneric}},
		{"generic suppressed by keyword", rec("Entrepreneur", nil, "Looking for success"), 20, []Category{CategoryKeyword}},
		{"single income claim keeps generic", rec("", nil, "I quit my job for success"), 10, []Category{CategoryGeneric}},
		{"generic suppressed by income claims", rec("", nil, "I quit my job and made $5k for success"), 10, []Category{CategoryIncome}},
		{"generic only in headline", rec("Success stories editor", nil, ""), 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.Score(tt.record)
			if r.Score != tt.wantScore {
				t.Errorf("score = %d, want %d (%v)", r.Score, tt.wantScore, r.Reasons())
			}
			var got []Category
			for _, m := range r.Matches {
				got = append(got, m.Rule)
			}
			if !reflect.DeepEqual(got, tt.wantRules) {
				t.Errorf("rules = %v, want %v", got, tt.wantRules)
			}
		})
	}
}

func TestMatchOrder(t *testing.T) {
	e := Default()
	r := e.Score(rec(
		"🔥💎🚀 FOREX TRADER | CEO | Crypto | DM me",
		conns(40),
		"Financial freedom! Passive income and residual income, quit my job. Ask me how",
	))

	for i := 1; i < len(r.Matches); i++ {
		if r.Matches[i-1].Rule.order() > r.Matches[i].Rule.order() {
			t.Errorf("match %d (%s) after %s", i, r.Matches[i].Rule, r.Matches[i-1].Rule)
		}
	}

	// within a category, rule-set order rather than text order
	var keywords []string
	for _, m := range r.Matches {
		if m.Rule == CategoryKeyword {
			keywords = append(keywords, m.Label)
		}
	}
	want := []string{
		`Spam keyword "passive income"`,
		`Spam keyword "financial freedom"`,
		`Spam keyword "forex"`,
		`Spam keyword "crypto"`,
	}
	if !reflect.DeepEqual(keywords, want) {
		t.Errorf("keyword order = %v, want %v", keywords, want)
	}

	if r.Score != 100 {
		t.Errorf("score = %d, want clamped 100 (total %d)", r.Score, r.Total())
	}
}

func TestMatchFields(t *testing.T) {
	e := Default()
	r := e.Score(rec("Crypto", conns(10), "Ask me how"))
	want := map[Category]Field{
		CategoryKeyword:        FieldHeadline,
		CategoryPhrase:         FieldSummary,
		CategoryLowConnections: FieldConnections,
	}
	for _, m := range r.Matches {
		if f, ok := want[m.Rule]; ok && m.Field != f {
			t.Errorf("%s field = %s, want %s", m.Rule, m.Field, f)
		}
	}
}

func TestIncomeClaimField(t *testing.T) {
	tests := []struct {
		name string
		r    profile.Record
		want Field
	}{
		{"first claim in summary", rec("Passive income expert", nil, "I make $10k/month"), FieldSummary},
		{"first claim in headline", rec("Six figure earner", nil, "I quit my job"), FieldHeadline},
		{"first claim in both", rec("I quit my job", nil, "I quit my job and fired my boss"), FieldHeadline},
		{"summary only", rec("", nil, "I quit my job and fired my boss"), FieldSummary},
	}
	e := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.Score(tt.r)
			var found bool
			for _, m := range r.Matches {
				if m.Rule != CategoryIncome {
					continue
				}
				found = true
				if m.Field != tt.want {
					t.Errorf("income field = %s, want %s", m.Field, tt.want)
				}
			}
			if !found {
				t.Fatalf("no income match in %+v", r.Matches)
			}
		})
	}
}

// --- Properties ---

var propertyRecords = []profile.Record{
	{},
	rec("Senior Software Engineer at Google", conns(847), "Building scalable ML systems"),
	rec("Founder | Early-stage startup", conns(180), ""),
	rec("💰 CEO & Founder | Financial Freedom Coach | DM Me! 🚀", conns(156), "I quit my 9-5! Ask me how!"),
	rec("FOREX TRADER | CRYPTO INVESTOR | MAKE MONEY ONLINE 💎", conns(89), "Trading changed my life."),
	rec("Life Coach | Passive Income Expert | Network Marketing Pro 🌟", conns(2456), "Proven system for success."),
	rec("Designer", nil, "Looking for success and money"),
	rec("🔥🔥🔥🔥🔥🔥 GET RICH", conns(1), "Make $500 a day, quit my job, six figures, passive income, fired my boss"),
}

func TestScoreBounds(t *testing.T) {
	e := Default()
	for i, r := range propertyRecords {
		res := e.Score(r)
		if res.Score < 0 || res.Score > 100 {
			t.Errorf("record %d: score %d out of range", i, res.Score)
		}
		if res.Score != Clamp(res.Total()) {
			t.Errorf("record %d: score %d != clamp(total %d)", i, res.Score, res.Total())
		}
		if res.Verdict != VerdictFor(res.Score) {
			t.Errorf("record %d: verdict %s inconsistent with score %d", i, res.Verdict, res.Score)
		}
	}
}

func TestScoreIdempotent(t *testing.T) {
	e := Default()
	for i, r := range propertyRecords {
		a := e.Score(r)
		b := e.Score(r)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("record %d: results differ:\n%+v\n%+v", i, a, b)
		}
	}
}

func TestScoreMonotonic(t *testing.T) {
	e := Default()
	rs := e.RuleSet()
	var terms []string
	for _, t := range rs.Keywords {
		terms = append(terms, t.Forms()...)
	}
	for _, t := range rs.Phrases {
		terms = append(terms, t.Forms()...)
	}

	for i, base := range propertyRecords {
		before := e.Score(base)
		for _, term := range terms {
			// summary additions never touch headline-only rules
			grown := base
			grown.Summary = strings.TrimSpace(base.Summary + ". " + term)
			if after := e.Score(grown); after.Score < before.Score {
				t.Errorf("record %d + summary %q: score %d -> %d", i, term, before.Score, after.Score)
			}

			if hasMatch(before, CategoryCaps, "") {
				continue
			}
			grown = base
			grown.Headline = strings.TrimSpace(base.Headline + " | " + term)
			if after := e.Score(grown); after.Score < before.Score {
				t.Errorf("record %d + headline %q: score %d -> %d", i, term, before.Score, after.Score)
			}
		}
	}
}

func TestScoreMonotonicIncomeClaims(t *testing.T) {
	e := Default()
	bases := []string{
		"Money matters to me.",
		"Looking for success",
		"Building wealth for my family",
		"",
	}
	claims := []string{
		"I quit my job.",
		"I made $5k last week.",
		"Six figure income.",
		"Earn money online.",
	}
	for _, base := range bases {
		before := e.Score(rec("", nil, base))
		grown := base
		for _, claim := range claims {
			grown = strings.TrimSpace(grown + " " + claim)
			after := e.Score(rec("", nil, grown))
			if after.Score < before.Score {
				t.Errorf("%q -> %q: score %d -> %d (%v)", base, grown, before.Score, after.Score, after.Reasons())
			}
			before = after
		}
	}
}

func TestWordBoundaryConfusables(t *testing.T) {
	e := Default()
	rs := e.RuleSet()

	check := func(t *testing.T, rule Category, format string, term ruleset.Term) {
		label := fmt.Sprintf(format, term.Term)
		for _, form := range term.Forms() {
			for _, text := range []string{
				"x" + form,
				form + "x",
				"pre" + form + "post",
				"1" + form,
				form + "9",
			} {
				r := e.Score(rec(text, nil, text))
				if hasMatch(r, rule, label) {
					t.Errorf("%q matched %s", text, label)
				}
			}
		}
	}
	for _, term := range rs.Keywords {
		check(t, CategoryKeyword, "Spam keyword %q", term)
	}
	for _, term := range rs.Phrases {
		check(t, CategoryPhrase, "Red-flag phrase %q", term)
	}

	for _, text := range []string{
		"Coincidentally a cryptographer",
		"Entrepreneurship professor",
		"Coaching staff at the Forexample Club",
		"Webinars and masterclasses archive",
		"Dm mentor program",
	} {
		r := e.Score(rec(text, conns(500), ""))
		if hasMatch(r, CategoryKeyword, "") || hasMatch(r, CategoryPhrase, "") {
			t.Errorf("%q: unexpected matches %v", text, r.Reasons())
		}
	}
}

func TestScoreConcurrent(t *testing.T) {
	e := Default()
	want := make([]Result, len(propertyRecords))
	for i, r := range propertyRecords {
		want[i] = e.Score(r)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 20; n++ {
				for i, r := range propertyRecords {
					if got := e.Score(r); !reflect.DeepEqual(got, want[i]) {
						select {
						case errs <- fmt.Sprintf("record %d: concurrent result differs", i):
						default:
						}
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

func TestCustomRuleSet(t *testing.T) {
	rs := ruleset.Default()
	rs.Name = "widgets"
	rs.Keywords = []ruleset.Term{{Term: "widget", Points: 50, Aliases: []string{"widgets"}}}

	e, err := New(rs)
	if err != nil {
		t.Fatal(err)
	}
	r := e.Score(rec("Widgets wholesaler", nil, ""))
	if r.Score != 50 || !hasMatch(r, CategoryKeyword, `Spam keyword "widget"`) {
		t.Errorf("unexpected result: %+v", r)
	}
	if r := e.Score(rec("Crypto", nil, "")); r.Score != 0 {
		t.Errorf("default keyword scored under custom rule set: %+v", r)
	}
}

func TestStrictRuleSet(t *testing.T) {
	rs, err := ruleset.LoadBuiltin("strict")
	if err != nil {
		t.Fatal(err)
	}
	strict, err := New(rs)
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	for i, r := range propertyRecords {
		if s, d := strict.Score(r).Score, def.Score(r).Score; s < d {
			t.Errorf("record %d: strict %d < default %d", i, s, d)
		}
	}
}
