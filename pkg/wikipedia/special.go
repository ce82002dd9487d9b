package wikipedia

import "strings"

// Pseudo-titles that redirect to a concrete article.
const (
	RandomArticle  = "Special:Random"
	RandomRootPage = "Special:RandomRootpage"
)

// quirkyTitles are special pages that look like articles but are listings or
// tools, so no summary exists. Subpages ("Special:WhatLinksHere/Foo") match too.
var quirkyTitles = newTitleSet(
	"Special:AllPages",
	"Special:AncientPages",
	"Special:Categories",
	"Special:Contributions",
	"Special:DeadendPages",
	"Special:Export",
	"Special:ListFiles",
	"Special:ListUsers",
	"Special:Log",
	"Special:LongPages",
	"Special:LonelyPages",
	"Special:MostLinkedPages",
	"Special:NewPages",
	"Special:PrefixIndex",
	"Special:RandomInCategory",
	"Special:RecentChanges",
	"Special:RecentChangesLinked",
	"Special:Search",
	"Special:ShortPages",
	"Special:SpecialPages",
	"Special:Statistics",
	"Special:UncategorizedPages",
	"Special:WantedPages",
	"Special:WhatLinksHere",
)

var specialTitles = newTitleSet(RandomArticle, RandomRootPage)

type titleSet map[string]struct{}

func newTitleSet(titles ...string) titleSet {
	s := make(titleSet, len(titles))
	for _, t := range titles {
		s[normalizeTitle(t)] = struct{}{}
	}
	return s
}

func (s titleSet) has(title string) bool {
	_, ok := s[normalizeTitle(title)]
	return ok
}

// normalizeTitle folds the forms MediaWiki treats as the same special page.
func normalizeTitle(title string) string {
	return strings.ToLower(canonicalTitle(title))
}

// IsQuirky reports whether title is a special page that cannot be summarized.
func IsQuirky(title string) bool {
	if quirkyTitles.has(title) {
		return true
	}
	if base, _, ok := strings.Cut(canonicalTitle(title), "/"); ok {
		return quirkyTitles.has(base)
	}
	return false
}

// IsSpecial reports whether title is a pseudo-title ResolveSpecial understands.
func IsSpecial(title string) bool {
	return specialTitles.has(title)
}

// CheckSummarizable fails for denylisted special pages, before any summary request.
func CheckSummarizable(t Topic) error {
	if !IsQuirky(t.Title) {
		return nil
	}
	return &Error{Kind: KindInput, Op: "summary", Title: t.Title, Link: t.Link, Err: ErrQuirkyPage}
}
