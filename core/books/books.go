// Package books provides canonical Bible book names and abbreviation
// resolution. The recognition strategies validate every book token against a
// Canon, which callers may build from their own reference data or take from
// the standard 66-book table.
package books

import (
	"strings"
)

// Entry pairs a canonical book name with its accepted abbreviations and
// synonyms.
type Entry struct {
	Name    string
	Abbrevs []string
}

// Canon is an immutable lookup table of canonical book names. The zero value
// is unusable; construct with New or Standard.
type Canon struct {
	names  []string
	lookup map[string]resolution
}

type resolution struct {
	canonical  string
	normalized bool // true when the lookup key is an abbreviation/synonym
}

// New builds a Canon from caller-supplied entries. Canonical names resolve
// exactly; abbreviations resolve with the normalized flag set.
func New(entries []Entry) *Canon {
	c := &Canon{lookup: make(map[string]resolution)}
	for _, e := range entries {
		c.names = append(c.names, e.Name)
		c.lookup[normalizeKey(e.Name)] = resolution{canonical: e.Name}
		for _, ab := range e.Abbrevs {
			key := normalizeKey(ab)
			if _, exists := c.lookup[key]; !exists {
				c.lookup[key] = resolution{canonical: e.Name, normalized: true}
			}
		}
	}
	return c
}

// Standard returns a Canon covering the 66-book Protestant canon with common
// abbreviations.
func Standard() *Canon {
	return New(standardEntries)
}

// Names returns the canonical book names in canon order.
func (c *Canon) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Resolve maps a raw book token to its canonical name. normalized reports
// whether the match went through an abbreviation or synonym rather than the
// canonical form itself. ok is false when the token does not resolve at all.
func (c *Canon) Resolve(token string) (canonical string, normalized, ok bool) {
	key := normalizeKey(token)
	if key == "" {
		return "", false, false
	}
	r, ok := c.lookup[key]
	if !ok {
		return "", false, false
	}
	return r.canonical, r.normalized, true
}

// Contains reports whether name resolves to any canonical book.
func (c *Canon) Contains(name string) bool {
	_, _, ok := c.Resolve(name)
	return ok
}

// normalizeKey lowercases a token, strips a trailing period, and collapses
// internal whitespace so "1  John" and "1 john" share a key.
func normalizeKey(token string) string {
	token = strings.TrimSpace(token)
	token = strings.TrimSuffix(token, ".")
	token = strings.ToLower(token)
	return strings.Join(strings.Fields(token), " ")
}

// standardEntries lists the 66-book Protestant canon. Abbreviations follow
// common usage in printed Bibles and SWORD module names.
var standardEntries = []Entry{
	{Name: "Genesis", Abbrevs: []string{"Gen", "Ge", "Gn"}},
	{Name: "Exodus", Abbrevs: []string{"Exod", "Exo", "Ex"}},
	{Name: "Leviticus", Abbrevs: []string{"Lev", "Le", "Lv"}},
	{Name: "Numbers", Abbrevs: []string{"Num", "Nu", "Nm"}},
	{Name: "Deuteronomy", Abbrevs: []string{"Deut", "Deu", "Dt"}},
	{Name: "Joshua", Abbrevs: []string{"Josh", "Jos"}},
	{Name: "Judges", Abbrevs: []string{"Judg", "Jdg", "Jgs"}},
	{Name: "Ruth", Abbrevs: []string{"Ru", "Rth"}},
	{Name: "1 Samuel", Abbrevs: []string{"1Sam", "1 Sam", "1Sa", "1 Sa", "1Samuel"}},
	{Name: "2 Samuel", Abbrevs: []string{"2Sam", "2 Sam", "2Sa", "2 Sa", "2Samuel"}},
	{Name: "1 Kings", Abbrevs: []string{"1Kgs", "1 Kgs", "1Ki", "1 Ki", "1Kings"}},
	{Name: "2 Kings", Abbrevs: []string{"2Kgs", "2 Kgs", "2Ki", "2 Ki", "2Kings"}},
	{Name: "1 Chronicles", Abbrevs: []string{"1Chr", "1 Chr", "1Ch", "1 Ch", "1Chronicles"}},
	{Name: "2 Chronicles", Abbrevs: []string{"2Chr", "2 Chr", "2Ch", "2 Ch", "2Chronicles"}},
	{Name: "Ezra", Abbrevs: []string{"Ezr"}},
	{Name: "Nehemiah", Abbrevs: []string{"Neh", "Ne"}},
	{Name: "Esther", Abbrevs: []string{"Esth", "Est", "Es"}},
	{Name: "Job", Abbrevs: []string{"Jb"}},
	{Name: "Psalms", Abbrevs: []string{"Ps", "Psa", "Psalm", "Pss"}},
	{Name: "Proverbs", Abbrevs: []string{"Prov", "Pro", "Prv"}},
	{Name: "Ecclesiastes", Abbrevs: []string{"Eccl", "Ecc", "Qoh"}},
	{Name: "Song of Solomon", Abbrevs: []string{"Song", "Song of Songs", "SoS", "Canticles", "Cant"}},
	{Name: "Isaiah", Abbrevs: []string{"Isa", "Is"}},
	{Name: "Jeremiah", Abbrevs: []string{"Jer", "Je"}},
	{Name: "Lamentations", Abbrevs: []string{"Lam", "La"}},
	{Name: "Ezekiel", Abbrevs: []string{"Ezek", "Eze", "Ezk"}},
	{Name: "Daniel", Abbrevs: []string{"Dan", "Da", "Dn"}},
	{Name: "Hosea", Abbrevs: []string{"Hos", "Ho"}},
	{Name: "Joel", Abbrevs: []string{"Jl"}},
	{Name: "Amos", Abbrevs: []string{"Am"}},
	{Name: "Obadiah", Abbrevs: []string{"Obad", "Oba", "Ob"}},
	{Name: "Jonah", Abbrevs: []string{"Jon", "Jnh"}},
	{Name: "Micah", Abbrevs: []string{"Mic", "Mi"}},
	{Name: "Nahum", Abbrevs: []string{"Nah", "Na"}},
	{Name: "Habakkuk", Abbrevs: []string{"Hab", "Hb"}},
	{Name: "Zephaniah", Abbrevs: []string{"Zeph", "Zep", "Zp"}},
	{Name: "Haggai", Abbrevs: []string{"Hag", "Hg"}},
	{Name: "Zechariah", Abbrevs: []string{"Zech", "Zec", "Zc"}},
	{Name: "Malachi", Abbrevs: []string{"Mal", "Ml"}},
	{Name: "Matthew", Abbrevs: []string{"Matt", "Mat", "Mt"}},
	{Name: "Mark", Abbrevs: []string{"Mrk", "Mk", "Mr"}},
	{Name: "Luke", Abbrevs: []string{"Luk", "Lk", "Lu"}},
	{Name: "John", Abbrevs: []string{"Joh", "Jn", "Jhn"}},
	{Name: "Acts", Abbrevs: []string{"Act", "Ac"}},
	{Name: "Romans", Abbrevs: []string{"Rom", "Ro", "Rm"}},
	{Name: "1 Corinthians", Abbrevs: []string{"1Cor", "1 Cor", "1Co", "1 Co", "1Corinthians"}},
	{Name: "2 Corinthians", Abbrevs: []string{"2Cor", "2 Cor", "2Co", "2 Co", "2Corinthians"}},
	{Name: "Galatians", Abbrevs: []string{"Gal", "Ga"}},
	{Name: "Ephesians", Abbrevs: []string{"Eph", "Ep"}},
	{Name: "Philippians", Abbrevs: []string{"Phil", "Php", "Pp"}},
	{Name: "Colossians", Abbrevs: []string{"Col", "Co"}},
	{Name: "1 Thessalonians", Abbrevs: []string{"1Thess", "1 Thess", "1Th", "1 Th", "1Thessalonians"}},
	{Name: "2 Thessalonians", Abbrevs: []string{"2Thess", "2 Thess", "2Th", "2 Th", "2Thessalonians"}},
	{Name: "1 Timothy", Abbrevs: []string{"1Tim", "1 Tim", "1Ti", "1 Ti", "1Timothy"}},
	{Name: "2 Timothy", Abbrevs: []string{"2Tim", "2 Tim", "2Ti", "2 Ti", "2Timothy"}},
	{Name: "Titus", Abbrevs: []string{"Tit", "Ti"}},
	{Name: "Philemon", Abbrevs: []string{"Phlm", "Phm", "Pm"}},
	{Name: "Hebrews", Abbrevs: []string{"Heb"}},
	{Name: "James", Abbrevs: []string{"Jas", "Jm"}},
	{Name: "1 Peter", Abbrevs: []string{"1Pet", "1 Pet", "1Pe", "1 Pe", "1Peter"}},
	{Name: "2 Peter", Abbrevs: []string{"2Pet", "2 Pet", "2Pe", "2 Pe", "2Peter"}},
	{Name: "1 John", Abbrevs: []string{"1John", "1Jn", "1 Jn", "1Jo"}},
	{Name: "2 John", Abbrevs: []string{"2John", "2Jn", "2 Jn", "2Jo"}},
	{Name: "3 John", Abbrevs: []string{"3John", "3Jn", "3 Jn", "3Jo"}},
	{Name: "Jude", Abbrevs: []string{"Jud", "Jd"}},
	{Name: "Revelation", Abbrevs: []string{"Rev", "Re", "Apocalypse"}},
}
