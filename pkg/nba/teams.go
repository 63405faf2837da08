// Package nba provides NBA team identity resolution.
//
// Free-form team strings ("Lakers", "LA Lakers", "LAL") are mapped to a
// canonical team identity plus the stats provider's numeric team ID. The
// league is small and fixed, so the whole table lives in memory.
package nba

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Team is a canonical NBA team identity.
type Team struct {
	ID           int    // stats.nba.com team ID
	Name         string // full official name, e.g. "Los Angeles Lakers"
	City         string
	Nickname     string
	Abbreviation string
	Aliases      []string // common short forms not derivable from the fields above
}

// Resolution is the outcome of resolving a free-form team string.
// When Resolved is false, Team.Name carries the original input unchanged
// and callers should proceed with placeholder data, not fail.
type Resolution struct {
	Team     Team
	Input    string
	Resolved bool
}

// teams is the full league table. IDs are the stats.nba.com identifiers.
var teams = []Team{
	{ID: 1610612737, Name: "Atlanta Hawks", City: "Atlanta", Nickname: "Hawks", Abbreviation: "ATL"},
	{ID: 1610612738, Name: "Boston Celtics", City: "Boston", Nickname: "Celtics", Abbreviation: "BOS"},
	{ID: 1610612751, Name: "Brooklyn Nets", City: "Brooklyn", Nickname: "Nets", Abbreviation: "BKN", Aliases: []string{"bkn nets"}},
	{ID: 1610612766, Name: "Charlotte Hornets", City: "Charlotte", Nickname: "Hornets", Abbreviation: "CHA"},
	{ID: 1610612741, Name: "Chicago Bulls", City: "Chicago", Nickname: "Bulls", Abbreviation: "CHI"},
	{ID: 1610612739, Name: "Cleveland Cavaliers", City: "Cleveland", Nickname: "Cavaliers", Abbreviation: "CLE", Aliases: []string{"cavs", "cleveland cavs"}},
	{ID: 1610612742, Name: "Dallas Mavericks", City: "Dallas", Nickname: "Mavericks", Abbreviation: "DAL", Aliases: []string{"mavs"}},
	{ID: 1610612743, Name: "Denver Nuggets", City: "Denver", Nickname: "Nuggets", Abbreviation: "DEN"},
	{ID: 1610612765, Name: "Detroit Pistons", City: "Detroit", Nickname: "Pistons", Abbreviation: "DET"},
	{ID: 1610612744, Name: "Golden State Warriors", City: "Golden State", Nickname: "Warriors", Abbreviation: "GSW", Aliases: []string{"dubs", "gs"}},
	{ID: 1610612745, Name: "Houston Rockets", City: "Houston", Nickname: "Rockets", Abbreviation: "HOU"},
	{ID: 1610612754, Name: "Indiana Pacers", City: "Indiana", Nickname: "Pacers", Abbreviation: "IND"},
	{ID: 1610612746, Name: "Los Angeles Clippers", City: "Los Angeles", Nickname: "Clippers", Abbreviation: "LAC", Aliases: []string{"la clippers", "la clips"}},
	{ID: 1610612747, Name: "Los Angeles Lakers", City: "Los Angeles", Nickname: "Lakers", Abbreviation: "LAL", Aliases: []string{"la lakers"}},
	{ID: 1610612763, Name: "Memphis Grizzlies", City: "Memphis", Nickname: "Grizzlies", Abbreviation: "MEM"},
	{ID: 1610612748, Name: "Miami Heat", City: "Miami", Nickname: "Heat", Abbreviation: "MIA"},
	{ID: 1610612749, Name: "Milwaukee Bucks", City: "Milwaukee", Nickname: "Bucks", Abbreviation: "MIL"},
	{ID: 1610612750, Name: "Minnesota Timberwolves", City: "Minnesota", Nickname: "Timberwolves", Abbreviation: "MIN", Aliases: []string{"wolves", "minnesota wolves"}},
	{ID: 1610612740, Name: "New Orleans Pelicans", City: "New Orleans", Nickname: "Pelicans", Abbreviation: "NOP", Aliases: []string{"nola", "no"}},
	{ID: 1610612752, Name: "New York Knicks", City: "New York", Nickname: "Knicks", Abbreviation: "NYK", Aliases: []string{"ny knicks", "ny"}},
	{ID: 1610612760, Name: "Oklahoma City Thunder", City: "Oklahoma City", Nickname: "Thunder", Abbreviation: "OKC", Aliases: []string{"okc thunder"}},
	{ID: 1610612753, Name: "Orlando Magic", City: "Orlando", Nickname: "Magic", Abbreviation: "ORL"},
	{ID: 1610612755, Name: "Philadelphia 76ers", City: "Philadelphia", Nickname: "76ers", Abbreviation: "PHI", Aliases: []string{"sixers", "philly", "philadelphia sixers"}},
	{ID: 1610612756, Name: "Phoenix Suns", City: "Phoenix", Nickname: "Suns", Abbreviation: "PHX"},
	{ID: 1610612757, Name: "Portland Trail Blazers", City: "Portland", Nickname: "Trail Blazers", Abbreviation: "POR", Aliases: []string{"blazers", "portland blazers"}},
	{ID: 1610612758, Name: "Sacramento Kings", City: "Sacramento", Nickname: "Kings", Abbreviation: "SAC"},
	{ID: 1610612759, Name: "San Antonio Spurs", City: "San Antonio", Nickname: "Spurs", Abbreviation: "SAS"},
	{ID: 1610612761, Name: "Toronto Raptors", City: "Toronto", Nickname: "Raptors", Abbreviation: "TOR"},
	{ID: 1610612762, Name: "Utah Jazz", City: "Utah", Nickname: "Jazz", Abbreviation: "UTA"},
	{ID: 1610612764, Name: "Washington Wizards", City: "Washington", Nickname: "Wizards", Abbreviation: "WAS"},
}

// Teams returns the full league table.
func Teams() []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

// Resolver maps free-form team names to canonical identities.
//
// Resolution results are cached for the process lifetime. The cache only
// holds successful resolutions, so it stays bounded by the league size no
// matter what callers throw at it.
type Resolver struct {
	byName   map[string]*Team // normalized full name -> team
	byAlias  map[string]*Team // nickname, city, known alias -> team
	byAbbrev map[string]*Team // lowercase abbreviation -> team
	names    []string         // sorted normalized full names, for substring scans

	mu    sync.RWMutex
	cache map[string]Resolution
}

// NewResolver builds a resolver over the static league table.
func NewResolver() *Resolver {
	r := &Resolver{
		byName:   make(map[string]*Team),
		byAlias:  make(map[string]*Team),
		byAbbrev: make(map[string]*Team),
		cache:    make(map[string]Resolution),
	}

	for i := range teams {
		t := &teams[i]
		r.byName[normalizeName(t.Name)] = t
		r.byAlias[normalizeName(t.Nickname)] = t
		r.byAlias[normalizeName(t.City)] = t
		for _, alias := range t.Aliases {
			r.byAlias[normalizeName(alias)] = t
		}
		r.byAbbrev[strings.ToLower(t.Abbreviation)] = t
		r.names = append(r.names, normalizeName(t.Name))
	}
	sort.Strings(r.names)

	return r
}

// Resolve maps a free-form team string to a canonical identity.
// Matching order, first hit wins: exact canonical name, known alias or
// nickname, substring in either direction against canonical names,
// abbreviation. Resolve never fails: unmatched input comes back unchanged
// with Resolved=false.
func (r *Resolver) Resolve(name string) Resolution {
	norm := normalizeName(name)

	r.mu.RLock()
	res, ok := r.cache[norm]
	r.mu.RUnlock()
	if ok {
		res.Input = name
		return res
	}

	if t := r.lookup(norm); t != nil {
		res = Resolution{Team: *t, Input: name, Resolved: true}
		r.mu.Lock()
		r.cache[norm] = res
		r.mu.Unlock()
		return res
	}

	return Resolution{
		Team:  Team{Name: strings.TrimSpace(name)},
		Input: name,
	}
}

func (r *Resolver) lookup(norm string) *Team {
	if norm == "" {
		return nil
	}

	if t, ok := r.byName[norm]; ok {
		return t
	}
	if t, ok := r.byAlias[norm]; ok {
		return t
	}

	// Substring match against canonical names, both directions, so that
	// "Angeles Lakers" and "Los Angeles Lakers Basketball" both land.
	// The scan is over a sorted list to keep resolution deterministic.
	for _, key := range r.names {
		if strings.Contains(key, norm) || strings.Contains(norm, key) {
			return r.byName[key]
		}
	}

	if t, ok := r.byAbbrev[norm]; ok {
		return t
	}

	return nil
}

// normalizeName normalizes a team name for matching: lowercase, accents
// stripped, whitespace collapsed.
func normalizeName(name string) string {
	name = strings.ToLower(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	name, _, _ = transform.String(t, name)

	return strings.Join(strings.Fields(name), " ")
}
