package media

import "fmt"

// Kind is the media category used when querying the metadata lookup.
type Kind string

const (
	KindSeries Kind = "series"
	KindMovie  Kind = "movie"
)

func (k Kind) String() string { return string(k) }

// Identity is the structured result of parsing a filename. It is implemented
// only by Episode and Movie.
type Identity interface {
	Title() string
	Kind() Kind
	// WithTitle returns the same variant with only the title replaced.
	WithTitle(title string) Identity
	sealed()
}

// Episode identifies a single TV episode.
type Episode struct {
	Name    string
	Season  uint
	Episode uint
}

func (e Episode) Title() string { return e.Name }

func (Episode) Kind() Kind { return KindSeries }

func (e Episode) WithTitle(title string) Identity {
	e.Name = title
	return e
}

func (Episode) sealed() {}

// Movie identifies a feature film by title and release year.
type Movie struct {
	Name string
	Year uint
}

func (m Movie) Title() string { return m.Name }

func (Movie) Kind() Kind { return KindMovie }

func (m Movie) WithTitle(title string) Identity {
	m.Name = title
	return m
}

func (Movie) sealed() {}

// ParsedFile pairs an identity with the source file extension (no leading dot).
type ParsedFile struct {
	Identity  Identity
	Extension string
}

// Path returns the library-relative destination for the parsed file.
func (p ParsedFile) Path() string {
	return Resolve(p.Identity, p.Extension)
}

// WithTitle returns a copy of the parsed file with the identity title replaced.
func (p ParsedFile) WithTitle(title string) ParsedFile {
	p.Identity = p.Identity.WithTitle(title)
	return p
}

// Label renders a short human-readable description for logs and tables.
func Label(id Identity) string {
	switch v := id.(type) {
	case Episode:
		return fmt.Sprintf("%s S%02dE%02d", v.Name, v.Season, v.Episode)
	case Movie:
		return fmt.Sprintf("%s (%d)", v.Name, v.Year)
	default:
		return ""
	}
}
