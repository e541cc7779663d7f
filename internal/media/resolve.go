package media

import (
	"fmt"
	"path/filepath"
)

const (
	tvRoot     = "TV"
	moviesRoot = "Movies"
)

// Resolve builds the library-relative destination path for an identity:
//
//	TV/<title>/Season <season>/<title> - sNNeNN.<ext>
//	Movies/<title> (<year>)/<title> (<year>).<ext>
//
// Season and episode numbers are padded to two digits. The title is used as
// given; callers sanitize it beforehand when needed.
func Resolve(id Identity, extension string) string {
	switch v := id.(type) {
	case Episode:
		return filepath.Join(
			tvRoot,
			v.Name,
			fmt.Sprintf("Season %d", v.Season),
			fmt.Sprintf("%s - s%02de%02d.%s", v.Name, v.Season, v.Episode, extension),
		)
	case Movie:
		folder := fmt.Sprintf("%s (%d)", v.Name, v.Year)
		return filepath.Join(moviesRoot, folder, folder+"."+extension)
	default:
		panic(fmt.Sprintf("media: unknown identity %T", id))
	}
}
