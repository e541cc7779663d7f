package media_test

import (
	"path/filepath"
	"testing"

	"mediarenamer/internal/media"
)

func TestResolveEpisode(t *testing.T) {
	id := media.Episode{Name: "Paradise 2025", Season: 1, Episode: 4}
	got := media.Resolve(id, "mkv")
	want := filepath.Join("TV", "Paradise 2025", "Season 1", "Paradise 2025 - s01e04.mkv")
	if got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
}

func TestResolveEpisodeWideNumbers(t *testing.T) {
	id := media.Episode{Name: "One Piece", Season: 21, Episode: 1071}
	got := media.Resolve(id, "mkv")
	want := filepath.Join("TV", "One Piece", "Season 21", "One Piece - s21e1071.mkv")
	if got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
}

func TestResolveMovie(t *testing.T) {
	id := media.Movie{Name: "Conclave", Year: 2024}
	got := media.Resolve(id, "mkv")
	want := filepath.Join("Movies", "Conclave (2024)", "Conclave (2024).mkv")
	if got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
}

func TestResolveVariantsNeverCollide(t *testing.T) {
	episode := media.Resolve(media.Episode{Name: "X", Season: 2024, Episode: 1}, "mkv")
	movie := media.Resolve(media.Movie{Name: "X", Year: 2024}, "mkv")
	if episode == movie {
		t.Fatalf("episode and movie resolved to the same path %q", episode)
	}
	if filepath.Dir(filepath.Dir(filepath.Dir(episode))) != "TV" {
		t.Fatalf("episode path not rooted under TV: %q", episode)
	}
	if filepath.Dir(filepath.Dir(movie)) != "Movies" {
		t.Fatalf("movie path not rooted under Movies: %q", movie)
	}
}

func TestWithTitlePreservesVariant(t *testing.T) {
	var id media.Identity = media.Episode{Name: "paradise", Season: 1, Episode: 4}
	renamed := id.WithTitle("Paradise (2025)")
	ep, ok := renamed.(media.Episode)
	if !ok {
		t.Fatalf("expected Episode, got %T", renamed)
	}
	if ep.Name != "Paradise (2025)" || ep.Season != 1 || ep.Episode != 4 {
		t.Fatalf("unexpected episode: %#v", ep)
	}
	if id.Title() != "paradise" {
		t.Fatalf("original identity mutated: %q", id.Title())
	}

	var movie media.Identity = media.Movie{Name: "conclave", Year: 2024}
	m, ok := movie.WithTitle("Conclave").(media.Movie)
	if !ok || m.Name != "Conclave" || m.Year != 2024 {
		t.Fatalf("unexpected movie: %#v", m)
	}
	if movie.Kind() != media.KindMovie || renamed.Kind() != media.KindSeries {
		t.Fatal("unexpected kinds")
	}
}

func TestParsedFilePathAndLabel(t *testing.T) {
	parsed := media.ParsedFile{Identity: media.Movie{Name: "Pulse", Year: 2001}, Extension: "mkv"}
	renamed := parsed.WithTitle("Kairo")
	if got, want := renamed.Path(), filepath.Join("Movies", "Kairo (2001)", "Kairo (2001).mkv"); got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
	if got := media.Label(parsed.Identity); got != "Pulse (2001)" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := media.Label(media.Episode{Name: "Andor", Season: 2, Episode: 3}); got != "Andor S02E03" {
		t.Fatalf("unexpected label %q", got)
	}
}
