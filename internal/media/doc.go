// Package media models what a media file is and where it belongs in the
// library.
//
// Identity is a closed set of variants (Episode, Movie); Resolve turns an
// identity plus the file extension into the canonical library-relative path
// used by Plex-style scanners.
package media
