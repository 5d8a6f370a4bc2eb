package sync

import (
	"strconv"
	"strings"

	"stream-sync/feature/catalog"
)

// unsafeFilenameChars are replaced with "-" so templated names are
// valid on every filesystem the vault may live on.
const unsafeFilenameChars = `/\?%*:|"<>`

// renderFilename expands the filename template for a show and strips
// filesystem-unsafe characters. The result carries no extension.
func renderFilename(template string, show *catalog.Show) string {
	replacer := strings.NewReplacer(
		"${title}", show.Title,
		"${year}", strconv.Itoa(show.Year()),
		"${firstAirYear}", strconv.Itoa(show.FirstAirYear),
		"${lastAirYear}", strconv.Itoa(show.LastAirYear),
		"${tmdb_id}", strconv.Itoa(show.NumericTmdbID()),
	)
	return sanitizeFilename(replacer.Replace(template))
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeFilenameChars, r) {
			return '-'
		}
		return r
	}, name)
}
