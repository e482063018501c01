package llm

import (
	"bufio"
	"os"
	"strings"
)

// defaultGenres is the built-in vocabulary used when no genres file is
// configured. It matches the combined MovieLens/Netflix catalogue.
var defaultGenres = []string{
	"action",
	"adventure",
	"animation",
	"children",
	"comedy",
	"crime",
	"documentary",
	"drama",
	"fantasy",
	"film-noir",
	"horror",
	"musical",
	"mystery",
	"romance",
	"sci-fi",
	"thriller",
	"war",
	"western",
}

// LoadGenres reads the genre vocabulary from path, one genre per line.
// An empty path or unreadable file falls back to the built-in list.
func LoadGenres(path string) []string {
	if path == "" {
		return defaultGenres
	}

	f, err := os.Open(path)
	if err != nil {
		return defaultGenres
	}
	defer f.Close()

	var genres []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		genre := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if genre != "" {
			genres = append(genres, genre)
		}
	}
	if len(genres) == 0 {
		return defaultGenres
	}

	return genres
}
