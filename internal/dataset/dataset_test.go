package dataset

import (
	"context"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	csv := `title,genres,year,description
Alien,horror|sci-fi,1979,A crew answers a distress call.
Heat,"Action, Crime",1995,A thief plans one last score.
,drama,2001,No title here.
Empty Description,comedy,1999,
Bad Year,western,190x,A cowboy drifts into town.
`
	records, err := Parse(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	alien := records[0]
	if alien.Title != "Alien" || alien.Year != 1979 {
		t.Errorf("unexpected record: %+v", alien)
	}
	if len(alien.Genres) != 2 || alien.Genres[0] != "horror" || alien.Genres[1] != "sci-fi" {
		t.Errorf("pipe-separated genres mishandled: %v", alien.Genres)
	}

	heat := records[1]
	if len(heat.Genres) != 2 || heat.Genres[0] != "action" || heat.Genres[1] != "crime" {
		t.Errorf("comma-separated genres must be lowercased: %v", heat.Genres)
	}

	if records[2].Year != 0 {
		t.Errorf("malformed year must coerce to zero, got %d", records[2].Year)
	}
}

func TestParseMissingColumn(t *testing.T) {
	csv := "title,genres,year\nAlien,horror,1979\n"
	_, err := Parse(context.Background(), strings.NewReader(csv))
	if err == nil || !strings.Contains(err.Error(), "description") {
		t.Errorf("expected missing column error, got %v", err)
	}
}

func TestParseBracketedGenreList(t *testing.T) {
	csv := "title,genres,year,description\nAlien,\"['horror', 'sci-fi']\",1979,A distress call.\n"
	records, err := Parse(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	genres := records[0].Genres
	if len(genres) != 2 || genres[0] != "horror" || genres[1] != "sci-fi" {
		t.Errorf("bracketed genre list mishandled: %v", genres)
	}
}

func TestNewLocalSourceMissingFile(t *testing.T) {
	src := NewLocalSource("/nonexistent/data.csv")
	if _, err := src.Open(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}
